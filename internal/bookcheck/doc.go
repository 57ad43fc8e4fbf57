// Package bookcheck verifies the book against the staged asset tree.
//
// CheckReferences walks the book's markdown and reports references into the
// asset directory that do not resolve to a staged file. CheckSVGs reports staged
// .svg files that do not start with an <svg> element.
package bookcheck

import "strconv"

// Problem is one finding.
type Problem struct {
	File        string // file the problem was found in
	Line        int    // 1-based; 0 when unknown
	Destination string // referenced path, for reference problems
	Reason      string
}

func (p Problem) String() string {
	loc := p.File
	if p.Line > 0 {
		loc = loc + ":" + strconv.Itoa(p.Line)
	}
	if p.Destination != "" {
		return loc + ": " + p.Reason + ": " + p.Destination
	}
	return loc + ": " + p.Reason
}
