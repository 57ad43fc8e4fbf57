package markdown

import (
	"bytes"
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

// includeRe matches mdbook preprocessor directives such as
// {{#include ../assets/code_examples/foo/source.rs}} or {{#rustdoc_include path:anchor}}.
var includeRe = regexp.MustCompile(`\{\{#(?:include|rustdoc_include|playground)\s+([^\s}]+)[^}]*\}\}`)

// referencingAttrs are the HTML attributes that point at other files.
var referencingAttrs = map[string]bool{"src": true, "data": true, "href": true}

// ExtractLinks parses a Markdown body and extracts link-like constructs,
// including file references embedded in raw HTML and mdbook include directives.
//
// This is an analysis API; it does not attempt to re-render Markdown.
func ExtractLinks(body []byte, opts Options) ([]Link, error) {
	md := goldmark.New()
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	links := make([]Link, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body)), Line: lineOf(body, n)})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination), Line: lineOf(body, n)})
		case *gmast.Link:
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination), Line: lineOf(body, n)})
		case *gmast.HTMLBlock:
			lines := node.Lines()
			var buf bytes.Buffer
			for i := range lines.Len() {
				seg := lines.At(i)
				buf.Write(seg.Value(body))
				if !bytes.HasSuffix(buf.Bytes(), []byte{'\n'}) {
					buf.WriteByte('\n')
				}
			}
			if node.HasClosure() {
				buf.Write(node.ClosureLine.Value(body))
			}
			links = append(links, htmlRefs(buf.Bytes(), lineOf(body, n))...)
		case *gmast.RawHTML:
			var buf bytes.Buffer
			for i := range node.Segments.Len() {
				seg := node.Segments.At(i)
				buf.Write(seg.Value(body))
			}
			links = append(links, htmlRefs(buf.Bytes(), lineOf(body, n))...)
		}
		return gmast.WalkContinue, nil
	})

	// Reference definitions are stored in the parse context (not represented as AST nodes).
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		links = append(links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}

	if !opts.SkipIncludes {
		links = append(links, extractIncludes(body)...)
	}
	return links, nil
}

// htmlRefs tokenizes an HTML fragment that starts on firstLine and returns its
// file-referencing attributes.
func htmlRefs(fragment []byte, firstLine int) []Link {
	var out []Link
	z := html.NewTokenizer(bytes.NewReader(fragment))
	pos := 0
	for {
		tt := z.Next()
		start := pos
		pos += len(z.Raw())
		if tt == html.ErrorToken {
			return out
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		line := 0
		if firstLine > 0 {
			line = firstLine + bytes.Count(fragment[:start], []byte{'\n'})
		}
		for {
			key, val, more := z.TagAttr()
			if referencingAttrs[string(key)] && len(val) > 0 {
				out = append(out, Link{Kind: LinkKindHTML, Destination: string(val), Line: line})
			}
			if !more {
				break
			}
		}
	}
}

// lineOf returns the 1-based line on which n starts, or 0 when the node carries
// no source position.
func lineOf(body []byte, n gmast.Node) int {
	off := offsetOf(n)
	for p := n.Parent(); off < 0 && p != nil; p = p.Parent() {
		if p.Type() == gmast.TypeBlock && p.Lines().Len() > 0 {
			off = p.Lines().At(0).Start
		}
	}
	if off < 0 || off > len(body) {
		return 0
	}
	return bytes.Count(body[:off], []byte{'\n'}) + 1
}

// offsetOf returns the byte offset of the first source segment under n, or -1.
func offsetOf(n gmast.Node) int {
	switch node := n.(type) {
	case *gmast.Text:
		return node.Segment.Start
	case *gmast.RawHTML:
		if node.Segments.Len() > 0 {
			return node.Segments.At(0).Start
		}
	}
	if n.Type() == gmast.TypeBlock && n.Lines().Len() > 0 {
		return n.Lines().At(0).Start
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if off := offsetOf(c); off >= 0 {
			return off
		}
	}
	return -1
}

// extractIncludes scans the raw body, code blocks included, for include directives.
func extractIncludes(body []byte) []Link {
	var out []Link
	for i, line := range strings.Split(string(body), "\n") {
		for _, m := range includeRe.FindAllStringSubmatch(line, -1) {
			dest := m[1]
			// rustdoc_include allows path:anchor and path:start:end.
			if idx := strings.Index(dest, ":"); idx > 0 {
				dest = dest[:idx]
			}
			out = append(out, Link{Kind: LinkKindInclude, Destination: dest, Line: i + 1})
		}
	}
	return out
}
