package bookcheck

import (
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/bookstage/internal/markdown"
)

// CheckReferences scans every .md file under bookDir and reports relative
// references that point inside destRoot but do not exist there. References are
// resolved against the directory of the markdown file. References elsewhere
// (other chapters, external URLs) are ignored.
func CheckReferences(bookDir, destRoot string) ([]Problem, error) {
	absDest, err := filepath.Abs(destRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve dest root: %w", err)
	}

	var problems []Problem
	err = filepath.WalkDir(bookDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != bookDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".md" {
			return nil
		}
		found, err := checkFile(path, absDest)
		if err != nil {
			return err
		}
		problems = append(problems, found...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan book %s: %w", bookDir, err)
	}
	return problems, nil
}

func checkFile(path, absDest string) ([]Problem, error) {
	body, err := os.ReadFile(path) // #nosec G304 -- walking the operator's book directory
	if err != nil {
		return nil, err
	}
	links, err := markdown.ExtractLinks(body, markdown.Options{})
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	base, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	var problems []Problem
	for _, l := range links {
		target, ok := localTarget(base, l.Destination)
		if !ok || !within(absDest, target) {
			continue
		}
		if info, err := os.Stat(target); err == nil && !info.IsDir() {
			continue
		}
		problems = append(problems, Problem{
			File:        path,
			Line:        l.Line,
			Destination: l.Destination,
			Reason:      "reference to missing staged asset",
		})
	}
	return problems, nil
}

// localTarget resolves a relative link destination to an absolute file path.
func localTarget(base, dest string) (string, bool) {
	if dest == "" || strings.HasPrefix(dest, "#") {
		return "", false
	}
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}
	p := filepath.FromSlash(u.Path)
	if filepath.IsAbs(p) {
		return "", false
	}
	return filepath.Join(base, p), true
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
