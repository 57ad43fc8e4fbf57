package bookcheck

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/net/html"
)

// CheckSVGs reports every .svg file under destRoot whose first element is not <svg>.
func CheckSVGs(destRoot string) ([]Problem, error) {
	var problems []Problem
	err := filepath.WalkDir(destRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || filepath.Ext(path) != ".svg" {
			return nil
		}
		data, err := os.ReadFile(path) // #nosec G304 -- walking the staged asset tree
		if err != nil {
			return err
		}
		if reason := svgProblem(data); reason != "" {
			problems = append(problems, Problem{File: path, Reason: reason})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan staged svgs in %s: %w", destRoot, err)
	}
	return problems, nil
}

func svgProblem(data []byte) string {
	if len(bytes.TrimSpace(data)) == 0 {
		return "empty svg file"
	}
	z := html.NewTokenizer(bytes.NewReader(data))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return "no <svg> root element"
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if string(name) == "svg" {
				return ""
			}
			return fmt.Sprintf("root element is <%s>, want <svg>", name)
		}
	}
}
