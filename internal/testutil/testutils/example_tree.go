package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// ExampleTree builds a visualization-generator style source tree for tests.
type ExampleTree struct {
	t    *testing.T
	Root string
}

// NewExampleTree creates an empty source root under t.TempDir().
func NewExampleTree(t *testing.T) *ExampleTree {
	t.Helper()
	return &ExampleTree{t: t, Root: t.TempDir()}
}

// Complete adds an example with source.rs, vis_code.svg and vis_timeline.svg.
func (et *ExampleTree) Complete(name string) *ExampleTree {
	et.t.Helper()
	return et.With(name, "source.rs", "vis_code.svg", "vis_timeline.svg")
}

// With adds an example containing only the listed files. Contents are derived
// from the example and file name so copies can be told apart.
func (et *ExampleTree) With(name string, files ...string) *ExampleTree {
	et.t.Helper()
	dir := filepath.Join(et.Root, name)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		et.t.Fatalf("mkdir %s: %v", dir, err)
	}
	for _, f := range files {
		content := fmt.Sprintf("// %s/%s\n", name, f)
		if filepath.Ext(f) == ".svg" {
			content = fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg"><desc>%s/%s</desc></svg>`+"\n", name, f)
		}
		if err := os.WriteFile(filepath.Join(dir, f), []byte(content), 0o600); err != nil {
			et.t.Fatalf("write %s: %v", f, err)
		}
	}
	return et
}

// Path returns <root>/<name>/<file>.
func (et *ExampleTree) Path(name, file string) string {
	return filepath.Join(et.Root, name, file)
}
