package markdown

// Options controls how Markdown is parsed for reference analysis.
type Options struct {
	// SkipIncludes disables scanning for mdbook {{#include}} directives.
	SkipIncludes bool
}

type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
	LinkKindHTML                LinkKind = "html"    // src/data/href attribute inside raw HTML
	LinkKindInclude             LinkKind = "include" // mdbook {{#include}} style directive
)

type Link struct {
	Kind        LinkKind
	Destination string
	Line        int // 1-based; 0 when unknown
}
