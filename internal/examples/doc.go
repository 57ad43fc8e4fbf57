// Package examples locates example directories produced by the visualization
// generator and checks that each one carries the assets the book needs.
//
// An example lives at <root>/<name>/ and is complete when all three required
// files are present:
//
//	source.rs         the Rust snippet shown in the chapter
//	vis_code.svg      the annotated code visualization
//	vis_timeline.svg  the ownership timeline visualization
package examples
