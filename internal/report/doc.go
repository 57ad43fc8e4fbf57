// Package report turns staging outcomes and the build result into user-facing
// output and a process exit code.
//
// Output is line oriented and sorted by example name, so concurrent staging
// produces stable output:
//
//	bar: SkippedMissingAssets (missing: vis_code.svg, vis_timeline.svg)
//	foo: Staged
//	build: Success
//	summary: staged=1 skipped=1 failed=0 build=Success
package report
