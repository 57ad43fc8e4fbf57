// Package errors provides the classified error primitives used across bookstage.
//
// A ClassifiedError carries a category (what went wrong), a severity (how far the
// failure reaches) and structured context for logging. Categories map onto the
// staging taxonomy:
//
//   - CategoryNotFound: the source root is absent (fatal, aborts the run)
//   - CategoryPermission: the filesystem denied access to one example
//   - CategoryMissingAssets: an example lacks required files (soft, reported as a skip)
//   - CategoryCopy: copying an example's assets failed
//   - CategoryBuild: the external book builder failed or timed out
//   - CategoryValidation / CategoryConfig: bad arguments or configuration
//
// Example usage:
//
//	err := errors.NotFoundError("source root does not exist").
//		WithContext("path", root).
//		Build()
package errors
