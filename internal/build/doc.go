// Package build invokes the external book builder once all examples have been
// staged. The builder is run as a single blocking process; a non-zero exit is
// reported, never retried.
package build
