// Package vcs adapts the git command line to the branch operations used by
// the workspace cache, the differ, and the merge engine. Every failure is
// reported as *Error carrying the operation, its arguments, and the working
// directory; merge conflicts additionally match ErrMergeConflict.
package vcs
