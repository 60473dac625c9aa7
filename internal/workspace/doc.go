// Package workspace materializes configured projects as local working copies.
//
// Cache.Ensure clones a missing working copy, inspects an existing one with
// go-git to confirm it is a repository tracking the expected remote, and
// pulls the latest changes every time it is called.
package workspace
