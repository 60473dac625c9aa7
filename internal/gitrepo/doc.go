// Package gitrepo interprets git remote locations.
//
// RemoteIdentity reduces ssh, scp-style, http(s), git protocol, and local
// filesystem remotes to a comparable host and path so the workspace cache
// can tell whether an existing working copy tracks the configured repository.
package gitrepo
