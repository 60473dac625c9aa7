// Package merge implements the merge-with-backup workflow.
//
// Before merging a source branch into a target branch, Service snapshots the
// target as a dated backup branch on the remote. A successful merge keeps the
// backup as a recovery point; any failure after the snapshot aborts the merge,
// resets the target to its pre-merge revision, and removes the backup again.
// Branch deletions are best-effort and recorded as CleanupStep values.
package merge
