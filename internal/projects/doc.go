// Package projects defines the configured project list.
//
// A Registry is the validated, ordered, immutable set of ProjectSpec values a
// run operates on. Loader reads project lists from YAML, JSON, or TOML files
// and Layout maps each project path to its working-copy directory beneath the
// workspace root.
package projects
