// Package diff reports whether one remote branch has commits another lacks.
package diff
