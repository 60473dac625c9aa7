package projects

import (
	"path"
	"path/filepath"
)

// DefaultWorkspaceRootConstant is the directory, relative to the current directory, that holds working copies.
const DefaultWorkspaceRootConstant = "repo"

// Layout maps project paths to working-copy directories.
type Layout struct {
	Root string
}

// LocalPath returns the working-copy directory for the project; slashes in the project path become
// subdirectories.
func (layout Layout) LocalPath(spec ProjectSpec) string {
	root := layout.Root
	if len(root) == 0 {
		root = DefaultWorkspaceRootConstant
	}
	return filepath.Join(root, filepath.FromSlash(path.Clean(filepath.ToSlash(spec.Path))))
}
