package projects

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

const (
	parentDirectoryConstant               = ".."
	currentDirectoryConstant              = "."
	projectEntryErrorTemplateConstant     = "project entry %d: %w"
	projectDuplicateErrorTemplateConstant = "project entry %d: %w: %s"
)

var (
	// ErrRegistryEmpty indicates that no projects were configured.
	ErrRegistryEmpty = errors.New("no projects configured")
	// ErrProjectPathRequired indicates a project entry without a path.
	ErrProjectPathRequired = errors.New("project path must not be empty")
	// ErrRepositoryURLRequired indicates a project entry without a repository URL.
	ErrRepositoryURLRequired = errors.New("project repository url must not be empty")
	// ErrProjectPathNotRelative indicates an absolute project path.
	ErrProjectPathNotRelative = errors.New("project path must be relative to the workspace root")
	// ErrProjectPathEscapesRoot indicates a project path that resolves outside the workspace root.
	ErrProjectPathEscapesRoot = errors.New("project path must stay within the workspace root")
	// ErrDuplicateProjectPath indicates two entries that resolve to the same working copy.
	ErrDuplicateProjectPath = errors.New("duplicate project path")
)

// ProjectSpec identifies one configured repository.
type ProjectSpec struct {
	Path          string
	RepositoryURL string
}

// Registry is the validated, ordered list of configured projects.
type Registry struct {
	projects []ProjectSpec
}

// NewRegistry trims and validates the provided specs, preserving their order.
func NewRegistry(specs []ProjectSpec) (Registry, error) {
	if len(specs) == 0 {
		return Registry{}, ErrRegistryEmpty
	}

	validated := make([]ProjectSpec, 0, len(specs))
	seenPaths := make(map[string]struct{}, len(specs))
	for specIndex, spec := range specs {
		trimmedPath := strings.TrimSpace(spec.Path)
		trimmedURL := strings.TrimSpace(spec.RepositoryURL)
		if len(trimmedPath) == 0 {
			return Registry{}, fmt.Errorf(projectEntryErrorTemplateConstant, specIndex+1, ErrProjectPathRequired)
		}
		if len(trimmedURL) == 0 {
			return Registry{}, fmt.Errorf(projectEntryErrorTemplateConstant, specIndex+1, ErrRepositoryURLRequired)
		}

		cleanedPath, pathError := cleanProjectPath(trimmedPath)
		if pathError != nil {
			return Registry{}, fmt.Errorf(projectEntryErrorTemplateConstant, specIndex+1, pathError)
		}
		if _, duplicate := seenPaths[cleanedPath]; duplicate {
			return Registry{}, fmt.Errorf(projectDuplicateErrorTemplateConstant, specIndex+1, ErrDuplicateProjectPath, trimmedPath)
		}
		seenPaths[cleanedPath] = struct{}{}

		validated = append(validated, ProjectSpec{Path: trimmedPath, RepositoryURL: trimmedURL})
	}

	return Registry{projects: validated}, nil
}

// Projects returns a copy of the configured projects in order.
func (registry Registry) Projects() []ProjectSpec {
	return append([]ProjectSpec(nil), registry.projects...)
}

// Len reports the number of configured projects.
func (registry Registry) Len() int {
	return len(registry.projects)
}

func cleanProjectPath(projectPath string) (string, error) {
	slashPath := filepath.ToSlash(projectPath)
	if path.IsAbs(slashPath) || filepath.IsAbs(projectPath) || filepath.VolumeName(projectPath) != "" {
		return "", ErrProjectPathNotRelative
	}

	cleanedPath := path.Clean(slashPath)
	if cleanedPath == currentDirectoryConstant || cleanedPath == parentDirectoryConstant || strings.HasPrefix(cleanedPath, parentDirectoryConstant+"/") {
		return "", ErrProjectPathEscapesRoot
	}
	return cleanedPath, nil
}
