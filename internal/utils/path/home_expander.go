package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	tildeSymbolConstant             = "~"
	tildeForwardSlashPrefixConstant = "~/"
)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander converts user home shortcuts to absolute paths and anchors relative paths to a base directory.
type HomeExpander struct {
	homeDirectoryProvider HomeDirectoryProvider
	homeDirectory         string
	homeDirectoryError    error
	initializationGuard   sync.Once
}

// NewHomeExpander constructs a HomeExpander using the operating system lookup.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom provider.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{homeDirectoryProvider: provider}
}

// Expand trims the candidate and resolves a leading "~" or "~/" to the user's home directory.
// Paths referring to other users ("~bob/x") and unresolvable homes are returned unchanged.
func (expander *HomeExpander) Expand(candidatePath string) string {
	trimmedPath := strings.TrimSpace(candidatePath)
	if expander == nil || !strings.HasPrefix(trimmedPath, tildeSymbolConstant) {
		return trimmedPath
	}

	var relativePath string
	switch {
	case trimmedPath == tildeSymbolConstant:
		relativePath = ""
	case strings.HasPrefix(trimmedPath, tildeForwardSlashPrefixConstant):
		relativePath = strings.TrimPrefix(trimmedPath, tildeForwardSlashPrefixConstant)
	case strings.HasPrefix(trimmedPath, tildeSymbolConstant+string(os.PathSeparator)):
		relativePath = strings.TrimPrefix(trimmedPath, tildeSymbolConstant+string(os.PathSeparator))
	default:
		return trimmedPath
	}

	resolvedHomeDirectory := expander.resolveHomeDirectory()
	if len(resolvedHomeDirectory) == 0 {
		return trimmedPath
	}
	return filepath.Join(resolvedHomeDirectory, relativePath)
}

// ExpandRelativeTo expands the candidate and joins it onto baseDirectory when it is still relative.
// Blank candidates stay blank.
func (expander *HomeExpander) ExpandRelativeTo(candidatePath string, baseDirectory string) string {
	expandedPath := expander.Expand(candidatePath)
	if len(expandedPath) == 0 || filepath.IsAbs(expandedPath) || len(strings.TrimSpace(baseDirectory)) == 0 {
		return expandedPath
	}
	return filepath.Join(baseDirectory, expandedPath)
}

func (expander *HomeExpander) resolveHomeDirectory() string {
	expander.initializationGuard.Do(func() {
		expander.homeDirectory, expander.homeDirectoryError = expander.homeDirectoryProvider()
	})
	if expander.homeDirectoryError != nil {
		return ""
	}
	return expander.homeDirectory
}
