package shared

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const (
	branchNameLockSuffixConstant          = ".lock"
	branchNameForbiddenCharactersConstant = "~^:?*[\\"
	branchNameEmptyMessageConstant        = "branch name must not be empty"
	branchNameInvalidTemplateConstant     = "invalid branch name %q: %s"
	branchNameWhitespaceReasonConstant    = "must not contain whitespace or control characters"
	branchNameDashReasonConstant          = "must not start with a dash"
	branchNameDotsReasonConstant          = "must not contain \"..\" or \"@{\""
	branchNameCharactersReasonConstant    = "must not contain any of ~^:?*[\\"
	branchNameBoundaryReasonConstant      = "must not start or end with a slash or dot, or end with .lock"
)

// ErrBranchNameEmpty indicates a blank branch name.
var ErrBranchNameEmpty = errors.New(branchNameEmptyMessageConstant)

// BranchName is a validated git branch name.
type BranchName string

// NewBranchName trims and validates a git branch name against the reference naming rules enforced by git.
func NewBranchName(raw string) (BranchName, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", ErrBranchNameEmpty
	}

	for _, character := range trimmed {
		if unicode.IsSpace(character) || unicode.IsControl(character) {
			return "", fmt.Errorf(branchNameInvalidTemplateConstant, trimmed, branchNameWhitespaceReasonConstant)
		}
	}

	switch {
	case strings.HasPrefix(trimmed, "-"):
		return "", fmt.Errorf(branchNameInvalidTemplateConstant, trimmed, branchNameDashReasonConstant)
	case strings.Contains(trimmed, "..") || strings.Contains(trimmed, "@{"):
		return "", fmt.Errorf(branchNameInvalidTemplateConstant, trimmed, branchNameDotsReasonConstant)
	case strings.ContainsAny(trimmed, branchNameForbiddenCharactersConstant):
		return "", fmt.Errorf(branchNameInvalidTemplateConstant, trimmed, branchNameCharactersReasonConstant)
	case strings.HasPrefix(trimmed, "/"), strings.HasSuffix(trimmed, "/"),
		strings.HasPrefix(trimmed, "."), strings.HasSuffix(trimmed, "."),
		strings.HasSuffix(trimmed, branchNameLockSuffixConstant), strings.Contains(trimmed, "//"):
		return "", fmt.Errorf(branchNameInvalidTemplateConstant, trimmed, branchNameBoundaryReasonConstant)
	}

	return BranchName(trimmed), nil
}

// String returns the branch name.
func (name BranchName) String() string {
	return string(name)
}
