package workspace

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
)

var (
	// ErrNotRepository indicates an existing, non-empty directory that is not a git working copy.
	ErrNotRepository = errors.New("existing directory is not a git repository")
	// ErrRemoteMissing indicates a working copy without the expected remote.
	ErrRemoteMissing = errors.New("working copy has no such remote")
)

// RepositoryInspector reads metadata from an existing working copy.
type RepositoryInspector interface {
	RemoteURL(localPath string, remoteName string) (string, error)
}

// GoGitInspector inspects working copies in-process through go-git.
type GoGitInspector struct{}

// RemoteURL opens the repository at localPath and returns the first URL configured for remoteName.
func (GoGitInspector) RemoteURL(localPath string, remoteName string) (string, error) {
	repository, openError := git.PlainOpen(localPath)
	if openError != nil {
		if errors.Is(openError, git.ErrRepositoryNotExists) {
			return "", fmt.Errorf("%w: %s", ErrNotRepository, localPath)
		}
		return "", fmt.Errorf("failed to open repository %s: %w", localPath, openError)
	}

	remote, remoteError := repository.Remote(remoteName)
	if remoteError != nil {
		if errors.Is(remoteError, git.ErrRemoteNotFound) {
			return "", fmt.Errorf("%w: %s", ErrRemoteMissing, remoteName)
		}
		return "", fmt.Errorf("failed to read remote %s: %w", remoteName, remoteError)
	}

	remoteURLs := remote.Config().URLs
	if len(remoteURLs) == 0 {
		return "", fmt.Errorf("%w: %s", ErrRemoteMissing, remoteName)
	}
	return remoteURLs[0], nil
}
