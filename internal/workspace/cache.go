package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/branchsync/internal/gitrepo"
	"github.com/temirov/branchsync/internal/repos/shared"
)

const (
	workingCopyDirectoryPermissionsConstant = fs.FileMode(0o755)

	remoteMismatchMessageConstant     = "working copy remote differs from configured repository"
	remoteUnreadableMessageConstant   = "unable to read working copy remote"
	logFieldLocalPathConstant         = "local_path"
	logFieldRemoteNameConstant        = "remote"
	logFieldRemoteURLConstant         = "remote_url"
	logFieldRepositoryURLConstant     = "repository_url"
	inspectErrorTemplateConstant      = "failed to inspect working copy %s: %w"
	prepareErrorTemplateConstant      = "failed to prepare directory for %s: %w"
	cloneErrorTemplateConstant        = "failed to clone %s: %w"
	pullErrorTemplateConstant         = "failed to pull %s: %w"
	notDirectoryErrorTemplateConstant = "%w: %s"
)

var (
	// ErrGitClientNotConfigured indicates the cache was constructed without git operations.
	ErrGitClientNotConfigured = errors.New("workspace cache requires git operations")
	// ErrFileSystemNotConfigured indicates the cache was constructed without a filesystem.
	ErrFileSystemNotConfigured = errors.New("workspace cache requires a filesystem")
	// ErrNotDirectory indicates the working-copy path exists as a regular file.
	ErrNotDirectory = errors.New("working copy path is not a directory")
)

// GitOperations is the subset of git used to materialize working copies.
type GitOperations interface {
	Clone(executionContext context.Context, repositoryURL string, destinationPath string) error
	Pull(executionContext context.Context, repositoryPath string) error
	RemoteName() string
}

// WorkingCopy is the local materialization of a project.
type WorkingCopy struct {
	Path          string
	RepositoryURL string
	Cloned        bool
}

// Dependencies enumerates the collaborators of Cache.
type Dependencies struct {
	GitClient  GitOperations
	FileSystem shared.FileSystem
	Inspector  RepositoryInspector
	Logger     *zap.Logger
}

// Cache ensures working copies exist locally and are up to date.
type Cache struct {
	gitClient  GitOperations
	fileSystem shared.FileSystem
	inspector  RepositoryInspector
	logger     *zap.Logger
}

// NewCache validates dependencies and constructs a Cache. A missing inspector falls back to go-git and a
// missing logger to a no-op logger.
func NewCache(dependencies Dependencies) (*Cache, error) {
	if dependencies.GitClient == nil {
		return nil, ErrGitClientNotConfigured
	}
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}

	cache := &Cache{
		gitClient:  dependencies.GitClient,
		fileSystem: dependencies.FileSystem,
		inspector:  dependencies.Inspector,
		logger:     dependencies.Logger,
	}
	if cache.inspector == nil {
		cache.inspector = GoGitInspector{}
	}
	if cache.logger == nil {
		cache.logger = zap.NewNop()
	}
	return cache, nil
}

// Ensure clones repositoryURL into localPath when no working copy exists there, then pulls.
func (cache *Cache) Ensure(executionContext context.Context, localPath string, repositoryURL string) (WorkingCopy, error) {
	workingCopy := WorkingCopy{Path: localPath, RepositoryURL: repositoryURL}

	needsClone, inspectError := cache.needsClone(localPath, repositoryURL)
	if inspectError != nil {
		return workingCopy, fmt.Errorf(inspectErrorTemplateConstant, localPath, inspectError)
	}

	if needsClone {
		if mkdirError := cache.fileSystem.MkdirAll(filepath.Dir(localPath), workingCopyDirectoryPermissionsConstant); mkdirError != nil {
			return workingCopy, fmt.Errorf(prepareErrorTemplateConstant, localPath, mkdirError)
		}
		if cloneError := cache.gitClient.Clone(executionContext, repositoryURL, localPath); cloneError != nil {
			return workingCopy, fmt.Errorf(cloneErrorTemplateConstant, repositoryURL, cloneError)
		}
		workingCopy.Cloned = true
	}

	if pullError := cache.gitClient.Pull(executionContext, localPath); pullError != nil {
		return workingCopy, fmt.Errorf(pullErrorTemplateConstant, localPath, pullError)
	}
	return workingCopy, nil
}

func (cache *Cache) needsClone(localPath string, repositoryURL string) (bool, error) {
	fileInfo, statError := cache.fileSystem.Stat(localPath)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return true, nil
		}
		return false, statError
	}
	if !fileInfo.IsDir() {
		return false, fmt.Errorf(notDirectoryErrorTemplateConstant, ErrNotDirectory, localPath)
	}

	entries, readError := cache.fileSystem.ReadDir(localPath)
	if readError != nil {
		return false, readError
	}
	if len(entries) == 0 {
		return true, nil
	}

	remoteName := cache.gitClient.RemoteName()
	remoteURL, remoteError := cache.inspector.RemoteURL(localPath, remoteName)
	switch {
	case errors.Is(remoteError, ErrNotRepository):
		return false, remoteError
	case remoteError != nil:
		cache.logger.Warn(remoteUnreadableMessageConstant,
			zap.String(logFieldLocalPathConstant, localPath),
			zap.String(logFieldRemoteNameConstant, remoteName),
			zap.Error(remoteError),
		)
	case !gitrepo.SameRepository(remoteURL, repositoryURL):
		cache.logger.Warn(remoteMismatchMessageConstant,
			zap.String(logFieldLocalPathConstant, localPath),
			zap.String(logFieldRemoteNameConstant, remoteName),
			zap.String(logFieldRemoteURLConstant, remoteURL),
			zap.String(logFieldRepositoryURLConstant, repositoryURL),
		)
	}
	return false, nil
}
