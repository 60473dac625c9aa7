package batch

import (
	"strings"

	"github.com/temirov/branchsync/internal/projects"
	"github.com/temirov/branchsync/internal/repos/shared"
)

const (
	workspaceRootConfigurationKeyConstant = "workspace_root"
	remoteConfigurationKeyConstant        = "remote"
	projectsFileConfigurationKeyConstant  = "projects_file"
)

// CommandConfiguration captures persisted settings for the batch command.
type CommandConfiguration struct {
	WorkspaceRoot string           `mapstructure:"workspace_root"`
	Remote        string           `mapstructure:"remote"`
	ProjectsFile  string           `mapstructure:"projects_file"`
	Projects      []map[string]any `mapstructure:"projects"`
}

// DefaultCommandConfiguration provides baseline configuration values.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		WorkspaceRoot: projects.DefaultWorkspaceRootConstant,
		Remote:        shared.OriginRemoteNameConstant,
	}
}

// DefaultConfigurationValues returns viper defaults keyed under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefixedKey(prefix, workspaceRootConfigurationKeyConstant): defaults.WorkspaceRoot,
		prefixedKey(prefix, remoteConfigurationKeyConstant):        defaults.Remote,
		prefixedKey(prefix, projectsFileConfigurationKeyConstant):  defaults.ProjectsFile,
	}
}

// sanitize trims values and restores defaults for blank workspace root and remote.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.WorkspaceRoot = strings.TrimSpace(configuration.WorkspaceRoot)
	if len(sanitized.WorkspaceRoot) == 0 {
		sanitized.WorkspaceRoot = defaults.WorkspaceRoot
	}
	sanitized.Remote = strings.TrimSpace(configuration.Remote)
	if len(sanitized.Remote) == 0 {
		sanitized.Remote = defaults.Remote
	}
	sanitized.ProjectsFile = strings.TrimSpace(configuration.ProjectsFile)

	return sanitized
}

func prefixedKey(prefix string, key string) string {
	trimmedPrefix := strings.TrimSpace(prefix)
	if len(trimmedPrefix) == 0 {
		return key
	}
	return trimmedPrefix + "." + key
}
