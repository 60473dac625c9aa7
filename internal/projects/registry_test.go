package projects_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/branchsync/internal/projects"
)

func TestNewRegistryValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		specs         []projects.ProjectSpec
		expectedError error
	}{
		{name: "empty", specs: nil, expectedError: projects.ErrRegistryEmpty},
		{
			name:          "missing_path",
			specs:         []projects.ProjectSpec{{Path: " ", RepositoryURL: "git@example.com:a.git"}},
			expectedError: projects.ErrProjectPathRequired,
		},
		{
			name:          "missing_url",
			specs:         []projects.ProjectSpec{{Path: "team/api"}},
			expectedError: projects.ErrRepositoryURLRequired,
		},
		{
			name:          "absolute_path",
			specs:         []projects.ProjectSpec{{Path: "/etc/api", RepositoryURL: "git@example.com:a.git"}},
			expectedError: projects.ErrProjectPathNotRelative,
		},
		{
			name:          "escaping_path",
			specs:         []projects.ProjectSpec{{Path: "team/../../api", RepositoryURL: "git@example.com:a.git"}},
			expectedError: projects.ErrProjectPathEscapesRoot,
		},
		{
			name:          "root_itself",
			specs:         []projects.ProjectSpec{{Path: "./", RepositoryURL: "git@example.com:a.git"}},
			expectedError: projects.ErrProjectPathEscapesRoot,
		},
		{
			name: "duplicate_after_cleaning",
			specs: []projects.ProjectSpec{
				{Path: "team/api", RepositoryURL: "git@example.com:a.git"},
				{Path: "team//api/", RepositoryURL: "git@example.com:b.git"},
			},
			expectedError: projects.ErrDuplicateProjectPath,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			_, registryError := projects.NewRegistry(testCase.specs)
			require.ErrorIs(testInstance, registryError, testCase.expectedError)
		})
	}
}

func TestNewRegistryPreservesOrderAndTrims(testInstance *testing.T) {
	registry, registryError := projects.NewRegistry([]projects.ProjectSpec{
		{Path: " team/web ", RepositoryURL: " git@example.com:team/web.git "},
		{Path: "team/api", RepositoryURL: "git@example.com:team/api.git"},
	})
	require.NoError(testInstance, registryError)
	require.Equal(testInstance, 2, registry.Len())
	require.Equal(testInstance, []projects.ProjectSpec{
		{Path: "team/web", RepositoryURL: "git@example.com:team/web.git"},
		{Path: "team/api", RepositoryURL: "git@example.com:team/api.git"},
	}, registry.Projects())

	returned := registry.Projects()
	returned[0].Path = "mutated"
	require.Equal(testInstance, "team/web", registry.Projects()[0].Path)
}

func TestLayoutLocalPath(testInstance *testing.T) {
	testCases := []struct {
		name         string
		layout       projects.Layout
		projectPath  string
		expectedPath string
	}{
		{name: "default_root", layout: projects.Layout{}, projectPath: "api", expectedPath: filepath.Join("repo", "api")},
		{name: "nested", layout: projects.Layout{Root: "/srv/mirrors"}, projectPath: "team/backend/api", expectedPath: filepath.Join("/srv/mirrors", "team", "backend", "api")},
		{name: "cleaned", layout: projects.Layout{Root: "work"}, projectPath: "team//api/", expectedPath: filepath.Join("work", "team", "api")},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			localPath := testCase.layout.LocalPath(projects.ProjectSpec{Path: testCase.projectPath})
			require.Equal(testInstance, testCase.expectedPath, localPath)
		})
	}
}
