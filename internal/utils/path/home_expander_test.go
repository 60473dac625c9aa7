package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/branchsync/internal/utils/path"
)

const testHomeDirectoryConstant = "/home/operator"

func TestHomeExpanderExpand(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	testCases := []struct {
		name         string
		input        string
		expectedPath string
	}{
		{name: "bare_tilde", input: "~", expectedPath: testHomeDirectoryConstant},
		{name: "tilde_prefix", input: "~/mirrors", expectedPath: filepath.Join(testHomeDirectoryConstant, "mirrors")},
		{name: "trims_whitespace", input: "  ~/mirrors ", expectedPath: filepath.Join(testHomeDirectoryConstant, "mirrors")},
		{name: "other_user_untouched", input: "~bob/mirrors", expectedPath: "~bob/mirrors"},
		{name: "relative_untouched", input: "repo", expectedPath: "repo"},
		{name: "absolute_untouched", input: "/srv/repo", expectedPath: "/srv/repo"},
		{name: "empty", input: "", expectedPath: ""},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedPath, expander.Expand(testCase.input))
		})
	}
}

func TestHomeExpanderUnresolvableHome(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return "", errors.New("no home")
	})
	require.Equal(testInstance, "~/mirrors", expander.Expand("~/mirrors"))
}

func TestHomeExpanderExpandRelativeTo(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	require.Equal(testInstance, filepath.Join("/etc/branchsync", "projects.yaml"), expander.ExpandRelativeTo("projects.yaml", "/etc/branchsync"))
	require.Equal(testInstance, "/srv/projects.yaml", expander.ExpandRelativeTo("/srv/projects.yaml", "/etc/branchsync"))
	require.Equal(testInstance, filepath.Join(testHomeDirectoryConstant, "projects.toml"), expander.ExpandRelativeTo("~/projects.toml", "/etc/branchsync"))
	require.Equal(testInstance, "projects.yaml", expander.ExpandRelativeTo("projects.yaml", ""))
	require.Empty(testInstance, expander.ExpandRelativeTo("  ", "/etc/branchsync"))
}
