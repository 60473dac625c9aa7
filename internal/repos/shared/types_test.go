package shared_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/branchsync/internal/repos/shared"
)

func TestNewBranchName(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		input       string
		expected    string
		expectError bool
	}{
		{name: "valid_branch", input: "main", expected: "main"},
		{name: "strips_whitespace", input: "  release/2024 ", expected: "release/2024"},
		{name: "accepts_backup_name", input: "master_bak20240315", expected: "master_bak20240315"},
		{name: "rejects_empty", input: "   ", expectError: true},
		{name: "rejects_inner_space", input: "feature one", expectError: true},
		{name: "rejects_leading_dash", input: "-rf", expectError: true},
		{name: "rejects_double_dot", input: "main..dev", expectError: true},
		{name: "rejects_reflog_syntax", input: "main@{1}", expectError: true},
		{name: "rejects_colon", input: "main:dev", expectError: true},
		{name: "rejects_lock_suffix", input: "main.lock", expectError: true},
		{name: "rejects_trailing_slash", input: "feature/", expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			result, err := shared.NewBranchName(testCase.input)
			if testCase.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, testCase.expected, result.String())
		})
	}
}

func TestNewBranchNameEmptyIsSentinel(t *testing.T) {
	t.Parallel()

	_, err := shared.NewBranchName("")
	require.ErrorIs(t, err, shared.ErrBranchNameEmpty)
}

func TestWriterReporterFormatsToSink(t *testing.T) {
	t.Parallel()

	sink := &recordingWriter{}
	reporter := shared.NewWriterReporter(sink)
	reporter.Printf("%s processed\n", "team/api")
	require.Equal(t, "team/api processed\n", sink.String())
}

type recordingWriter struct {
	content []byte
}

func (writer *recordingWriter) Write(data []byte) (int, error) {
	writer.content = append(writer.content, data...)
	return len(data), nil
}

func (writer *recordingWriter) String() string {
	return string(writer.content)
}
