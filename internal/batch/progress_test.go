package batch_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/branchsync/internal/batch"
	"github.com/temirov/branchsync/internal/projects"
	"github.com/temirov/branchsync/internal/repos/shared"
)

func TestProgressPercentRoundsHalfToEven(testInstance *testing.T) {
	testCases := []struct {
		processed int
		total     int
		expected  int
	}{
		{processed: 1, total: 3, expected: 33},
		{processed: 2, total: 3, expected: 67},
		{processed: 1, total: 8, expected: 12},
		{processed: 3, total: 8, expected: 38},
		{processed: 5, total: 8, expected: 62},
		{processed: 1, total: 200, expected: 0},
		{processed: 3, total: 200, expected: 2},
		{processed: 4, total: 4, expected: 100},
		{processed: 0, total: 0, expected: 100},
	}

	for _, testCase := range testCases {
		require.Equal(testInstance, testCase.expected, batch.ProgressPercent(testCase.processed, testCase.total), "%d/%d", testCase.processed, testCase.total)
	}
}

func TestConsoleProgressReporterPrintsLines(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	progressReporter := batch.NewConsoleProgressReporter(shared.NewWriterReporter(outputBuffer))

	progressReporter.ProjectProcessed(batch.ProgressEvent{Path: "team/api", Processed: 1, Total: 2, Percent: 50})
	progressReporter.ProjectProcessed(batch.ProgressEvent{Path: "web", Processed: 2, Total: 2, Percent: 100})

	require.Equal(testInstance, "team/api processed\nprogress: 50%\nweb processed\nprogress: 100%\n", outputBuffer.String())
}

func TestLoggingProgressObserverLevels(testInstance *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	progressObserver := batch.NewLoggingProgressObserver(zap.New(core))

	progressObserver.ProjectProcessed(batch.ProgressEvent{
		Path: "api", Processed: 1, Total: 2, Percent: 50,
		Result: batch.ProjectResult{Project: projects.ProjectSpec{Path: "api"}, Status: batch.StatusMerged},
	})
	progressObserver.ProjectProcessed(batch.ProgressEvent{
		Path: "web", Processed: 2, Total: 2, Percent: 100,
		Result: batch.ProjectResult{Project: projects.ProjectSpec{Path: "web"}, Status: batch.StatusNeedsManualMerge, Err: errors.New("conflict")},
	})

	entries := logs.All()
	require.Len(testInstance, entries, 2)
	require.Equal(testInstance, zapcore.InfoLevel, entries[0].Level)
	require.Equal(testInstance, "merged", entries[0].ContextMap()["status"])
	require.Equal(testInstance, zapcore.WarnLevel, entries[1].Level)
	require.Equal(testInstance, "needs_manual_merge", entries[1].ContextMap()["status"])
	require.Equal(testInstance, int64(100), entries[1].ContextMap()["percent"])
	require.Equal(testInstance, "conflict", entries[1].ContextMap()["error"])
}
