package batch

import (
	"math"

	"go.uber.org/zap"

	"github.com/temirov/branchsync/internal/repos/shared"
)

const (
	processedLineTemplateConstant = "%s processed\n"
	progressLineTemplateConstant  = "progress: %d%%\n"

	projectProcessedMessageConstant = "project processed"
	logFieldProjectPathConstant     = "project_path"
	logFieldLocalPathConstant       = "local_path"
	logFieldStatusConstant          = "status"
	logFieldProcessedConstant       = "processed"
	logFieldTotalConstant           = "total"
	logFieldPercentConstant         = "percent"
)

// ProgressEvent describes the run state after a project finished.
type ProgressEvent struct {
	Path      string
	Processed int
	Total     int
	Percent   int
	Result    ProjectResult
}

// ProgressObserver receives an event after every project.
type ProgressObserver interface {
	ProjectProcessed(event ProgressEvent)
}

// ProgressPercent returns processed/total as a whole percentage, rounding halves to even.
func ProgressPercent(processed int, total int) int {
	if total <= 0 {
		return 100
	}
	return int(math.RoundToEven(float64(processed) * 100 / float64(total)))
}

// ConsoleProgressReporter prints "<path> processed" and "progress: NN%" lines.
type ConsoleProgressReporter struct {
	reporter shared.Reporter
}

// NewConsoleProgressReporter constructs a reporter writing to the provided sink.
func NewConsoleProgressReporter(reporter shared.Reporter) *ConsoleProgressReporter {
	return &ConsoleProgressReporter{reporter: reporter}
}

// ProjectProcessed prints the progress lines for the event.
func (progressReporter *ConsoleProgressReporter) ProjectProcessed(event ProgressEvent) {
	if progressReporter == nil || progressReporter.reporter == nil {
		return
	}
	progressReporter.reporter.Printf(processedLineTemplateConstant, event.Path)
	progressReporter.reporter.Printf(progressLineTemplateConstant, event.Percent)
}

// LoggingProgressObserver records each event as a structured log entry. Failed projects log at warn level.
type LoggingProgressObserver struct {
	logger *zap.Logger
}

// NewLoggingProgressObserver constructs a LoggingProgressObserver.
func NewLoggingProgressObserver(logger *zap.Logger) *LoggingProgressObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingProgressObserver{logger: logger}
}

// ProjectProcessed logs the event.
func (observer *LoggingProgressObserver) ProjectProcessed(event ProgressEvent) {
	fields := []zap.Field{
		zap.String(logFieldProjectPathConstant, event.Path),
		zap.String(logFieldLocalPathConstant, event.Result.LocalPath),
		zap.String(logFieldStatusConstant, string(event.Result.Status)),
		zap.Int(logFieldProcessedConstant, event.Processed),
		zap.Int(logFieldTotalConstant, event.Total),
		zap.Int(logFieldPercentConstant, event.Percent),
	}
	if event.Result.Err != nil {
		fields = append(fields, zap.Error(event.Result.Err))
	}

	switch event.Result.Status {
	case StatusFailed, StatusNeedsManualMerge:
		observer.logger.Warn(projectProcessedMessageConstant, fields...)
	default:
		observer.logger.Info(projectProcessedMessageConstant, fields...)
	}
}
