package batch

import (
	"github.com/temirov/branchsync/internal/repos/shared"
)

const (
	divergingHeaderConstant        = "diverging projects:\n"
	noDifferencesConstant          = "no differences found\n"
	manualMergeHeaderConstant      = "projects requiring manual merge:\n"
	allMergedConstant              = "all projects merged\n"
	initializationCompleteConstant = "initialization complete\n"
	inconclusiveHeaderConstant     = "projects that could not be compared:\n"
	failedHeaderConstant           = "failed projects:\n"
	listItemTemplateConstant       = "  - %s\n"
	elapsedTemplateConstant        = "elapsed: %.3fs\n"
)

// SummaryPrinter renders the end-of-run summary.
type SummaryPrinter struct {
	reporter shared.Reporter
}

// NewSummaryPrinter constructs a SummaryPrinter writing to the provided sink.
func NewSummaryPrinter(reporter shared.Reporter) SummaryPrinter {
	return SummaryPrinter{reporter: reporter}
}

// Print writes the mode-specific summary, any inconclusive or failed projects, and the elapsed time.
func (printer SummaryPrinter) Print(runResult RunResult) {
	if printer.reporter == nil {
		return
	}

	switch runResult.Operation {
	case OperationDiff:
		printer.printListOrConfirmation(divergingHeaderConstant, noDifferencesConstant, runResult.Attention)
	case OperationMerge:
		printer.printListOrConfirmation(manualMergeHeaderConstant, allMergedConstant, runResult.Attention)
	case OperationInit:
		printer.reporter.Printf(initializationCompleteConstant)
	}

	printer.printList(inconclusiveHeaderConstant, runResult.Inconclusive)
	printer.printList(failedHeaderConstant, runResult.Failed)
	printer.reporter.Printf(elapsedTemplateConstant, runResult.Elapsed.Seconds())
}

func (printer SummaryPrinter) printListOrConfirmation(header string, confirmation string, projectPaths []string) {
	if len(projectPaths) == 0 {
		printer.reporter.Printf(confirmation)
		return
	}
	printer.printList(header, projectPaths)
}

func (printer SummaryPrinter) printList(header string, projectPaths []string) {
	if len(projectPaths) == 0 {
		return
	}
	printer.reporter.Printf(header)
	for _, projectPath := range projectPaths {
		printer.reporter.Printf(listItemTemplateConstant, projectPath)
	}
}
