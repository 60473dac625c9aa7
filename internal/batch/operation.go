package batch

import (
	"fmt"

	"github.com/temirov/branchsync/internal/utils/flags"
)

// Operation identifies what a run does with each project.
type Operation string

// Supported operations.
const (
	OperationInit  Operation = Operation("init")
	OperationDiff  Operation = Operation("diff")
	OperationMerge Operation = Operation("merge")
)

const expectedOperationsTemplateConstant = "%q (expected diff, init, or merge)"

var operationChoices = flags.NewChoiceSet(string(OperationDiff), string(OperationDiff), string(OperationInit), string(OperationMerge))

// ParseOperation resolves a flag value into an Operation. Blank input selects diff.
func ParseOperation(raw string) (Operation, error) {
	resolved, known := operationChoices.Resolve(raw)
	if !known {
		return "", newConfigurationError(ErrUnknownOperation, fmt.Sprintf(expectedOperationsTemplateConstant, resolved))
	}
	return Operation(resolved), nil
}

// RequiresBranches reports whether the operation compares or merges branches.
func (operation Operation) RequiresBranches() bool {
	return operation == OperationDiff || operation == OperationMerge
}

func operationUsage(description string) string {
	return operationChoices.Usage(description)
}
