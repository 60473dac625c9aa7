// Package batch runs one operation (init, diff, or merge) across every
// configured project in order.
//
// Orchestrator materializes each working copy, dispatches the operation,
// records a ProjectResult, and notifies ProgressObserver implementations after
// every project. Project failures stay inside the project boundary; only
// ConfigurationError values abort a run before it starts. CommandBuilder
// exposes the orchestrator as a Cobra command.
package batch
