// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with zap logging and typed failures,
// OSCommandRunner executes processes through os/exec, and
// CommandMessageFormatter renders git invocations as readable sentences for
// console output.
package execshell
