// Package cli constructs the branchsync command-line interface. The root
// Cobra command runs the batch operation directly; persistent flags select
// the configuration file and logging, and configuration layers embedded
// defaults, config.yaml from the working directory or the user configuration
// directory, and BRANCHSYNC_ environment variables.
package cli
