// Package utils houses the ambient CLI plumbing: ConfigurationLoader merges
// embedded defaults, configuration files, and environment variables through
// Viper, and LoggerFactory builds zap loggers for the selected level and format.
package utils
