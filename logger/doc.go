// Package logger provides structured logging for start using zerolog.
//
// It supports JSON and console output, level configuration and loggers scoped
// to a component, a task or a pipeline run.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	log := logger.WithComponent("tasks")
//	log.WithTask("compile").Info("task started")
package logger
