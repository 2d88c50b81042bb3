// Package errors provides the structured error type used across start.
//
// Every failure that start itself produces (invalid steps, recovered panics,
// configuration problems, failed commands) is an *AppError carrying a
// machine-readable ErrorCode. Errors returned by user steps are never wrapped:
// they travel through a pipeline unmodified.
package errors
