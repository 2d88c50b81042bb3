package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified error type for failures raised by start itself.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Common Error Constructors ---

// InvalidStep creates an AppError for a step that cannot be invoked.
func InvalidStep(reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidStep, Message: fmt.Sprintf("invalid step: %s", reason),
	}
}

// StepPanic creates an AppError for a step body that panicked with a non-error value.
func StepPanic(task string, value any) *AppError {
	name := task
	if name == "" {
		name = "anonymous step"
	}
	details := map[string]any{"value": value}
	if task != "" {
		details["task"] = task
	}
	return &AppError{
		Code: ErrCodeStepPanic, Message: fmt.Sprintf("%s panicked: %v", name, value),
		Details: details,
	}
}

// InvalidConfig creates an AppError for configuration that failed to load or validate.
func InvalidConfig(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidConfig, Message: message}
}

// UnknownTask creates an AppError for a task kind that is not registered.
func UnknownTask(kind string) *AppError {
	return &AppError{
		Code: ErrCodeUnknownTask, Message: fmt.Sprintf("unknown task %q", kind),
		Details: map[string]any{"task": kind},
	}
}

// UnknownPipeline creates an AppError for a pipeline that is not declared.
func UnknownPipeline(name string) *AppError {
	return &AppError{
		Code: ErrCodeUnknownPipeline, Message: fmt.Sprintf("unknown pipeline %q", name),
		Details: map[string]any{"pipeline": name},
	}
}

// PipelineCycle creates an AppError for pipelines that embed each other.
func PipelineCycle(path []string) *AppError {
	return &AppError{
		Code: ErrCodePipelineCycle, Message: fmt.Sprintf("pipeline cycle: %v", path),
		Details: map[string]any{"path": path},
	}
}

// InvalidInput creates an AppError for a task that received a value it cannot handle.
func InvalidInput(task, want string, got any) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("%s: expected %s input, got %T", task, want, got),
		Details: map[string]any{"task": task, "want": want},
	}
}

// CommandFailed creates an AppError for an external command that exited unsuccessfully.
func CommandFailed(binary string, exitCode int, cause error) *AppError {
	return &AppError{
		Code: ErrCodeCommandFailed, Message: fmt.Sprintf("%s exited with code %d", binary, exitCode),
		Details: map[string]any{"binary": binary, "exit_code": exitCode}, Cause: cause,
	}
}

// NotFound creates an AppError for a file or resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("%s not found", resource),
		Details: details,
	}
}

// IO creates an AppError for a failed filesystem operation on path.
func IO(op, path string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeIO, Message: fmt.Sprintf("%s %s failed", op, path),
		Details: map[string]any{"op": op, "path": path}, Cause: cause,
	}
}

// Internal creates an AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "an unexpected error occurred",
		Cause: cause,
	}
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first AppError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}

// Is reports whether err's chain contains an AppError with the given code.
func Is(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
