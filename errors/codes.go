package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Composition errors
const (
	// ErrCodeInvalidStep indicates a step that cannot be invoked (nil body, empty task name).
	ErrCodeInvalidStep ErrorCode = "INVALID_STEP"
	// ErrCodeStepPanic indicates a step body panicked with a non-error value.
	ErrCodeStepPanic ErrorCode = "STEP_PANIC"
)

// Task file errors
const (
	// ErrCodeInvalidConfig indicates the configuration failed to load or validate.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeUnknownTask indicates a step references a task kind that is not registered.
	ErrCodeUnknownTask ErrorCode = "UNKNOWN_TASK"
	// ErrCodeUnknownPipeline indicates a reference to a pipeline that is not declared.
	ErrCodeUnknownPipeline ErrorCode = "UNKNOWN_PIPELINE"
	// ErrCodePipelineCycle indicates pipelines that embed each other.
	ErrCodePipelineCycle ErrorCode = "PIPELINE_CYCLE"
)

// Task execution errors
const (
	// ErrCodeInvalidInput indicates a task received a value of the wrong type.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeCommandFailed indicates an external command exited unsuccessfully.
	ErrCodeCommandFailed ErrorCode = "COMMAND_FAILED"
	// ErrCodeNotFound indicates a file or resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeIO indicates a filesystem operation failed.
	ErrCodeIO ErrorCode = "IO_ERROR"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)
