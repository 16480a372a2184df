package errors

// Convenience functions for common error patterns

// Scenario errors

func ScenarioNotFound(path string) *SeqDiagError {
	return New(CategoryScenario, SeverityFatal, "scenario file not found").
		WithContext("path", path)
}

func ScenarioParseError(path string, cause error) *SeqDiagError {
	return Wrap(cause, CategoryScenario, SeverityFatal, "scenario file is not valid YAML").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *SeqDiagError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Generation errors

func RenderFailed(cause error) *SeqDiagError {
	return Wrap(cause, CategoryRender, SeverityFatal, "diagram rendering failed")
}

func OutputError(path string, cause error) *SeqDiagError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "writing output failed").
		WithContext("path", path)
}

func EmbedError(path string, cause error) *SeqDiagError {
	return Wrap(cause, CategoryRender, SeverityFatal, "markdown embedding failed").
		WithContext("path", path)
}

// Runtime errors

func WatchError(cause error) *SeqDiagError {
	return Wrap(cause, CategoryRuntime, SeverityFatal, "file watching failed")
}

func ServerError(cause error) *SeqDiagError {
	return Wrap(cause, CategoryRuntime, SeverityFatal, "preview server failed")
}

func InternalError(message string, cause error) *SeqDiagError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
