package errors

// ErrorBuilder assembles a ClassifiedError fluently.
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts a builder with error severity.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{
		category: category,
		severity: SeverityError,
		message:  message,
		context:  ErrorContext{},
	}}
}

func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.err.severity = severity
	return b
}

// WithCategory overrides the category chosen at construction.
func (b *ErrorBuilder) WithCategory(category ErrorCategory) *ErrorBuilder {
	b.err.category = category
	return b
}

func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.err.cause = err
	return b
}

func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context[key] = value
	return b
}

// Build returns the error. The builder may not be reused afterwards.
func (b *ErrorBuilder) Build() *ClassifiedError {
	e := b.err
	return &e
}

// Constructors per category. Problems the user has to fix before a rerun
// can succeed are fatal; fetch problems may be transient and are not.

func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).WithSeverity(SeverityFatal)
}

func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).WithSeverity(SeverityFatal)
}

func NetworkError(message string) *ErrorBuilder { return NewError(CategoryNetwork, message) }

func GitError(message string) *ErrorBuilder { return NewError(CategoryGit, message) }

func SourceError(message string) *ErrorBuilder { return NewError(CategorySource, message) }

func BuildError(message string) *ErrorBuilder {
	return NewError(CategoryBuild, message).WithSeverity(SeverityFatal)
}

func BundleError(message string) *ErrorBuilder {
	return NewError(CategoryBundle, message).WithSeverity(SeverityFatal)
}

func FileSystemError(message string) *ErrorBuilder { return NewError(CategoryFileSystem, message) }

func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).WithSeverity(SeverityFatal)
}
