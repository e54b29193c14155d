package errors

// ErrorCategory classifies a failure by the part of the run it came from.
// The category decides the CLI exit code.
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"
	CategoryAuth       ErrorCategory = "auth"
	CategoryConfig     ErrorCategory = "config"

	// Fetching from the content repository or contents API.
	CategoryNetwork ErrorCategory = "network"
	CategoryGit     ErrorCategory = "git"
	CategorySource  ErrorCategory = "source"

	// Producing output.
	CategoryBuild      ErrorCategory = "build"
	CategoryBundle     ErrorCategory = "bundle"
	CategoryFileSystem ErrorCategory = "filesystem"

	CategoryInternal ErrorCategory = "internal"
)

type categoryInfo struct {
	exitCode int
	hint     string
}

var categoryTable = map[ErrorCategory]categoryInfo{
	CategoryValidation: {exitCode: 2},
	CategoryNotFound:   {exitCode: 4, hint: "check source.repo_url, source.api_url and source.lists_dir"},
	CategoryAuth:       {exitCode: 5, hint: "check source.auth; tokens can come from .env as ${GITHUB_TOKEN}"},
	CategoryConfig:     {exitCode: 7, hint: "run 'listbuilder init' to write an example configuration"},
	CategoryNetwork:    {exitCode: 8},
	CategoryGit:        {exitCode: 8, hint: "run 'listbuilder clean' to discard the cached clone"},
	CategorySource:     {exitCode: 8},
	CategoryInternal:   {exitCode: 10},
	CategoryBuild:      {exitCode: 11},
	CategoryBundle:     {exitCode: 11},
	CategoryFileSystem: {exitCode: 11},
}

// ExitCode returns the process exit code for the category; unknown categories exit 1.
func (c ErrorCategory) ExitCode() int {
	if info, ok := categoryTable[c]; ok {
		return info.exitCode
	}
	return 1
}

// Hint returns a short remedy for the category, or "".
func (c ErrorCategory) Hint() string {
	return categoryTable[c].hint
}

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // aborts the run
	SeverityError   ErrorSeverity = "error"   // fails the current operation
	SeverityWarning ErrorSeverity = "warning" // run continues degraded
)

// ErrorContext carries structured key/value details logged with the error.
type ErrorContext map[string]any

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	v, ok := c[key]
	return v, ok
}
