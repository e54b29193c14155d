// Package errors provides classified errors for listbuilder.
//
// Every failure that aborts a run is a *ClassifiedError carrying a category
// (which part of the run failed), a severity, structured context and the
// underlying cause. The CLI maps categories to exit codes and remedy hints
// through CLIErrorAdapter.
//
//	return errors.GitError("clone failed").
//		WithCause(err).
//		WithContext("url", repoURL).
//		Build()
package errors
