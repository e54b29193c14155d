package git

import (
	stderrors "errors"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"git.home.luguber.info/inful/listbuilder/internal/foundation/errors"
)

// messageRules map go-git error text to categories; first match wins.
var messageRules = []struct {
	category errors.ErrorCategory
	needles  []string
}{
	{errors.CategoryAuth, []string{"authentication", "authorization", "not authorized", "invalid credentials"}},
	{errors.CategoryNotFound, []string{"repository not found", "repository does not exist", "reference not found", "couldn't find remote ref"}},
	{errors.CategoryNetwork, []string{"remote hung up", "connection reset", "timeout", "no route to host", "connection refused", "no such host"}},
	{errors.CategoryConfig, []string{"unsupported protocol", "protocol not supported"}},
}

// ClassifyGitError translates go-git errors into ClassifiedErrors. Errors
// that are already classified pass through unchanged.
func ClassifyGitError(err error, op string, url string) error {
	if err == nil {
		return nil
	}
	if errors.IsClassified(err) {
		return err
	}

	builder := errors.GitError(op+" failed").
		WithCause(err).
		WithContext("op", op).
		WithContext("url", url)

	switch {
	case stderrors.Is(err, transport.ErrAuthenticationRequired), stderrors.Is(err, transport.ErrAuthorizationFailed):
		return builder.WithCategory(errors.CategoryAuth).Build()
	case stderrors.Is(err, transport.ErrRepositoryNotFound):
		return builder.WithCategory(errors.CategoryNotFound).Build()
	case stderrors.Is(err, git.ErrNonFastForwardUpdate):
		// A clone with local commits cannot be fast-forwarded; recloning fixes it.
		return builder.WithContext("diverged", true).Build()
	}

	msg := strings.ToLower(err.Error())
	for _, rule := range messageRules {
		for _, needle := range rule.needles {
			if strings.Contains(msg, needle) {
				return builder.WithCategory(rule.category).Build()
			}
		}
	}
	return builder.Build()
}
