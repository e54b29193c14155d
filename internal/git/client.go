package git

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/listbuilder/internal/config"
	"git.home.luguber.info/inful/listbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/listbuilder/internal/logfields"
)

// Repository describes the remote being mirrored.
type Repository struct {
	URL    string
	Branch string // empty means the remote default branch
	Auth   *config.AuthConfig
}

// RepositoryFromConfig builds a Repository from the source section of the configuration.
func RepositoryFromConfig(cfg *config.Config) Repository {
	return Repository{URL: cfg.Source.RepoURL, Branch: cfg.Source.Branch, Auth: cfg.Source.Auth}
}

// Client handles Git operations on a single clone directory.
type Client struct {
	path     string
	progress io.Writer
}

// NewClient creates a Git client for the clone at path.
func NewClient(path string) *Client {
	return &Client{path: path}
}

// WithProgress sets a writer that receives clone/pull progress (fluent helper).
func (c *Client) WithProgress(w io.Writer) *Client { c.progress = w; return c }

// Path returns the clone directory.
func (c *Client) Path() string { return c.path }

// Exists reports whether the clone directory holds a git repository.
func (c *Client) Exists() bool {
	_, err := os.Stat(filepath.Join(c.path, ".git"))
	return err == nil
}

// EnsureClone clones repo into the client path unless a clone already exists.
// It reports whether a clone was performed.
func (c *Client) EnsureClone(ctx context.Context, repo Repository) (bool, error) {
	if c.Exists() {
		slog.Debug("Using existing clone", logfields.Path(c.path))
		return false, nil
	}
	if err := c.clone(ctx, repo); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) clone(ctx context.Context, repo Repository) error {
	slog.Info("Cloning repository", logfields.URL(repo.URL), slog.String("branch", repo.Branch), logfields.Path(c.path))

	// A partial clone from an interrupted run would make PlainClone fail.
	if err := os.RemoveAll(c.path); err != nil {
		return errors.FileSystemError("failed to remove existing directory").WithCause(err).WithContext("path", c.path).Build()
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o750); err != nil {
		return errors.FileSystemError("failed to create cache directory").WithCause(err).WithContext("path", c.path).Build()
	}

	opts := &git.CloneOptions{URL: repo.URL, Progress: c.progress}
	if repo.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(repo.Branch)
		opts.SingleBranch = true
	}
	auth, err := authMethod(repo.Auth)
	if err != nil {
		return errors.ConfigError("failed to setup authentication").WithCause(err).Build()
	}
	opts.Auth = auth

	repository, err := git.PlainCloneContext(ctx, c.path, false, opts)
	if err != nil {
		_ = os.RemoveAll(c.path)
		return ClassifyGitError(err, "clone", repo.URL)
	}

	if ref, herr := repository.Head(); herr == nil {
		slog.Info("Repository cloned successfully", logfields.URL(repo.URL), slog.String("commit", shortHash(ref.Hash())), logfields.Path(c.path))
	} else {
		slog.Info("Repository cloned successfully", logfields.URL(repo.URL), logfields.Path(c.path))
	}
	return nil
}

// Pull fast-forwards an existing clone, cloning first when it is missing.
// It reports whether HEAD moved.
func (c *Client) Pull(ctx context.Context, repo Repository) (bool, error) {
	if !c.Exists() {
		slog.Debug("Repository missing, cloning", logfields.Path(c.path))
		if err := c.clone(ctx, repo); err != nil {
			return false, err
		}
		return true, nil
	}

	repository, err := git.PlainOpen(c.path)
	if err != nil {
		return false, errors.GitError("failed to open repository").WithCause(err).WithContext("path", c.path).Build()
	}
	worktree, err := repository.Worktree()
	if err != nil {
		return false, errors.GitError("failed to get worktree").WithCause(err).Build()
	}

	opts := &git.PullOptions{RemoteName: "origin", Progress: c.progress}
	if repo.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(repo.Branch)
		opts.SingleBranch = true
	}
	auth, err := authMethod(repo.Auth)
	if err != nil {
		return false, errors.ConfigError("failed to setup authentication").WithCause(err).Build()
	}
	opts.Auth = auth

	err = worktree.PullContext(ctx, opts)
	if stderrors.Is(err, git.NoErrAlreadyUpToDate) {
		slog.Info("Repository already up to date", logfields.Path(c.path))
		return false, nil
	}
	if err != nil {
		return false, ClassifyGitError(err, "pull", repo.URL)
	}

	if ref, herr := repository.Head(); herr == nil {
		slog.Info("Repository updated successfully", slog.String("commit", shortHash(ref.Hash())), logfields.Path(c.path))
	}
	return true, nil
}

// Head returns the commit hash checked out in the clone.
func (c *Client) Head() (string, error) {
	repository, err := git.PlainOpen(c.path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", c.path, err)
	}
	ref, err := repository.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}

func shortHash(h plumbing.Hash) string {
	return h.String()[:8]
}
