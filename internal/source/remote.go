package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"git.home.luguber.info/inful/listbuilder/internal/config"
	"git.home.luguber.info/inful/listbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/listbuilder/internal/logfields"
)

// Remote reads lists through the GitHub contents API.
type Remote struct {
	apiURL     string
	userAgent  string
	token      string
	httpClient *http.Client
}

// NewRemote creates a contents API source. client is typically backed by
// httpcache.Transport; nil uses http.DefaultClient.
func NewRemote(cfg config.SourceConfig, client *http.Client) *Remote {
	if client == nil {
		client = http.DefaultClient
	}
	r := &Remote{apiURL: cfg.APIURL, userAgent: cfg.UserAgent, httpClient: client}
	if cfg.Auth != nil && cfg.Auth.Type == config.AuthTypeToken {
		r.token = cfg.Auth.Token
	}
	return r
}

func (r *Remote) Mode() string { return "remote" }

func (r *Remote) Categories(ctx context.Context) ([]Entry, error) {
	return r.listing(ctx, r.apiURL)
}

func (r *Remote) Files(ctx context.Context, category Entry) ([]Entry, error) {
	if category.URL == "" {
		return nil, errors.SourceError("category has no listing URL").WithContext("category", category.Name).Build()
	}
	return r.listing(ctx, category.URL)
}

func (r *Remote) Read(ctx context.Context, file Entry) (string, error) {
	if file.DownloadURL == "" {
		return "", errors.SourceError("file has no download URL").WithContext("file", file.Name).Build()
	}
	req, err := r.newRequest(ctx, file.DownloadURL, "")
	if err != nil {
		return "", err
	}
	body, err := r.do(req)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (r *Remote) listing(ctx context.Context, url string) ([]Entry, error) {
	req, err := r.newRequest(ctx, url, "application/vnd.github+json")
	if err != nil {
		return nil, err
	}
	body, err := r.do(req)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, errors.SourceError("failed to decode directory listing").
			WithCause(err).
			WithContext("url", url).
			Build()
	}
	slog.Debug("Fetched listing", logfields.URL(url), logfields.Count(len(entries)))
	return sortEntries(entries), nil
}

func (r *Remote) newRequest(ctx context.Context, url, accept string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.ConfigError("failed to build request").
			WithCause(err).
			WithContext("url", url).
			Build()
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "token "+r.token)
	}
	return req, nil
}

// do executes req and returns the body, classifying status >= 400.
func (r *Remote) do(req *http.Request) ([]byte, error) {
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, errors.NetworkError("failed to execute request").
			WithCause(err).
			WithContext("url", req.URL.String()).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		// Read limited body for diagnostics
		limitedBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		bodyStr := strings.ReplaceAll(string(limitedBody), "\n", " ")

		category := errors.CategoryNetwork
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			category = errors.CategoryAuth
		case http.StatusNotFound:
			category = errors.CategoryNotFound
		}

		return nil, errors.NewError(category, fmt.Sprintf("contents API error: %s", resp.Status)).
			WithContext("code", resp.StatusCode).
			WithContext("url", req.URL.String()).
			WithContext("response", bodyStr).
			Build()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NetworkError("failed to read response body").
			WithCause(err).
			WithContext("url", req.URL.String()).
			Build()
	}
	return body, nil
}
