// Package github discovers open pull requests to build
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/peterhellberg/link"
	"golang.org/x/oauth2"

	"github.com/c3i/c3i/pkg/logger"
	"github.com/c3i/c3i/pkg/types"
)

// DefaultAPI is the public GitHub REST endpoint
const DefaultAPI = "https://api.github.com"

// Client lists pull requests through the GitHub REST API
type Client struct {
	httpClient *http.Client
	apiURL     string
	repo       string
	logger     logger.Logger
}

// Options configure a Client
type Options struct {
	APIURL string
	// Repo is owner/name
	Repo  string
	Token string
	// HTTPClient overrides the transport; the token is ignored when set
	HTTPClient *http.Client
}

// NewClient creates a client. A non-empty token authenticates every request.
func NewClient(ctx context.Context, opts Options, log logger.Logger) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		if opts.Token != "" {
			httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}))
		} else {
			httpClient = http.DefaultClient
		}
	}

	apiURL := opts.APIURL
	if apiURL == "" {
		apiURL = DefaultAPI
	}

	if log == nil {
		log = logger.Discard()
	}

	return &Client{
		httpClient: httpClient,
		apiURL:     strings.TrimRight(apiURL, "/"),
		repo:       opts.Repo,
		logger:     log,
	}
}

type pullRequest struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	HTMLURL string `json:"html_url"`
	Head    struct {
		Ref  string `json:"ref"`
		Repo *struct {
			CloneURL string `json:"clone_url"`
			FullName string `json:"full_name"`
		} `json:"repo"`
		User struct {
			Login string `json:"login"`
		} `json:"user"`
	} `json:"head"`
	Base struct {
		Repo struct {
			Name string `json:"name"`
		} `json:"repo"`
	} `json:"base"`
}

// OpenPullRequests returns every open pull request, following pagination
func (c *Client) OpenPullRequests(ctx context.Context) ([]types.PullRequest, error) {
	var out []types.PullRequest

	next := fmt.Sprintf("%s/repos/%s/pulls?state=open", c.apiURL, c.repo)
	for next != "" {
		page, nextURL, err := c.fetchPage(ctx, next)
		if err != nil {
			return nil, err
		}
		for _, pr := range page {
			out = append(out, convert(pr, c.repo))
		}
		next = nextURL
	}

	c.logger.Debug("Discovered pull requests", logger.WithField("count", len(out)))
	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, url string) ([]pullRequest, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list pull requests: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to list pull requests: %s returned %s", url, resp.Status)
	}

	var page []pullRequest
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, "", fmt.Errorf("failed to decode pull requests: %w", err)
	}

	next := ""
	if l, ok := link.ParseResponse(resp)["next"]; ok && l != nil {
		next = l.URI
	}
	return page, next, nil
}

func convert(pr pullRequest, repo string) types.PullRequest {
	out := types.PullRequest{
		Number: pr.Number,
		Branch: pr.Head.Ref,
		Desc:   fmt.Sprintf("PR #%d: %s", pr.Number, pr.Title),
		Link:   pr.HTMLURL,
	}

	if pr.Head.Repo != nil {
		out.Repo = pr.Head.Repo.CloneURL
		out.Name = pr.Head.Repo.FullName
	} else {
		// The fork is gone; name the remote after the author and upstream repo
		name := pr.Base.Repo.Name
		if name == "" {
			_, name, _ = strings.Cut(repo, "/")
		}
		out.Name = pr.Head.User.Login + "/" + name
	}

	return out
}
