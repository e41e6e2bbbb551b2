package github_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c3i/c3i/pkg/github"
)

const firstPage = `[
  {
    "number": 42,
    "title": "Faster turtles",
    "html_url": "https://github.com/dan200/ComputerCraft/pull/42",
    "head": {
      "ref": "feature/turtles",
      "repo": {"clone_url": "https://github.com/alice/ComputerCraft.git", "full_name": "alice/ComputerCraft"},
      "user": {"login": "alice"}
    },
    "base": {"repo": {"name": "ComputerCraft"}}
  }
]`

const secondPage = `[
  {
    "number": 7,
    "title": "Orphaned",
    "html_url": "https://github.com/dan200/ComputerCraft/pull/7",
    "head": {"ref": "fix", "repo": null, "user": {"login": "bob"}},
    "base": {"repo": {"name": "ComputerCraft"}}
  }
]`

func TestOpenPullRequests_FollowsPagination(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/dan200/computercraft/pulls", r.URL.Path)
		assert.Equal(t, "open", r.URL.Query().Get("state"))

		switch r.URL.Query().Get("page") {
		case "":
			w.Header().Set("Link", fmt.Sprintf(`<%s/repos/dan200/computercraft/pulls?state=open&page=2>; rel="next"`, server.URL))
			fmt.Fprint(w, firstPage)
		case "2":
			fmt.Fprint(w, secondPage)
		default:
			t.Errorf("unexpected page %s", r.URL.Query().Get("page"))
		}
	}))
	defer server.Close()

	client := github.NewClient(context.Background(), github.Options{
		APIURL: server.URL,
		Repo:   "dan200/computercraft",
	}, nil)

	prs, err := client.OpenPullRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, prs, 2)

	assert.Equal(t, 42, prs[0].Number)
	assert.Equal(t, "feature/turtles", prs[0].Branch)
	assert.Equal(t, "PR #42: Faster turtles", prs[0].Desc)
	assert.Equal(t, "https://github.com/alice/ComputerCraft.git", prs[0].Repo)
	assert.Equal(t, "alice/ComputerCraft", prs[0].Name)
	assert.Equal(t, "alice-ComputerCraft-feature-turtles", prs[0].Configuration().Name)

	assert.Empty(t, prs[1].Repo, "deleted fork has no clone url")
	assert.Equal(t, "bob/ComputerCraft", prs[1].Name)
	assert.Equal(t, "bob/ComputerCraft/fix", prs[1].RemoteBranch())
}

func TestOpenPullRequests_SendsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		fmt.Fprint(w, "[]")
	}))
	defer server.Close()

	client := github.NewClient(context.Background(), github.Options{
		APIURL: server.URL,
		Repo:   "dan200/computercraft",
		Token:  "secret",
	}, nil)

	prs, err := client.OpenPullRequests(context.Background())
	require.NoError(t, err)
	assert.Empty(t, prs)
}

func TestOpenPullRequests_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer server.Close()

	client := github.NewClient(context.Background(), github.Options{APIURL: server.URL, Repo: "a/b"}, nil)

	_, err := client.OpenPullRequests(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
