// Package gitinfo builds the commit record of a benchmark run.
package gitinfo

import (
	"benchstore/internal/models"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	json "github.com/goccy/go-json"
)

var ErrNoCommit = errors.New("event payload has neither head_commit nor pull_request")

// execCommand allows mocking in tests.
var execCommand = exec.CommandContext

type pullRequestEvent struct {
	HTMLURL string `json:"html_url"`
	Title   string `json:"title"`
	Head    struct {
		SHA  string `json:"sha"`
		User struct {
			Login string `json:"login"`
		} `json:"user"`
		Repo struct {
			UpdatedAt string `json:"updated_at"`
		} `json:"repo"`
	} `json:"head"`
}

type eventPayload struct {
	HeadCommit  *models.CommitInfo `json:"head_commit"`
	PullRequest *pullRequestEvent  `json:"pull_request"`
}

// FromEventFile reads a GitHub Actions event payload ($GITHUB_EVENT_PATH).
// Push events carry head_commit in the stored shape already; pull request
// events are mapped from the PR head.
func FromEventFile(path string) (*models.CommitInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var ev eventPayload
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("parse event payload %s: %w", path, err)
	}

	if ev.HeadCommit != nil && ev.HeadCommit.ID != "" {
		return ev.HeadCommit, nil
	}

	if pr := ev.PullRequest; pr != nil && pr.Head.SHA != "" {
		author := models.Person{Name: pr.Head.User.Login, Username: pr.Head.User.Login}
		return &models.CommitInfo{
			Author:    author,
			Committer: author,
			ID:        pr.Head.SHA,
			Message:   pr.Title,
			Timestamp: pr.Head.Repo.UpdatedAt,
			URL:       pr.HTMLURL + "/commits/" + pr.Head.SHA,
		}, nil
	}
	return nil, ErrNoCommit
}

const (
	fieldSep  = "\x1f"
	logFormat = "%H" + fieldSep + "%T" + fieldSep + "%an" + fieldSep + "%ae" + fieldSep +
		"%cn" + fieldSep + "%ce" + fieldSep + "%cI" + fieldSep + "%B"
)

// FromGit describes HEAD of the checkout in dir. The commit url is built
// from repoURL when it is set.
func FromGit(ctx context.Context, dir, repoURL string) (*models.CommitInfo, error) {
	cmd := execCommand(ctx, "git", "-C", dir, "log", "-1", "--format="+logFormat)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git log: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return parseLog(string(out), repoURL)
}

func parseLog(out, repoURL string) (*models.CommitInfo, error) {
	fields := strings.SplitN(out, fieldSep, 8)
	if len(fields) != 8 {
		return nil, fmt.Errorf("unexpected git log output %q", out)
	}

	c := &models.CommitInfo{
		ID:        strings.TrimSpace(fields[0]),
		TreeID:    fields[1],
		Author:    models.Person{Name: fields[2], Email: fields[3]},
		Committer: models.Person{Name: fields[4], Email: fields[5]},
		Timestamp: fields[6],
		Message:   strings.TrimSpace(fields[7]),
		Distinct:  true,
	}
	if c.ID == "" {
		return nil, fmt.Errorf("unexpected git log output %q", out)
	}
	if repoURL != "" {
		c.URL = strings.TrimSuffix(repoURL, "/") + "/commit/" + c.ID
	}
	return c, nil
}
