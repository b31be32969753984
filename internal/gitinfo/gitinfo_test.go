package gitinfo

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pushEvent = `{
  "ref": "refs/heads/main",
  "head_commit": {
    "author": {"email": "jane@example.com", "name": "Jane Doe", "username": "jane"},
    "committer": {"email": "noreply@github.com", "name": "GitHub", "username": "web-flow"},
    "distinct": true,
    "id": "3f1a2b4c5d6e7f8091a2b3c4d5e6f708192a3b4c",
    "message": "Speed up fib",
    "timestamp": "2024-01-02T15:04:05+01:00",
    "tree_id": "9e8d7c6b5a4f3e2d1c0b9a8f7e6d5c4b3a2f1e0d",
    "url": "https://github.com/org/repo/commit/3f1a2b4c5d6e7f8091a2b3c4d5e6f708192a3b4c"
  }
}`

const prEvent = `{
  "action": "synchronize",
  "pull_request": {
    "html_url": "https://github.com/org/repo/pull/42",
    "title": "Faster fib",
    "head": {
      "sha": "aaaabbbb",
      "user": {"login": "octocat"},
      "repo": {"updated_at": "2024-03-04T05:06:07Z"}
    }
  }
}`

func writeEvent(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestFromEventFile_Push(t *testing.T) {
	c, err := FromEventFile(writeEvent(t, pushEvent))
	require.NoError(t, err)

	assert.Equal(t, "3f1a2b4c5d6e7f8091a2b3c4d5e6f708192a3b4c", c.ID)
	assert.Equal(t, "Jane Doe", c.Author.Name)
	assert.Equal(t, "web-flow", c.Committer.Username)
	assert.Equal(t, "9e8d7c6b5a4f3e2d1c0b9a8f7e6d5c4b3a2f1e0d", c.TreeID)
	assert.True(t, c.Distinct)
}

func TestFromEventFile_PullRequest(t *testing.T) {
	c, err := FromEventFile(writeEvent(t, prEvent))
	require.NoError(t, err)

	assert.Equal(t, "aaaabbbb", c.ID)
	assert.Equal(t, "octocat", c.Author.Username)
	assert.Equal(t, "octocat", c.Committer.Name)
	assert.Equal(t, "Faster fib", c.Message)
	assert.Equal(t, "2024-03-04T05:06:07Z", c.Timestamp)
	assert.Equal(t, "https://github.com/org/repo/pull/42/commits/aaaabbbb", c.URL)
}

func TestFromEventFile_NoCommit(t *testing.T) {
	_, err := FromEventFile(writeEvent(t, `{"action":"opened"}`))
	assert.ErrorIs(t, err, ErrNoCommit)
}

func TestFromEventFile_Errors(t *testing.T) {
	_, err := FromEventFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = FromEventFile(writeEvent(t, "{"))
	assert.Error(t, err)
}

func TestParseLog(t *testing.T) {
	out := "abc123\x1ftree1\x1fJane\x1fjane@example.com\x1fBob\x1fbob@example.com\x1f2024-01-02T15:04:05+01:00\x1fSubject\n\nBody line\n"
	c, err := parseLog(out, "https://github.com/org/repo/")
	require.NoError(t, err)

	assert.Equal(t, "abc123", c.ID)
	assert.Equal(t, "tree1", c.TreeID)
	assert.Equal(t, "Jane", c.Author.Name)
	assert.Equal(t, "bob@example.com", c.Committer.Email)
	assert.Equal(t, "2024-01-02T15:04:05+01:00", c.Timestamp)
	assert.Equal(t, "Subject\n\nBody line", c.Message)
	assert.Equal(t, "https://github.com/org/repo/commit/abc123", c.URL)
}

func TestParseLog_NoRepoURL(t *testing.T) {
	c, err := parseLog("a\x1ft\x1fn\x1fe\x1fn\x1fe\x1fts\x1fmsg", "")
	require.NoError(t, err)
	assert.Empty(t, c.URL)
}

func TestParseLog_Malformed(t *testing.T) {
	_, err := parseLog("fatal: not a git repository", "")
	assert.Error(t, err)
}

func TestFromGit_CommandFails(t *testing.T) {
	orig := execCommand
	defer func() { execCommand = orig }()
	execCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "false")
	}

	_, err := FromGit(context.Background(), ".", "")
	assert.Error(t, err)
}

func TestFromGit_RealRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=Jane", "GIT_AUTHOR_EMAIL=jane@example.com",
			"GIT_COMMITTER_NAME=Jane", "GIT_COMMITTER_EMAIL=jane@example.com",
			"GIT_CONFIG_GLOBAL=/dev/null", "GIT_CONFIG_NOSYSTEM=1")
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	run("init", "-q")
	run("commit", "-q", "--allow-empty", "-m", "initial benchmark")

	c, err := FromGit(context.Background(), dir, "https://github.com/org/repo")
	require.NoError(t, err)
	assert.Len(t, c.ID, 40)
	assert.Equal(t, "Jane", c.Author.Name)
	assert.Equal(t, "initial benchmark", c.Message)
	assert.Equal(t, "https://github.com/org/repo/commit/"+c.ID, c.URL)
}
