package cli

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/huimingz/commitgen/internal/config"
	"github.com/huimingz/commitgen/internal/git"
	"github.com/huimingz/commitgen/internal/pipeline"
	"github.com/huimingz/commitgen/internal/review"
	"github.com/huimingz/commitgen/internal/ui"
	"github.com/huimingz/commitgen/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with fresh flag values
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	dryRun, interactive, force, verbose, debugMode = false, false, false, false, false
	configFile, modelName, apiKeyFlag, language = "", "", "", ""

	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)

	err := rootCmd.Execute()
	return out.String(), err
}

// isolateEnv keeps the developer's own settings out of the tests
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("COMMITGEN_API_KEY", "")
	t.Setenv("COMMITGEN_MODEL", "")
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// newWorkRepo creates a repository with one commit and chdirs into it
func newWorkRepo(t *testing.T) (string, *gogit.Repository) {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	cfg, err := repo.Config()
	require.NoError(t, err)
	cfg.User.Name = "CLI Tester"
	cfg.User.Email = "cli@example.com"
	require.NoError(t, repo.SetConfig(cfg))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hello\n"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("hello.txt")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &gogit.CommitOptions{
		Author: &object.Signature{Name: "CLI Tester", Email: "cli@example.com", When: time.Unix(1700000000, 0)},
	})
	require.NoError(t, err)

	t.Chdir(dir)
	return dir, repo
}

func head(t *testing.T, repo *gogit.Repository) *object.Commit {
	t.Helper()
	ref, err := repo.Head()
	require.NoError(t, err)
	c, err := repo.CommitObject(ref.Hash())
	require.NoError(t, err)
	return c
}

func modelServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func serverConfig(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	return writeConfig(t, "provider: openrouter\nbase_url: "+srv.URL+"\nretry:\n  enabled: false\n")
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "commitgen dev")
	assert.Contains(t, out, "Go Version:")
}

func TestInstallHookCmd(t *testing.T) {
	out, err := execute(t, "", "install-hook")
	require.NoError(t, err)
	assert.Contains(t, out, "Hook installation not implemented yet")
}

func TestCommitCmd_Args(t *testing.T) {
	assert.NoError(t, commitCmd.Args(commitCmd, []string{}))
	assert.NoError(t, commitCmd.Args(commitCmd, []string{"Fix typo"}))
	assert.Error(t, commitCmd.Args(commitCmd, []string{"Fix", "typo"}))
	assert.Error(t, generateCmd.Args(generateCmd, []string{"extra"}))
}

func TestRootFlags(t *testing.T) {
	for _, name := range []string{"dry-run", "interactive", "force", "verbose"} {
		f := rootCmd.PersistentFlags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, string(name[0]), f.Shorthand)
	}
	for _, name := range []string{"model", "api-key", "config"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestConfigSetModelAndShow(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := execute(t, "", "config", "set-model", "anthropic/claude-3-haiku", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Default model set to: anthropic/claude-3-haiku")

	out, err = execute(t, "", "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Default Model: anthropic/claude-3-haiku")
	assert.Contains(t, out, "API Key: Not set")
	assert.Contains(t, out, "Max Diff Lines: 1000")
	assert.Contains(t, out, "Max Tokens: 150")
	assert.Contains(t, out, "Config File: "+path)
}

func TestConfigSetAPIKey(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := execute(t, "sk-or-secret\n", "config", "set-api-key", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Enter your OpenRouter API key")
	assert.Contains(t, out, "API key saved")

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-or-secret", cfg.APIKey)

	out, err = execute(t, "", "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "API Key: Set")
	assert.NotContains(t, out, "sk-or-secret")
}

func TestConfigSetAPIKey_EmptyInput(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, err := execute(t, "\n", "config", "set-api-key", "--config", path)
	assert.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestConfigInit(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, err := execute(t, "", "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration file created")

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().DefaultModel, cfg.DefaultModel)
	assert.Equal(t, "openrouter", cfg.Provider)

	_, err = execute(t, "", "config", "init", "--config", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, "", "config", "init", "--config", path, "--force")
	assert.NoError(t, err)
}

func TestConfig_InvalidFileIsFatal(t *testing.T) {
	isolateEnv(t)
	newWorkRepo(t)
	path := writeConfig(t, "max_diff_lines: -5\n")

	_, err := execute(t, "", "generate", "--config", path)
	var cfgErr *config.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestProvidersCmd(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, "provider: deepseek\n")

	out, err := execute(t, "", "providers", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "deepseek (configured)")
	assert.Contains(t, out, "https://api.deepseek.com/v1")
	assert.Contains(t, out, "openrouter")
}

func TestGenerate_PrintsModelMessageWithoutCommitting(t *testing.T) {
	isolateEnv(t)
	dir, repo := newWorkRepo(t)
	before := head(t, repo).Hash
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hello\nworld\n"), 0o644))

	srv := modelServer(t, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"  Add world to greeting \n"}}]}`)

	out, err := execute(t, "", "generate", "--config", serverConfig(t, srv), "--api-key", "sk-test")
	require.NoError(t, err)
	assert.Contains(t, out, "Generated Commit Message")
	assert.Contains(t, out, "Add world to greeting")
	assert.Equal(t, before, head(t, repo).Hash)
}

func TestRootDryRunBehavesLikeGenerate(t *testing.T) {
	isolateEnv(t)
	dir, repo := newWorkRepo(t)
	before := head(t, repo).Hash
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hello\nworld\n"), 0o644))

	srv := modelServer(t, http.StatusOK, `{"choices":[{"message":{"content":"Add world to greeting"}}]}`)

	out, err := execute(t, "", "--dry-run", "--config", serverConfig(t, srv), "--api-key", "sk-test")
	require.NoError(t, err)
	assert.Contains(t, out, "Add world to greeting")
	assert.Equal(t, before, head(t, repo).Hash)
}

func TestCommit_NoChanges(t *testing.T) {
	isolateEnv(t)
	_, repo := newWorkRepo(t)
	before := head(t, repo).Hash

	srv := modelServer(t, http.StatusOK, `{"choices":[{"message":{"content":"never"}}]}`)

	out, err := execute(t, "", "commit", "-f", "--config", serverConfig(t, srv), "--api-key", "sk-test")
	require.NoError(t, err)
	assert.Contains(t, out, "No changes to commit.")
	assert.Equal(t, before, head(t, repo).Hash)
}

func TestCommit_ProvidedMessageWithForce(t *testing.T) {
	isolateEnv(t)
	dir, repo := newWorkRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("todo\n"), 0o644))

	path := writeConfig(t, "provider: openrouter\n")
	out, err := execute(t, "", "commit", "-f", "Add notes", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "with message: Add notes")

	c := head(t, repo)
	assert.Equal(t, "Add notes", c.Message)
	_, err = c.File("notes.md")
	assert.NoError(t, err)
}

func TestCommit_ServerErrorFallsBackAndSucceeds(t *testing.T) {
	isolateEnv(t)
	dir, repo := newWorkRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hello\none\ntwo\nthree\n"), 0o644))

	srv := modelServer(t, http.StatusBadGateway, `upstream unavailable`)

	out, err := execute(t, "", "commit", "-f", "--config", serverConfig(t, srv), "--api-key", "sk-test")
	require.NoError(t, err)
	assert.Contains(t, out, "Using intelligent fallback")
	assert.Contains(t, out, "offline fallback")
	assert.Equal(t, "Add new functionality to hello.txt", head(t, repo).Message)
}

func TestCommit_DeclinedConfirmation(t *testing.T) {
	isolateEnv(t)
	dir, repo := newWorkRepo(t)
	before := head(t, repo).Hash
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("bye\n"), 0o644))

	srv := modelServer(t, http.StatusOK, `{"choices":[{"message":{"content":"Say bye"}}]}`)

	out, err := execute(t, "n\n", "commit", "--config", serverConfig(t, srv), "--api-key", "sk-test")
	require.NoError(t, err)
	assert.Contains(t, out, "Commit with this message? [Y/n]")
	assert.Contains(t, out, "Commit cancelled.")
	assert.Equal(t, before, head(t, repo).Hash)
}

func TestCommit_InteractiveEdit(t *testing.T) {
	isolateEnv(t)
	dir, repo := newWorkRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hi\n"), 0o644))

	srv := modelServer(t, http.StatusOK, `{"choices":[{"message":{"content":"Update hello.txt"}}]}`)

	out, err := execute(t, "n\nShorten greeting\n\x04\ny\n", "commit", "-i", "--config", serverConfig(t, srv), "--api-key", "sk-test")
	require.NoError(t, err)
	assert.Contains(t, out, "Use this message? [Y/n]")
	assert.Contains(t, out, "Enter your commit message")
	assert.Equal(t, "Shorten greeting", head(t, repo).Message)
}

func TestCommit_PromptsForMissingKeyAndStoresIt(t *testing.T) {
	isolateEnv(t)
	dir, repo := newWorkRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hello\nagain\n"), 0o644))

	srv := modelServer(t, http.StatusOK, `{"choices":[{"message":{"content":"Greet again"}}]}`)
	path := serverConfig(t, srv)

	out, err := execute(t, "sk-test\n", "commit", "-f", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "API key not found in config.")
	assert.Equal(t, "Greet again", head(t, repo).Message)

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.APIKey)
}

func TestGenerate_RejectsUnknownLanguage(t *testing.T) {
	isolateEnv(t)
	newWorkRepo(t)
	path := writeConfig(t, "provider: openrouter\n")

	_, err := execute(t, "", "generate", "--config", path, "--language", "klingon")

	var unsupported *lang.UnsupportedError
	assert.ErrorAs(t, err, &unsupported)
}

func TestCommit_PromptedKeyKeepsLaterAnswers(t *testing.T) {
	isolateEnv(t)
	dir, repo := newWorkRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hello\nthere\n"), 0o644))

	srv := modelServer(t, http.StatusOK, `{"choices":[{"message":{"content":"Extend greeting"}}]}`)
	path := serverConfig(t, srv)

	out, err := execute(t, "sk-test\ny\n", "commit", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Commit with this message? [Y/n]")
	assert.NotContains(t, out, "Commit cancelled.")
	assert.Equal(t, "Extend greeting", head(t, repo).Message)

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.APIKey)
}

func TestCommit_MissingExplicitConfig(t *testing.T) {
	isolateEnv(t)
	newWorkRepo(t)

	_, err := execute(t, "", "commit", "-f", "Add notes", "--config", filepath.Join(t.TempDir(), "missing.yaml"))

	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReport(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantOut      string
		wantErr      bool
		wantReported bool
	}{
		{name: "no changes", err: pipeline.ErrNoChanges, wantOut: "📭 No changes to commit."},
		{name: "cancelled", err: review.ErrCancelled, wantOut: "❌ Commit cancelled."},
		{
			name:         "commit failure",
			err:          &pipeline.CommitError{Err: git.ErrNothingToCommit},
			wantOut:      "❌ Error: commit failed: nothing to commit",
			wantErr:      true,
			wantReported: true,
		},
		{name: "other failure", err: errors.New("scan exploded"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			s := &session{out: &out, printer: ui.NewStreamPrinter(&out, ui.WithColor(false))}

			err := s.report(nil, tt.err)
			if !tt.wantErr {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tt.err)
			}
			assert.Equal(t, tt.wantReported, IsReported(err))
			if tt.wantOut != "" {
				assert.Contains(t, out.String(), tt.wantOut)
			} else {
				assert.Empty(t, out.String())
			}
		})
	}
}
