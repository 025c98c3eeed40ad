package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv is an isolated configuration for command tests.
type testEnv struct {
	configPath  string
	dataDir     string
	wordlistDir string
}

// newTestEnv writes a configuration file with small attack budgets, a
// wordlist directory holding dictionnaire.txt and, when store is true, a
// data directory for the database.
func newTestEnv(t *testing.T, store bool) testEnv {
	t.Helper()

	dir := t.TempDir()
	env := testEnv{
		configPath:  filepath.Join(dir, ".smartpass"),
		dataDir:     filepath.Join(dir, "data"),
		wordlistDir: filepath.Join(dir, "wordlists"),
	}

	if err := os.MkdirAll(env.wordlistDir, 0750); err != nil {
		t.Fatal(err)
	}
	words := "123456\npassword\nhello\n"
	if err := os.WriteFile(filepath.Join(env.wordlistDir, "dictionnaire.txt"), []byte(words), 0600); err != nil {
		t.Fatal(err)
	}

	disabled := "true"
	if store {
		disabled = "false"
	}
	content := `wordlists:
  dir: ` + env.wordlistDir + `
  default: dictionnaire.txt
brute_force:
  charset: ab
  min_length: 1
  max_length: 3
  max_attempts: 1000
  time_budget: 1m
storage:
  data_dir: ` + env.dataDir + `
  disabled: ` + disabled + `
audit:
  concurrency: 2
`
	if err := os.WriteFile(env.configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return env
}

// run executes the root command with args and stdin, prefixed by --config.
func (e testEnv) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
