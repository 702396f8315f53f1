package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunRejectsUnreadableList(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"run", filepath.Join(t.TempDir(), "missing.json")}, env.configPath)
	if err == nil {
		t.Fatal("expected error for missing list file")
	}
}

func TestRunRequiresCredential(t *testing.T) {
	env := setupCLITestEnv(t)

	listPath := filepath.Join(t.TempDir(), "videos.json")
	list := `["https://www.youtube.com/watch?v=vid1"]`
	if err := os.WriteFile(listPath, []byte(list), 0o644); err != nil {
		t.Fatal(err)
	}

	env.cfg.Transcription.APIKey = ""
	configPath := filepath.Join(t.TempDir(), "scribe.toml")
	writeTestConfig(t, configPath, env.cfg)
	t.Setenv("ASSEMBLYAI_API_KEY", "")
	t.Setenv("WHISPER_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	_, _, err := runCLI(t, []string{"run", listPath}, configPath)
	if err == nil {
		t.Fatal("expected credential error")
	}
}
