package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAsk_RejectsInvalidConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("reflect_target: oracle\n"), 0644); err != nil {
		t.Fatal(err)
	}
	configFile = path
	defer func() { configFile = "" }()

	cmd := askCmd()
	err := cmd.RunE(cmd, []string{"how many students are enrolled"})
	if err == nil {
		t.Fatal("ask should reject an invalid reflect_target")
	}
	if !strings.Contains(err.Error(), "reflect_target") {
		t.Errorf("error = %v, want mention of reflect_target", err)
	}
}
