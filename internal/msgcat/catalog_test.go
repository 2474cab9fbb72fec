package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedDefaults(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("error.room_not_found", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got == "" {
		t.Fatalf("empty message for error.room_not_found")
	}
	long, err := c.Render("error.chat_too_long", map[string]any{"Max": 500})
	if err != nil {
		t.Fatalf("render chat_too_long: %v", err)
	}
	if !strings.Contains(long, "500") {
		t.Fatalf("rendered %q, want the limit interpolated", long)
	}
}

func TestUnknownKeyIsError(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Render("error.no_such_key", nil); err == nil {
		t.Fatalf("unknown key rendered without error")
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	override := "error:\n  room_not_found: \"No such room, friend.\"\n"
	if err := os.WriteFile(filepath.Join(dir, "10-local.yaml"), []byte(override), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("error.room_not_found", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "No such room, friend." {
		t.Fatalf("override not applied: %q", got)
	}
	// untouched keys keep their embedded defaults
	if _, err := c.Render("error.internal", nil); err != nil {
		t.Fatalf("default lost after override: %v", err)
	}
}
