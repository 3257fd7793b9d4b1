package bot

import (
	"os"
	"path/filepath"
	"testing"
)

// TestProfileForFallback verifies unknown difficulties fall back to Normal.
func TestProfileForFallback(t *testing.T) {
	if ProfileFor("nightmare") != builtins[Normal] {
		t.Fatal("unknown difficulty did not fall back to normal")
	}
	if ProfileFor(Hard) != builtins[Hard] {
		t.Fatal("known difficulty did not resolve")
	}
}

// TestLoadProfilesOverlay verifies a YAML file overrides only the tiers it
// names.
func TestLoadProfilesOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bots.yaml")
	data := []byte(`easy:
  takeDiscardThreshold: 1
  takeDiscardChance: 0.1
  specialUseChance: 0.2
  pobudkaScoreThreshold: 5
  pobudkaChance: 0.3
  keepDrawnThreshold: 2
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	profiles, err := LoadProfiles(path)
	if err != nil {
		t.Fatalf("LoadProfiles: %v", err)
	}
	if got := profiles[Easy]; got.TakeDiscardThreshold != 1 || got.PobudkaChance != 0.3 {
		t.Fatalf("easy tier not overridden: %+v", got)
	}
	if profiles[Hard] != builtins[Hard] {
		t.Fatal("unnamed tier lost its defaults")
	}
}

// TestLoadProfilesMissingFile verifies a clear error for a bad path.
func TestLoadProfilesMissingFile(t *testing.T) {
	if _, err := LoadProfiles(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
