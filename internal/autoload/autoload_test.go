package autoload_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"doomctl/internal/autoload"
)

func TestLoadCreatesTemplateWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autoloads.json")

	loads, err := autoload.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loads.Universal) != 0 {
		t.Fatalf("template should carry no universal entries, got %v", loads.Universal)
	}
	if _, ok := loads.IWAD["_example"]; ok {
		t.Fatal("template example keys should be stripped")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("template file should have been written: %v", err)
	}

	// A second load reads the written template back.
	if _, err := autoload.Load(path); err != nil {
		t.Fatalf("reload: %v", err)
	}
}

func TestForGameMergesScopes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autoloads.json")
	content := `{
		"universal": ["always.wad"],
		"sourceport": {"dsda-doom": ["dsda-extras.wad"]},
		"iwad": {"doom2": ["d2only.wad"], "doom": ["d1only.wad"]}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write autoloads: %v", err)
	}

	loads, err := autoload.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	got := loads.ForGame("dsda-doom", "doom2")
	want := []string{"always.wad", "dsda-extras.wad", "d2only.wad"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("merge mismatch:\n got %v\nwant %v", got, want)
	}

	if got := loads.ForGame("gzdoom", "tnt"); !reflect.DeepEqual(got, []string{"always.wad"}) {
		t.Fatalf("unscoped game should only get universal entries, got %v", got)
	}
}

func TestLoadRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autoloads.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("write autoloads: %v", err)
	}
	if _, err := autoload.Load(path); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
