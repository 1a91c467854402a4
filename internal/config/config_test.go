package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestPathRespectsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	want := filepath.Join(dir, "doifind", "config.yml")
	if got := Path(); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("PUBMED_API_KEY", "")
	t.Setenv("CROSSREF_MAILTO", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if *cfg != (Config{}) {
		t.Errorf("Load() = %+v, want zero config", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("PUBMED_API_KEY", "")
	t.Setenv("CROSSREF_MAILTO", "")

	cfg := &Config{
		PubMedAPIKey:     "key123",
		CrossRefMailto:   "me@example.org",
		RequestDelayMS:   250,
		CitationTimeoutS: 30,
		JobTimeoutMin:    5,
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Load() = %+v, want %+v", loaded, cfg)
	}

	if loaded.RequestDelay() != 250*time.Millisecond {
		t.Errorf("RequestDelay() = %v", loaded.RequestDelay())
	}
	if loaded.CitationTimeout() != 30*time.Second {
		t.Errorf("CitationTimeout() = %v", loaded.CitationTimeout())
	}
	if loaded.JobTimeout() != 5*time.Minute {
		t.Errorf("JobTimeout() = %v", loaded.JobTimeout())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{PubMedAPIKey: "from-file", CrossRefMailto: "file@example.org"}
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PUBMED_API_KEY", "from-env")
	t.Setenv("CROSSREF_MAILTO", "env@example.org")

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.PubMedAPIKey != "from-env" {
		t.Errorf("PubMedAPIKey = %q, want env override", loaded.PubMedAPIKey)
	}
	if loaded.CrossRefMailto != "env@example.org" {
		t.Errorf("CrossRefMailto = %q, want env override", loaded.CrossRefMailto)
	}
}
