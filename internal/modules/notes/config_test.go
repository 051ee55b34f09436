package notes

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig(nil)
	if cfg != DefaultConfig() {
		t.Fatalf("LoadConfig without overrides = %+v, want defaults %+v", cfg, DefaultConfig())
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("NOTES_MIN_WORDS", "40")
	t.Setenv("NOTES_MAX_WORDS", "160")
	t.Setenv("NOTES_SIMILARITY_THRESHOLD", "0.5")
	t.Setenv("NOTES_MAX_TOPIC_PERCENTAGE", "0.4")
	t.Setenv("NOTES_EXPAND_BULLETS", "false")

	cfg := LoadConfig(nil)
	if cfg.MinWords != 40 || cfg.MaxWords != 160 {
		t.Fatalf("word bounds not overridden: %+v", cfg)
	}
	if cfg.SimilarityThreshold != 0.5 {
		t.Fatalf("SimilarityThreshold = %f, want 0.5", cfg.SimilarityThreshold)
	}
	if cfg.MaxTopicPercentage != 0.4 {
		t.Fatalf("MaxTopicPercentage = %f, want 0.4", cfg.MaxTopicPercentage)
	}
	if cfg.ExpandNotes {
		t.Fatal("ExpandNotes should be disabled by env")
	}
	// Untouched keys keep their defaults.
	if cfg.TargetSize != DefaultConfig().TargetSize {
		t.Fatalf("TargetSize changed unexpectedly: %d", cfg.TargetSize)
	}
}

func TestLoadConfigYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.yaml")
	yaml := "min_words: 25\ntarget_size: 90\nmin_cluster_size: 6\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("STUDYFORGE_CONFIG", path)

	cfg := LoadConfig(nil)
	if cfg.MinWords != 25 || cfg.TargetSize != 90 || cfg.MinClusterSize != 6 {
		t.Fatalf("yaml overlay not applied: %+v", cfg)
	}
	if cfg.MaxWords != DefaultConfig().MaxWords {
		t.Fatalf("keys absent from yaml must keep defaults: %+v", cfg)
	}
}

func TestLoadConfigEnvWinsOverYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.yaml")
	if err := os.WriteFile(path, []byte("min_words: 25\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("STUDYFORGE_CONFIG", path)
	t.Setenv("NOTES_MIN_WORDS", "55")

	cfg := LoadConfig(nil)
	if cfg.MinWords != 55 {
		t.Fatalf("env must win over yaml, got %d", cfg.MinWords)
	}
}
