package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/BlockPaint/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	for _, name := range []string{"config.json", "config.toml"} {
		dir := t.TempDir()
		path := filepath.Join(dir, name)

		cfg := model.DefaultAppConfig()
		cfg.DefaultWorkers = 6
		cfg.DefaultSampler = model.SampleMean
		cfg.Genetic.MutationRate = 0.35
		cfg.RecentRuns = []string{"run-a", "run-b"}

		if err := SaveAppConfig(path, cfg); err != nil {
			t.Fatalf("%s: SaveAppConfig failed: %v", name, err)
		}

		loaded, err := LoadAppConfig(path)
		if err != nil {
			t.Fatalf("%s: LoadAppConfig failed: %v", name, err)
		}

		if loaded.DefaultWorkers != 6 {
			t.Errorf("%s: expected DefaultWorkers=6, got %d", name, loaded.DefaultWorkers)
		}
		if loaded.DefaultSampler != model.SampleMean {
			t.Errorf("%s: expected DefaultSampler=mean, got %s", name, loaded.DefaultSampler)
		}
		if loaded.Genetic.MutationRate != 0.35 {
			t.Errorf("%s: expected MutationRate=0.35, got %f", name, loaded.Genetic.MutationRate)
		}
		if len(loaded.RecentRuns) != 2 {
			t.Errorf("%s: expected 2 recent runs, got %d", name, len(loaded.RecentRuns))
		}
	}
}

func TestLoadAppConfigTOMLKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := []byte("resources_dir = \"/data/images\"\n\n[genetic]\ngenerations = 5\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.ResourcesDir != "/data/images" {
		t.Errorf("expected ResourcesDir=/data/images, got %s", cfg.ResourcesDir)
	}
	if cfg.Genetic.Generations != 5 {
		t.Errorf("expected Generations=5, got %d", cfg.Genetic.Generations)
	}
	if cfg.Genetic.PopulationSize != model.DefaultGeneticConfig().PopulationSize {
		t.Errorf("expected default PopulationSize, got %d", cfg.Genetic.PopulationSize)
	}
	if cfg.OutputDir != "out" {
		t.Errorf("expected default OutputDir=out, got %s", cfg.OutputDir)
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	defaults := model.DefaultAppConfig()
	if cfg.DefaultSampleStride != defaults.DefaultSampleStride {
		t.Errorf("expected default stride %d, got %d", defaults.DefaultSampleStride, cfg.DefaultSampleStride)
	}
	if cfg.InitialDir != ".." {
		t.Errorf("expected initial dir .., got %s", cfg.InitialDir)
	}
}

func TestLoadAppConfigInvalidFile(t *testing.T) {
	for _, name := range []string{"config.json", "config.toml"} {
		path := filepath.Join(t.TempDir(), name)
		if err := os.WriteFile(path, []byte("not valid {{{ = ["), 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadAppConfig(path); err == nil {
			t.Fatalf("%s: expected error for invalid file, got nil", name)
		}
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "dir", "config.toml")

	cfg := model.DefaultAppConfig()
	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestLoadAppConfigNilRecentRuns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	data := []byte(`{"default_workers":2,"recent_runs":null}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.RecentRuns == nil {
		t.Error("RecentRuns should not be nil after loading")
	}
}
