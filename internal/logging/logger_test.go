package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetState() {
	CloseAll()
	loggers = make(map[Category]*Logger)
	logsDir = ""
	homeDir = ""
	configLoaded = false
	config = loggingConfig{}
}

// TestCategoriesLog tests that categories create log files when debug_mode is true
func TestCategoriesLog(t *testing.T) {
	tempDir := t.TempDir()

	configContent := `logging:
  debug_mode: true
  level: debug
  categories:
    boot: true
    session: true
    store: true
    search: true
    progress: true
    generation: true
    attach: true
`
	if err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	resetState()
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	if !IsDebugMode() {
		t.Error("Expected debug mode to be enabled")
	}

	categories := []Category{
		CategoryBoot, CategorySession, CategoryStore, CategorySearch,
		CategoryProgress, CategoryGeneration, CategoryAttach,
	}
	for _, cat := range categories {
		Get(cat).Info("test entry for %s", cat)
	}
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(tempDir, "logs"))
	if err != nil {
		t.Fatalf("Failed to read logs dir: %v", err)
	}
	found := make(map[string]bool)
	for _, e := range entries {
		for _, cat := range categories {
			if strings.Contains(e.Name(), string(cat)) {
				found[string(cat)] = true
			}
		}
	}
	for _, cat := range categories {
		if !found[string(cat)] {
			t.Errorf("No log file created for category %s", cat)
		}
	}
}

// TestProductionModeNoLogs tests that nothing is written when debug_mode is off
func TestProductionModeNoLogs(t *testing.T) {
	tempDir := t.TempDir()

	resetState()
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	if IsDebugMode() {
		t.Error("Expected production mode with no config file")
	}

	Session("should be discarded")
	StoreError("also discarded")

	if _, err := os.Stat(filepath.Join(tempDir, "logs")); !os.IsNotExist(err) {
		t.Error("Logs directory should not exist in production mode")
	}
}

// TestCategoryFilter tests that disabled categories stay silent
func TestCategoryFilter(t *testing.T) {
	tempDir := t.TempDir()

	configContent := `logging:
  debug_mode: true
  level: info
  categories:
    session: true
    store: false
`
	if err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	resetState()
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	if !IsCategoryEnabled(CategorySession) {
		t.Error("session category should be enabled")
	}
	if IsCategoryEnabled(CategoryStore) {
		t.Error("store category should be disabled")
	}
	// Unlisted categories default to enabled
	if !IsCategoryEnabled(CategorySearch) {
		t.Error("unlisted category should default to enabled")
	}
}

func TestTimer(t *testing.T) {
	resetState()
	timer := StartTimer(CategorySearch, "scan")
	if d := timer.Stop(); d < 0 {
		t.Errorf("Timer returned negative duration: %v", d)
	}
}
