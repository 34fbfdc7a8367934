package state

import (
	"os"
	"path/filepath"
	"testing"
)

func TestComputeHash(t *testing.T) {
	// Create temp file with known content
	tmpDir := t.TempDir()
	file1 := filepath.Join(tmpDir, "test1.epub")
	file2 := filepath.Join(tmpDir, "test2.epub")
	file3 := filepath.Join(tmpDir, "test1_copy.epub")

	os.WriteFile(file1, []byte("Hello, World!"), 0644)
	os.WriteFile(file2, []byte("Different content"), 0644)
	os.WriteFile(file3, []byte("Hello, World!"), 0644) // Same as file1

	hash1, err := ComputeHash(file1)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}

	hash2, err := ComputeHash(file2)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}

	hash3, err := ComputeHash(file3)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}

	// Same content = same hash
	if hash1 != hash3 {
		t.Errorf("Same content should produce same hash: %s != %s", hash1, hash3)
	}

	// Different content = different hash
	if hash1 == hash2 {
		t.Errorf("Different content should produce different hash")
	}

	// Hash should be 32 hex chars
	if len(hash1) != 32 {
		t.Errorf("Hash should be 32 chars, got %d", len(hash1))
	}
}

func TestClampWPM(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, DefaultWPM},
		{-100, DefaultWPM},
		{49, MinWPM},
		{50, 50},
		{250, 250},
		{1000, 1000},
		{1001, MaxWPM},
	}

	for _, tt := range tests {
		if got := ClampWPM(tt.in); got != tt.want {
			t.Errorf("ClampWPM(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestStoreDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tmpDir)

	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	if got := store.WPM(); got != DefaultWPM {
		t.Errorf("Expected default WPM %d, got %d", DefaultWPM, got)
	}
	if got := store.APIKey(); got != "" {
		t.Errorf("Expected empty API key, got %q", got)
	}
	if _, ok := store.Selection("abcdef1234567890abcdef1234567890"); ok {
		t.Error("Expected no selection for unknown hash")
	}
}

func TestStoreSelectionRoundtrip(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tmpDir)

	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	testHash := "abcdef1234567890abcdef1234567890"

	if err := store.SetSelection(testHash, PageRange{Start: 3, End: 12}); err != nil {
		t.Fatalf("SetSelection failed: %v", err)
	}

	r, ok := store.Selection(testHash)
	if !ok || r.Start != 3 || r.End != 12 {
		t.Errorf("Selection = %+v (%v), want {3 12}", r, ok)
	}

	if err := store.ClearSelection(testHash); err != nil {
		t.Fatalf("ClearSelection failed: %v", err)
	}
	if _, ok := store.Selection(testHash); ok {
		t.Error("Expected selection removed after clear")
	}
}

func TestStorePersistence(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tmpDir)

	testHash := "abcdef1234567890abcdef1234567890"

	store1, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	store1.SetWPM(400)
	store1.SetAPIKey("nvapi-test")
	store1.SetSelection(testHash, PageRange{Start: 1, End: 5})

	// New store instance - should load persisted data
	store2, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	if got := store2.WPM(); got != 400 {
		t.Errorf("Expected WPM 400 from persisted state, got %d", got)
	}
	if got := store2.APIKey(); got != "nvapi-test" {
		t.Errorf("Expected persisted API key, got %q", got)
	}
	r, ok := store2.Selection(testHash)
	if !ok || r.Start != 1 || r.End != 5 {
		t.Errorf("Selection = %+v (%v), want {1 5}", r, ok)
	}
}

func TestStoreWPMClampsOnSave(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tmpDir)

	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	store.SetWPM(5000)
	if got := store.WPM(); got != MaxWPM {
		t.Errorf("Expected WPM clamped to %d, got %d", MaxWPM, got)
	}
}
