package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
)

const (
	settingsFileName = "settings.json"
	hashBytes        = 8192 // First 8KB for content hash
)

// Reading-speed bounds. Values outside the range clamp; non-positive values
// fall back to the default.
const (
	DefaultWPM = 250
	MinWPM     = 50
	MaxWPM     = 1000
)

// PageRange is a saved 1-based inclusive page selection.
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Settings is the persisted user configuration plus per-book selections
// keyed by content hash.
type Settings struct {
	WPM        int                  `json:"wpm"`
	APIKey     string               `json:"api_key,omitempty"`
	Selections map[string]PageRange `json:"selections"`
}

// Store manages persistent settings
type Store struct {
	path string
	data Settings
	mu   sync.RWMutex
}

// NewStore creates or loads settings from XDG_STATE_HOME/bookxray/
func NewStore() (*Store, error) {
	dir := getStateDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	store := &Store{
		path: filepath.Join(dir, settingsFileName),
		data: defaultSettings(),
	}
	if err := store.load(); err != nil {
		// Non-fatal - start with defaults
		store.data = defaultSettings()
	}
	return store, nil
}

func defaultSettings() Settings {
	return Settings{WPM: DefaultWPM, Selections: make(map[string]PageRange)}
}

// getStateDir returns XDG_STATE_HOME/bookxray or ~/.local/state/bookxray
func getStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "bookxray")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "bookxray")
}

// ComputeHash generates content hash for file identity
func ComputeHash(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, hashBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}

	hash := sha256.Sum256(buf[:n])
	return hex.EncodeToString(hash[:16]), nil // First 16 bytes = 32 hex chars
}

// ClampWPM normalizes a reading speed into [MinWPM, MaxWPM]. Non-positive
// input returns the default.
func ClampWPM(wpm int) int {
	switch {
	case wpm <= 0:
		return DefaultWPM
	case wpm < MinWPM:
		return MinWPM
	case wpm > MaxWPM:
		return MaxWPM
	default:
		return wpm
	}
}

// WPM returns the saved reading speed, normalized.
func (s *Store) WPM() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ClampWPM(s.data.WPM)
}

// SetWPM saves the reading speed, clamped.
func (s *Store) SetWPM(wpm int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.WPM = ClampWPM(wpm)
	return s.save()
}

// APIKey returns the saved provider key, empty if none.
func (s *Store) APIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.APIKey
}

// SetAPIKey saves the provider key.
func (s *Store) SetAPIKey(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.APIKey = key
	return s.save()
}

// Selection returns the saved page range for a book hash, if any.
func (s *Store) Selection(hash string) (PageRange, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.data.Selections[hash]
	return r, ok
}

// SetSelection saves the page range for a book hash.
func (s *Store) SetSelection(hash string, r PageRange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Selections[hash] = r
	return s.save()
}

// ClearSelection removes the saved range for a book hash.
func (s *Store) ClearSelection(hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data.Selections, hash)
	return s.save()
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, &s.data); err != nil {
		return err
	}
	if s.data.Selections == nil {
		s.data.Selections = make(map[string]PageRange)
	}
	return nil
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
