// Package settings holds the application settings document: a flat schema
// persisted wholesale as JSON at a well-known path and overwritten wholesale
// on save. Presentation values are applied through an explicit Applier
// instead of ambient global mutation.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Settings is the full application settings document.
type Settings struct {
	APIKey           string `json:"apiKey"`
	Theme            string `json:"theme"`
	PrimaryColor     string `json:"primaryColor"`
	SecondaryColor   string `json:"secondaryColor"`
	FontFamily       string `json:"fontFamily"`
	FontSize         int    `json:"fontSize"`
	AutoProcess      bool   `json:"autoProcess"`
	QualityLevel     string `json:"qualityLevel"`
	SpeakerDetection string `json:"speakerDetection"`
	ExportFormat     string `json:"exportFormat"`
}

// Defaults returns the out-of-the-box settings document.
func Defaults() Settings {
	return Settings{
		Theme:            "light",
		PrimaryColor:     "#5B47E0",
		SecondaryColor:   "#8B7FE8",
		FontFamily:       "Inter",
		FontSize:         14,
		AutoProcess:      true,
		QualityLevel:     "high",
		SpeakerDetection: "auto",
		ExportFormat:     "txt",
	}
}

// Validate checks the closed-set fields. Free-form fields (API key, colors)
// are accepted as-is.
func (s Settings) Validate() error {
	switch s.Theme {
	case "light", "dark":
	default:
		return fmt.Errorf("settings: unknown theme %q", s.Theme)
	}
	switch s.QualityLevel {
	case "low", "medium", "high":
	default:
		return fmt.Errorf("settings: unknown quality level %q", s.QualityLevel)
	}
	switch s.SpeakerDetection {
	case "auto", "manual", "off":
	default:
		return fmt.Errorf("settings: unknown speaker detection %q", s.SpeakerDetection)
	}
	switch s.ExportFormat {
	case "txt", "pdf", "docx":
	default:
		return fmt.Errorf("settings: unknown export format %q", s.ExportFormat)
	}
	if s.FontSize < 8 || s.FontSize > 32 {
		return fmt.Errorf("settings: font size %d out of range", s.FontSize)
	}
	return nil
}

// Applier receives the settings document after a successful save. The SPA
// applies theme and font document-level styles; server-side listeners react
// to processing defaults.
type Applier interface {
	Apply(Settings)
}

// ApplierFunc adapts a function to the Applier interface.
type ApplierFunc func(Settings)

// Apply implements Applier.
func (f ApplierFunc) Apply(s Settings) { f(s) }

// Store persists the settings document on disk.
type Store struct {
	mu       sync.RWMutex
	path     string
	current  Settings
	appliers []Applier
}

// NewStore loads the settings document from path, falling back to defaults
// when no document exists yet.
func NewStore(path string) (*Store, error) {
	st := &Store{path: path, current: Defaults()}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	// Decode over the defaults so older documents missing newer keys keep
	// the default values for them.
	if err := json.Unmarshal(data, &st.current); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	return st, nil
}

// Subscribe registers an applier invoked on every successful save.
func (s *Store) Subscribe(a Applier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appliers = append(s.appliers, a)
}

// Get returns the current settings document.
func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Save validates, persists and applies a whole settings document. The
// previous document stays in effect when validation or the write fails.
func (s *Store) Save(next Settings) error {
	if err := next.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}

	s.mu.Lock()
	s.current = next
	appliers := append([]Applier(nil), s.appliers...)
	s.mu.Unlock()

	for _, a := range appliers {
		a.Apply(next)
	}
	return nil
}
