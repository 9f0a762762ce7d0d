// Package settings loads the XML settings file carrying the visual theme and
// the admin credentials. Loaded settings are immutable snapshots: a reload
// parses a fresh value and swaps it in atomically, so readers always see a
// fully-formed version and never a partially-updated one.
package settings

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
)

// Theme holds the presentation colors and font served to the frontend.
type Theme struct {
	Bg        string `xml:"bg" json:"bg"`
	Text      string `xml:"text" json:"text"`
	Accent    string `xml:"accent" json:"accent"`
	BtnBg     string `xml:"btn_bg" json:"btn_bg"`
	BtnText   string `xml:"btn_text" json:"btn_text"`
	Container string `xml:"container" json:"container"`
	Border    string `xml:"border" json:"border"`
	Font      string `xml:"font" json:"font"`
}

// Security holds the admin credentials. PasswordHash, when present, is a
// bcrypt hash and takes precedence over the plaintext Password element.
type Security struct {
	AdminUsername     string `xml:"admin_username"`
	AdminPassword     string `xml:"admin_password"`
	AdminPasswordHash string `xml:"admin_password_hash"`
}

// Settings is one immutable snapshot of the settings file.
type Settings struct {
	XMLName  xml.Name `xml:"config"`
	Theme    Theme    `xml:"theme"`
	Security Security `xml:"security"`
}

// Defaults returns the settings used when the file is absent or elements are
// missing from it.
func Defaults() *Settings {
	return &Settings{
		Theme: Theme{
			Bg:        "#f8f9fa",
			Text:      "#212529",
			Accent:    "#0d6efd",
			BtnBg:     "#0d6efd",
			BtnText:   "#ffffff",
			Container: "#ffffff",
			Border:    "#dee2e6",
			Font:      "system-ui, sans-serif",
		},
		Security: Security{
			AdminUsername: "admin",
			AdminPassword: "TXJXb2JiaW5z",
		},
	}
}

// Load parses the settings file at path. Elements missing from the file keep
// their default values; a missing or unparseable file yields the defaults
// along with the error so the caller can log and keep running.
func Load(path string) (*Settings, error) {
	s := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("failed to read settings file: %w", err)
	}
	// Unmarshal on top of the defaults: elements absent from the XML leave
	// the default field values untouched.
	if err := xml.Unmarshal(data, s); err != nil {
		return Defaults(), fmt.Errorf("failed to parse settings file: %w", err)
	}

	s.Security.AdminUsername = strings.TrimSpace(s.Security.AdminUsername)
	s.Security.AdminPassword = strings.TrimSpace(s.Security.AdminPassword)
	s.Security.AdminPasswordHash = strings.TrimSpace(s.Security.AdminPasswordHash)
	return s, nil
}

// Manager hands out the current settings snapshot and swaps in new ones.
type Manager struct {
	path    string
	current atomic.Pointer[Settings]
}

// NewManager creates a Manager for the settings file at path and performs the
// initial load. Load errors fall back to defaults and are returned so the
// caller can decide whether they matter.
func NewManager(path string) (*Manager, error) {
	m := &Manager{path: path}
	s, err := Load(path)
	m.current.Store(s)
	return m, err
}

// Current returns the active settings snapshot. The returned value must be
// treated as read-only.
func (m *Manager) Current() *Settings {
	return m.current.Load()
}

// Replace writes the uploaded settings document to disk, re-parses it, and
// atomically swaps the active snapshot. On a parse failure the previous
// snapshot stays active.
func (m *Manager) Replace(data []byte) error {
	fresh := Defaults()
	if err := xml.Unmarshal(data, fresh); err != nil {
		return fmt.Errorf("failed to parse settings file: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save settings file: %w", err)
	}

	fresh.Security.AdminUsername = strings.TrimSpace(fresh.Security.AdminUsername)
	fresh.Security.AdminPassword = strings.TrimSpace(fresh.Security.AdminPassword)
	fresh.Security.AdminPasswordHash = strings.TrimSpace(fresh.Security.AdminPasswordHash)
	m.current.Store(fresh)
	return nil
}
