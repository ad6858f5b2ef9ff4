// Package session owns the per-user preference and pending-text state for
// the bot. All reads and writes go through the Store; no other component
// holds a mutable reference to session data.
package session

import (
	"errors"
	"fmt"
	"sync"
)

// Static errors.
var (
	// ErrUnknownUser indicates an operation referenced a session that was
	// never created. The handlers always ensure a session first, so this is
	// a defensive internal-consistency check.
	ErrUnknownUser = errors.New("unknown user")
	// ErrInvalidOption indicates a preference value outside the closed set
	// of keyboard choices.
	ErrInvalidOption = errors.New("invalid option")
)

// Language is a supported synthesis language.
type Language string

// Supported synthesis languages.
const (
	LanguageHindi   Language = "hi"
	LanguageEnglish Language = "en"
)

// Speed is the requested speaking speed. The synthesis engine only
// distinguishes slow from not-slow; fast is stored but synthesizes the same
// as normal.
type Speed string

// Supported speaking speeds.
const (
	SpeedSlow   Speed = "slow"
	SpeedNormal Speed = "normal"
	SpeedFast   Speed = "fast"
)

// OutputFormat is the requested delivery format.
type OutputFormat string

// Supported delivery formats.
const (
	FormatVoice OutputFormat = "voice"
	FormatAudio OutputFormat = "audio"
)

// Category names one independently toggled preference group.
type Category string

// Preference categories, plus the generate action carried on the same
// button-event shape.
const (
	CategoryLanguage     Category = "language"
	CategorySpeed        Category = "speed"
	CategoryOutputFormat Category = "outputFormat"
	CategoryGenerate     Category = "generate"
)

// Languages returns the supported languages in keyboard order.
func Languages() []Language {
	return []Language{LanguageHindi, LanguageEnglish}
}

// Speeds returns the supported speeds in keyboard order.
func Speeds() []Speed {
	return []Speed{SpeedNormal, SpeedSlow, SpeedFast}
}

// OutputFormats returns the supported delivery formats in keyboard order.
func OutputFormats() []OutputFormat {
	return []OutputFormat{FormatVoice, FormatAudio}
}

// Preferences is one user's full preference set. A session's preferences
// are always fully populated once the session exists.
type Preferences struct {
	Language     Language
	Speed        Speed
	OutputFormat OutputFormat
}

// DefaultPreferences returns the preference set assigned to every new
// session: Hindi, normal speed, voice delivery.
func DefaultPreferences() Preferences {
	return Preferences{
		Language:     LanguageHindi,
		Speed:        SpeedNormal,
		OutputFormat: FormatVoice,
	}
}

// apply sets one preference field after validating the value against the
// category's closed enum.
func (p *Preferences) apply(category Category, value string) error {
	switch category {
	case CategoryLanguage:
		for _, lang := range Languages() {
			if value == string(lang) {
				p.Language = lang

				return nil
			}
		}
	case CategorySpeed:
		for _, speed := range Speeds() {
			if value == string(speed) {
				p.Speed = speed

				return nil
			}
		}
	case CategoryOutputFormat:
		for _, format := range OutputFormats() {
			if value == string(format) {
				p.OutputFormat = format

				return nil
			}
		}
	case CategoryGenerate:
	}

	return fmt.Errorf("%w: %s|%s", ErrInvalidOption, category, value)
}

// Snapshot is a copy of a session taken under its lock. The pipeline works
// on snapshots so that slow external calls never hold session locks.
type Snapshot struct {
	Preferences Preferences
	PendingText string
	HasText     bool
}

// record is one user's session. Its mutex serializes mutations for that
// user; records for different users never contend.
type record struct {
	mu          sync.Mutex
	prefs       Preferences
	pendingText string
	hasText     bool
}

// Store owns all session records, keyed by user ID. Sessions are created
// lazily and live for the process lifetime.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*record
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		mu:       sync.RWMutex{},
		sessions: make(map[string]*record),
	}
}

// lookup returns the record for userID, if any.
func (s *Store) lookup(userID string) (*record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.sessions[userID]

	return rec, ok
}

// ensure returns the record for userID, creating it with default
// preferences if it does not exist yet.
func (s *Store) ensure(userID string) *record {
	rec, ok := s.lookup(userID)
	if ok {
		return rec
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok = s.sessions[userID]
	if !ok {
		rec = &record{
			mu:          sync.Mutex{},
			prefs:       DefaultPreferences(),
			pendingText: "",
			hasText:     false,
		}
		s.sessions[userID] = rec
	}

	return rec
}

// Ensure returns the user's current preferences, creating the session with
// defaults on first contact. Idempotent.
func (s *Store) Ensure(userID string) Preferences {
	rec := s.ensure(userID)

	rec.mu.Lock()
	defer rec.mu.Unlock()

	return rec.prefs
}

// ResetDefaults reinitializes the user's preferences on a fresh welcome
// interaction. Pending text, if any, is deliberately left in place.
func (s *Store) ResetDefaults(userID string) Preferences {
	rec := s.ensure(userID)

	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.prefs = DefaultPreferences()

	return rec.prefs
}

// SetPreference mutates one field of the user's preference set and returns
// the updated set. The session must already exist.
func (s *Store) SetPreference(userID string, category Category, value string) (Preferences, error) {
	rec, ok := s.lookup(userID)
	if !ok {
		return Preferences{}, fmt.Errorf("%w: %s", ErrUnknownUser, userID)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	applyErr := rec.prefs.apply(category, value)
	if applyErr != nil {
		return rec.prefs, applyErr
	}

	return rec.prefs, nil
}

// SetPendingText overwrites the user's stored text, creating the session if
// this is the user's first interaction. Last write wins; no history.
func (s *Store) SetPendingText(userID, text string) {
	rec := s.ensure(userID)

	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.pendingText = text
	rec.hasText = true
}

// PendingText returns the user's stored text and whether any text has been
// stored yet.
func (s *Store) PendingText(userID string) (string, bool) {
	rec, ok := s.lookup(userID)
	if !ok {
		return "", false
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	return rec.pendingText, rec.hasText
}

// Snapshot copies the user's text and preferences under a brief lock so the
// caller can run synthesis without holding any session state.
func (s *Store) Snapshot(userID string) (Snapshot, error) {
	rec, ok := s.lookup(userID)
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrUnknownUser, userID)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	return Snapshot{
		Preferences: rec.prefs,
		PendingText: rec.pendingText,
		HasText:     rec.hasText,
	}, nil
}
