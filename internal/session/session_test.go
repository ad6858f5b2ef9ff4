// Package session_test tests the session store.
package session_test

import (
	"sync"
	"testing"

	"github.com/book-expert/tts-bot/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsure_CreatesDefaults(t *testing.T) {
	t.Parallel()

	store := session.NewStore()

	prefs := store.Ensure("user-1")

	assert.Equal(t, session.LanguageHindi, prefs.Language)
	assert.Equal(t, session.SpeedNormal, prefs.Speed)
	assert.Equal(t, session.FormatVoice, prefs.OutputFormat)
}

func TestEnsure_Idempotent(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	store.Ensure("user-1")

	_, err := store.SetPreference("user-1", session.CategoryLanguage, "en")
	require.NoError(t, err)

	// A second Ensure must return the existing session, not a fresh one.
	prefs := store.Ensure("user-1")
	assert.Equal(t, session.LanguageEnglish, prefs.Language)
}

func TestSetPreference_LastWriteWinsPerField(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	store.Ensure("user-1")

	_, err := store.SetPreference("user-1", session.CategorySpeed, "slow")
	require.NoError(t, err)

	_, err = store.SetPreference("user-1", session.CategorySpeed, "fast")
	require.NoError(t, err)

	prefs, err := store.SetPreference("user-1", session.CategoryOutputFormat, "audio")
	require.NoError(t, err)

	assert.Equal(t, session.SpeedFast, prefs.Speed)
	assert.Equal(t, session.FormatAudio, prefs.OutputFormat)
	assert.Equal(t, session.LanguageHindi, prefs.Language, "untouched field keeps its value")
}

func TestSetPreference_UnknownUser(t *testing.T) {
	t.Parallel()

	store := session.NewStore()

	_, err := store.SetPreference("ghost", session.CategoryLanguage, "en")
	require.ErrorIs(t, err, session.ErrUnknownUser)
}

func TestSetPreference_InvalidOption(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	store.Ensure("user-1")

	_, err := store.SetPreference("user-1", session.CategoryLanguage, "fr")
	require.ErrorIs(t, err, session.ErrInvalidOption)

	_, err = store.SetPreference("user-1", session.Category("volume"), "loud")
	require.ErrorIs(t, err, session.ErrInvalidOption)

	// A rejected event leaves the session untouched.
	prefs := store.Ensure("user-1")
	assert.Equal(t, session.DefaultPreferences(), prefs)
}

func TestResetDefaults_KeepsPendingText(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	store.SetPendingText("user-1", "hello world")

	_, err := store.SetPreference("user-1", session.CategoryLanguage, "en")
	require.NoError(t, err)

	prefs := store.ResetDefaults("user-1")
	assert.Equal(t, session.DefaultPreferences(), prefs)

	text, hasText := store.PendingText("user-1")
	assert.True(t, hasText)
	assert.Equal(t, "hello world", text)
}

func TestSetPendingText_LastWriteWins(t *testing.T) {
	t.Parallel()

	store := session.NewStore()

	_, hasText := store.PendingText("user-1")
	assert.False(t, hasText, "no text before the first message")

	store.SetPendingText("user-1", "first")
	store.SetPendingText("user-1", "second")

	text, hasText := store.PendingText("user-1")
	assert.True(t, hasText)
	assert.Equal(t, "second", text)
}

func TestSnapshot_CopiesState(t *testing.T) {
	t.Parallel()

	store := session.NewStore()

	_, err := store.Snapshot("ghost")
	require.ErrorIs(t, err, session.ErrUnknownUser)

	store.SetPendingText("user-1", "hello")

	snapshot, err := store.Snapshot("user-1")
	require.NoError(t, err)

	// Mutating the session after the snapshot must not change the copy.
	store.SetPendingText("user-1", "changed")

	assert.Equal(t, "hello", snapshot.PendingText)
	assert.True(t, snapshot.HasText)
	assert.Equal(t, session.DefaultPreferences(), snapshot.Preferences)
}

func TestStore_ConcurrentMutations(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	store.Ensure("user-a")
	store.Ensure("user-b")

	const iterations = 200

	var waitGroup sync.WaitGroup

	for range iterations {
		waitGroup.Add(2)

		go func() {
			defer waitGroup.Done()

			_, err := store.SetPreference("user-a", session.CategorySpeed, "slow")
			assert.NoError(t, err)
		}()

		go func() {
			defer waitGroup.Done()

			_, err := store.SetPreference("user-b", session.CategoryLanguage, "en")
			assert.NoError(t, err)
		}()
	}

	waitGroup.Wait()

	prefsA := store.Ensure("user-a")
	prefsB := store.Ensure("user-b")

	assert.Equal(t, session.SpeedSlow, prefsA.Speed)
	assert.Equal(t, session.LanguageHindi, prefsA.Language, "no cross-user leakage")
	assert.Equal(t, session.LanguageEnglish, prefsB.Language)
	assert.Equal(t, session.SpeedNormal, prefsB.Speed, "no cross-user leakage")
}
