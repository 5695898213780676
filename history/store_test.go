package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestAppendAndRecent(t *testing.T) {
	store := openTestStore(t)

	first, err := store.Append(Entry{
		Kind:       KindTranslate,
		SourceText: "hello",
		ResultText: "こんにちは",
		TargetLang: "Japanese",
		Style:      "ビジネス",
		ModelType:  "gpt",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	second, err := store.Append(Entry{
		Kind:       KindProofread,
		SourceText: "their going",
		ResultText: "they're going",
		Style:      "同僚",
		ModelType:  "claude",
	})
	require.NoError(t, err)

	entries, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, first.ID, entries[1].ID)
	assert.Equal(t, "こんにちは", entries[1].ResultText)
	assert.Equal(t, KindProofread, entries[0].Kind)
}

func TestRecentLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		_, err := store.Append(Entry{Kind: KindTranslate, SourceText: "s", ResultText: "r", TargetLang: "English", ModelType: "gpt"})
		require.NoError(t, err)
	}

	entries, err := store.Recent(3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestLookup(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Append(Entry{
		Kind:       KindTranslate,
		SourceText: "hello",
		ResultText: "stale",
		TargetLang: "Japanese",
		Style:      "ビジネス",
		ModelType:  "gpt",
	})
	require.NoError(t, err)

	latest, err := store.Append(Entry{
		Kind:       KindTranslate,
		SourceText: "hello",
		ResultText: "こんにちは",
		TargetLang: "Japanese",
		Style:      "ビジネス",
		ModelType:  "gpt",
	})
	require.NoError(t, err)

	got, err := store.Lookup("hello", "Japanese", "ビジネス", "gpt")
	require.NoError(t, err)
	assert.Equal(t, latest.ResultText, got.ResultText)

	// Any differing tuple member is a miss.
	_, err = store.Lookup("hello", "Korean", "ビジネス", "gpt")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Lookup("hello", "Japanese", "友人", "gpt")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Lookup("hello", "Japanese", "ビジネス", "claude")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookupIgnoresProofreadEntries(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Append(Entry{
		Kind:       KindProofread,
		SourceText: "hello",
		ResultText: "hello.",
		TargetLang: "Japanese",
		Style:      "ビジネス",
		ModelType:  "gpt",
	})
	require.NoError(t, err)

	_, err = store.Lookup("hello", "Japanese", "ビジネス", "gpt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPrune(t *testing.T) {
	store := openTestStore(t)

	var last Entry
	for i := 0; i < 10; i++ {
		var err error
		last, err = store.Append(Entry{Kind: KindTranslate, SourceText: "s", ResultText: "r", TargetLang: "English", ModelType: "gpt"})
		require.NoError(t, err)
	}

	require.NoError(t, store.Prune(4))

	entries, err := store.Recent(100)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, last.ID, entries[0].ID)
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "history.db")

	store, err := Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Append(Entry{Kind: KindTranslate, SourceText: "s", ResultText: "r"})
	assert.NoError(t, err)
}
