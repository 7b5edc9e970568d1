package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobilindo/lapor-assistant/internal/domain"
)

func setupTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(dir, zerolog.Nop())
	require.NoError(t, err)
	return store, dir
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, _ := setupTestStore(t)

	sess := store.Create("Laporan kebocoran rem di Plant Surabaya")
	sess.Append(domain.RoleUser, "Laporan kebocoran rem di Plant Surabaya")
	sess.Append(domain.RoleBot, "Berikut ringkasannya.")

	require.NoError(t, store.Save(sess))

	loaded, err := store.Load(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess, loaded)
}

func TestLoadMissingSession(t *testing.T) {
	store, _ := setupTestStore(t)

	_, err := store.Load("20250101T000000-00000000")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestLoadPathTraversalIDTreatedAsMissing(t *testing.T) {
	store, _ := setupTestStore(t)

	for _, id := range []string{"", "../etc/passwd", "a/b", "a\\b", "a\x00b"} {
		_, err := store.Load(domain.SessionID(id))
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "id %q", id)
	}
}

func TestLoadCorruptRecord(t *testing.T) {
	store, dir := setupTestStore(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644))
	_, err := store.Load("bad")
	assert.ErrorIs(t, err, domain.ErrSessionCorrupt)

	// Well-formed JSON with an out-of-vocabulary role is also corrupt.
	invalidRole := `{"id":"badrole","title":"t","messages":[{"role":"assistant","content":"x"}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "badrole.json"), []byte(invalidRole), 0o644))
	_, err = store.Load("badrole")
	assert.ErrorIs(t, err, domain.ErrSessionCorrupt)
}

func TestSaveOverwritesUnconditionally(t *testing.T) {
	store, _ := setupTestStore(t)

	sess := store.Create("first")
	sess.Append(domain.RoleUser, "first")
	require.NoError(t, store.Save(sess))

	sess.Append(domain.RoleBot, "reply")
	require.NoError(t, store.Save(sess))

	loaded, err := store.Load(sess.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Messages, 2)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	store, dir := setupTestStore(t)

	sess := store.Create("seed")
	require.NoError(t, store.Save(sess))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".tmp-"), "leftover temp file %s", e.Name())
	}
}

func TestListReturnsReverseIDOrder(t *testing.T) {
	store, _ := setupTestStore(t)

	for _, id := range []string{"s1", "s2", "s3"} {
		sess := &domain.Session{ID: domain.SessionID(id), Title: "session " + id, Messages: []domain.Turn{}}
		require.NoError(t, store.Save(sess))
	}

	summaries, err := store.List()
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, domain.SessionID("s3"), summaries[0].ID)
	assert.Equal(t, domain.SessionID("s2"), summaries[1].ID)
	assert.Equal(t, domain.SessionID("s1"), summaries[2].ID)
}

func TestListSkipsCorruptFiles(t *testing.T) {
	store, dir := setupTestStore(t)

	good := &domain.Session{ID: "good", Title: "good", Messages: []domain.Turn{}}
	require.NoError(t, store.Save(good))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))

	summaries, err := store.List()
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, domain.SessionID("good"), summaries[0].ID)
}

func TestListIgnoresNonSessionFiles(t *testing.T) {
	store, dir := setupTestStore(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.json"), []byte("x"), 0o644))

	summaries, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestGeneratedIDsListMostRecentFirst(t *testing.T) {
	store, _ := setupTestStore(t)

	// Ids carry a timestamp prefix, so explicit prefixes stand in for
	// sessions created across different seconds.
	ids := []domain.SessionID{
		"20250101T000001-aaaaaaaa",
		"20250101T000002-bbbbbbbb",
		"20250101T000003-cccccccc",
	}
	for _, id := range ids {
		require.NoError(t, store.Save(&domain.Session{ID: id, Title: string(id), Messages: []domain.Turn{}}))
	}

	summaries, err := store.List()
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, ids[2], summaries[0].ID)
	assert.Equal(t, ids[0], summaries[2].ID)
}

func TestBackToBackCreatesListInReverseCreationOrder(t *testing.T) {
	store, _ := setupTestStore(t)

	// The nanosecond timestamp prefix must keep ids ordered even when
	// sessions are created within the same second.
	var created []domain.SessionID
	for i := 0; i < 10; i++ {
		sess := store.Create(fmt.Sprintf("message %d", i))
		require.NoError(t, store.Save(sess))
		created = append(created, sess.ID)
	}

	summaries, err := store.List()
	require.NoError(t, err)
	require.Len(t, summaries, len(created))
	for i, summary := range summaries {
		assert.Equal(t, created[len(created)-1-i], summary.ID)
	}
}
