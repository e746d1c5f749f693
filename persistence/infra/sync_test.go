package infra

import (
	"path/filepath"
	"testing"

	"planner-core/persistence/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseSyncStore(t *testing.T, s domain.SyncStore) {
	t.Helper()

	_, err := s.Get("ci_tasks")
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.Put("ci_tasks", []byte(`{"v":1,"data":[]}`)))
	require.NoError(t, s.Put("ci_tasks", []byte(`{"v":1,"data":["x"]}`)))

	got, err := s.Get("ci_tasks")
	require.NoError(t, err)
	assert.Equal(t, `{"v":1,"data":["x"]}`, string(got))

	require.NoError(t, s.Delete("ci_tasks"))
	_, err = s.Get("ci_tasks")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemorySyncStore(t *testing.T) {
	exerciseSyncStore(t, NewMemorySyncStore())
}

func TestMemorySyncStore_CopiesValues(t *testing.T) {
	s := NewMemorySyncStore()
	buf := []byte("abc")
	require.NoError(t, s.Put("k", buf))
	buf[0] = 'z'

	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestBoltStore(t *testing.T) {
	s, err := OpenBolt(filepath.Join(t.TempDir(), "sync.db"))
	require.NoError(t, err)
	defer s.Close()

	exerciseSyncStore(t, s)
}

func TestBoltStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync.db")
	s, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, s.Put("ci_theme", []byte(`{"v":1,"data":"light"}`)))
	require.NoError(t, s.Close())

	s, err = OpenBolt(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get("ci_theme")
	require.NoError(t, err)
	assert.Equal(t, `{"v":1,"data":"light"}`, string(got))
}

func TestOpenBolt_RequiresPath(t *testing.T) {
	_, err := OpenBolt("  ")
	require.Error(t, err)
}
