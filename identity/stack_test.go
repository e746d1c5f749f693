package identity

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin  = Profile{ID: "admin", Name: "Admin", Role: RoleAdmin}
	alice  = Profile{ID: "alice", Name: "Alice", Role: RoleCouplePlus}
	bruno  = Profile{ID: "bruno", Name: "Bruno", Role: RoleCoupleFree, AssessorID: "carla"}
	carla  = Profile{ID: "carla", Name: "Carla", Role: RoleAssessorPlus}
	daniel = Profile{ID: "daniel", Name: "Daniel", Role: RoleAssessorFree}
)

func TestStack_NestedImpersonationRestoresOriginal(t *testing.T) {
	s := NewStack(admin)

	s.Impersonate(alice)
	s.Impersonate(bruno)
	assert.Equal(t, bruno, s.Active())
	saved, ok := s.Saved()
	require.True(t, ok)
	assert.Equal(t, admin, saved)
	assert.Equal(t, admin, s.Real())

	require.NoError(t, s.Restore())
	assert.Equal(t, admin, s.Active())
	assert.False(t, s.Impersonating())
	_, ok = s.Saved()
	assert.False(t, ok)
}

func TestStack_RestoreWithoutImpersonationIsRejected(t *testing.T) {
	s := NewStack(admin)
	assert.ErrorIs(t, s.Restore(), ErrNotImpersonating)
	assert.Equal(t, admin, s.Active())
	assert.False(t, s.Impersonating())

	s.Impersonate(alice)
	require.NoError(t, s.Restore())
	assert.ErrorIs(t, s.Restore(), ErrNotImpersonating)
	assert.Equal(t, admin, s.Active())
}

func TestStack_SnapshotLoad(t *testing.T) {
	s := NewStack(admin)
	s.Impersonate(alice)

	raw, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))

	other := NewStack(Profile{})
	other.Load(snap)
	assert.Equal(t, alice, other.Active())
	assert.Equal(t, admin, other.Real())
	require.NoError(t, other.Restore())
	assert.Equal(t, admin, other.Active())

	// o snapshot é uma cópia
	snap.Saved.Name = "mudado"
	assert.Equal(t, "Admin", s.Real().Name)
}

func TestStack_LoadReplacesWholeState(t *testing.T) {
	s := NewStack(admin)
	s.Impersonate(carla)

	s.Load(Snapshot{Active: alice})
	assert.Equal(t, alice, s.Active())
	assert.False(t, s.Impersonating())
	assert.ErrorIs(t, s.Restore(), ErrNotImpersonating)
	assert.Equal(t, alice, s.Real())
}

func TestStack_ConcurrentReaders(t *testing.T) {
	s := NewStack(admin)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				s.Impersonate(alice)
				_ = s.Restore()
				return
			}
			_ = s.Active()
			_ = s.Real()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, admin, s.Real())
}

func TestCanImpersonate(t *testing.T) {
	tests := []struct {
		name   string
		actor  Profile
		target Profile
		want   bool
	}{
		{"admin any couple", admin, alice, true},
		{"admin assessor", admin, carla, true},
		{"self", admin, admin, false},
		{"assessor own client", carla, bruno, true},
		{"assessor other client", daniel, bruno, false},
		{"assessor unmanaged", carla, alice, false},
		{"couple", alice, bruno, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanImpersonate(tt.actor, tt.target))
		})
	}
}
