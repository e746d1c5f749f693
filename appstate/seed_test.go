package appstate

import (
	"strings"
	"testing"
	"time"

	"planner-core/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeed(t *testing.T) {
	const doc = `
users:
  - id: root
    name: Raiz
    role: Administrador
  - id: ana
    name: Ana
    role: Noivo+
    assessorId: bia
invoices:
  - id: inv-1
    userId: ana
    amount: 120.5
    status: Pago
    date: 2026-03-01T00:00:00Z
`
	seed, err := LoadSeed(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, seed.Users, 2)
	assert.Equal(t, "bia", seed.Users[1].AssessorID)
	assert.Equal(t, "root", seed.defaultIdentity().ID)

	require.Len(t, seed.Invoices, 1)
	assert.Equal(t, InvoicePaid, seed.Invoices[0].Status)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), seed.Invoices[0].Date)
}

func TestLoadSeed_Errors(t *testing.T) {
	_, err := LoadSeed(strings.NewReader("users:\n  - id: x\n    name: X\n    role: Rei\n"))
	assert.ErrorContains(t, err, "unknown role")

	_, err = LoadSeed(strings.NewReader("users:\n  - name: X\n    role: Administrador\n"))
	assert.Error(t, err)

	_, err = LoadSeed(strings.NewReader("users: ["))
	assert.Error(t, err)
}

func TestLoadSeed_EmptyFallsBackToDefault(t *testing.T) {
	seed, err := LoadSeed(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultSeed(), seed)
	assert.Equal(t, identity.RoleAdmin, seed.defaultIdentity().Role)
}

func TestSeed_WithoutAdminUsesBuiltin(t *testing.T) {
	s := Seed{Users: []identity.Profile{{ID: "ana", Name: "Ana", Role: identity.RoleCouplePlus}}}
	assert.Equal(t, defaultAdmin, s.defaultIdentity())
}
