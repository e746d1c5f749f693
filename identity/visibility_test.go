package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisibility(t *testing.T) {
	for _, m := range Modules {
		assert.Equal(t, Access{Visible: true}, Visibility(RoleAdmin, m), m)
	}

	assert.Equal(t, Access{Visible: true}, Visibility(RoleCoupleFree, ModuleChat))
	assert.Equal(t, Access{Visible: true, Locked: true}, Visibility(RoleCoupleFree, ModuleGuests))
	assert.Equal(t, Access{Visible: true, Locked: true}, Visibility(RoleCoupleFree, ModuleSuppliers))
	assert.Equal(t, Access{}, Visibility(RoleCoupleFree, ModuleDashboard))

	assert.Equal(t, Access{Visible: true}, Visibility(RoleCouplePlus, ModuleGuests))
	assert.Equal(t, Access{}, Visibility(RoleCouplePlus, ModuleAccount))

	assert.Equal(t, Access{Visible: true}, Visibility(RoleAssessorPremium, ModuleDashboard))
	assert.Equal(t, Access{}, Visibility(RoleAssessorFree, ModuleAccount))

	assert.Equal(t, Access{}, Visibility(Role("Visitante"), ModuleChat))
}

func TestRole(t *testing.T) {
	assert.True(t, RoleAssessorPlus.IsAssessor())
	assert.True(t, RoleCouplePlus.IsCouple())
	assert.False(t, RoleAdmin.IsCouple())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("Noivo Gold").Valid())
}
