package identity

import (
	"strings"
	"time"
)

// Role é o papel de um perfil.
type Role string

const (
	RoleAdmin           Role = "Administrador"
	RoleCoupleFree      Role = "Noivo Free"
	RoleCouplePlus      Role = "Noivo+"
	RoleAssessorFree    Role = "Assessor Free"
	RoleAssessorPlus    Role = "Assessor Plus"
	RoleAssessorPremium Role = "Assessor Premium"
)

// Roles lista todos os papéis conhecidos.
var Roles = []Role{RoleAdmin, RoleCoupleFree, RoleCouplePlus, RoleAssessorFree, RoleAssessorPlus, RoleAssessorPremium}

func (r Role) Valid() bool {
	for _, v := range Roles {
		if r == v {
			return true
		}
	}
	return false
}

func (r Role) IsAdmin() bool    { return r == RoleAdmin }
func (r Role) IsAssessor() bool { return strings.HasPrefix(string(r), "Assessor") }
func (r Role) IsCouple() bool   { return strings.HasPrefix(string(r), "Noivo") }

// Profile é uma conta do roster.
type Profile struct {
	ID          string    `json:"id" yaml:"id" validate:"required"`
	Name        string    `json:"name" yaml:"name" validate:"required,min=2,max=80"`
	Email       string    `json:"email" yaml:"email" validate:"omitempty,email"`
	Role        Role      `json:"role" yaml:"role" validate:"required"`
	Plan        string    `json:"plan,omitempty" yaml:"plan"`
	WeddingDate string    `json:"weddingDate,omitempty" yaml:"weddingDate"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	// AssessorID é o assessor responsável (só para perfis criados por um assessor).
	AssessorID string `json:"assessorId,omitempty" yaml:"assessorId"`
}

// CanImpersonate informa se actor pode agir como target: administradores podem
// personificar qualquer perfil; assessores, só os perfis que eles gerenciam.
func CanImpersonate(actor, target Profile) bool {
	if actor.ID == target.ID {
		return false
	}
	switch {
	case actor.Role.IsAdmin():
		return true
	case actor.Role.IsAssessor():
		return target.AssessorID != "" && target.AssessorID == actor.ID
	default:
		return false
	}
}
