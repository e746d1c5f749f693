package appstate

import (
	"fmt"
	"io"
	"time"

	"planner-core/identity"

	"gopkg.in/yaml.v3"
)

// Seed é o roster inicial (usado como padrão quando nada foi gravado ainda).
type Seed struct {
	Users    []identity.Profile `yaml:"users"`
	Invoices []Invoice          `yaml:"invoices"`
}

var defaultAdmin = identity.Profile{
	ID:        "admin",
	Name:      "Administrador",
	Email:     "admin@planner.local",
	Role:      identity.RoleAdmin,
	Plan:      "Master",
	CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
}

// DefaultSeed contém apenas o administrador.
func DefaultSeed() Seed {
	return Seed{Users: []identity.Profile{defaultAdmin}}
}

// LoadSeed lê um roster em YAML. Perfis com papel desconhecido são rejeitados.
func LoadSeed(r io.Reader) (Seed, error) {
	var s Seed
	if err := yaml.NewDecoder(r).Decode(&s); err != nil && err != io.EOF {
		return Seed{}, fmt.Errorf("seed: %w", err)
	}
	for i, u := range s.Users {
		if u.ID == "" || u.Name == "" {
			return Seed{}, fmt.Errorf("seed: user %d: id and name are required", i)
		}
		if !u.Role.Valid() {
			return Seed{}, fmt.Errorf("seed: user %s: unknown role %q", u.ID, u.Role)
		}
	}
	if len(s.Users) == 0 {
		s.Users = DefaultSeed().Users
	}
	return s, nil
}

// defaultIdentity é o primeiro administrador do roster.
func (s Seed) defaultIdentity() identity.Profile {
	for _, u := range s.Users {
		if u.Role.IsAdmin() {
			return u
		}
	}
	return defaultAdmin
}
