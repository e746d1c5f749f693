package appstate

import (
	"fmt"
	"slices"
	"strings"

	"planner-core/identity"

	"github.com/sirupsen/logrus"
)

func profileID(p identity.Profile) string { return p.ID }

// Whoami devolve a identidade ativa, a real e se há personificação.
func (s *State) Whoami() (active, original identity.Profile, impersonating bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ids.Active(), s.ids.Real(), s.ids.Impersonating()
}

func (s *State) Users() []identity.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users)
}

// Visibility calcula o acesso ao módulo para a identidade ativa.
func (s *State) Visibility(m identity.Module) identity.Access {
	return identity.Visibility(s.ids.Active().Role, m)
}

func (s *State) saveIdentity() error {
	snap := s.ids.Snapshot()
	if err := saveValue(s, s.cat.user, snap.Active); err != nil {
		return err
	}
	return saveValue(s, s.cat.originalAdmin, snap.Saved)
}

// Impersonate passa a agir como o perfil id. A permissão é verificada contra a
// identidade real, então uma personificação aninhada segue as regras de quem
// iniciou a sessão.
func (s *State) Impersonate(id string) (identity.Profile, error) {
	if err := s.checkReady(); err != nil {
		return identity.Profile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexByID(s.users, id, profileID)
	if i < 0 {
		return identity.Profile{}, ErrNotFound
	}
	target := s.users[i]
	if !identity.CanImpersonate(s.ids.Real(), target) {
		return identity.Profile{}, fmt.Errorf("%w: %s cannot act as %s", ErrForbidden, s.ids.Real().ID, target.ID)
	}

	s.ids.Impersonate(target)
	s.log.WithFields(logrus.Fields{"real": s.ids.Real().ID, "as": target.ID}).Info("impersonating")
	return target, s.saveIdentity()
}

// Restore encerra a personificação. Sem personificação devolve
// identity.ErrNotImpersonating e nada é gravado.
func (s *State) Restore() (identity.Profile, error) {
	if err := s.checkReady(); err != nil {
		return identity.Profile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ids.Restore(); err != nil {
		return identity.Profile{}, err
	}
	return s.ids.Active(), s.saveIdentity()
}

// UpsertProfile cria ou atualiza um perfil do roster. Só administradores e assessores
// gerenciam o roster; perfis criados por um assessor ficam vinculados a ele.
func (s *State) UpsertProfile(p identity.Profile) (identity.Profile, error) {
	if err := s.checkReady(); err != nil {
		return identity.Profile{}, err
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	actor := s.ids.Active()
	if !actor.Role.IsAdmin() && !actor.Role.IsAssessor() {
		return identity.Profile{}, ErrForbidden
	}

	i := -1
	if p.ID != "" {
		i = indexByID(s.users, p.ID, profileID)
	}
	if i < 0 {
		if p.ID == "" {
			p.ID = s.newID()
		}
		p.CreatedAt = s.clock.Now()
		if actor.Role.IsAssessor() {
			p.AssessorID = actor.ID
		}
	} else {
		cur := s.users[i]
		if actor.Role.IsAssessor() && cur.AssessorID != actor.ID {
			return identity.Profile{}, ErrForbidden
		}
		p.CreatedAt = cur.CreatedAt
		p.AssessorID = cur.AssessorID
	}

	if actor.Role.IsAssessor() && !p.Role.IsCouple() {
		return identity.Profile{}, fmt.Errorf("%w: assessors only manage couples", ErrForbidden)
	}
	if !p.Role.Valid() {
		return identity.Profile{}, fmt.Errorf("%w: unknown role %q", ErrInvalid, p.Role)
	}
	if err := s.check(p); err != nil {
		return identity.Profile{}, err
	}

	if i < 0 {
		s.users = append(s.users, p)
	} else {
		s.users[i] = p
	}
	if err := save(s, s.cat.users, s.users); err != nil {
		return p, err
	}
	return p, s.refreshIdentity(p)
}

// refreshIdentity leva a edição de um perfil que está na sessão (ativo ou real) para
// a pilha de identidade e para ci_user/ci_original_admin.
func (s *State) refreshIdentity(p identity.Profile) error {
	snap := s.ids.Snapshot()
	changed := false
	if snap.Active.ID == p.ID {
		snap.Active = p
		changed = true
	}
	if snap.Saved != nil && snap.Saved.ID == p.ID {
		saved := p
		snap.Saved = &saved
		changed = true
	}
	if !changed {
		return nil
	}
	s.ids.Load(snap)
	return s.saveIdentity()
}

// RemoveProfile tira o perfil do roster. Não é possível remover quem está na sessão.
func (s *State) RemoveProfile(id string) error {
	if err := s.checkReady(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if id == s.ids.Active().ID || id == s.ids.Real().ID {
		return fmt.Errorf("%w: profile is in use by this session", ErrForbidden)
	}
	i := indexByID(s.users, id, profileID)
	if i < 0 {
		return ErrNotFound
	}
	actor := s.ids.Active()
	if !actor.Role.IsAdmin() && !(actor.Role.IsAssessor() && s.users[i].AssessorID == actor.ID) {
		return ErrForbidden
	}
	s.users = slices.Delete(s.users, i, i+1)
	return save(s, s.cat.users, s.users)
}

// ManagedUsers são os casais que a identidade ativa gerencia: todos para o
// administrador, os vinculados para um assessor, nenhum para os demais.
func (s *State) ManagedUsers() []identity.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.managedLocked()
}

func (s *State) managedLocked() []identity.Profile {
	actor := s.ids.Active()
	var out []identity.Profile
	for _, u := range s.users {
		switch {
		case actor.Role.IsAdmin() && u.Role.IsCouple():
			out = append(out, u)
		case actor.Role.IsAssessor() && u.AssessorID == actor.ID:
			out = append(out, u)
		}
	}
	return out
}

func (s *State) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

func (s *State) SetTheme(t Theme) error {
	if err := s.checkReady(); err != nil {
		return err
	}
	if !t.Valid() {
		return fmt.Errorf("%w: theme %q", ErrInvalid, t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = t
	return saveValue(s, s.cat.theme, t)
}
