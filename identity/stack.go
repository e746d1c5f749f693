package identity

import (
	"errors"
	"sync"
)

// ErrNotImpersonating: Restore chamado sem personificação ativa. Nada muda.
var ErrNotImpersonating = errors.New("identity: not impersonating")

// Snapshot é o estado serializável da pilha.
type Snapshot struct {
	Active Profile  `json:"active"`
	Saved  *Profile `json:"saved,omitempty"`
}

// Stack guarda a identidade ativa e, durante a personificação, a identidade real.
//
// Estados: Normal (sem saved) e Impersonating (com saved). Saved só é preenchido na
// transição Normal -> Impersonating; personificações aninhadas trocam apenas a ativa.
type Stack struct {
	mu     sync.RWMutex
	active Profile
	saved  *Profile
}

func NewStack(active Profile) *Stack {
	return &Stack{active: active}
}

// Impersonate passa a agir como target.
func (s *Stack) Impersonate(target Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved == nil {
		orig := s.active
		s.saved = &orig
	}
	s.active = target
}

// Restore volta para a identidade original. Sem personificação ativa devolve
// ErrNotImpersonating e não altera nada.
func (s *Stack) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved == nil {
		return ErrNotImpersonating
	}
	s.active = *s.saved
	s.saved = nil
	return nil
}

// Active é quem está agindo. Toda regra de visibilidade lê daqui.
func (s *Stack) Active() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *Stack) Saved() (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.saved == nil {
		return Profile{}, false
	}
	return *s.saved, true
}

func (s *Stack) Impersonating() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saved != nil
}

// Real é a identidade de quem está de fato na sessão (para o "voltar para X" da UI).
func (s *Stack) Real() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.saved != nil {
		return *s.saved
	}
	return s.active
}

func (s *Stack) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Active: s.active}
	if s.saved != nil {
		saved := *s.saved
		snap.Saved = &saved
	}
	return snap
}

// Load substitui o estado inteiro (usado no boot).
func (s *Stack) Load(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = snap.Active
	s.saved = nil
	if snap.Saved != nil {
		saved := *snap.Saved
		s.saved = &saved
	}
}
