package appstate

import (
	"slices"
	"strings"
)

func guestID(g Guest) string { return g.ID }

func (s *State) Guests() []Guest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.guests)
}

func (s *State) AddGuest(name string) (Guest, error) {
	if err := s.checkReady(); err != nil {
		return Guest{}, err
	}
	g := Guest{ID: s.newID(), Name: strings.TrimSpace(name), Status: GuestPending}
	if err := s.check(g); err != nil {
		return Guest{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.guests = append(s.guests, g)
	return g, save(s, s.cat.guests, s.guests)
}

func (s *State) SetGuestStatus(id string, status GuestStatus) (Guest, error) {
	return s.updateGuest(id, func(g *Guest) { g.Status = status })
}

func (s *State) MarkGuestNotified(id string) (Guest, error) {
	return s.updateGuest(id, func(g *Guest) { g.Notified = true })
}

func (s *State) updateGuest(id string, fn func(*Guest)) (Guest, error) {
	if err := s.checkReady(); err != nil {
		return Guest{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexByID(s.guests, id, guestID)
	if i < 0 {
		return Guest{}, ErrNotFound
	}
	g := s.guests[i]
	fn(&g)
	if err := s.check(g); err != nil {
		return Guest{}, err
	}
	s.guests[i] = g
	return g, save(s, s.cat.guests, s.guests)
}

func (s *State) RemoveGuest(id string) error {
	if err := s.checkReady(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexByID(s.guests, id, guestID)
	if i < 0 {
		return ErrNotFound
	}
	s.guests = slices.Delete(s.guests, i, i+1)
	return save(s, s.cat.guests, s.guests)
}
