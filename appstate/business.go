package appstate

import (
	"slices"
	"strings"
)

func clientID(c ClientRecord) string { return c.ID }

func (s *State) Invoices() []Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.invoices)
}

// AddInvoice registra uma fatura. Só o administrador fatura.
func (s *State) AddInvoice(inv Invoice) (Invoice, error) {
	if err := s.checkReady(); err != nil {
		return Invoice{}, err
	}
	if inv.ID == "" {
		inv.ID = s.newID()
	}
	if inv.Date.IsZero() {
		inv.Date = s.clock.Now()
	}
	if err := s.check(inv); err != nil {
		return Invoice{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ids.Active().Role.IsAdmin() {
		return Invoice{}, ErrForbidden
	}
	if indexByID(s.users, inv.UserID, profileID) < 0 {
		return Invoice{}, ErrNotFound
	}
	s.invoices = append(s.invoices, inv)
	return inv, save(s, s.cat.invoices, s.invoices)
}

// Clients devolve os contatos visíveis para a identidade ativa: todos para o
// administrador, os próprios para os demais.
func (s *State) Clients() []ClientRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	actor := s.ids.Active()
	if actor.Role.IsAdmin() {
		return slices.Clone(s.clients)
	}
	var out []ClientRecord
	for _, c := range s.clients {
		if c.OwnerID == actor.ID {
			out = append(out, c)
		}
	}
	return out
}

func (s *State) AddClient(c ClientRecord) (ClientRecord, error) {
	if err := s.checkReady(); err != nil {
		return ClientRecord{}, err
	}
	c.ID = s.newID()
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.CreatedAt = s.clock.Now()
	if err := s.check(c); err != nil {
		return ClientRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	actor := s.ids.Active()
	if !actor.Role.IsAdmin() && !actor.Role.IsAssessor() {
		return ClientRecord{}, ErrForbidden
	}
	c.OwnerID = actor.ID
	s.clients = append(s.clients, c)
	return c, save(s, s.cat.clients, s.clients)
}

func (s *State) RemoveClient(id string) error {
	if err := s.checkReady(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexByID(s.clients, id, clientID)
	if i < 0 {
		return ErrNotFound
	}
	actor := s.ids.Active()
	if !actor.Role.IsAdmin() && s.clients[i].OwnerID != actor.ID {
		return ErrForbidden
	}
	s.clients = slices.Delete(s.clients, i, i+1)
	return save(s, s.cat.clients, s.clients)
}

// PortfolioStats resume as faturas dos casais gerenciáveis. ok=false quando a
// identidade ativa não é administrador nem assessor.
func (s *State) PortfolioStats() (p Portfolio, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	role := s.ids.Active().Role
	if !role.IsAdmin() && !role.IsAssessor() {
		return Portfolio{}, false
	}

	managed := s.managedLocked()
	ids := make(map[string]struct{}, len(managed))
	for _, u := range managed {
		ids[u.ID] = struct{}{}
	}
	p.Clients = len(managed)

	now := s.clock.Now()
	for _, inv := range s.invoices {
		if _, mine := ids[inv.UserID]; !mine {
			continue
		}
		d := inv.Date.In(now.Location())
		switch inv.Status {
		case InvoicePaid:
			if d.Year() != now.Year() {
				continue
			}
			p.AnnualRevenue += inv.Amount
			p.Quarters[(int(d.Month())-1)/3] += inv.Amount
			if d.Month() == now.Month() {
				p.MonthlyRevenue += inv.Amount
			}
		case InvoicePending:
			p.PendingValue += inv.Amount
		case InvoiceCanceled:
			p.CanceledInvoices++
		}
	}
	return p, true
}
