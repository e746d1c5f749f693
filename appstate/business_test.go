package appstate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortfolioStats(t *testing.T) {
	h := newHarness(t, testSeed)
	h.boot(t)

	day := func(m time.Month, d int) time.Time { return time.Date(2026, m, d, 12, 0, 0, 0, time.UTC) }
	invoices := []Invoice{
		{UserID: "alice", Amount: 100, Status: InvoicePaid, Date: day(time.May, 2)},
		{UserID: "alice", Amount: 50, Status: InvoicePaid, Date: day(time.January, 10)},
		{UserID: "bruno", Amount: 30, Status: InvoicePaid, Date: day(time.May, 15)},
		{UserID: "bruno", Amount: 70, Status: InvoicePending, Date: day(time.April, 1)},
		{UserID: "bruno", Amount: 20, Status: InvoiceCanceled, Date: day(time.March, 1)},
		{UserID: "alice", Amount: 999, Status: InvoicePaid, Date: time.Date(2025, time.May, 2, 0, 0, 0, 0, time.UTC)},
		{UserID: "carla", Amount: 500, Status: InvoicePaid, Date: day(time.May, 3)},
	}
	for _, inv := range invoices {
		_, err := h.state.AddInvoice(inv)
		require.NoError(t, err)
	}

	p, ok := h.state.PortfolioStats()
	require.True(t, ok)
	assert.Equal(t, Portfolio{
		MonthlyRevenue:   130,
		AnnualRevenue:    180,
		PendingValue:     70,
		CanceledInvoices: 1,
		Clients:          2,
		Quarters:         [4]float64{50, 130, 0, 0},
	}, p)

	// assessora só vê os casais dela
	h.actAs(carla)
	p, ok = h.state.PortfolioStats()
	require.True(t, ok)
	assert.Equal(t, 1, p.Clients)
	assert.Equal(t, 30.0, p.MonthlyRevenue)
	assert.Equal(t, 70.0, p.PendingValue)

	h.actAs(alice)
	_, ok = h.state.PortfolioStats()
	assert.False(t, ok)
}

func TestAddInvoice(t *testing.T) {
	h := newHarness(t, testSeed)
	h.boot(t)

	inv, err := h.state.AddInvoice(Invoice{UserID: "alice", PlanName: "Plus", Amount: 49.9, Status: InvoicePending})
	require.NoError(t, err)
	assert.Equal(t, h.clock.Now(), inv.Date)

	_, err = h.state.AddInvoice(Invoice{UserID: "ghost", Amount: 1, Status: InvoicePaid})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = h.state.AddInvoice(Invoice{UserID: "alice", Amount: -1, Status: InvoicePaid})
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = h.state.AddInvoice(Invoice{UserID: "alice", Amount: 1, Status: "Estornado"})
	assert.ErrorIs(t, err, ErrInvalid)

	h.actAs(carla)
	_, err = h.state.AddInvoice(Invoice{UserID: "bruno", Amount: 1, Status: InvoicePaid})
	assert.ErrorIs(t, err, ErrForbidden)

	again := h.restart(t)
	require.Len(t, again.Invoices(), 1)
	assert.Equal(t, inv.ID, again.Invoices()[0].ID)
}

func TestClients(t *testing.T) {
	h := newHarness(t, testSeed)
	h.boot(t)

	mine, err := h.state.AddClient(ClientRecord{Name: "Buffet Sabor", Email: "contato@sabor.com"})
	require.NoError(t, err)
	assert.Equal(t, "admin", mine.OwnerID)

	h.actAs(carla)
	hers, err := h.state.AddClient(ClientRecord{Name: "Floricultura"})
	require.NoError(t, err)
	assert.Equal(t, []ClientRecord{hers}, h.state.Clients())
	assert.ErrorIs(t, h.state.RemoveClient(mine.ID), ErrForbidden)

	_, err = h.state.AddClient(ClientRecord{Name: "Z", Notes: strings.Repeat("x", 10)})
	assert.ErrorIs(t, err, ErrInvalid)

	h.actAs(alice)
	_, err = h.state.AddClient(ClientRecord{Name: "Qualquer"})
	assert.ErrorIs(t, err, ErrForbidden)

	h.actAs(adminP)
	assert.Len(t, h.state.Clients(), 2)
	require.NoError(t, h.state.RemoveClient(hers.ID))
	assert.ErrorIs(t, h.state.RemoveClient(hers.ID), ErrNotFound)

	again := h.restart(t)
	assert.Equal(t, []string{mine.ID}, clientIDs(again.Clients()))
}

func clientIDs(cs []ClientRecord) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}
