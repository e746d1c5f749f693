package appstate

import (
	"planner-core/identity"
	"planner-core/persistence/domain"
)

// Chaves gravadas. Cada uma pertence a um único tier.
const (
	KeyUser          = "ci_user"
	KeyUsers         = "ci_users"
	KeyOriginalAdmin = "ci_original_admin"
	KeyTheme         = "ci_theme"
	KeyTasks         = "ci_tasks"
	KeyGuests        = "ci_guests"

	KeyMessages = "ci_messages"
	KeyAssets   = "ci_assets"
	KeyInvoices = "ci_invoices"
	KeyClients  = "ci_clients"
)

// catalog é o conjunto fechado de registros tipados. Os padrões de identidade dependem
// do roster inicial, por isso ele é montado por State.
type catalog struct {
	user          domain.Record[identity.Profile]
	users         domain.Record[[]identity.Profile]
	originalAdmin domain.Record[*identity.Profile]
	theme         domain.Record[Theme]
	tasks         domain.Record[[]Task]
	guests        domain.Record[[]Guest]

	messages domain.Record[[]Message]
	assets   domain.Record[[]GeneratedAsset]
	invoices domain.Record[[]Invoice]
	clients  domain.Record[[]ClientRecord]
}

func defaultGuests() []Guest {
	return []Guest{
		{ID: "1", Name: "Maria Silva", Status: GuestConfirmed, Notified: true},
		{ID: "2", Name: "João Souza", Status: GuestPending},
	}
}

func newCatalog(seed Seed) catalog {
	return catalog{
		user: domain.Record[identity.Profile]{
			Key: KeyUser, Tier: domain.TierSync, Version: 1,
			Default: seed.defaultIdentity,
		},
		users: domain.Record[[]identity.Profile]{
			Key: KeyUsers, Tier: domain.TierSync, Version: 1,
			Default: func() []identity.Profile { return append([]identity.Profile(nil), seed.Users...) },
		},
		originalAdmin: domain.Record[*identity.Profile]{Key: KeyOriginalAdmin, Tier: domain.TierSync, Version: 1},
		theme: domain.Record[Theme]{
			Key: KeyTheme, Tier: domain.TierSync, Version: 1,
			Default: func() Theme { return ThemeDark },
		},
		tasks: domain.Record[[]Task]{
			Key: KeyTasks, Tier: domain.TierSync, Version: 1,
			Default: func() []Task { return []Task{} },
		},
		guests: domain.Record[[]Guest]{
			Key: KeyGuests, Tier: domain.TierSync, Version: 1,
			Default: defaultGuests,
		},

		messages: domain.Record[[]Message]{
			Key: KeyMessages, Tier: domain.TierAsync, Version: 1,
			Default: func() []Message { return []Message{} },
		},
		assets: domain.Record[[]GeneratedAsset]{
			Key: KeyAssets, Tier: domain.TierAsync, Version: 1,
			Default: func() []GeneratedAsset { return []GeneratedAsset{} },
		},
		invoices: domain.Record[[]Invoice]{
			Key: KeyInvoices, Tier: domain.TierAsync, Version: 1,
			Default: func() []Invoice { return append([]Invoice{}, seed.Invoices...) },
		},
		clients: domain.Record[[]ClientRecord]{
			Key: KeyClients, Tier: domain.TierAsync, Version: 1,
			Default: func() []ClientRecord { return []ClientRecord{} },
		},
	}
}
