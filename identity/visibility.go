package identity

// Module é uma área da aplicação.
type Module string

const (
	ModuleChat      Module = "chat"
	ModulePlanner   Module = "planner"
	ModuleSuppliers Module = "suppliers"
	ModuleGuests    Module = "guests"
	ModuleImages    Module = "images"
	ModuleDashboard Module = "dashboard"
	ModuleAccount   Module = "account"
	ModuleUpgrade   Module = "upgrade"
)

var Modules = []Module{ModuleChat, ModulePlanner, ModuleSuppliers, ModuleGuests, ModuleImages, ModuleDashboard, ModuleAccount, ModuleUpgrade}

// Access diz se o módulo aparece e se aparece bloqueado (upsell).
type Access struct {
	Visible bool
	Locked  bool
}

var (
	open   = Access{Visible: true}
	locked = Access{Visible: true, Locked: true}
	hidden = Access{}
)

// Visibility calcula o acesso de role a m.
func Visibility(role Role, m Module) Access {
	switch {
	case role.IsAdmin():
		return open
	case role == RoleCoupleFree:
		switch m {
		case ModuleImages, ModuleChat, ModulePlanner:
			return open
		case ModuleGuests, ModuleSuppliers:
			return locked
		}
		return hidden
	case role == RoleCouplePlus:
		switch m {
		case ModuleImages, ModuleChat, ModulePlanner, ModuleGuests, ModuleSuppliers:
			return open
		}
		return hidden
	case role.IsAssessor():
		if m == ModuleAccount {
			return hidden
		}
		return open
	}
	return hidden
}
