package entity

// Permisos de la aplicación.
const (
	PermDashboardView  = "dashboard.view"
	PermOrdersView     = "orders.view"
	PermOrdersCreate   = "orders.create"
	PermOrdersEdit     = "orders.edit"
	PermOrdersDelete   = "orders.delete"
	PermInvoicesView   = "invoices.view"
	PermInvoicesCreate = "invoices.create"
	PermInvoicesEdit   = "invoices.edit" // incluye certificar
	PermInvoicesDelete = "invoices.delete"
	PermClientsView    = "clients.view"
	PermClientsCreate  = "clients.create"
	PermClientsEdit    = "clients.edit"
	PermClientsDelete  = "clients.delete"
	PermProductsView   = "products.view"
	PermProductsCreate = "products.create"
	PermProductsEdit   = "products.edit"
	PermProductsDelete = "products.delete"
	PermReportsView    = "reports.view"
	PermSettingsView   = "settings.view"
	PermSettingsManage = "settings.manage"
	PermSettingsUsers  = "settings.users.manage"
)

var rolePermissions = map[string]map[string]bool{
	RoleComptable: set(
		PermDashboardView,
		PermOrdersView, PermOrdersCreate, PermOrdersEdit, PermOrdersDelete,
		PermInvoicesView, PermInvoicesCreate, PermInvoicesEdit,
		PermClientsView, PermClientsCreate, PermClientsEdit,
		PermProductsView, PermProductsCreate, PermProductsEdit,
		PermReportsView,
	),
	RoleVendeur: set(
		PermOrdersView, PermOrdersCreate,
		PermInvoicesView, PermInvoicesCreate,
		PermClientsView, PermClientsCreate, PermClientsEdit,
		PermProductsView,
	),
}

func set(perms ...string) map[string]bool {
	m := make(map[string]bool, len(perms))
	for _, p := range perms {
		m[p] = true
	}
	return m
}

// HasPermission indica si el rol tiene el permiso. El admin los tiene todos.
func HasPermission(role, perm string) bool {
	if role == RoleAdmin {
		return true
	}
	return rolePermissions[role][perm]
}

// AllPermissions lista completa, en orden estable.
var AllPermissions = []string{
	PermDashboardView,
	PermOrdersView, PermOrdersCreate, PermOrdersEdit, PermOrdersDelete,
	PermInvoicesView, PermInvoicesCreate, PermInvoicesEdit, PermInvoicesDelete,
	PermClientsView, PermClientsCreate, PermClientsEdit, PermClientsDelete,
	PermProductsView, PermProductsCreate, PermProductsEdit, PermProductsDelete,
	PermReportsView,
	PermSettingsView, PermSettingsManage, PermSettingsUsers,
}

// PermissionsFor permisos efectivos del rol.
func PermissionsFor(role string) []string {
	out := make([]string, 0, len(AllPermissions))
	for _, p := range AllPermissions {
		if HasPermission(role, p) {
			out = append(out, p)
		}
	}
	return out
}
