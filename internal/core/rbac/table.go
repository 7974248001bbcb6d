package rbac

import "github.com/autoaccessories/pos-gateway/internal/core/domain"

// roleRecord is the compile-time-known permission set for one role.
// Unknown roles resolve to the zero record, which permits nothing.
type roleRecord struct {
	displayName string
	// wildcard grants every screen in the catalog and every capability.
	wildcard     bool
	screens      []domain.Screen
	capabilities map[domain.Capability]struct{}
}

func caps(cs ...domain.Capability) map[domain.Capability]struct{} {
	m := make(map[domain.Capability]struct{}, len(cs))
	for _, c := range cs {
		m[c] = struct{}{}
	}
	return m
}

// roles is the static authorization table. Exactly one record per known
// role; order inside screens is the navigation render order.
var roles = map[domain.Role]roleRecord{
	domain.RoleMalik: {
		displayName: "Malik (Owner)",
		wildcard:    true,
	},
	domain.RoleMunshi: {
		displayName: "Munshi (Manager)",
		screens: []domain.Screen{
			domain.ScreenDashboard,
			domain.ScreenPOS,
			domain.ScreenProducts,
			domain.ScreenCustomers,
			domain.ScreenSales,
			domain.ScreenInventory,
			domain.ScreenExpenses,
			domain.ScreenReports,
		},
		capabilities: caps(
			domain.CapViewReports,
			domain.CapManageStock,
			domain.CapManageProducts,
			domain.CapManageCustomers,
			domain.CapManageSales,
			domain.CapManageExpenses,
		),
	},
	domain.RoleShopBoy: {
		displayName: "Shop Boy (Cashier)",
		screens: []domain.Screen{
			domain.ScreenDashboard,
			domain.ScreenPOS,
			domain.ScreenProducts,
			domain.ScreenCustomers,
			domain.ScreenSales,
			domain.ScreenInventory,
			domain.ScreenReports,
		},
		capabilities: caps(
			domain.CapManageCustomers,
			domain.CapManageSales,
		),
	},
	domain.RoleStockBoy: {
		displayName: "Stock Boy",
		screens: []domain.Screen{
			domain.ScreenDashboard,
			domain.ScreenProducts,
			domain.ScreenInventory,
		},
		capabilities: caps(
			domain.CapManageStock,
		),
	},
}
