package domain

// Role identifies one of the shop staff roles known to the system.
type Role string

const (
	RoleMalik    Role = "malik"     // owner
	RoleMunshi   Role = "munshi"    // manager
	RoleShopBoy  Role = "shop_boy"  // cashier
	RoleStockBoy Role = "stock_boy" // inventory
)

// Screen identifies one business-area view the UI can navigate to.
type Screen string

const (
	ScreenDashboard Screen = "dashboard"
	ScreenPOS       Screen = "pos"
	ScreenProducts  Screen = "products"
	ScreenCustomers Screen = "customers"
	ScreenSales     Screen = "sales"
	ScreenInventory Screen = "inventory"
	ScreenExpenses  Screen = "expenses"
	ScreenReports   Screen = "reports"
	ScreenSettings  Screen = "settings"
	ScreenUsers     Screen = "users"
)

// ScreenCatalog is the full, ordered set of screens the application ships.
// Order here is the order navigation entries are rendered in.
var ScreenCatalog = []Screen{
	ScreenDashboard,
	ScreenPOS,
	ScreenProducts,
	ScreenCustomers,
	ScreenSales,
	ScreenInventory,
	ScreenExpenses,
	ScreenReports,
	ScreenSettings,
	ScreenUsers,
}

// Capability is a closed enum of privileged actions a role may hold.
// Adding a capability is a data change in the role table, not a new accessor.
type Capability string

const (
	CapManageUsers     Capability = "manage_users"
	CapViewReports     Capability = "view_reports"
	CapManageStock     Capability = "manage_stock"
	CapManageProducts  Capability = "manage_products"
	CapManageCustomers Capability = "manage_customers"
	CapManageSales     Capability = "manage_sales"
	CapManageExpenses  Capability = "manage_expenses"
	CapManageSettings  Capability = "manage_settings"
	CapBackupRestore   Capability = "backup_restore"
)
