// Package rbac answers "can role R reach screen S / perform capability C"
// from a static table. Lookups are pure functions over compile-time data;
// unknown roles, screens, and capabilities are denied.
package rbac

import "github.com/autoaccessories/pos-gateway/internal/core/domain"

// ScreensFor returns the ordered screens the role may navigate to. The
// slice is freshly allocated on every call; an unknown role gets an empty
// (non-nil) slice.
func ScreensFor(role domain.Role) []domain.Screen {
	rec, ok := roles[role]
	if !ok {
		return []domain.Screen{}
	}
	if rec.wildcard {
		out := make([]domain.Screen, len(domain.ScreenCatalog))
		copy(out, domain.ScreenCatalog)
		return out
	}
	out := make([]domain.Screen, len(rec.screens))
	copy(out, rec.screens)
	return out
}

// CanAccessScreen reports whether the role may navigate to the screen.
func CanAccessScreen(role domain.Role, screen domain.Screen) bool {
	rec, ok := roles[role]
	if !ok {
		return false
	}
	if rec.wildcard {
		for _, s := range domain.ScreenCatalog {
			if s == screen {
				return true
			}
		}
		return false
	}
	for _, s := range rec.screens {
		if s == screen {
			return true
		}
	}
	return false
}

// HasCapability reports whether the role holds the capability.
func HasCapability(role domain.Role, cap domain.Capability) bool {
	rec, ok := roles[role]
	if !ok {
		return false
	}
	if rec.wildcard {
		return knownCapability(cap)
	}
	_, held := rec.capabilities[cap]
	return held
}

// CapabilitiesFor returns the capabilities the role holds, in the enum's
// declaration order.
func CapabilitiesFor(role domain.Role) []domain.Capability {
	out := []domain.Capability{}
	for _, c := range allCapabilities {
		if HasCapability(role, c) {
			out = append(out, c)
		}
	}
	return out
}

// DisplayName returns the role's human-readable name, falling back to the
// raw role string for unknown roles.
func DisplayName(role domain.Role) string {
	if rec, ok := roles[role]; ok {
		return rec.displayName
	}
	return string(role)
}

var allCapabilities = []domain.Capability{
	domain.CapManageUsers,
	domain.CapViewReports,
	domain.CapManageStock,
	domain.CapManageProducts,
	domain.CapManageCustomers,
	domain.CapManageSales,
	domain.CapManageExpenses,
	domain.CapManageSettings,
	domain.CapBackupRestore,
}

func knownCapability(cap domain.Capability) bool {
	for _, c := range allCapabilities {
		if c == cap {
			return true
		}
	}
	return false
}
