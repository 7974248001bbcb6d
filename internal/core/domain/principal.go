package domain

import "time"

// Principal is the authenticated operator of this terminal. It is built from
// the access token claims (with the cached profile as fallback) and passed
// explicitly to every RBAC check; there is no ambient current-user global.
type Principal struct {
	Username  string    `json:"username"`
	FullName  string    `json:"full_name,omitempty"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// StoredProfile is what the profile credential slot holds between restarts:
// the backend's user record plus the offline unlock hash captured at login.
type StoredProfile struct {
	User       map[string]any `json:"user"`
	OfflineKey string         `json:"offline_key,omitempty"`
}

// Principal derives a Principal from the cached user record.
func (p *StoredProfile) Principal() Principal {
	out := Principal{}
	if v, ok := p.User["username"].(string); ok {
		out.Username = v
	}
	if v, ok := p.User["full_name"].(string); ok {
		out.FullName = v
	}
	if v, ok := p.User["role"].(string); ok {
		out.Role = Role(v)
	}
	return out
}
