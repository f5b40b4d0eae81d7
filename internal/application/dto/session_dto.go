package dto

// SessionDTO sesión guardada de la estación (el token nunca se expone).
type SessionDTO struct {
	Username      string   `json:"username"`
	Authenticated bool     `json:"authenticated"`
	SidebarItems  []string `json:"sidebar_items"`
}

// SidebarRequest body de PUT /api/session/sidebar.
type SidebarRequest struct {
	Items []string `json:"items"`
}
