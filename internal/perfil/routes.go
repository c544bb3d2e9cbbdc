package perfil

import "github.com/go-chi/chi/v5"

// MountPublic registra as rotas públicas do perfil.
func MountPublic(r chi.Router, handler *Handler) {
	handler.RegisterPublicRoutes(r)
}

// MountAdmin registra as rotas administrativas do perfil.
func MountAdmin(r chi.Router, handler *Handler) {
	handler.RegisterAdminRoutes(r)
}
