package rest

import (
	"net/http"

	"moderation-console/internal/core/domain"
)

type ModeratorHandler struct {
	moderator domain.Moderator
}

func NewModeratorHandler(moderator domain.Moderator) *ModeratorHandler {
	return &ModeratorHandler{moderator: moderator}
}

// GetCurrent обрабатывает GET /api/v1/moderators/me
func (h *ModeratorHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	permissions := h.moderator.Permissions
	if permissions == nil {
		permissions = []string{}
	}
	RespondWithJSON(w, http.StatusOK, ModeratorDTO{
		ID:          h.moderator.ID,
		Name:        h.moderator.Name,
		Email:       h.moderator.Email,
		Role:        h.moderator.Role,
		Permissions: permissions,
	})
}
