package handlers

import (
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/http/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/notify"
)

type NotificationsHandler struct{ c *notify.Center }

func NewNotificationsHandler(c *notify.Center) *NotificationsHandler {
	return &NotificationsHandler{c: c}
}

func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.NotificationsResponse{Notifications: h.c.Pending()})
}

func (h *NotificationsHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	if !h.c.Dismiss(r.PathValue("id")) {
		WriteError(w, r, http.StatusNotFound, "notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
