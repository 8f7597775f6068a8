package handlers

import (
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/app"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/http/dto"
)

type SessionHandler struct{ a *app.App }

func NewSessionHandler(a *app.App) *SessionHandler { return &SessionHandler{a: a} }

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := h.a.Session.Session()
	writeJSON(w, http.StatusOK, dto.SessionResponse{Authenticated: sess.Authenticated(), User: sess.User})
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, r, err, "invalid login request")
		return
	}
	id, err := h.a.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err, "Login failed")
		return
	}
	writeJSON(w, http.StatusOK, dto.SessionResponse{Authenticated: true, User: &id})
}

func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, r, err, "invalid registration")
		return
	}
	if err := h.a.Register(r.Context(), req.Name, req.Email, req.Password); err != nil {
		writeServiceError(w, r, err, "Sign up failed")
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.a.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
