package commercetest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ctxKey string

const ctxUserID ctxKey = "user_id"

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		var f *failure
		for i := range s.failures {
			if s.failures[i].method == r.Method && s.failures[i].path == r.URL.Path {
				hit := s.failures[i]
				f = &hit
				s.failures = append(s.failures[:i], s.failures[i+1:]...)
				break
			}
		}
		s.mu.Unlock()

		if f == nil {
			next.ServeHTTP(w, r)
			return
		}
		if f.status == 0 {
			if hj, ok := w.(http.Hijacker); ok {
				if conn, _, err := hj.Hijack(); err == nil {
					_ = conn.Close()
					return
				}
			}
			f.status = http.StatusServiceUnavailable
		}
		if f.message == "" {
			w.WriteHeader(f.status)
			return
		}
		writeMessage(w, f.status, f.message)
	})
}

func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(CookieName)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "You are not logged in")
			return
		}
		s.mu.Lock()
		uid, ok := s.sessions[c.Value]
		s.mu.Unlock()
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "Session expired")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserID, uid)))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := userID(r)
		s.mu.Lock()
		admin := false
		for _, u := range s.users {
			if u.ID == uid {
				admin = u.Role == "admin"
				break
			}
		}
		s.mu.Unlock()
		if !admin {
			writeMessage(w, http.StatusForbidden, "Admins only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userID(r *http.Request) string {
	v, _ := r.Context().Value(ctxUserID).(string)
	return v
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}

	s.mu.Lock()
	u, ok := s.users[strings.ToLower(body.Email)]
	if !ok || u.password != body.Password {
		s.mu.Unlock()
		writeMessage(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	token := uuid.NewString()
	s.sessions[token] = u.ID
	user := *u
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: token, Path: "/", HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "user": user})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		writeMessage(w, http.StatusBadRequest, "invalid registration")
		return
	}

	s.mu.Lock()
	if _, exists := s.users[strings.ToLower(body.Email)]; exists {
		s.mu.Unlock()
		writeMessage(w, http.StatusConflict, "Email already registered")
		return
	}
	u := &User{ID: uuid.NewString(), Name: body.Name, Email: body.Email, Role: "customer", password: body.Password}
	s.users[strings.ToLower(body.Email)] = u
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{"status": "success", "message": "User created"})
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	cats := append([]Category{}, s.categories...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

func (s *Server) listCategoryProducts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	out := []Product{}
	for _, p := range s.products {
		if p.Category == id {
			out = append(out, p)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"products": out})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("search")))
	s.mu.Lock()
	out := []Product{}
	for _, p := range s.products {
		if q != "" && strings.Contains(strings.ToLower(p.Title), q) {
			out = append(out, p)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "products": out})
}

// cartBodyLocked renders a user's cart. Deleted products render as null.
func (s *Server) cartBodyLocked(uid string) map[string]any {
	items := []map[string]any{}
	for _, l := range s.carts[uid] {
		var product any
		if p, ok := s.productLocked(l.productID); ok {
			product = p
		}
		items = append(items, map[string]any{"product": product, "quantity": l.quantity})
	}
	return map[string]any{"status": "success", "data": map[string]any{"items": items}}
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	body := s.cartBodyLocked(userID(r))
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, body)
}

type cartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request) {
	var body cartRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Quantity < 1 {
		writeMessage(w, http.StatusBadRequest, "invalid cart item")
		return
	}
	uid := userID(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.productLocked(body.ProductID); !ok {
		writeMessage(w, http.StatusNotFound, "Product not found")
		return
	}
	lines := s.carts[uid]
	for i := range lines {
		if lines[i].productID == body.ProductID {
			lines[i].quantity += body.Quantity
			writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
			return
		}
	}
	s.carts[uid] = append(lines, cartLine{productID: body.ProductID, quantity: body.Quantity})
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) updateCart(w http.ResponseWriter, r *http.Request) {
	var body cartRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Quantity < 1 {
		writeMessage(w, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}
	uid := userID(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[uid]
	for i := range lines {
		if lines[i].productID == body.ProductID {
			lines[i].quantity = body.Quantity
			writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Item not in cart")
}

func (s *Server) removeFromCart(w http.ResponseWriter, r *http.Request) {
	var body cartRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ProductID == "" {
		writeMessage(w, http.StatusBadRequest, "productId is required")
		return
	}
	uid := userID(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[uid]
	kept := lines[:0]
	for _, l := range lines {
		if l.productID != body.ProductID {
			kept = append(kept, l)
		}
	}
	s.carts[uid] = kept
	writeJSON(w, http.StatusOK, s.cartBodyLocked(uid))
}

func (s *Server) listFavorites(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	s.mu.Lock()
	favs := []map[string]any{}
	for _, f := range s.favorites[uid] {
		var product any
		if p, ok := s.productLocked(f.productID); ok {
			product = p
		}
		favs = append(favs, map[string]any{"_id": f.id, "product": product})
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": map[string]any{"favorites": favs}})
}

// addFavorite always creates a new relation; the client is responsible for
// not asking twice.
func (s *Server) addFavorite(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ProductID == "" {
		writeMessage(w, http.StatusBadRequest, "productId is required")
		return
	}
	uid := userID(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.productLocked(body.ProductID)
	if !ok {
		writeMessage(w, http.StatusNotFound, "Product not found")
		return
	}
	f := favorite{id: uuid.NewString(), productID: body.ProductID}
	s.favorites[uid] = append(s.favorites[uid], f)
	writeJSON(w, http.StatusCreated, map[string]any{
		"status": "success",
		"data":   map[string]any{"favorite": map[string]any{"_id": f.id, "product": product, "user": uid}},
	})
}

func (s *Server) removeFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	uid := userID(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	favs := s.favorites[uid]
	for i, f := range favs {
		if f.id == id {
			s.favorites[uid] = append(favs[:i], favs[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Favorite not found")
}

func (s *Server) addProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeMessage(w, http.StatusBadRequest, "multipart form required")
		return
	}
	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil || price <= 0 {
		writeMessage(w, http.StatusBadRequest, "price must be positive")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "image is required")
		return
	}
	_ = file.Close()

	p := Product{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Price:       price,
		Category:    r.FormValue("categoryId"),
		Image:       "/uploads/" + header.Filename,
	}
	if p.Title == "" || p.Category == "" {
		writeMessage(w, http.StatusBadRequest, "title and categoryId are required")
		return
	}
	id := s.AddProduct(p)
	writeJSON(w, http.StatusCreated, map[string]any{"status": "success", "data": map[string]string{"_id": id}})
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Product not found")
}
