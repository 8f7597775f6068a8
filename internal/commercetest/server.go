// Package commercetest is an in-memory fake of the remote commerce API for
// tests. It speaks the same routes and JSON shapes, authenticates with a
// session cookie and can be told to fail specific requests.
package commercetest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const CookieName = "token"

type Product struct {
	ID          string  `json:"_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
}

type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type User struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	password string
}

type cartLine struct {
	productID string
	quantity  int
}

type favorite struct {
	id        string
	productID string
}

// Call is one request the server received.
type Call struct {
	Method string
	Path   string
	Body   string
}

type failure struct {
	method  string
	path    string
	status  int
	message string
}

type Server struct {
	*httptest.Server

	mu         sync.Mutex
	users      map[string]*User // by email
	sessions   map[string]string
	categories []Category
	products   []Product
	carts      map[string][]cartLine
	favorites  map[string][]favorite
	failures   []failure
	calls      []Call
}

// NewServer starts the fake. Callers must Close it.
func NewServer() *Server {
	s := &Server{
		users:     make(map[string]*User),
		sessions:  make(map[string]string),
		carts:     make(map[string][]cartLine),
		favorites: make(map[string][]favorite),
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)
	r.Use(s.injectFailures)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users/login", s.login)
		r.Post("/users/register", s.register)

		r.Get("/category/getAllCategory", s.listCategories)
		r.Get("/category/{id}/products", s.listCategoryProducts)
		r.Get("/products/search", s.search)

		r.Group(func(r chi.Router) {
			r.Use(s.requireUser)

			r.Get("/cart", s.getCart)
			r.Post("/cart/add", s.addToCart)
			r.Patch("/cart/update", s.updateCart)
			r.Delete("/cart/remove", s.removeFromCart)

			r.Get("/favorites", s.listFavorites)
			r.Post("/favorites", s.addFavorite)
			r.Delete("/favorites/{id}", s.removeFavorite)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)
				r.Post("/products/add", s.addProduct)
				r.Delete("/products/{id}", s.deleteProduct)
			})
		})
	})
	return r
}

// FailNext makes the next request matching method and path answer with
// status and message. Status 0 drops the connection instead.
func (s *Server) FailNext(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{method: method, path: path, status: status, message: message})
}

func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CountCalls counts received requests with this method and path.
func (s *Server) CountCalls(method, path string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) AddUser(name, email, password, role string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &User{ID: uuid.NewString(), Name: name, Email: email, Role: role, password: password}
	s.users[strings.ToLower(email)] = u
	return u.ID
}

func (s *Server) AddCategory(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := Category{ID: uuid.NewString(), Name: name}
	s.categories = append(s.categories, c)
	return c.ID
}

// AddProduct stores p, assigning an id when p.ID is empty.
func (s *Server) AddProduct(p Product) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.products = append(s.products, p)
	return p.ID
}

// Quantity is the server-side quantity of productID in userID's cart.
func (s *Server) Quantity(userID, productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.carts[userID] {
		if l.productID == productID {
			return l.quantity
		}
	}
	return 0
}

// FavoriteCount is the number of favorite relations userID has on the server.
func (s *Server) FavoriteCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.favorites[userID])
}

// Products returns the current catalog.
func (s *Server) Products() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Server) productLocked(id string) (Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"status": "fail", "message": msg})
}
