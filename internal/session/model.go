package session

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// Identity is the logged-in user as returned by the login endpoint.
type Identity struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Image string `json:"image,omitempty"`
}

// Session is the authentication state of this install. A nil User means
// nobody is logged in.
type Session struct {
	User *Identity `json:"user"`
}

func (s Session) Authenticated() bool { return s.User != nil }

func (s Session) IsAdmin() bool { return s.User != nil && s.User.Role == RoleAdmin }
