package clients

import (
	"context"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients/dto"
)

type UsersClient struct{ c *Client }

func NewUsersClient(c *Client) *UsersClient { return &UsersClient{c: c} }

// Login authenticates and returns the identity. The session cookie from the
// response is stored in the shared cookie jar.
func (uc *UsersClient) Login(ctx context.Context, req dto.LoginRequest) (dto.User, error) {
	var resp dto.UserResponse
	if err := uc.c.doJSON(ctx, http.MethodPost, "/api/v1/users/login", "", req, &resp); err != nil {
		return dto.User{}, err
	}
	return resp.User, nil
}

func (uc *UsersClient) Register(ctx context.Context, req dto.RegisterRequest) error {
	return uc.c.doJSON(ctx, http.MethodPost, "/api/v1/users/register", "", req, nil)
}

// ClearCookies forgets the session credential.
func (uc *UsersClient) ClearCookies() error {
	return uc.c.ClearCookies()
}
