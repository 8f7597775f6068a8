package dto

import "encoding/json"

type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Image string `json:"image,omitempty"`
}

// UserResponse accepts the identity at the top level, under "user", or
// under "data.user".
type UserResponse struct {
	User User
}

func (r *UserResponse) UnmarshalJSON(b []byte) error {
	var env struct {
		User *User `json:"user"`
		Data *struct {
			User *User `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	switch {
	case env.Data != nil && env.Data.User != nil:
		r.User = *env.Data.User
	case env.User != nil:
		r.User = *env.User
	default:
		var u User
		if err := json.Unmarshal(b, &u); err != nil {
			return err
		}
		r.User = u
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}
