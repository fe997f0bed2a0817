package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/washline-backend/pkg/enums"
)

// AccessTokenPayload is the identity a token is minted for.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	OutletID *uuid.UUID
	Role     enums.UserRole
	JTI      string
}

// AccessTokenClaims is the decoded body of an access token.
type AccessTokenClaims struct {
	UserID   uuid.UUID      `json:"user_id"`
	OutletID *uuid.UUID     `json:"outlet_id,omitempty"`
	Role     enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

func (c *AccessTokenClaims) validate() error {
	if c.UserID == uuid.Nil {
		return errors.New("user_id claim missing")
	}
	if !c.Role.IsValid() {
		return fmt.Errorf("invalid user role %q", c.Role)
	}
	return nil
}

// IsAdmin reports whether the token grants price record writes.
func (c *AccessTokenClaims) IsAdmin() bool {
	return c != nil && c.Role == enums.UserRoleAdmin
}
