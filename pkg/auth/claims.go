package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/snackstand/snackstand-backend/pkg/enums"
)

// Principal is the explicit authenticated actor handed to every operation.
// Role state never lives in ambient globals; handlers derive a Principal from
// the verified token and pass it down.
type Principal struct {
	CustomerID uint
	Role       enums.ActorRole
}

// IsOwner reports whether the principal carries the administrative role.
func (p Principal) IsOwner() bool {
	return p.Role == enums.ActorRoleOwner
}

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	CustomerID uint
	Role       enums.ActorRole
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	CustomerID uint            `json:"customer_id"`
	Role       enums.ActorRole `json:"role"`
	jwt.RegisteredClaims
}

// Principal converts verified claims into the explicit actor type.
func (c *AccessTokenClaims) Principal() Principal {
	if c == nil {
		return Principal{}
	}
	return Principal{CustomerID: c.CustomerID, Role: c.Role}
}
