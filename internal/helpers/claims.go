package helpers

import (
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Claims is the token payload: {"user":{"id":...}} plus the registered claims.
type Claims struct {
	User ClaimsUser `json:"user"`
	jwt.RegisteredClaims
}

type ClaimsUser struct {
	ID string `json:"id"`
}

// Identity is what the auth middleware stores on the request under "user".
type Identity struct {
	UserID primitive.ObjectID
}
