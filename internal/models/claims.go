package models

import "github.com/golang-jwt/jwt/v5"

// Roles
const (
	RoleClient = "client"
	RoleStaff  = "staff"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}
