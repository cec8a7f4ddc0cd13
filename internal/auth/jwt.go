package auth

import (
	"time"

	"voyage-backend/internal/models"
	"voyage-backend/internal/policy"

	"github.com/golang-jwt/jwt/v5"
)

type JWTCustomClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	RoleCode     string `json:"role_code"` // effective role at issue time
	SiteID       uint   `json:"site_id"`
	DepartmentID uint   `json:"department_id"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, user *models.User) (string, error) {
	roleCode := ""
	if role := policy.EffectiveRole(user); role != nil {
		roleCode = role.Code
	}

	claims := &JWTCustomClaims{
		UserID:       user.ID,
		Email:        user.Email,
		RoleCode:     roleCode,
		SiteID:       user.SiteID(),
		DepartmentID: user.DepartmentID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
