package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/SokThavireak/sushi-store/models"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID             uint   `json:"user_id"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	AssignedLocationID *uint  `json:"assigned_location_id,omitempty"`
	Superuser          bool   `json:"superuser,omitempty"`
	Label              string `json:"label,omitempty"`
	jwt.RegisteredClaims
}

// Principal converts token claims back into the principal handlers consume.
func (c *Claims) Principal() models.Principal {
	return models.Principal{
		UserID:             c.UserID,
		Email:              c.Email,
		Role:               c.Role,
		AssignedLocationID: c.AssignedLocationID,
		Superuser:          c.Superuser,
		Label:              c.Label,
	}
}

func getJWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("FATAL: JWT_SECRET environment variable is not set. Refusing to start with an insecure configuration.")
	}
	return secret
}

func GenerateToken(p models.Principal) (string, error) {
	secret := getJWTSecret()

	claims := Claims{
		UserID:             p.UserID,
		Email:              p.Email,
		Role:               p.Role,
		AssignedLocationID: p.AssignedLocationID,
		Superuser:          p.Superuser,
		Label:              p.Label,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "sushi-store",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateToken(tokenString string) (*Claims, error) {
	secret := getJWTSecret()

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
