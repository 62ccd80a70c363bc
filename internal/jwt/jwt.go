package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"parking-slot-control/internal/config"
	"parking-slot-control/internal/storage"
)

var (
	ErrNonValidToken    = errors.New("token did not pass validation")
	ErrInvalidClaimType = errors.New("invalid claim type")
)

var tokenSignatureAlg = jwt.SigningMethodHS256

// AuthClaims identifies an authenticated user for the duration of a session.
type AuthClaims struct {
	UserID int64        `json:"user_id"`
	Role   storage.Role `json:"role"`
	jwt.RegisteredClaims
}

func NewAuthClaims(user *storage.User) AuthClaims {
	ttl := time.Duration(config.Cfg.AuthTTL) * time.Hour
	return AuthClaims{
		UserID:           user.ID,
		Role:             user.Role,
		RegisteredClaims: newRegisteredClaims(ttl),
	}
}

func DecodeAuthJWT(tokenString string) (*AuthClaims, error) {
	return decodeJWT(tokenString, &AuthClaims{})
}

// GatePassClaims is a short-lived token proving an approved request may
// enter the parking area. Rendered as a QR code at the gate.
type GatePassClaims struct {
	RequestID  int64  `json:"request_id"`
	SlotNumber string `json:"slot_number"`
	jwt.RegisteredClaims
}

func NewGatePassClaims(requestID int64, slotNumber string) GatePassClaims {
	ttl := time.Duration(config.Cfg.GatePassTTL) * time.Minute
	return GatePassClaims{
		RequestID:        requestID,
		SlotNumber:       slotNumber,
		RegisteredClaims: newRegisteredClaims(ttl),
	}
}

func DecodeGatePassJWT(tokenString string) (*GatePassClaims, error) {
	return decodeJWT(tokenString, &GatePassClaims{})
}

func newRegisteredClaims(ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now().UTC()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

// Generic JWT token generation function
func GenerateJWT(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(tokenSignatureAlg, claims)
	JWTSecret := []byte(config.Cfg.Secret)
	return token.SignedString(JWTSecret)
}

func decodeJWT[T jwt.Claims](tokenString string, claimsType T) (T, error) {
	var zero T

	parsedToken, err := jwt.ParseWithClaims(tokenString, claimsType, func(token *jwt.Token) (interface{}, error) {
		JWTSecret := []byte(config.Cfg.Secret)
		return JWTSecret, nil
	}, jwt.WithValidMethods([]string{tokenSignatureAlg.Alg()}))

	if err != nil {
		return zero, err
	} else if parsedToken == nil || !parsedToken.Valid {
		return zero, ErrNonValidToken
	} else if claims, ok := parsedToken.Claims.(T); ok {
		return claims, nil
	}

	return zero, ErrInvalidClaimType
}
