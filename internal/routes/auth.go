package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"parking-slot-control/internal/config"
	"parking-slot-control/internal/jwt"
	"parking-slot-control/internal/otp"
	"parking-slot-control/internal/parking"
	"parking-slot-control/internal/storage"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type otpRequest struct {
	Email string `json:"email"`
}

type otpVerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

const minPasswordLen = 8

// Register creates a user account and mails a verification code.
func (api *API) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		AbortWithError(c, fmt.Errorf("%w: name, email and password are required", parking.ErrValidation))
		return
	}
	if err := parking.ValidEmail(req.Email); err != nil {
		AbortWithError(c, err)
		return
	}
	if len(req.Password) < minPasswordLen {
		AbortWithError(c, fmt.Errorf("%w: password must be at least %d characters", parking.ErrValidation, minPasswordLen))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	user, err := api.storage.CreateUser(c.Request.Context(), storage.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         storage.RoleUser,
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			AbortWithError(c, fmt.Errorf("%w: email already registered", parking.ErrValidation))
			return
		}
		AbortWithError(c, err)
		return
	}

	// Verification code is best effort; the account exists either way and the
	// code can be requested again.
	api.sendLoginCode(c, user.Email)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created. Check your email for a verification code.",
		"user":    user,
	})
}

// Login exchanges email and password for a session token.
func (api *API) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	user, err := api.storage.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			AbortWithError(c, ErrInvalidCredentials)
			return
		}
		AbortWithError(c, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		AbortWithError(c, ErrInvalidCredentials)
		return
	}

	api.issueToken(c, user)
}

// RequestOTP mails a one-time login code to a registered address. The
// response is the same whether or not the address exists.
func (api *API) RequestOTP(c *gin.Context) {
	var req otpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := parking.ValidEmail(req.Email); err != nil {
		AbortWithError(c, err)
		return
	}

	if _, err := api.storage.GetUserByEmail(c.Request.Context(), req.Email); err == nil {
		api.sendLoginCode(c, req.Email)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "If the address is registered, a login code has been sent.",
	})
}

// VerifyOTP consumes a login code, marks the account verified and issues a
// session token.
func (api *API) VerifyOTP(c *gin.Context) {
	var req otpVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Code = strings.TrimSpace(req.Code)
	if req.Email == "" || req.Code == "" {
		AbortWithError(c, fmt.Errorf("%w: email and code are required", parking.ErrValidation))
		return
	}

	ok, err := api.otp.Consume(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !ok {
		AbortWithError(c, ErrInvalidCredentials)
		return
	}

	user, err := api.storage.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		AbortWithError(c, ErrInvalidCredentials)
		return
	}

	if !user.Verified {
		if err := api.storage.MarkUserVerified(c.Request.Context(), user.ID); err != nil {
			AbortWithError(c, err)
			return
		}
		user.Verified = true
	}

	api.issueToken(c, user)
}

func (api *API) issueToken(c *gin.Context, user *storage.User) {
	token, err := jwt.GenerateJWT(jwt.NewAuthClaims(user))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// sendLoginCode generates, stores and mails a fresh code. Failures are
// logged through the dispatcher path and intentionally not surfaced so the
// endpoint cannot be used to probe for registered addresses.
func (api *API) sendLoginCode(c *gin.Context, email string) {
	code, err := otp.GenerateCode()
	if err != nil {
		return
	}

	ttl := time.Duration(config.Cfg.OTPTTL) * time.Minute
	if err := api.otp.Put(c.Request.Context(), email, code, ttl); err != nil {
		return
	}

	_ = api.mail.SendOTP(c.Request.Context(), email, code, config.Cfg.OTPTTL)
}
