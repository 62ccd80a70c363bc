package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"parking-slot-control/internal/config"
	"parking-slot-control/internal/jwt"
	"parking-slot-control/internal/parking"
	"parking-slot-control/internal/storage"
)

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid id", parking.ErrValidation)
	}
	return id, nil
}

func pageParams(c *gin.Context) (page, limit int, search string) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	return page, limit, c.Query("search")
}

// CreateRequest files a new pending slot request for the caller.
func (api *API) CreateRequest(c *gin.Context) {
	var in parking.RequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	request, err := api.service.CreateRequest(c.Request.Context(), GetActor(c), in)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Slot request created successfully",
		"data":    request,
	})
}

// ListRequests pages through slot requests. Admins see all, users their own.
func (api *API) ListRequests(c *gin.Context) {
	page, limit, search := pageParams(c)

	result, err := api.service.ListRequests(c.Request.Context(), GetActor(c), page, limit, search)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateRequest edits a pending request owned by the caller.
func (api *API) UpdateRequest(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var in parking.RequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	request, err := api.service.UpdateRequest(c.Request.Context(), GetActor(c), id, in)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Slot request updated successfully",
		"data":    request,
	})
}

// DeleteRequest withdraws a pending request owned by the caller.
func (api *API) DeleteRequest(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := api.service.DeleteRequest(c.Request.Context(), GetActor(c), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Slot request deleted successfully"})
}

// ApproveRequest runs the allocation procedure for a pending request.
func (api *API) ApproveRequest(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := api.service.ApproveRequest(c.Request.Context(), GetActor(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// RejectRequest rejects a pending request with a mandatory reason.
func (api *API) RejectRequest(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := api.service.RejectRequest(c.Request.Context(), GetActor(c), id, req.Reason)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

const gatePassQRSize = 256

// Marker stored against a pass jti so the gate can consume it exactly once.
const gatePassMarker = "gate-pass"

// GatePass issues a short-lived entry token for an approved request. With
// format=png the token is rendered as a QR code for the gate scanner,
// otherwise it is returned as JSON.
func (api *API) GatePass(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	actor := GetActor(c)
	request, err := api.storage.GetRequest(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			AbortWithError(c, fmt.Errorf("%w: request not found", parking.ErrNotFound))
			return
		}
		AbortWithError(c, err)
		return
	}

	if request.UserID != actor.UserID && !actor.IsAdmin() {
		AbortWithError(c, fmt.Errorf("%w: request not found", parking.ErrNotFound))
		return
	}
	if request.Status != storage.RequestApproved || request.SlotNumber == nil {
		AbortWithError(c, fmt.Errorf("%w: request is not approved", parking.ErrValidation))
		return
	}

	claims := jwt.NewGatePassClaims(request.ID, *request.SlotNumber)
	token, err := jwt.GenerateJWT(claims)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// Register the pass by its jti so check-in can consume it once.
	ttl := time.Duration(config.Cfg.GatePassTTL) * time.Minute
	if err := api.otp.Put(c.Request.Context(), claims.ID, gatePassMarker, ttl); err != nil {
		AbortWithError(c, err)
		return
	}

	if c.Query("format") == "png" {
		png, err := qrcode.Encode(token, qrcode.Medium, gatePassQRSize)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Data(http.StatusOK, "image/png", png)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pass":        token,
		"slot_number": *request.SlotNumber,
	})
}

type gateCheckinRequest struct {
	Pass string `json:"pass"`
}

// GateCheckin verifies a gate pass presented at the entry barrier. The
// endpoint is unauthenticated; the pass itself is the credential.
func (api *API) GateCheckin(c *gin.Context) {
	var req gateCheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	claims, err := jwt.DecodeGatePassJWT(req.Pass)
	if err != nil {
		AbortWithError(c, jwt.ErrNonValidToken)
		return
	}

	// Single use: a replayed pass is refused even while its signature is
	// still valid.
	ok, err := api.otp.Consume(c.Request.Context(), claims.ID, gatePassMarker)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !ok {
		AbortWithError(c, jwt.ErrNonValidToken)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Entry authorized",
		"request_id":  claims.RequestID,
		"slot_number": claims.SlotNumber,
	})
}
