package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parking-slot-control/internal/parking"
)

type bulkSlotsRequest struct {
	Slots []parking.SlotInput `json:"slots"`
}

// CreateSlots inserts a batch of parking slots. Admin only.
func (api *API) CreateSlots(c *gin.Context) {
	var req bulkSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	created, err := api.service.BulkCreateSlots(c.Request.Context(), GetActor(c), req.Slots)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Parking slots created successfully",
		"data":    created,
	})
}

// ListSlots pages through slots. Non-admins only see available ones.
func (api *API) ListSlots(c *gin.Context) {
	page, limit, search := pageParams(c)

	result, err := api.service.ListSlots(c.Request.Context(), GetActor(c), page, limit, search)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateSlot replaces a slot definition. Admin only.
func (api *API) UpdateSlot(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var in parking.SlotInput
	if err := c.ShouldBindJSON(&in); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	updated, err := api.service.UpdateSlot(c.Request.Context(), GetActor(c), id, in)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Parking slot updated successfully",
		"data":    updated,
	})
}

// DeleteSlot removes a slot. Admin only.
func (api *API) DeleteSlot(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := api.service.DeleteSlot(c.Request.Context(), GetActor(c), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Parking slot deleted successfully"})
}
