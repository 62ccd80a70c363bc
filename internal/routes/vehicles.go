package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parking-slot-control/internal/parking"
)

// CreateVehicle registers a vehicle owned by the caller.
func (api *API) CreateVehicle(c *gin.Context) {
	var in parking.VehicleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	created, err := api.service.CreateVehicle(c.Request.Context(), GetActor(c), in)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Vehicle registered successfully",
		"data":    created,
	})
}

// ListVehicles pages through vehicles. Admins see all, users their own.
func (api *API) ListVehicles(c *gin.Context) {
	page, limit, search := pageParams(c)

	result, err := api.service.ListVehicles(c.Request.Context(), GetActor(c), page, limit, search)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateVehicle edits a vehicle owned by the caller.
func (api *API) UpdateVehicle(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var in parking.VehicleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	updated, err := api.service.UpdateVehicle(c.Request.Context(), GetActor(c), id, in)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Vehicle updated successfully",
		"data":    updated,
	})
}

// DeleteVehicle removes a vehicle owned by the caller.
func (api *API) DeleteVehicle(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := api.service.DeleteVehicle(c.Request.Context(), GetActor(c), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted successfully"})
}
