package routes

import (
	"github.com/gin-gonic/gin"

	"parking-slot-control/internal/email"
	"parking-slot-control/internal/otp"
	"parking-slot-control/internal/parking"
	"parking-slot-control/internal/storage"
)

// API bundles the dependencies the handlers need.
type API struct {
	service *parking.Service
	storage storage.Provider
	mail    *email.Dispatcher
	otp     otp.Store
}

func NewAPI(service *parking.Service, provider storage.Provider, mail *email.Dispatcher, otpStore otp.Store) *API {
	return &API{
		service: service,
		storage: provider,
		mail:    mail,
		otp:     otpStore,
	}
}

// RegisterRoutes wires every endpoint under /api/v1.
func RegisterRoutes(r *gin.Engine, api *API) {
	r.GET("/health", api.Health)

	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", api.Register)
		auth.POST("/login", api.Login)
		auth.POST("/otp/request", api.RequestOTP)
		auth.POST("/otp/verify", api.VerifyOTP)
	}

	// The pass is the credential at the barrier, so no session is required.
	v1.POST("/gate/checkin", api.GateCheckin)

	authed := v1.Group("", Authenticate())
	{
		requests := authed.Group("/requests")
		{
			requests.POST("", api.CreateRequest)
			requests.GET("", api.ListRequests)
			requests.PUT("/:id", api.UpdateRequest)
			requests.DELETE("/:id", api.DeleteRequest)
			requests.GET("/:id/pass", api.GatePass)
			requests.POST("/:id/approve", RequireAdmin(), api.ApproveRequest)
			requests.POST("/:id/reject", RequireAdmin(), api.RejectRequest)
		}

		slots := authed.Group("/slots")
		{
			slots.GET("", api.ListSlots)
			slots.POST("", RequireAdmin(), api.CreateSlots)
			slots.PUT("/:id", RequireAdmin(), api.UpdateSlot)
			slots.DELETE("/:id", RequireAdmin(), api.DeleteSlot)
		}

		vehicles := authed.Group("/vehicles")
		{
			vehicles.POST("", api.CreateVehicle)
			vehicles.GET("", api.ListVehicles)
			vehicles.PUT("/:id", api.UpdateVehicle)
			vehicles.DELETE("/:id", api.DeleteVehicle)
		}

		authed.GET("/logs", RequireAdmin(), api.ListLogs)
		authed.GET("/users", RequireAdmin(), api.ListUsers)
	}
}
