package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/mithilesh-08/ride-hailing/internal/api/handlers"
	"github.com/mithilesh-08/ride-hailing/internal/api/middleware"
	"github.com/mithilesh-08/ride-hailing/internal/auth"
	"github.com/mithilesh-08/ride-hailing/internal/domain/user"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, tokens *auth.TokenIssuer, nrApp *newrelic.Application) {
	if nrApp != nil {
		r.Use(nrgin.Middleware(nrApp))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	v1 := r.Group("/v1")
	{
		// WebSocket connection
		v1.GET("/ws", h.HandleWebSocket)

		// Public user endpoints
		users := v1.Group("/users")
		{
			users.POST("/register", h.Register)
			users.POST("/login", h.Login)
		}

		// Fare estimation is public; no trip request is created
		v1.GET("/fares/estimate", h.EstimateFare)

		authed := v1.Group("")
		authed.Use(middleware.Authenticate(tokens))
		{
			authed.GET("/users", h.ListUsers)
			authed.GET("/users/:id", h.GetUser)
			authed.GET("/users/:id/ratings", h.ListUserRatings)

			drivers := authed.Group("/drivers", middleware.RequireUserType(user.TypeDriver))
			{
				drivers.PUT("/location", h.UpdateDriverLocation)
			}
			authed.GET("/drivers/nearby", h.NearbyDrivers)

			vehicles := authed.Group("/vehicles", middleware.RequireUserType(user.TypeDriver))
			{
				vehicles.POST("", h.CreateVehicle)
				vehicles.GET("", h.ListVehicles)
			}

			requests := authed.Group("/trip-requests")
			{
				requests.POST("", middleware.RequireUserType(user.TypeRider), h.CreateTripRequest)
				requests.GET("/nearby", middleware.RequireUserType(user.TypeDriver), h.NearbyTripRequests)
				requests.GET("/:id", h.GetTripRequest)
				requests.DELETE("/:id", h.CancelTripRequest)
			}

			trips := authed.Group("/trips")
			{
				trips.POST("/accept", middleware.RequireUserType(user.TypeDriver), h.AcceptTrip)
				trips.POST("/:id/complete", middleware.RequireUserType(user.TypeDriver), h.CompleteTrip)
				trips.POST("/:id/cancel", h.CancelTrip)
				trips.GET("", h.ListTrips)
				trips.GET("/:id", h.GetTrip)
				trips.GET("/:id/payments", h.ListTripPayments)
				trips.POST("/:id/locations", middleware.RequireUserType(user.TypeDriver), h.RecordTripLocation)
				trips.GET("/:id/locations", h.ListTripLocations)
			}

			payments := authed.Group("/payments")
			{
				payments.POST("", h.CreatePayment)
				payments.GET("/:id", h.GetPayment)
			}

			ratings := authed.Group("/ratings")
			{
				ratings.POST("", h.CreateRating)
				ratings.PUT("/:id", h.UpdateRating)
				ratings.DELETE("/:id", h.DeleteRating)
			}

			configs := authed.Group("/pricing-configs")
			{
				configs.POST("", h.CreatePricingConfig)
				configs.GET("", h.ListPricingConfigs)
			}
		}
	}
}
