package api

import (
	"database/sql"
	"log"
	stdhttp "net/http"

	"busbooking/internal/config"
	h "busbooking/internal/http/handlers"
	"busbooking/internal/http/middleware"
	"busbooking/internal/metrics"
	"busbooking/internal/notify"
	"busbooking/internal/repositories"
	"busbooking/internal/services"

	"github.com/gin-gonic/gin"
)

// NewRouter wires repositories, services and handlers onto a gin engine.
// Everything is constructed here once; no package-level singletons.
func NewRouter(env config.Env, conn *sql.DB, collector *metrics.Collector) *gin.Engine {
	routeRepo := repositories.RouteRepository{DB: conn}
	permitRepo := repositories.PermitRepository{DB: conn}
	busRepo := repositories.BusRepository{DB: conn}
	seatMapRepo := repositories.SeatMapRepository{DB: conn}
	tripRepo := repositories.TripRepository{DB: conn}
	bookingRepo := repositories.BookingRepository{DB: conn}
	userRepo := repositories.UserRepository{DB: conn}

	var mailer notify.Sender
	if env.SMTPHost != "" {
		mailer = notify.NewSMTPSender(env)
	}

	routeSvc := services.NewRouteService(routeRepo, busRepo, tripRepo)
	permitSvc := services.NewPermitService(permitRepo, busRepo)
	busSvc := services.NewBusService(busRepo, permitRepo, routeRepo, tripRepo)
	seatMapSvc := services.NewSeatMapService(seatMapRepo, busRepo, tripRepo, bookingRepo)
	tripSvc := services.NewTripService(tripRepo, routeRepo, busRepo, seatMapRepo, bookingRepo, userRepo, mailer)
	bookingSvc := services.NewBookingService(tripRepo, bookingRepo, seatMapRepo, routeRepo, busRepo, userRepo, mailer, collector)
	userSvc := services.NewUserService(userRepo, mailer)

	authH := h.AuthHandler{DB: conn, Secret: []byte(env.JWTSecret)}
	systemH := h.SystemHandler{DB: conn}
	routeH := h.RouteHandler{Service: routeSvc}
	permitH := h.PermitHandler{Service: permitSvc}
	busH := h.BusHandler{Service: busSvc}
	seatMapH := h.SeatMapHandler{Service: seatMapSvc}
	tripH := h.TripHandler{Service: tripSvc, Bookings: bookingSvc}
	bookingH := h.BookingHandler{Service: bookingSvc, Users: userRepo}
	userH := h.UserHandler{Service: userSvc}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(), middleware.Observe(collector))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	if collector != nil {
		r.GET("/metrics", gin.WrapH(collector.Handler()))
	}

	auth := middleware.RequireAuth([]byte(env.JWTSecret))
	admin := middleware.RequireRoles("admin")

	api := r.Group("/api")
	{
		api.GET("/health", systemH.Health)
		api.GET("/db-check", systemH.DBCheck)

		authGroup := api.Group("/auth")
		authGroup.POST("/login", authH.Login)
		authGroup.POST("/register", authH.Register)

		routes := api.Group("/routes")
		routes.GET("", routeH.List)
		routes.GET("/:id", routeH.Get)
		routes.POST("", auth, admin, routeH.Create)
		routes.PUT("/:id", auth, admin, routeH.Update)
		routes.DELETE("/:id", auth, admin, routeH.Delete)

		permits := api.Group("/permits", auth, admin)
		permits.GET("", permitH.List)
		permits.GET("/:id", permitH.Get)
		permits.POST("", permitH.Create)
		permits.PUT("/:id", permitH.Update)
		permits.DELETE("/:id", permitH.Delete)

		buses := api.Group("/buses")
		buses.GET("", busH.List)
		buses.GET("/:id", busH.Get)
		buses.GET("/:id/seat-map", seatMapH.GetByBus)
		buses.GET("/:id/availability-matrix", seatMapH.AvailabilityMatrix)
		buses.POST("", auth, admin, busH.Create)
		buses.PUT("/:id", auth, admin, busH.Update)
		buses.DELETE("/:id", auth, admin, busH.Delete)

		seatMaps := api.Group("/seat-maps", auth, admin)
		seatMaps.POST("", seatMapH.Create)
		seatMaps.GET("/:id", seatMapH.Get)
		seatMaps.PUT("/:id", seatMapH.Update)
		seatMaps.DELETE("/:id", seatMapH.Delete)

		trips := api.Group("/trips")
		trips.GET("", tripH.List)
		trips.GET("/search", tripH.Search)
		trips.GET("/:id", tripH.Get)
		trips.GET("/:id/availability", tripH.CheckAvailability)
		trips.GET("/:id/seats", tripH.SeatAvailability)
		trips.POST("", auth, admin, tripH.Create)
		trips.PUT("/:id", auth, admin, tripH.Update)
		trips.DELETE("/:id", auth, admin, tripH.Delete)
		trips.POST("/:id/reconcile-seats", auth, admin, tripH.ReconcileSeats)

		api.POST("/users", auth, admin, userH.Create)

		bookings := api.Group("/bookings", auth)
		bookings.GET("", admin, bookingH.ListAll)
		bookings.GET("/me", bookingH.MyBookings)
		bookings.POST("", bookingH.Create)
		bookings.GET("/:id", bookingH.Get)
		bookings.PUT("/:id", bookingH.Update)
		bookings.DELETE("/:id", bookingH.Cancel)
		bookings.GET("/:id/e-ticket", bookingH.ETicket)
	}

	return r
}
