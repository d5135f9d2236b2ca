package routes

import (
	"kerbside/auth"
	"kerbside/events"
	"kerbside/feed"
	"kerbside/middleware"
	"kerbside/parking"
	"kerbside/prediction"
	"kerbside/ratelim"

	"github.com/julienschmidt/httprouter"
)

// Deps carries the wired handler sets route registration needs.
type Deps struct {
	Auth       *auth.Handlers
	Events     *events.Handlers
	Parking    *parking.Handlers
	Prediction *prediction.Handlers
	Feed       *feed.Hub
}

func RoutesWrapper(router *httprouter.Router, rl *ratelim.RateLimiter, deps Deps) {
	AddAuthRoutes(router, rl, deps.Auth)
	AddEventsRoutes(router, rl, deps.Events)
	AddSlotRoutes(router, rl, deps.Parking)
	AddPredictionRoutes(router, rl, deps.Prediction)
	AddFeedRoutes(router, deps.Feed)
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *auth.Handlers) {
	router.POST("/api/auth/request-otp", rl.Limit(h.RequestOTP))
	router.POST("/api/auth/register", rl.Limit(h.Register))
	router.POST("/api/auth/login", rl.Limit(h.Login))
	router.GET("/api/auth/session", h.Session)
	router.POST("/api/auth/logout", middleware.Authenticate(h.Logout))
}

func AddEventsRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *events.Handlers) {
	router.GET("/api/events", rl.Limit(h.List))
	router.POST("/api/events", rl.Limit(middleware.AdminOnly(h.CreateOrUpdate)))
	router.DELETE("/api/events/:eventid", middleware.AdminOnly(h.Delete))
}

func AddSlotRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *parking.Handlers) {
	router.GET("/api/slots", h.GetSlots)
	router.GET("/api/parking", middleware.Authenticate(h.ListSlots))
	router.POST("/api/slots/:slotid/toggle", rl.Limit(middleware.AdminOnly(h.ToggleSlot)))
	router.GET("/api/slots/:slotid/qr", rl.Limit(h.SlotQR))
	router.GET("/api/admin/report", middleware.AdminOnly(h.WaitLogReport))
}

func AddPredictionRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *prediction.Handlers) {
	router.POST("/api/predict", rl.Limit(h.PredictWait))
	router.POST("/api/predict/availability", rl.Limit(h.PredictAvailability))
	router.GET("/api/plan", rl.Limit(h.Plan))
}

func AddFeedRoutes(router *httprouter.Router, hub *feed.Hub) {
	router.GET("/ws/slots", hub.HandleWS)
}
