package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/exam-seat-allocation/internal/handler"
)

// RegisterRoutes registers the operational routes: the health check and,
// when metrics is non-nil, the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo, metrics http.Handler) {
	e.GET("/healthz", handler.Health)
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
}

// RegisterPublic registers the unauthenticated student lookup.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	e.GET("/v1/students/:id", p.GetStudentSeat)
}

// RegisterAdmin registers the admin endpoints under /v1/admin. cache wraps
// the read-only reports; limit wraps the allocation trigger, which
// rewrites seats and is the expensive call.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, cache, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/admin")

	// ---- Allocation ----
	g.POST("/allocations/:strategy", a.Allocate, limit)

	// ---- Reports ----
	g.GET("/seating", a.SeatingReport, cache)
	g.GET("/rooms/:room_no/grid", a.RoomGrid, cache)

	// ---- Uploads ----
	g.POST("/students/upload", a.UploadStudents)
	g.POST("/rooms/upload", a.UploadRooms)
}
