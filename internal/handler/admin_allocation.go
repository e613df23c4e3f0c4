package handler // handler package contains the admin allocation endpoints

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/exam-seat-allocation/internal/allocation"
	"github.com/iliyamo/exam-seat-allocation/internal/queue"
	"github.com/iliyamo/exam-seat-allocation/internal/repository"
	"github.com/iliyamo/exam-seat-allocation/internal/service"
)

// AdminHandler bundles the allocation engine and the stores behind the
// admin API. Events and Purge are optional.
type AdminHandler struct {
	Runner   Runner
	Students StudentStore
	Rooms    RoomStore
	Events   EventPublisher                  // publishes allocation.completed; nil disables
	Purge    func(ctx context.Context) error // drops cached reports; nil disables
}

// NewAdminHandler constructs an AdminHandler and panics if a required
// dependency is nil.
func NewAdminHandler(runner Runner, students StudentStore, rooms RoomStore) *AdminHandler {
	if runner == nil || students == nil || rooms == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{Runner: runner, Students: students, Rooms: rooms}
}

type allocateResponse struct {
	RunID      string                 `json:"run_id"`
	Strategy   string                 `json:"strategy"`
	Rooms      int                    `json:"rooms"`
	Seated     int                    `json:"seated"`
	DurationMS int64                  `json:"duration_ms"`
	Seating    []allocation.ReportRow `json:"seating"`
}

// Allocate handles POST /v1/admin/allocations/:strategy. It runs one
// allocation pass and returns the run summary with the seating report.
func (h *AdminHandler) Allocate(c echo.Context) error {
	strategy, err := allocation.ParseStrategy(c.Param("strategy"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "strategy must be one of regular, first-year, university"})
	}
	ctx := c.Request().Context()

	res, err := h.Runner.Run(ctx, strategy)
	// A run that reached the store may have reset or written seats even
	// when it failed, so cached reports are stale either way.
	if res != nil {
		h.purge(ctx)
	}
	if err != nil {
		switch {
		case errors.Is(err, allocation.ErrRunInProgress):
			return c.JSON(http.StatusConflict, echo.Map{"error": "an allocation run is already in progress"})
		case errors.Is(err, allocation.ErrConfig):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		}
		log.Printf("allocation: %s run failed after %d seats: %v", strategy, res.Seats(), err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "allocation failed", "seated": res.Seats()})
	}

	if res.Seats() > 0 && h.Events != nil {
		go h.publish(service.AllocationCompleted(res, time.Now()))
	}
	return c.JSON(http.StatusOK, allocateResponse{
		RunID:      res.RunID,
		Strategy:   string(res.Strategy),
		Rooms:      res.Rooms,
		Seated:     res.Seats(),
		DurationMS: res.Duration.Milliseconds(),
		Seating:    res.Report(),
	})
}

func (h *AdminHandler) purge(ctx context.Context) {
	if h.Purge == nil {
		return
	}
	if err := h.Purge(context.WithoutCancel(ctx)); err != nil {
		log.Printf("allocation: purge report cache: %v", err)
	}
}

// publish runs detached from the request; the broker being down must not
// fail an allocation that already committed.
func (h *AdminHandler) publish(ev queue.AllocationCompletedEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := h.Events.PublishAllocationCompleted(ctx, ev); err != nil {
		log.Printf("allocation: publish run %s: %v", ev.RunID, err)
	}
}

// SeatingReport handles GET /v1/admin/seating and returns the persisted
// seating grouped by room, then column, then row.
func (h *AdminHandler) SeatingReport(c echo.Context) error {
	students, err := h.Students.ListAllocated(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	rows := allocation.ReportFromStudents(students)
	return c.JSON(http.StatusOK, echo.Map{"total": len(rows), "seating": rows})
}

// RoomGrid handles GET /v1/admin/rooms/:room_no/grid and returns the
// rows x cols matrix of student ids for one room.
func (h *AdminHandler) RoomGrid(c echo.Context) error {
	roomNo := strings.TrimSpace(c.Param("room_no"))
	if roomNo == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_no is required"})
	}
	ctx := c.Request().Context()
	room, err := h.Rooms.GetByRoomNo(ctx, roomNo)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	students, err := h.Students.ListByRoom(ctx, room.RoomNo)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"room_no":  room.RoomNo,
		"rows":     room.Rows,
		"columns":  room.Cols,
		"capacity": room.Capacity,
		"grid":     allocation.RoomGrid(*room, students),
	})
}
