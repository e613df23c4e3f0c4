package handler // handler package contains the public student lookup

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/exam-seat-allocation/internal/repository"
)

// PublicHandler serves unauthenticated lookups for students.
type PublicHandler struct {
	Students StudentStore
}

// NewPublicHandler constructs a PublicHandler.
func NewPublicHandler(students StudentStore) *PublicHandler {
	if students == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Students: students}
}

type seatResponse struct {
	StudentID string  `json:"student_id"`
	Name      *string `json:"name,omitempty"`
	Dept      string  `json:"dept"`
	Year      *int    `json:"year,omitempty"`
	Div       *string `json:"div,omitempty"`
	Allocated bool    `json:"allocated"`
	RoomNo    *string `json:"room_no"`
	SeatNo    *string `json:"seat_no"`
}

// GetStudentSeat handles GET /v1/students/:id. The registration number is
// matched case-insensitively. Unallocated students are returned with null
// room and seat.
func (h *PublicHandler) GetStudentSeat(c echo.Context) error {
	id := strings.ToUpper(strings.TrimSpace(c.Param("id")))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "registration number is required"})
	}
	s, err := h.Students.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "registration number " + id + " not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, seatResponse{
		StudentID: s.StudentID,
		Name:      s.Name,
		Dept:      s.Dept,
		Year:      s.Year,
		Div:       s.Div,
		Allocated: s.Allocated(),
		RoomNo:    s.RoomNo,
		SeatNo:    s.SeatNo,
	})
}
