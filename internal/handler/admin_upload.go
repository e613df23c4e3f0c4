package handler // handler package contains the CSV upload endpoints

import (
	"errors"
	"io"
	"log"
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"
)

// maxUploadBytes bounds a single CSV upload.
const maxUploadBytes = 8 << 20

// uploadBody returns the CSV payload of a request: the multipart field
// "file", or the raw body for text/csv requests.
func uploadBody(c echo.Context) (io.ReadCloser, error) {
	mt, _, _ := mime.ParseMediaType(c.Request().Header.Get(echo.HeaderContentType))
	if mt == "text/csv" || mt == "text/plain" {
		return http.MaxBytesReader(c.Response(), c.Request().Body, maxUploadBytes), nil
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, errors.New("attach the CSV as multipart field \"file\" or send it as text/csv")
	}
	if fh.Size > maxUploadBytes {
		return nil, errors.New("file too large")
	}
	return fh.Open()
}

func uploadError(c echo.Context, err error) error {
	var ce *csvError
	switch {
	case errors.As(err, &ce):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ce.Msg, "line": ce.Line})
	case errors.Is(err, errNoRecords):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file too large"})
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
}

// UploadStudents handles POST /v1/admin/students/upload. The CSV replaces
// every student; all of them start unallocated.
func (h *AdminHandler) UploadStudents(c echo.Context) error {
	body, err := uploadBody(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	defer body.Close()

	students, err := parseStudentsCSV(body)
	if err != nil {
		return uploadError(c, err)
	}
	ctx := c.Request().Context()
	if err := h.Students.ReplaceAll(ctx, students); err != nil {
		log.Printf("upload: replace students: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not store students"})
	}
	h.purge(ctx)
	return c.JSON(http.StatusCreated, echo.Map{"imported": len(students)})
}

// UploadRooms handles POST /v1/admin/rooms/upload. The CSV replaces every
// room layout.
func (h *AdminHandler) UploadRooms(c echo.Context) error {
	body, err := uploadBody(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	defer body.Close()

	rooms, err := parseRoomsCSV(body)
	if err != nil {
		return uploadError(c, err)
	}
	ctx := c.Request().Context()
	if err := h.Rooms.ReplaceAll(ctx, rooms); err != nil {
		log.Printf("upload: replace rooms: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not store rooms"})
	}
	h.purge(ctx)
	return c.JSON(http.StatusCreated, echo.Map{"imported": len(rooms)})
}
