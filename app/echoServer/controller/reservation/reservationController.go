package reservation

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	rs "github.com/fabiodalez-dev/Pinakes-sub005/service/reservation"
	"github.com/fabiodalez-dev/Pinakes-sub005/util/dates"
)

type Controller struct {
	Svc rs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/titles/:id/reservations
func (h *Controller) Create(c echo.Context) error {
	titleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || titleID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid title id"})
	}

	var req CreateReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"code":    string(rs.ErrInvalidDate),
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	uid, _ := c.Get("user_id").(int64)

	start, err := dates.Parse(req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": string(rs.ErrInvalidDate), "message": "invalid start date"})
	}
	var end *time.Time
	if req.EndDate != "" {
		e, err := dates.Parse(req.EndDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"code": string(rs.ErrInvalidDate), "message": "invalid end date"})
		}
		end = &e
	}

	out, err := h.Svc.Create(c.Request().Context(), titleID, uid, start, end)
	if err != nil {
		switch rs.Code(err) {
		case rs.ErrInvalidDate:
			return c.JSON(http.StatusBadRequest, echo.Map{"code": string(rs.ErrInvalidDate), "message": "invalid reservation dates"})
		case rs.ErrPastDate:
			return c.JSON(http.StatusBadRequest, echo.Map{"code": string(rs.ErrPastDate), "message": "start date is in the past"})
		case rs.ErrDuplicateActive:
			return c.JSON(http.StatusConflict, echo.Map{"code": string(rs.ErrDuplicateActive), "message": "an open reservation for this title already exists"})
		case rs.ErrTitleNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"code": string(rs.ErrTitleNotFound), "message": "title not found"})
		default:
			h.Log.Error("reservation create", "err", err, "title_id", titleID, "user_id", uid)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	// Acceptance is an acknowledgment, not a grant: a copy is assigned by
	// the admin review workflow.
	return c.JSON(http.StatusCreated, echo.Map{
		"reservation_id": out.ReservationID,
		"status":         "PENDING",
		"start_date":     dates.Format(out.StartDate),
		"end_date":       dates.Format(out.EndDate),
		"message":        "reservation pending, awaiting review",
	})
}

// GET /v1/titles/:id/queue?date=2026-09-01
func (h *Controller) Queue(c echo.Context) error {
	titleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || titleID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid title id"})
	}

	d := time.Now().UTC()
	if v := c.QueryParam("date"); v != "" {
		d, err = dates.Parse(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid date"})
		}
	}

	info, err := h.Svc.Queue(c.Request().Context(), titleID, d)
	if err != nil {
		if rs.Code(err) == rs.ErrTitleNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "title not found"})
		}
		h.Log.Error("reservation queue", "err", err, "title_id", titleID)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"queue_size": info.QueueSize})
}

// GET /v1/reservations/:id/position
func (h *Controller) Position(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	pos, err := h.Svc.Position(c.Request().Context(), id)
	if err != nil {
		switch rs.Code(err) {
		case rs.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"code": string(rs.ErrNotFound), "message": "reservation not found"})
		case rs.ErrNotQueued:
			return c.JSON(http.StatusNotFound, echo.Map{"code": string(rs.ErrNotQueued), "message": "reservation is not queued"})
		default:
			h.Log.Error("reservation position", "err", err, "reservation_id", id)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"position": pos})
}
