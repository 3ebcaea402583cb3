package availability

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	avail "github.com/fabiodalez-dev/Pinakes-sub005/service/availability"
	rs "github.com/fabiodalez-dev/Pinakes-sub005/service/reservation"
	"github.com/fabiodalez-dev/Pinakes-sub005/util/dates"
)

type Controller struct {
	Svc rs.Service
	Log *slog.Logger
}

type dayJSON struct {
	Date            string `json:"date"`
	State           string `json:"state"`
	OccupiedCount   int    `json:"occupied_count"`
	AvailableCopies int    `json:"available_copies"`
}

// GET /v1/titles/:id/availability?days=60&from=2026-09-01
func (h *Controller) Get(c echo.Context) error {
	titleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || titleID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid title id"})
	}

	days := avail.DefaultHorizonDays
	if v := c.QueryParam("days"); v != "" {
		days, err = strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid days"})
		}
	}

	from := time.Now().UTC()
	if v := c.QueryParam("from"); v != "" {
		from, err = dates.Parse(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid from date"})
		}
	}

	res, err := h.Svc.Availability(c.Request().Context(), titleID, from, days)
	if err != nil {
		if rs.Code(err) == rs.ErrTitleNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "title not found"})
		}
		h.Log.Error("availability", "err", err, "title_id", titleID)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	out := make([]dayJSON, 0, len(res.Days))
	for _, d := range res.Days {
		out = append(out, dayJSON{
			Date:            dates.Format(d.Date),
			State:           string(d.State),
			OccupiedCount:   d.OccupiedCount,
			AvailableCopies: d.AvailableCopies,
		})
	}
	unavailable := make([]string, 0, len(res.UnavailableDates))
	for _, d := range res.UnavailableDates {
		unavailable = append(unavailable, dates.Format(d))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"title":              res.Title,
		"total_copies":       res.TotalCopies,
		"days":               out,
		"earliest_available": dates.Format(res.EarliestAvailable),
		"unavailable_dates":  unavailable,
	})
}
