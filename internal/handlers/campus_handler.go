package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/unilink-app/unilink/backend/internal/campus"
)

// CampusHandler exposes the cached campus feeds
type CampusHandler struct {
	campusService *campus.Service
}

// NewCampusHandler creates a new CampusHandler
func NewCampusHandler(campusService *campus.Service) *CampusHandler {
	return &CampusHandler{campusService: campusService}
}

// RegisterCampusRoutes registers campus feed routes
func (h *CampusHandler) RegisterCampusRoutes(g *echo.Group) {
	g.GET("/campus/menu", h.GetMenu)
	g.GET("/campus/bus", h.GetBusDepartures)
}

// GetMenu returns the canteen menu, today's when no date is given.
func (h *CampusHandler) GetMenu(c echo.Context) error {
	menu, err := h.campusService.Menu(c.Request().Context(), c.QueryParam("date"))
	if err != nil {
		return errorJSON(c, http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"menu": menu})
}

// GetBusDepartures returns the timetable for a bus line.
func (h *CampusHandler) GetBusDepartures(c echo.Context) error {
	departures, err := h.campusService.BusDepartures(c.Request().Context(), c.QueryParam("line"))
	if err != nil {
		if errors.Is(err, campus.ErrLineRequired) {
			return errorJSON(c, http.StatusBadRequest, err.Error())
		}
		return errorJSON(c, http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"departures": departures})
}
