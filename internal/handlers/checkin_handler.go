package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/unilink-app/unilink/backend/internal/models"
	"github.com/unilink-app/unilink/backend/internal/repositories"
	"gorm.io/gorm"
)

// CheckinHandler handles sector check-in HTTP requests
type CheckinHandler struct {
	checkinRepository repositories.CheckinRepository
}

// NewCheckinHandler creates a new CheckinHandler
func NewCheckinHandler(checkinRepo repositories.CheckinRepository) *CheckinHandler {
	return &CheckinHandler{checkinRepository: checkinRepo}
}

// RegisterCheckinRoutes registers sector check-in routes
func (h *CheckinHandler) RegisterCheckinRoutes(g *echo.Group) {
	g.POST("/sectors/checkin", h.CheckIn)
	g.DELETE("/sectors/checkout", h.CheckOut)
	g.GET("/sectors/me", h.MyCheckin)
	g.GET("/sectors/:sector", h.SectorOccupants)
}

// CheckIn records the caller's current campus sector. A user is only ever
// in one sector; checking in again moves them.
func (h *CheckinHandler) CheckIn(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	username, _ := c.Get("username").(string)

	var req models.CheckinRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	checkin := &models.SectorCheckin{
		UserID:   userID.Hex(),
		Username: username,
		Sector:   req.Sector,
	}
	if err := h.checkinRepository.Upsert(checkin); err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"checkin": checkin})
}

// CheckOut clears the caller's check-in.
func (h *CheckinHandler) CheckOut(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	if err := h.checkinRepository.DeleteByUser(userID.Hex()); err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Checked out"})
}

// MyCheckin returns the caller's current check-in, if any.
func (h *CheckinHandler) MyCheckin(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	checkin, err := h.checkinRepository.GetByUser(userID.Hex())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorJSON(c, http.StatusNotFound, "Not checked in")
		}
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"checkin": checkin})
}

// SectorOccupants lists who is currently checked into a sector.
func (h *CheckinHandler) SectorOccupants(c echo.Context) error {
	if _, err := currentUserID(c); err != nil {
		return err
	}
	sector := c.Param("sector")
	checkins, err := h.checkinRepository.GetBySector(sector)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"sector": sector, "checkins": checkins})
}
