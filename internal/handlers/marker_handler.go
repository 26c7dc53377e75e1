package handlers

import (
	"net/http"
	"time"

	"github.com/centerapp/backend/internal/models"
	"github.com/centerapp/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
)

// MarkerHandler handles HTTP requests related to map markers
type MarkerHandler struct {
	markerRepository repositories.MarkerRepository
}

// NewMarkerHandler creates a new MarkerHandler
func NewMarkerHandler(markerRepo repositories.MarkerRepository) *MarkerHandler {
	return &MarkerHandler{markerRepository: markerRepo}
}

// RegisterMarkerRoutes registers marker-related routes
func (h *MarkerHandler) RegisterMarkerRoutes(g *echo.Group) {
	g.POST("/markers", h.CreateMarker)
	g.GET("/markers", h.GetMarkers)
	g.GET("/markers/:id", h.GetMarker)
	g.DELETE("/markers/:id", h.DeleteMarker)
}

// CreateMarker creates a new map marker
func (h *MarkerHandler) CreateMarker(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateMarkerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	marker := &models.Marker{
		UserID:    currentUserID,
		Title:     req.Title,
		Comment:   req.Comment,
		Color:     req.Color,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Photos:    req.Photos,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.markerRepository.CreateMarker(c.Request().Context(), marker); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, marker)
}

// GetMarkers lists all markers
func (h *MarkerHandler) GetMarkers(c echo.Context) error {
	markers, err := h.markerRepository.GetMarkers(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"markers": markers})
}

// GetMarker retrieves a marker by ID
func (h *MarkerHandler) GetMarker(c echo.Context) error {
	markerID := c.Param("id")

	marker, err := h.markerRepository.GetMarkerByID(c.Request().Context(), markerID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusNotFound, "Marker not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, marker)
}

// DeleteMarker deletes a marker
func (h *MarkerHandler) DeleteMarker(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	markerID := c.Param("id")

	marker, err := h.markerRepository.GetMarkerByID(c.Request().Context(), markerID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusNotFound, "Marker not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if marker.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this marker")
	}

	if err := h.markerRepository.DeleteMarker(c.Request().Context(), markerID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
