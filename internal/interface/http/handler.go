package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/outfit-advisor/internal/domain/outfit"
	"github.com/yanqian/outfit-advisor/internal/domain/weather"
	"github.com/yanqian/outfit-advisor/pkg/util"
)

// IPLocator resolves a caller address to a position.
type IPLocator interface {
	ForIP(ip string) weather.Locator
}

// Handler wires the HTTP transport to domain services.
type Handler struct {
	outfitSvc  outfit.Service
	weatherSvc weather.Service
	ipLocator  IPLocator
	logger     *slog.Logger
}

// NewHandler constructs the root HTTP handler. ipLocator may be nil.
func NewHandler(outfitSvc outfit.Service, weatherSvc weather.Service, ipLocator IPLocator, logger *slog.Logger) *Handler {
	return &Handler{
		outfitSvc:  outfitSvc,
		weatherSvc: weatherSvc,
		ipLocator:  ipLocator,
		logger:     logger.With("component", "http.handler"),
	}
}

type locationQuery struct {
	Latitude   *float64 `form:"lat" json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude  *float64 `form:"lon" json:"longitude" binding:"omitempty,min=-180,max=180"`
	ObservedAt int64    `form:"observedAt" json:"observedAt"`
}

type batchRequest struct {
	BatchSize int `json:"batchSize" binding:"omitempty,min=1"`
	locationQuery
}

type preferencesRequest struct {
	Gender string `json:"gender" binding:"required,oneof=male female nonbinary"`
	Style  string `json:"style" binding:"required,max=64"`
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CurrentWeather returns the weather at the caller's position.
func (h *Handler) CurrentWeather(c *gin.Context) {
	var q locationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	report, err := h.weatherSvc.Current(c.Request.Context(), h.locatorFor(c, q))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetPreferences returns the caller's style preferences.
func (h *Handler) GetPreferences(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	prefs, err := h.outfitSvc.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// SavePreferences overwrites the caller's style preferences.
func (h *Handler) SavePreferences(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	prefs, err := h.outfitSvc.SavePreferences(c.Request.Context(), userID, outfit.Preferences{
		Gender: outfit.Gender(req.Gender),
		Style:  req.Style,
	})
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// ListOutfits returns the caller's outfits ascending by number.
func (h *Handler) ListOutfits(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	outfits, err := h.outfitSvc.ListOutfits(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"outfits": outfits})
}

// GenerateBatch creates a new batch and returns the full updated list.
func (h *Handler) GenerateBatch(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	var req batchRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
			return
		}
	}
	res, err := h.outfitSvc.GenerateBatch(c.Request.Context(), userID, outfit.BatchRequest{BatchSize: req.BatchSize}, h.locatorFor(c, req.locationQuery))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusCreated, res)
}

// DeleteOutfit removes one outfit. Missing ids are not an error.
func (h *Handler) DeleteOutfit(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	if err := h.outfitSvc.DeleteOutfit(c.Request.Context(), userID, c.Param("id")); err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) requireUser(c *gin.Context) (string, bool) {
	userID, ok := getUserID(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "authentication required", nil))
		return "", false
	}
	return userID, true
}

// locatorFor prefers coordinates sent by the client and falls back to an IP lookup.
func (h *Handler) locatorFor(c *gin.Context, q locationQuery) weather.Locator {
	var chain weather.ChainLocator
	if q.Latitude != nil && q.Longitude != nil {
		chain = append(chain, weather.StaticLocator{
			Coordinates: weather.Coordinates{Latitude: *q.Latitude, Longitude: *q.Longitude},
			ObservedAt:  util.FromUnixMilli(q.ObservedAt),
		})
	}
	if h.ipLocator != nil {
		chain = append(chain, h.ipLocator.ForIP(c.ClientIP()))
	}
	if len(chain) == 0 {
		return nil
	}
	return chain
}

