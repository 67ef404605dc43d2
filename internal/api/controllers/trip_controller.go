package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lazytravel/internal/models/request_models"
	"lazytravel/internal/services"
	"lazytravel/pkg/utils"
)

type TripController struct {
	tripService    services.TripServiceInterface
	weatherService services.WeatherServiceInterface
}

func NewTripController(tripService services.TripServiceInterface, weatherService services.WeatherServiceInterface) *TripController {
	return &TripController{
		tripService:    tripService,
		weatherService: weatherService,
	}
}

func (t *TripController) SaveTrip(c *gin.Context) {
	var req request_models.SaveTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	trip, err := t.tripService.SaveTrip(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, trip, "Trip saved successfully")
}

func (t *TripController) GetTrip(c *gin.Context) {
	tripID := c.Param("id")
	if tripID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Trip ID is required")
		return
	}

	trip, err := t.tripService.GetTrip(c.Request.Context(), tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, trip, "Trip fetched successfully")
}

func (t *TripController) GetSharedTrip(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		utils.RespondError(c, http.StatusBadRequest, "Share token is required")
		return
	}

	trip, err := t.tripService.GetSharedTrip(c.Request.Context(), token)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, trip, "Shared trip fetched successfully")
}

func (t *TripController) ListTrips(c *gin.Context) {
	pageStr := c.DefaultQuery("page", "1")
	pageSizeStr := c.DefaultQuery("pageSize", "10")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page number")
		return
	}

	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil || pageSize < 1 || pageSize > 100 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page size (must be 1-100)")
		return
	}

	trips, err := t.tripService.ListTrips(c.Request.Context(), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, trips, "Trips fetched successfully")
}

func (t *TripController) DeleteTrip(c *gin.Context) {
	tripID := c.Param("id")
	if tripID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Trip ID is required")
		return
	}

	if err := t.tripService.DeleteTrip(c.Request.Context(), tripID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Trip deleted successfully")
}

func (t *TripController) ShareTrip(c *gin.Context) {
	tripID := c.Param("id")
	if tripID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Trip ID is required")
		return
	}

	token, err := t.tripService.ShareTrip(c.Request.Context(), tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"share_token": token}, "Trip shared successfully")
}

func (t *TripController) SetHotelAnchor(c *gin.Context) {
	tripID := c.Param("id")
	if tripID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Trip ID is required")
		return
	}

	var req request_models.SetHotelAnchorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := t.tripService.SetHotelAnchor(c.Request.Context(), tripID, req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Hotel anchor updated")
}

func (t *TripController) DeleteStop(c *gin.Context) {
	tripID := c.Param("id")
	stopID := c.Param("stopId")
	if tripID == "" || stopID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Trip ID and stop ID are required")
		return
	}

	if err := t.tripService.DeleteStop(c.Request.Context(), tripID, stopID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Stop deleted successfully")
}

func (t *TripController) GetTripWeather(c *gin.Context) {
	tripID := c.Param("id")
	if tripID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Trip ID is required")
		return
	}

	trip, err := t.tripService.GetTrip(c.Request.Context(), tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	cities := trip.Cities
	if len(cities) == 0 && trip.City != "" {
		cities = []string{trip.City}
	}
	if len(cities) == 0 {
		utils.RespondSuccess(c, gin.H{}, "No cities on this trip")
		return
	}

	forecast, err := t.weatherService.ForecastForCities(c.Request.Context(), cities)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, forecast, "Weather fetched successfully")
}
