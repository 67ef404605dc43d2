package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lazytravel/internal/models/request_models"
	"lazytravel/internal/services"
	"lazytravel/pkg/utils"
)

type RoutingController struct {
	sessions       services.SessionManagerInterface
	clusterService services.ClusterServiceInterface
}

func NewRoutingController(sessions services.SessionManagerInterface, clusterService services.ClusterServiceInterface) *RoutingController {
	return &RoutingController{
		sessions:       sessions,
		clusterService: clusterService,
	}
}

func (r *RoutingController) GetItinerary(c *gin.Context) {
	tripID := c.Param("tripId")
	if tripID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Trip ID is required")
		return
	}

	items, err := r.sessions.CurrentItems(c.Request.Context(), tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, items, "Itinerary fetched successfully")
}

func (r *RoutingController) OptimizeRoute(c *gin.Context) {
	var req request_models.OptimizeRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	items, err := r.sessions.OptimizeTrip(c.Request.Context(), req.TripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, items, "Route optimized successfully")
}

func (r *RoutingController) ReorderDay(c *gin.Context) {
	var req request_models.ReorderDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	items, err := r.sessions.ReorderDay(c.Request.Context(), req.TripID, req.DayNumber, req.StopIDs)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, items, "Day reordered successfully")
}

func (r *RoutingController) PreviewClustering(c *gin.Context) {
	tripID := c.Param("tripId")
	if tripID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Trip ID is required")
		return
	}

	clusters, err := r.clusterService.ClusterAroundHotel(c.Request.Context(), tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, clusters, "Clustering computed successfully")
}

func (r *RoutingController) ApplyClustering(c *gin.Context) {
	var req request_models.ApplyClusteringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := r.clusterService.ApplyClustering(c.Request.Context(), req.TripID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Clustering applied successfully")
}

func (r *RoutingController) NearbyStops(c *gin.Context) {
	tripID := c.Param("tripId")
	if tripID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Trip ID is required")
		return
	}

	radius := 0.0
	if radiusStr := c.Query("radius"); radiusStr != "" {
		parsed, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil || parsed <= 0 {
			utils.RespondError(c, http.StatusBadRequest, "Invalid radius")
			return
		}
		radius = parsed
	}

	stops, err := r.clusterService.NearbyStops(c.Request.Context(), tripID, radius)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, stops, "Nearby stops fetched successfully")
}

func (r *RoutingController) FlushItinerary(c *gin.Context) {
	tripID := c.Param("tripId")
	if tripID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Trip ID is required")
		return
	}

	if err := r.sessions.FlushTrip(c.Request.Context(), tripID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Itinerary synced successfully")
}
