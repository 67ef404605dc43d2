package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lazytravel/internal/models/request_models"
	"lazytravel/internal/models/response_models"
	"lazytravel/internal/services"
	"lazytravel/pkg/utils"
)

type DiscoverController struct {
	discoverService services.DiscoverServiceInterface
}

func NewDiscoverController(discoverService services.DiscoverServiceInterface) *DiscoverController {
	return &DiscoverController{discoverService: discoverService}
}

func (d *DiscoverController) SimilarStops(c *gin.Context) {
	var req request_models.SimilarStopsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	stops, err := d.discoverService.SimilarStops(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, stops, "Similar stops fetched successfully")
}

func (d *DiscoverController) IndexStop(c *gin.Context) {
	var item response_models.TripItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := d.discoverService.IndexStop(c.Request.Context(), item); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Stop indexed successfully")
}

func (d *DiscoverController) RemoveStop(c *gin.Context) {
	stopID := c.Param("stopId")
	if stopID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Stop ID is required")
		return
	}

	if err := d.discoverService.RemoveStop(c.Request.Context(), stopID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Stop removed from index")
}
