package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lazytravel/internal/models/request_models"
	"lazytravel/internal/services"
	"lazytravel/pkg/utils"
)

type ImportController struct {
	extractionService services.ExtractionServiceInterface
}

func NewImportController(extractionService services.ExtractionServiceInterface) *ImportController {
	return &ImportController{extractionService: extractionService}
}

func (i *ImportController) ImportText(c *gin.Context) {
	var req request_models.ImportTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	items, err := i.extractionService.ExtractFromText(c.Request.Context(), req.Text)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, items, "Stops extracted successfully")
}

func (i *ImportController) ImportImage(c *gin.Context) {
	var req request_models.ImportImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	items, err := i.extractionService.ExtractFromImage(c.Request.Context(), req.ImageBase64)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, items, "Stops extracted successfully")
}

func (i *ImportController) ScanLandmark(c *gin.Context) {
	var req request_models.ImportImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := i.extractionService.IdentifyLandmark(c.Request.Context(), req.ImageBase64)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	if item == nil {
		utils.RespondSuccess(c, nil, "No landmark recognized")
		return
	}

	utils.RespondSuccess(c, item, "Landmark identified successfully")
}
