package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"crypto-forecast-backend/internal/forecast"
	"crypto-forecast-backend/internal/model"
)

// ForecastService 预测服务
type ForecastService interface {
	GetForecast(ctx context.Context, assetID, startDate, endDate string) (*model.ForecastResponse, error)
	ListAssets() []model.AssetInfo
}

type ForecastHandler struct {
	svc ForecastService
}

func NewForecastHandler(svc ForecastService) *ForecastHandler {
	return &ForecastHandler{svc: svc}
}

// Forecast 生成预测 POST /api/forecast
func (h *ForecastHandler) Forecast(c *gin.Context) {
	var req model.ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: " + err.Error(),
		})
		return
	}

	resp, err := h.svc.GetForecast(c.Request.Context(), req.Asset(), req.StartDate, req.EndDate)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Assets 资产列表 GET /api/assets
func (h *ForecastHandler) Assets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": h.svc.ListAssets(),
	})
}

func writeError(c *gin.Context, err error) {
	var fe *forecast.Error
	if !errors.As(err, &fe) {
		log.Printf("[ERROR][Handler] request_id=%s 预测失败: %v", RequestID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error while generating forecast",
		})
		return
	}

	if fe.Kind == forecast.KindSourceLoadFailure {
		log.Printf("[ERROR][Handler] request_id=%s %s: %v", RequestID(c), fe.Kind, fe)
	}
	c.JSON(fe.Kind.HTTPStatus(), gin.H{
		"error": fe.Message,
	})
}
