package recipe

import (
	"net/http"

	"recipe-manager/internal/api/handlers"
	"recipe-manager/internal/core/nutrition"

	"github.com/gin-gonic/gin"
)

// NutritionHandler 營養估算處理器
type NutritionHandler struct {
	nutrition *nutrition.Service
}

// NewNutritionHandler 創建營養估算處理器
func NewNutritionHandler(svc *nutrition.Service) *NutritionHandler {
	return &NutritionHandler{nutrition: svc}
}

// Estimate 估算食材行的營養素
func (h *NutritionHandler) Estimate(c *gin.Context) {
	var req nutrition.Request
	if !handlers.BindJSON(c, &req) {
		return
	}
	res, err := h.nutrition.Estimate(c.Request.Context(), req)
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
