package recipe

import (
	"net/http"
	"strings"

	"recipe-manager/internal/api/handlers"
	"recipe-manager/internal/core/export"
	recipeService "recipe-manager/internal/core/recipe"
	"recipe-manager/internal/infrastructure/search"
	"recipe-manager/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FavoriteRequest 設定最愛
type FavoriteRequest struct {
	Favorite *bool `json:"favorite" binding:"required"`
}

// RatingRequest 設定評分
type RatingRequest struct {
	Rating *int `json:"rating" binding:"required"`
}

// ListResponse 食譜列表
type ListResponse struct {
	Recipes []recipeService.Recipe `json:"recipes"`
	Total   int                    `json:"total"`
}

// Handler 食譜 CRUD 處理器
type Handler struct {
	recipes *recipeService.Service
}

// NewHandler 創建食譜處理器
func NewHandler(recipes *recipeService.Service) *Handler {
	return &Handler{recipes: recipes}
}

// List 列出食譜；deleted=true 時包含已刪除
func (h *Handler) List(c *gin.Context) {
	list := h.recipes.List(c.Request.Context(), handlers.QueryBool(c, "deleted"))
	c.JSON(http.StatusOK, ListResponse{Recipes: list, Total: len(list)})
}

// Search 全文搜尋
func (h *Handler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		handlers.Fail(c, common.NewValidationError("q is required"))
		return
	}
	limit, err := handlers.QueryInt(c, "limit", search.DefaultLimit)
	if err != nil {
		handlers.Fail(c, err)
		return
	}

	list, err := h.recipes.Search(c.Request.Context(), q, limit)
	if err != nil {
		handlers.Fail(c, common.ErrServiceUnavailable.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, ListResponse{Recipes: list, Total: len(list)})
}

// Get 取得單一食譜
func (h *Handler) Get(c *gin.Context) {
	r, err := h.recipes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Create 新增食譜；標題重複時合併到既有食譜
func (h *Handler) Create(c *gin.Context) {
	var req recipeService.Recipe
	if !handlers.BindJSON(c, &req) {
		return
	}
	r, err := h.recipes.Add(c.Request.Context(), req)
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	common.LogInfo("食譜已新增",
		zap.String("id", r.ID),
		zap.String("title", r.Title),
		zap.String("request_id", common.RequestID(c)),
	)
	c.JSON(http.StatusCreated, r)
}

// Update 更新食譜
func (h *Handler) Update(c *gin.Context) {
	var req recipeService.Recipe
	if !handlers.BindJSON(c, &req) {
		return
	}
	r, err := h.recipes.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Delete 軟刪除；purge=true 時永久刪除
func (h *Handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var err error
	if handlers.QueryBool(c, "purge") {
		err = h.recipes.Purge(ctx, id)
	} else {
		err = h.recipes.Delete(ctx, id)
	}
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Restore 還原已刪除的食譜
func (h *Handler) Restore(c *gin.Context) {
	r, err := h.recipes.Restore(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Favorite 設定最愛
func (h *Handler) Favorite(c *gin.Context) {
	var req FavoriteRequest
	if !handlers.BindJSON(c, &req) {
		return
	}
	r, err := h.recipes.SetFavorite(c.Request.Context(), c.Param("id"), *req.Favorite)
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Rating 設定評分
func (h *Handler) Rating(c *gin.Context) {
	var req RatingRequest
	if !handlers.BindJSON(c, &req) {
		return
	}
	r, err := h.recipes.SetRating(c.Request.Context(), c.Param("id"), *req.Rating)
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Export 輸出 Markdown 或 HTML
func (h *Handler) Export(c *gin.Context) {
	r, err := h.recipes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	content, contentType, err := export.Render(r, c.DefaultQuery("format", export.FormatMarkdown))
	if err != nil {
		handlers.Fail(c, common.ErrUnsupportedFormat.Wrap(err))
		return
	}
	c.Data(http.StatusOK, contentType, []byte(content))
}
