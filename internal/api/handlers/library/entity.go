package library

import (
	"fmt"
	"io"
	"net/http"

	"recipe-manager/internal/api/handlers"
	libraryService "recipe-manager/internal/core/library"
	"recipe-manager/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// EntityHandler 單一實體類型的通用 CRUD 處理器
type EntityHandler struct {
	resource libraryService.Resource
}

// NewEntityHandler 創建實體處理器
func NewEntityHandler(resource libraryService.Resource) *EntityHandler {
	return &EntityHandler{resource: resource}
}

// Register 在 group 下註冊 CRUD 路由
func (h *EntityHandler) Register(g *gin.RouterGroup) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// List 列出全部
func (h *EntityHandler) List(c *gin.Context) {
	items := h.resource.ListAny(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		h.resource.Name(): items,
		"total":           len(items),
	})
}

// Get 取得單一實體
func (h *EntityHandler) Get(c *gin.Context) {
	item, err := h.resource.GetAny(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create 新增實體
func (h *EntityHandler) Create(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}
	item, err := h.resource.CreateFromJSON(c.Request.Context(), body)
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update 取代既有實體
func (h *EntityHandler) Update(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}
	item, err := h.resource.UpdateFromJSON(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete 刪除實體
func (h *EntityHandler) Delete(c *gin.Context) {
	if err := h.resource.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handlers.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		handlers.Fail(c, common.ErrInvalidRequest.Wrap(fmt.Errorf("read body: %w", err)))
		return nil, false
	}
	return body, true
}
