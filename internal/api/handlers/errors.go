// Package handlers 提供各處理器共用的錯誤轉換與請求解析。
package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"recipe-manager/internal/core/library"
	"recipe-manager/internal/core/recipe"
	"recipe-manager/internal/infrastructure/config"
	"recipe-manager/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// ConfigKey 路由在上下文中注入設定的鍵
const ConfigKey = "config"

// Debug 是否輸出錯誤細節
func Debug(c *gin.Context) bool {
	if v, ok := c.Get(ConfigKey); ok {
		if cfg, ok := v.(*config.Config); ok {
			return cfg.App.Debug
		}
	}
	return false
}

// Fail 將領域錯誤轉為 API 錯誤響應
func Fail(c *gin.Context, err error) {
	common.WriteError(c, mapError(err), Debug(c))
}

func mapError(err error) error {
	var ce *common.CustomError
	switch {
	case errors.As(err, &ce):
		return err
	case errors.Is(err, recipe.ErrNotFound), errors.Is(err, library.ErrNotFound):
		return common.ErrNotFound.Wrap(err)
	case errors.Is(err, recipe.ErrConflict):
		return common.ErrConflict.Wrap(err)
	default:
		return err
	}
}

// BindJSON 解析 JSON 請求體，失敗時寫入 400 並回傳 false
func BindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		Fail(c, common.ErrInvalidRequest.Wrap(fmt.Errorf("decode body: %w", err)))
		return false
	}
	return true
}

// QueryInt 讀取整數查詢參數，缺少時回傳預設值
func QueryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, common.NewValidationError(fmt.Sprintf("%s must be a non-negative integer", name))
	}
	return n, nil
}

// QueryBool 讀取布林查詢參數
func QueryBool(c *gin.Context, name string) bool {
	b, _ := strconv.ParseBool(c.Query(name))
	return b
}
