package common

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// RequestID 取得或生成請求 ID，並回寫到響應頭
func RequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = GenerateUUID()
		c.Header("X-Request-ID", requestID)
	}
	return requestID
}

// WriteError 將錯誤轉為統一的 JSON 錯誤響應並中止請求
func WriteError(c *gin.Context, err error, debug bool) {
	ce := AsCustomError(err)
	if ce.Status >= 500 {
		LogError("請求處理失敗",
			zap.Error(err),
			zap.String("code", ce.Code),
			zap.String("path", c.Request.URL.Path),
		)
	} else {
		LogWarn("請求被拒絕",
			zap.Error(err),
			zap.String("code", ce.Code),
			zap.String("path", c.Request.URL.Path),
		)
	}
	c.AbortWithStatusJSON(ce.Status, ce.Response(debug))
}
