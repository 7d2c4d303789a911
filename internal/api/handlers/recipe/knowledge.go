package recipe

import (
	"net/http"

	"recipe-manager/internal/api/handlers"
	"recipe-manager/internal/core/knowledge"

	"github.com/gin-gonic/gin"
)

const defaultKnowledgeTop = 50

// KnowledgeResponse 累積的詞彙
type KnowledgeResponse struct {
	Pages   int                   `json:"pages"`
	Terms   []knowledge.TermCount `json:"terms"`
	Bigrams []knowledge.TermCount `json:"bigrams"`
}

// KnowledgeHandler 詞彙查詢處理器
type KnowledgeHandler struct {
	kb *knowledge.Accumulator
}

// NewKnowledgeHandler 創建詞彙查詢處理器
func NewKnowledgeHandler(kb *knowledge.Accumulator) *KnowledgeHandler {
	return &KnowledgeHandler{kb: kb}
}

// Get 回傳前 top 個詞與雙詞
func (h *KnowledgeHandler) Get(c *gin.Context) {
	top, err := handlers.QueryInt(c, "top", defaultKnowledgeTop)
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, KnowledgeResponse{
		Pages:   h.kb.Pages(),
		Terms:   h.kb.Top(top),
		Bigrams: h.kb.TopBigrams(top),
	})
}
