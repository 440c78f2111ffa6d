package recipe

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	recipeService "recipe-matcher/internal/core/recipe"
	"recipe-matcher/internal/pkg/common"
)

// HandleParse 解析預覽，不寫入目錄
func (h *Handler) HandleParse(c *gin.Context) {
	var req common.ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	var lines []recipeService.PreviewLine
	switch {
	case strings.TrimSpace(req.Text) != "":
		lines = h.service.PreviewText(req.Text)
	case len(req.Lines) > 0:
		lines = h.service.PreviewLines(req.Lines)
	default:
		h.badRequest(c, errors.New("text or lines is required"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

// HandleNormalize 正規化名稱
func (h *Handler) HandleNormalize(c *gin.Context) {
	var req common.NormalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": h.service.Normalize(req.Names)})
}

// HandleAutocomplete 食材名稱自動完成
func (h *Handler) HandleAutocomplete(c *gin.Context) {
	q := c.Query("q")
	c.JSON(http.StatusOK, gin.H{
		"query":       q,
		"suggestions": h.service.Autocomplete(q),
	})
}

// HandleCatalog 列出正規化食材目錄
func (h *Handler) HandleCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Catalog())
}

// HandleMerge 合併正規化食材
func (h *Handler) HandleMerge(c *gin.Context) {
	var req common.MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	entry, err := h.service.Merge(c.Request.Context(), req.From, req.Into)
	if err != nil {
		h.respondError(c, "合併食材失敗", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// HandleGetSettings 目前的推薦設定
func (h *Handler) HandleGetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Settings())
}

// HandleUpdateSettings 更新推薦設定
func (h *Handler) HandleUpdateSettings(c *gin.Context) {
	var req common.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	applied, err := h.service.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, "更新推薦設定失敗", err)
		return
	}
	c.JSON(http.StatusOK, applied)
}

// HandleAlgorithms 演算法說明
func (h *Handler) HandleAlgorithms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"algorithms": h.service.Algorithms()})
}
