package recipe

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recipe-matcher/internal/pkg/common"
)

// HandleListRecipes 列出所有食譜
func (h *Handler) HandleListRecipes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"recipes": h.service.List()})
}

// HandleUpsertRecipe 登錄或取代食譜的食材原文
func (h *Handler) HandleUpsertRecipe(c *gin.Context) {
	var req common.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	r, err := h.service.Upsert(c.Request.Context(), c.Param("id"), req.Title, req.Ingredients)
	if err != nil {
		h.respondError(c, "食譜登錄失敗", err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// HandleGetRecipe 取得食譜與解析結果
func (h *Handler) HandleGetRecipe(c *gin.Context) {
	r, err := h.service.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, "食譜不存在", err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// HandleDeleteRecipe 移除食譜
func (h *Handler) HandleDeleteRecipe(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, "食譜移除失敗", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleRecommend 依持有食材推薦食譜
func (h *Handler) HandleRecommend(c *gin.Context) {
	var req common.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	resp, err := h.service.Recommend(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, "推薦失敗", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
