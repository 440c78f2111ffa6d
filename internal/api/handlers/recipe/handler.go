package recipe

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-matcher/internal/core/catalog"
	recipeService "recipe-matcher/internal/core/recipe"
	"recipe-matcher/internal/core/recommend"
	"recipe-matcher/internal/pkg/common"
)

// Handler 食譜與食材處理程序
type Handler struct {
	service *recipeService.Service
	debug   bool
}

// NewHandler 創建新的處理程序，debug 為 true 時錯誤回應會帶上原始錯誤
func NewHandler(service *recipeService.Service, debug bool) *Handler {
	return &Handler{service: service, debug: debug}
}

// toCustomError 把領域錯誤對應成 API 錯誤
func toCustomError(err error) *common.CustomError {
	if ce, ok := common.AsCustomError(err); ok {
		return ce
	}
	switch {
	case errors.Is(err, recommend.ErrUnknownAlgorithm):
		return common.ErrUnknownAlgorithm.Wrap(err)
	case errors.Is(err, recipeService.ErrRecipeNotFound):
		return common.ErrRecipeNotFound.Wrap(err)
	case errors.Is(err, catalog.ErrNotFound):
		return common.ErrIngredientNotFound.Wrap(err)
	case errors.Is(err, catalog.ErrCatalogFull):
		return common.ErrCatalogFull.Wrap(err)
	case errors.Is(err, catalog.ErrSelfMerge),
		errors.Is(err, catalog.ErrEmptyName),
		errors.Is(err, recipeService.ErrInvalidRecipe):
		return common.ErrInvalidRequest.Wrap(err)
	case errors.Is(err, context.DeadlineExceeded):
		return common.ErrGatewayTimeout.Wrap(err)
	default:
		return common.ErrInternalError.Wrap(err)
	}
}

// respondError 記錄錯誤並寫入錯誤回應
func (h *Handler) respondError(c *gin.Context, msg string, err error) {
	ce := toCustomError(err)

	fields := []zap.Field{
		zap.Error(err),
		zap.String("code", ce.Code),
		zap.String("request_id", requestid.Get(c)),
		zap.String("path", c.Request.URL.Path),
	}
	if ce.Status >= http.StatusInternalServerError {
		common.LogError(msg, fields...)
	} else {
		common.LogWarn(msg, fields...)
	}

	resp := common.ErrorResponse{Code: ce.Code, Message: ce.Message}
	// 4xx 的原因對呼叫端有用；5xx 只在除錯模式帶出
	if ce.Status < http.StatusInternalServerError || h.debug {
		resp.Details = err.Error()
	}
	c.AbortWithStatusJSON(ce.Status, resp)
}

// badRequest 請求格式錯誤
func (h *Handler) badRequest(c *gin.Context, err error) {
	h.respondError(c, "請求格式無效", common.ErrInvalidRequest.Wrap(err))
}
