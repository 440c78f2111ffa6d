package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"recipe-matcher/internal/api/middleware"
	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/core/recipe"
	"recipe-matcher/internal/core/recommend"
	"recipe-matcher/internal/pkg/common"
)

const apiPrefix = "/api/v1"

// APIError 服務端回傳的錯誤
type APIError struct {
	Status  int
	Code    string
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%d %s: %s (%s)", e.Status, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// Client 食譜配對服務的 HTTP 客戶端
type Client struct {
	http *resty.Client
}

// Option 客戶端選項
type Option func(*resty.Client)

// WithAdminToken 寫入類的請求帶上管理權杖
func WithAdminToken(token string) Option {
	return func(c *resty.Client) {
		if token != "" {
			c.SetHeader(middleware.AdminTokenHeader, token)
		}
	}
}

// WithTimeout 單次請求逾時
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) { c.SetTimeout(d) }
}

// WithRetry 5xx 與連線錯誤的重試次數
func WithRetry(count int) Option {
	return func(c *resty.Client) {
		c.SetRetryCount(count).
			SetRetryWaitTime(200 * time.Millisecond).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() >= http.StatusInternalServerError
			})
	}
}

// New 創建客戶端
func New(baseURL string, opts ...Option) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(10 * time.Second)

	// 每個請求帶上自己的請求 ID，方便對照服務端日誌
	rc.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if r.Header.Get("X-Request-ID") == "" {
			r.SetHeader("X-Request-ID", common.GenerateUUID())
		}
		return nil
	})

	for _, opt := range opts {
		opt(rc)
	}
	return &Client{http: rc}
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx).SetError(&common.ErrorResponse{})
}

// check 把非 2xx 的回應轉成 APIError
func check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if !resp.IsError() {
		return nil
	}
	apiErr := &APIError{Status: resp.StatusCode()}
	if body, ok := resp.Error().(*common.ErrorResponse); ok && body.Code != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
		apiErr.Details = body.Details
	} else {
		apiErr.Code = http.StatusText(resp.StatusCode())
		apiErr.Message = resp.String()
	}
	common.LogDebug("API request failed",
		zap.String("url", resp.Request.URL),
		zap.Int("status", apiErr.Status),
		zap.String("code", apiErr.Code),
	)
	return apiErr
}

// Health 服務健康狀態
func (c *Client) Health(ctx context.Context) (map[string]interface{}, error) {
	var out map[string]interface{}
	err := check(c.request(ctx).SetResult(&out).Get("/health"))
	return out, err
}

// Parse 解析預覽整段食材原文
func (c *Client) Parse(ctx context.Context, text string) ([]recipe.PreviewLine, error) {
	var out struct {
		Lines []recipe.PreviewLine `json:"lines"`
	}
	err := check(c.request(ctx).
		SetBody(common.ParseRequest{Text: text}).
		SetResult(&out).
		Post(apiPrefix + "/ingredients/parse"))
	return out.Lines, err
}

// Normalize 正規化名稱
func (c *Client) Normalize(ctx context.Context, names []string) ([]recipe.NormalizeResult, error) {
	var out struct {
		Results []recipe.NormalizeResult `json:"results"`
	}
	err := check(c.request(ctx).
		SetBody(common.NormalizeRequest{Names: names}).
		SetResult(&out).
		Post(apiPrefix + "/ingredients/normalize"))
	return out.Results, err
}

// Autocomplete 食材名稱自動完成
func (c *Client) Autocomplete(ctx context.Context, q string) ([]string, error) {
	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	err := check(c.request(ctx).
		SetQueryParam("q", q).
		SetResult(&out).
		Get(apiPrefix + "/ingredients/autocomplete"))
	return out.Suggestions, err
}

// Catalog 正規化食材目錄
func (c *Client) Catalog(ctx context.Context) (*recipe.CatalogView, error) {
	var out recipe.CatalogView
	if err := check(c.request(ctx).SetResult(&out).Get(apiPrefix + "/catalog")); err != nil {
		return nil, err
	}
	return &out, nil
}

// Merge 把 from 合併到 into
func (c *Client) Merge(ctx context.Context, from, into string) (*catalog.Entry, error) {
	var out struct {
		Entry catalog.Entry `json:"entry"`
	}
	err := check(c.request(ctx).
		SetBody(common.MergeRequest{From: from, Into: into}).
		SetResult(&out).
		Post(apiPrefix + "/catalog/merge"))
	if err != nil {
		return nil, err
	}
	return &out.Entry, nil
}

// ListRecipes 列出食譜
func (c *Client) ListRecipes(ctx context.Context) ([]recipe.Summary, error) {
	var out struct {
		Recipes []recipe.Summary `json:"recipes"`
	}
	err := check(c.request(ctx).SetResult(&out).Get(apiPrefix + "/recipes"))
	return out.Recipes, err
}

// PutRecipe 登錄或取代食譜
func (c *Client) PutRecipe(ctx context.Context, id, title, ingredients string) (*recipe.Recipe, error) {
	var out recipe.Recipe
	err := check(c.request(ctx).
		SetPathParam("id", id).
		SetBody(common.RecipeRequest{Title: title, Ingredients: ingredients}).
		SetResult(&out).
		Put(apiPrefix + "/recipes/{id}"))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRecipe 取得食譜
func (c *Client) GetRecipe(ctx context.Context, id string) (*recipe.Recipe, error) {
	var out recipe.Recipe
	err := check(c.request(ctx).
		SetPathParam("id", id).
		SetResult(&out).
		Get(apiPrefix + "/recipes/{id}"))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteRecipe 移除食譜
func (c *Client) DeleteRecipe(ctx context.Context, id string) error {
	return check(c.request(ctx).
		SetPathParam("id", id).
		Delete(apiPrefix + "/recipes/{id}"))
}

// Recommend 依持有食材推薦
func (c *Client) Recommend(ctx context.Context, req common.RecommendRequest) (*recipe.RecommendResponse, error) {
	var out recipe.RecommendResponse
	if err := check(c.request(ctx).SetBody(req).SetResult(&out).Post(apiPrefix + "/recommend")); err != nil {
		return nil, err
	}
	return &out, nil
}

// Settings 目前的推薦設定
func (c *Client) Settings(ctx context.Context) (*recommend.Settings, error) {
	var out recommend.Settings
	if err := check(c.request(ctx).SetResult(&out).Get(apiPrefix + "/settings")); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSettings 更新推薦設定
func (c *Client) UpdateSettings(ctx context.Context, req common.SettingsRequest) (*recommend.Settings, error) {
	var out recommend.Settings
	if err := check(c.request(ctx).SetBody(req).SetResult(&out).Put(apiPrefix + "/settings")); err != nil {
		return nil, err
	}
	return &out, nil
}

// Algorithms 演算法說明
func (c *Client) Algorithms(ctx context.Context) ([]recommend.AlgorithmInfo, error) {
	var out struct {
		Algorithms []recommend.AlgorithmInfo `json:"algorithms"`
	}
	err := check(c.request(ctx).SetResult(&out).Get(apiPrefix + "/settings/algorithms"))
	return out.Algorithms, err
}

// IsStatus 判斷錯誤是否為指定的 HTTP 狀態
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
