package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"foodgram/internal/auth"
	"foodgram/internal/config"
	"foodgram/internal/model"
	"foodgram/internal/ratelimit"
	"foodgram/internal/service"
	"foodgram/internal/shortlink"
	"foodgram/internal/storage"
	"foodgram/internal/validation"
)

// redirectLimiterIdleTTL 客户端空闲多久后释放其限流器
const redirectLimiterIdleTTL = 10 * time.Minute

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg         config.Config
	repo        model.Repository
	storage     storage.Storage
	authManager *auth.Manager
	validator   *validation.Validator

	// 服务层
	users   *service.UserService
	recipes *service.RecipeService

	redirectLimiter *ratelimit.KeyedRateLimiter
}

// NewHTTPHandler 创建 HTTP 处理器实例
func NewHTTPHandler(cfg config.Config, repo model.Repository, store storage.Storage) (*HTTPHandler, error) {
	expiry := time.Duration(cfg.JWTExpirationMinutes) * time.Minute
	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, expiry)
	if err != nil {
		return nil, err
	}
	codec, err := shortlink.New(cfg.ShortLinkSalt, cfg.ShortLinkMinLength)
	if err != nil {
		return nil, err
	}

	v := validation.New()
	media := service.NewMediaService(store, storage.NewURLBuilder(cfg.StoragePublicBaseURL))

	return &HTTPHandler{
		cfg:             cfg,
		repo:            repo,
		storage:         store,
		authManager:     authManager,
		validator:       v,
		users:           service.NewUserService(repo, media, authManager, v),
		recipes:         service.NewRecipeService(repo, media, codec, v, cfg.ShortLinkBase()),
		redirectLimiter: ratelimit.New(cfg.RedirectRatePerSecond, cfg.RedirectBurst, redirectLimiterIdleTTL),
	}, nil
}

// Close 释放后台资源
func (h *HTTPHandler) Close() {
	if h.redirectLimiter != nil {
		h.redirectLimiter.Stop()
	}
}

// RegisterRoutes 注册全部业务路由
func (h *HTTPHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/s/:token", h.ResolveShortLink)

	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth/token")
	authGroup.POST("/login", h.Login)
	authGroup.POST("/logout", h.AuthMiddleware(), h.Logout)

	public := apiGroup.Group("")
	public.Use(h.OptionalAuth())

	protected := apiGroup.Group("")
	protected.Use(h.AuthMiddleware())

	// 用户
	public.POST("/users", h.CreateUser)
	public.GET("/users", h.ListUsers)
	protected.GET("/users/me", h.Me)
	protected.PUT("/users/me/avatar", h.SetAvatar)
	protected.DELETE("/users/me/avatar", h.DeleteAvatar)
	protected.POST("/users/set_password", h.SetPassword)
	protected.GET("/users/subscriptions", h.ListSubscriptions)
	public.GET("/users/:id", h.GetUser)
	protected.POST("/users/:id/subscribe", h.Subscribe)
	protected.DELETE("/users/:id/subscribe", h.Unsubscribe)

	// 标签与食材
	public.GET("/tags", h.ListTags)
	public.GET("/tags/:id", h.GetTag)
	protected.POST("/tags", h.RequireAdmin(), h.CreateTag)
	public.GET("/ingredients", h.ListIngredients)
	public.GET("/ingredients/:id", h.GetIngredient)

	// 食谱
	public.GET("/recipes", h.ListRecipes)
	protected.POST("/recipes", h.CreateRecipe)
	protected.GET("/recipes/download_shopping_cart", h.DownloadShoppingCart)
	public.GET("/recipes/:id", h.GetRecipe)
	protected.PATCH("/recipes/:id", h.UpdateRecipe)
	protected.DELETE("/recipes/:id", h.DeleteRecipe)
	public.GET("/recipes/:id/get-link", h.GetShortLink)
	protected.POST("/recipes/:id/favorite", h.AddFavorite)
	protected.DELETE("/recipes/:id/favorite", h.RemoveFavorite)
	protected.POST("/recipes/:id/shopping_cart", h.AddToCart)
	protected.DELETE("/recipes/:id/shopping_cart", h.RemoveFromCart)
}
