package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"foodgram/internal/metrics"
)

// ResolveShortLink 解码短链接并 302 跳转到食谱页面，按客户端 IP 限流
func (h *HTTPHandler) ResolveShortLink(c *gin.Context) {
	if h.redirectLimiter != nil && !h.redirectLimiter.Allow(c.ClientIP()) {
		metrics.ShortLinkResolutions.WithLabelValues(metrics.OutcomeRateLimited).Inc()
		ErrorResponse(c, http.StatusTooManyRequests, ErrCodeTooManyRequests, "too many requests")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recipeID, outcome, err := h.recipes.ResolveShortLink(ctx, c.Param("token"))
	if outcome != "" {
		metrics.ShortLinkResolutions.WithLabelValues(outcome).Inc()
	}
	if err != nil {
		respondError(c, err, "failed to resolve short link")
		return
	}
	c.Redirect(http.StatusFound, "/recipes/"+strconv.FormatUint(uint64(recipeID), 10)+"/")
}
