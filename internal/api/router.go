package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"sauna-admin-backend/config"
	"sauna-admin-backend/internal/classify"
	"sauna-admin-backend/internal/mw"
	"sauna-admin-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, classifier classify.Classifier, serverCfg config.ServerConfig) *gin.Engine {
	r := gin.Default()
	r.Use(mw.RequestID())

	handler := NewHandler(s, classifier)

	// Rate limit per IP; the bucket holds one second of traffic.
	perSec := serverCfg.RateLimitPerSec
	if perSec <= 0 {
		perSec = config.DefaultRateLimitPerSec
	}
	rateLimiter := mw.RateLimiter(rate.Limit(perSec), int(perSec))

	// Categories depend on the evaluation instant, so the cached GET
	// responses default to a short TTL.
	ttlSeconds := serverCfg.CacheTTLSeconds
	if ttlSeconds <= 0 {
		ttlSeconds = config.DefaultCacheTTLSeconds
	}
	ttl := time.Duration(ttlSeconds) * time.Second
	cacheStore := cache.New(ttl, 10*time.Minute)
	caching := mw.Cache(cacheStore, ttl)

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// GET /api/members
		api.GET("/members", caching, handler.GetMembers)

		// GET /api/members/{member_id}
		api.GET("/members/:member_id", handler.GetMember)

		// GET /api/members/{member_id}/badges
		api.GET("/members/:member_id/badges", handler.GetMemberBadges)

		// GET /api/members/{member_id}/invoices
		api.GET("/members/:member_id/invoices", handler.GetMemberInvoices)

		// GET /api/badges
		api.GET("/badges", caching, handler.GetBadgeCatalog)

		// GET /api/stats/visits
		api.GET("/stats/visits", caching, handler.GetVisitStats)
	}

	return r
}
