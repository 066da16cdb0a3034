package api

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer creates the gin engine with all routes configured
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
		SkipPaths: []string{"/health"},
	}))

	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-API-Key")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, apiAccessKey)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, apiAccessKey string) {
	r.GET("/health", handler.GetHealth)
	r.GET("/api/news", handler.GetNews)
	r.GET("/feeds/matched.xml", handler.GetMatchedFeed)

	admin := r.Group("/admin")
	if apiAccessKey != "" {
		admin.Use(authMiddleware(apiAccessKey))
		slog.Info("Admin endpoints require API key")
	} else {
		slog.Warn("Admin endpoints are not protected (API_ACCESS_KEY not set)")
	}
	{
		admin.GET("/feeds", handler.ListFeeds)
		admin.POST("/feeds", handler.CreateFeed)
		admin.DELETE("/feeds", handler.DeleteFeed)
		admin.DELETE("/feeds/:id", handler.DeleteFeed)

		admin.GET("/keywords", handler.ListKeywords)
		admin.POST("/keywords", handler.CreateKeyword)
		admin.DELETE("/keywords", handler.DeleteKeyword)
		admin.DELETE("/keywords/:id", handler.DeleteKeyword)

		admin.GET("/parse_now", handler.ParseNow)
		admin.POST("/parse_now", handler.ParseNow)
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":     "RSS Watch",
			"version":     handler.version,
			"description": "Keyword watchlist over RSS/Atom feeds",
			"endpoints": map[string]string{
				"health":    "/health",
				"news":      "/api/news?page=1&per_page=10&keyword=&filter_type=title|keywords",
				"matched":   "/feeds/matched.xml?keyword=&limit=",
				"feeds":     "/admin/feeds",
				"keywords":  "/admin/keywords",
				"parse_now": "/admin/parse_now",
			},
			"admin_auth": map[string]any{
				"required": apiAccessKey != "",
				"header":   "X-API-Key",
			},
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

// authMiddleware accepts the key from X-API-Key or Authorization: Bearer
func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-API-Key")

		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"message": "Provide API key in X-API-Key header or Authorization: Bearer <key>",
			})
			return
		}

		if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiAccessKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid API key",
				"message": "The provided API key is not valid",
			})
			return
		}

		c.Next()
	}
}
