package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/rss-watch/app/database"
	"github.com/lysyi3m/rss-watch/app/feed"
	"github.com/lysyi3m/rss-watch/app/tasks"
)

const (
	defaultExportLimit = 50
	maxExportLimit     = 200
)

func NewHandler(feedRepo database.FeedRepositoryInterface, keywordRepo database.KeywordRepositoryInterface,
	entryRepo database.EntryRepositoryInterface, scheduler tasks.TaskSchedulerInterface,
	baseURL, version string) *Handler {
	return &Handler{
		feedRepo:    feedRepo,
		keywordRepo: keywordRepo,
		entryRepo:   entryRepo,
		generator:   feed.NewGenerator(),
		scheduler:   scheduler,
		baseURL:     strings.TrimRight(baseURL, "/"),
		version:     version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	ctx := c.Request.Context()

	health := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if feedCount, err := h.feedRepo.GetFeedCount(ctx); err == nil {
		health["feeds"] = feedCount
	} else {
		slog.Error("Database error", "operation", "get_feed_count", "error", err)
		health["status"] = "degraded"
	}

	if entryCount, err := h.entryRepo.GetEntryCount(ctx); err == nil {
		health["entries"] = entryCount
	} else {
		slog.Error("Database error", "operation", "get_entry_count", "error", err)
		health["status"] = "degraded"
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) ListFeeds(c *gin.Context) {
	feeds, err := h.feedRepo.ListFeeds(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "list_feeds", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	result := make([]gin.H, 0, len(feeds))
	for _, f := range feeds {
		result = append(result, feedJSON(f))
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) CreateFeed(c *gin.Context) {
	var req createFeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	f, created, err := h.feedRepo.CreateFeed(c.Request.Context(), req.URL, req.Name)
	if errors.Is(err, database.ErrEmptyURL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Feed URL is required"})
		return
	}
	if err != nil {
		slog.Error("Database error", "operation", "create_feed", "url", req.URL, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{"status": "exists", "feed": feedJSON(*f)})
		return
	}

	slog.Info("Feed added", "id", f.ID, "url", f.URL, "name", f.Name)
	c.JSON(http.StatusCreated, gin.H{"status": "added", "feed": feedJSON(*f)})
}

func (h *Handler) DeleteFeed(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	err := h.feedRepo.DeleteFeed(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feed not found"})
		return
	}
	if err != nil {
		slog.Error("Database error", "operation", "delete_feed", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	slog.Info("Feed deleted", "id", id)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) ListKeywords(c *gin.Context) {
	keywords, err := h.keywordRepo.ListKeywords(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "list_keywords", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	result := make([]gin.H, 0, len(keywords))
	for _, kw := range keywords {
		result = append(result, keywordJSON(kw))
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) CreateKeyword(c *gin.Context) {
	var req createKeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	kw, created, err := h.keywordRepo.CreateKeyword(c.Request.Context(), req.Keyword)
	if errors.Is(err, database.ErrEmptyKeyword) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Keyword must not be empty"})
		return
	}
	if err != nil {
		slog.Error("Database error", "operation", "create_keyword", "keyword", req.Keyword, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{"status": "exists", "keyword": keywordJSON(*kw)})
		return
	}

	slog.Info("Keyword added", "id", kw.ID, "keyword", kw.Text)
	c.JSON(http.StatusCreated, gin.H{"status": "added", "keyword": keywordJSON(*kw)})
}

func (h *Handler) DeleteKeyword(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	err := h.keywordRepo.DeleteKeyword(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Keyword not found"})
		return
	}
	if err != nil {
		slog.Error("Database error", "operation", "delete_keyword", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	slog.Info("Keyword deleted", "id", id)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) ParseNow(c *gin.Context) {
	taskID := h.scheduler.Trigger()

	c.JSON(http.StatusOK, gin.H{
		"status":  "Started manual parsing",
		"task_id": taskID,
	})
}

func (h *Handler) GetNews(c *gin.Context) {
	query := database.EntryQuery{
		Page:       intQuery(c, "page", 1),
		PerPage:    intQuery(c, "per_page", database.DefaultPerPage),
		Keyword:    c.Query("keyword"),
		FilterType: database.ParseFilterType(c.Query("filter_type")),
	}

	entries, total, err := h.entryRepo.QueryEntries(c.Request.Context(), query)
	if err != nil {
		slog.Error("Database error", "operation", "query_entries", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	news := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		news = append(news, entryJSON(entry))
	}

	c.JSON(http.StatusOK, gin.H{
		"news":  news,
		"total": total,
	})
}

func (h *Handler) GetMatchedFeed(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	limit := min(intQuery(c, "limit", defaultExportLimit), maxExportLimit)

	entries, err := h.entryRepo.GetRecentEntries(c.Request.Context(), limit, keyword)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_entries", "keyword", keyword, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	base := h.requestBaseURL(c)
	title := "Keyword watchlist"
	if keyword != "" {
		title += ": " + keyword
	}

	rss, err := h.generator.Run(feed.Channel{
		Title:     title,
		Link:      base,
		SelfURL:   base + c.Request.URL.RequestURI(),
		Generator: "RSS-Watch/" + h.version,
	}, entries)
	if err != nil {
		slog.Error("RSS generation error", "keyword", keyword, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(entries)))

	c.String(http.StatusOK, rss)
}

func (h *Handler) requestBaseURL(c *gin.Context) string {
	if h.baseURL != "" {
		return h.baseURL
	}

	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

// idParam reads the id from the path or the ?id= query parameter, writing a
// 400 response when it is missing or malformed.
func idParam(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	if raw == "" {
		raw = c.Query("id")
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid id parameter"})
		return 0, false
	}

	return id, true
}

func intQuery(c *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return value
}

func feedJSON(f database.Feed) gin.H {
	return gin.H{
		"id":         f.ID,
		"url":        f.URL,
		"name":       f.Name,
		"created_at": f.CreatedAt.Format(time.RFC3339),
	}
}

func keywordJSON(kw database.Keyword) gin.H {
	return gin.H{
		"id":         kw.ID,
		"keyword":    kw.Text,
		"created_at": kw.CreatedAt.Format(time.RFC3339),
	}
}

func entryJSON(entry database.Entry) gin.H {
	var publishedAt any
	if entry.PublishedAt != nil {
		publishedAt = entry.PublishedAt.Format(time.RFC3339)
	}

	return gin.H{
		"id":               entry.ID,
		"feed_id":          entry.FeedID,
		"title":            entry.Title,
		"content":          entry.Content,
		"link":             entry.Link,
		"published_at":     publishedAt,
		"found_at":         entry.DiscoveredAt.Format(time.RFC3339),
		"source":           entry.Source,
		"matched_keywords": strings.Join(entry.MatchedKeywords, ", "),
		"keywords":         entry.MatchedKeywords,
	}
}
