package api

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"swissprop/server/internal/cantons"
	"swissprop/server/internal/database"
	"swissprop/server/internal/failure"
	"swissprop/server/internal/models"
	"swissprop/server/internal/narrative"
	"swissprop/server/internal/overview"
	"swissprop/server/internal/search"
	"swissprop/server/internal/trends"
)

// allCantons is the canton selector value meaning "no canton filter".
const allCantons = "All"

// Services are the domain collaborators served over HTTP.
type Services struct {
	Registry *cantons.Registry
	Search   *search.Service
	Trends   *trends.Synthesizer
	Overview *overview.Builder
	Analyst  *narrative.Analyst

	// DefaultLimit applies when a search request sets no limit
	DefaultLimit int
	PageSize     int
}

type Handler struct {
	db       *database.Database
	logger   *logrus.Logger
	services Services
}

type SearchRequest struct {
	City         string  `form:"city"`
	MinPrice     float64 `form:"min_price"`
	MaxPrice     float64 `form:"max_price"`
	PropertyType string  `form:"property_type"`
	Canton       string  `form:"canton"`
	Limit        int     `form:"limit"`
	Sort         string  `form:"sort"`
	Page         int     `form:"page"`
}

type SearchResponse struct {
	search.Page
	Requested   int    `json:"requested"`
	UnderFilled bool   `json:"under_filled"`
	Canton      string `json:"canton,omitempty"`
	Message     string `json:"message,omitempty"`
}

type AnalysisRequest struct {
	City       string                  `json:"city" binding:"required"`
	Canton     string                  `json:"canton"`
	Properties []models.PropertyRecord `json:"properties"`
}

func NewHandler(db *database.Database, services Services, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if services.Registry == nil {
		services.Registry = cantons.Default()
	}
	if services.DefaultLimit <= 0 {
		services.DefaultLimit = 10
	}
	if services.PageSize <= 0 {
		services.PageSize = search.DefaultPageSize
	}

	return &Handler{
		db:       db,
		logger:   logger,
		services: services,
	}
}

func (h *Handler) GetCantons(c *gin.Context) {
	lang := languageCode(c.DefaultQuery("lang", "en"))
	c.JSON(http.StatusOK, gin.H{
		"language": lang,
		"cantons":  h.services.Registry.AllNames(lang),
	})
}

func (h *Handler) SearchProperties(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse search request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	q := search.Query{
		City:         strings.TrimSpace(req.City),
		MinPrice:     req.MinPrice,
		MaxPrice:     req.MaxPrice,
		PropertyType: req.PropertyType,
		Canton:       req.Canton,
		Limit:        req.Limit,
		Sort:         search.SortOrder(req.Sort),
	}
	if strings.EqualFold(strings.TrimSpace(q.Canton), allCantons) {
		q.Canton = ""
	}
	if _, ok := c.GetQuery("limit"); !ok {
		q.Limit = h.services.DefaultLimit
	}

	start := time.Now()
	result, err := h.services.Search.Search(c.Request.Context(), q)
	h.recordSearch(q, result, err, time.Since(start))
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := SearchResponse{
		Page:        search.Paginate(result.Properties, req.Page, h.services.PageSize),
		Requested:   result.Requested,
		UnderFilled: result.UnderFilled,
		Canton:      result.CantonCode,
	}
	if len(result.Properties) == 0 {
		resp.Message = "No properties matched the search criteria"
	} else if result.UnderFilled {
		resp.Message = "Fewer properties found than requested"
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetTrends(c *gin.Context) {
	city := strings.TrimSpace(c.Query("city"))
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city is required"})
		return
	}
	canton := c.Query("canton")
	if strings.EqualFold(canton, allCantons) {
		canton = ""
	}

	c.JSON(http.StatusOK, h.services.Trends.Trends(c.Request.Context(), city, canton))
}

func (h *Handler) GetCantonStatistics(c *gin.Context) {
	name := c.Param("name")
	if _, ok := h.services.Registry.ResolveCode(name); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown canton"})
		return
	}

	c.JSON(http.StatusOK, h.services.Trends.CantonStatistics(c.Request.Context(), name))
}

func (h *Handler) GetOverview(c *gin.Context) {
	result, err := h.services.Overview.Overview(c.Query("city"), c.Query("canton"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetOverviewGeoJSON(c *gin.Context) {
	feature, err := h.services.Overview.Feature(c.Request.Context(), c.Query("city"), c.Query("canton"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, feature)
}

func (h *Handler) AnalyzeProperties(c *gin.Context) {
	var req AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse analysis request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	analysis, err := h.services.Analyst.AnalyzeProperties(c.Request.Context(), req.City, req.Canton, req.Properties)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

func (h *Handler) GetInvestmentInsights(c *gin.Context) {
	city := strings.TrimSpace(c.Query("city"))
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city is required"})
		return
	}
	canton := c.Query("canton")
	if strings.EqualFold(canton, allCantons) {
		canton = ""
	}

	points, err := h.services.Trends.Locations(c.Request.Context(), city, canton)
	if err != nil {
		h.respondError(c, err)
		return
	}
	analysis, err := h.services.Analyst.InvestmentInsights(c.Request.Context(), city, points)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

func (h *Handler) GetRecentSearches(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "20")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 20
	}

	searches, err := h.db.RecentSearches(limit, c.Query("city"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to get recent searches")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get recent searches"})
		return
	}

	c.JSON(http.StatusOK, searches)
}

func (h *Handler) GetSearchStats(c *gin.Context) {
	stats, err := h.db.GetSearchStats(c.Query("city"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to get search stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get search stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// recordSearch logs q to the search history. Storage errors are logged only.
func (h *Handler) recordSearch(q search.Query, result search.Result, searchErr error, elapsed time.Duration) {
	if h.db == nil {
		return
	}
	entry := database.NewSearchLog(q, result, searchErr, elapsed)
	if err := h.db.RecordSearch(&entry); err != nil {
		h.logger.WithError(err).Warn("Failed to record search")
	}
}

// respondError maps failure kinds to status codes: validation failures are
// the caller's fault, service failures an upstream one.
func (h *Handler) respondError(c *gin.Context, err error) {
	var ferr *failure.Error
	if !errors.As(err, &ferr) {
		h.logger.WithError(err).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	switch ferr.Kind {
	case failure.ValidationFailure:
		reason := ferr.Kind.String()
		if ferr.Err != nil {
			reason = ferr.Err.Error()
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": reason, "kind": ferr.Kind.String()})
	default:
		h.logger.WithError(err).WithField("op", ferr.Op).Error("Upstream service failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Upstream service unavailable", "kind": ferr.Kind.String()})
	}
}

// languageCode accepts a code or one of the selector labels.
func languageCode(lang string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "de", "deutsch":
		return "de"
	case "fr", "français", "francais":
		return "fr"
	case "it", "italiano":
		return "it"
	case "rm", "rumantsch":
		return "rm"
	default:
		return "en"
	}
}
