package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/cinematch/engine/pkg/models"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

var validate = validator.New()

type limitQuery struct {
	Limit int `form:"limit" validate:"min=1,max=100"`
}

// RecommendationHandler serves recommendation and similar-movie endpoints.
type RecommendationHandler struct {
	ranker Recommender
	logger *logrus.Logger
}

func NewRecommendationHandler(ranker Recommender, logger *logrus.Logger) *RecommendationHandler {
	return &RecommendationHandler{ranker: ranker, logger: logger}
}

// GetRecommendations handles GET /api/v1/recommendations/:userId
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	userID := c.Param("userId")

	limit, ok := h.parseLimit(c)
	if !ok {
		return
	}

	movies := h.ranker.Recommend(c.Request.Context(), userID, limit)

	c.JSON(http.StatusOK, models.RecommendationResponse{
		UserID:      userID,
		Movies:      movies,
		Count:       len(movies),
		GeneratedAt: time.Now(),
	})
}

// GetAnonymousRecommendations handles GET /api/v1/recommendations. Without a
// user there is no history, so the engine falls through to popularity.
func (h *RecommendationHandler) GetAnonymousRecommendations(c *gin.Context) {
	limit, ok := h.parseLimit(c)
	if !ok {
		return
	}

	movies := h.ranker.Recommend(c.Request.Context(), "", limit)

	c.JSON(http.StatusOK, models.RecommendationResponse{
		Movies:      movies,
		Count:       len(movies),
		GeneratedAt: time.Now(),
	})
}

// GetSimilarMovies handles GET /api/v1/movies/:movieId/similar
func (h *RecommendationHandler) GetSimilarMovies(c *gin.Context) {
	movieID, err := strconv.ParseInt(c.Param("movieId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":       "INVALID_MOVIE_ID",
				"message":    "movieId must be an integer",
				"request_id": c.GetString("request_id"),
			},
		})
		return
	}

	limit, ok := h.parseLimit(c)
	if !ok {
		return
	}

	movies := h.ranker.SimilarTo(c.Request.Context(), movieID, limit)

	c.JSON(http.StatusOK, models.SimilarMoviesResponse{
		MovieID:     movieID,
		Movies:      movies,
		Count:       len(movies),
		GeneratedAt: time.Now(),
	})
}

func (h *RecommendationHandler) parseLimit(c *gin.Context) (int, bool) {
	if c.Query("limit") == "" {
		return defaultLimit, true
	}

	var q limitQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badLimit(c)
		return 0, false
	}
	if err := validate.Struct(&q); err != nil {
		h.badLimit(c)
		return 0, false
	}
	return q.Limit, true
}

func (h *RecommendationHandler) badLimit(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": gin.H{
			"code":       "INVALID_LIMIT",
			"message":    "limit must be an integer between 1 and " + strconv.Itoa(maxLimit),
			"request_id": c.GetString("request_id"),
		},
	})
}
