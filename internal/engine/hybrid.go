package engine

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cinematch/engine/internal/cache"
	"github.com/cinematch/engine/internal/config"
	"github.com/cinematch/engine/internal/metrics"
	"github.com/cinematch/engine/pkg/models"
)

const (
	opRecommend = "recommend"
	opSimilar   = "similar"

	outcomeHybrid     = "hybrid"
	outcomeFallback   = "fallback"
	outcomePopularity = "popularity"
	outcomeCached     = "cached"
	outcomeEmpty      = "empty"
)

// Ranker is the engine's entry point. It pulls interaction and catalog
// snapshots from the read-only stores, delegates to the collaborative and
// content scorers, merges their evidence and returns a bounded ranked list.
// Every public method degrades internally: callers always receive a list,
// never an error.
type Ranker struct {
	catalog CatalogStore
	ratings RatingStore
	signals SignalStore

	features *FeatureBuilder
	collab   *CollaborativeScorer
	content  *ContentScorer

	cache   cache.ResultCache
	metrics *metrics.Metrics
	cfg     *config.EngineConfig
	logger  *logrus.Logger
}

func NewRanker(
	catalog CatalogStore,
	ratings RatingStore,
	signals SignalStore,
	resultCache cache.ResultCache,
	m *metrics.Metrics,
	cfg *config.EngineConfig,
	logger *logrus.Logger,
) *Ranker {
	features := NewFeatureBuilder(cfg)
	return &Ranker{
		catalog:  catalog,
		ratings:  ratings,
		signals:  signals,
		features: features,
		collab:   NewCollaborativeScorer(ratings, cfg, logger),
		content:  NewContentScorer(features),
		cache:    resultCache,
		metrics:  m,
		cfg:      cfg,
		logger:   logger,
	}
}

// Recommend returns up to limit movies ranked for the user. An empty userID
// is the anonymous visitor and gets the popularity ranking. limit <= 0
// yields an empty list.
func (r *Ranker) Recommend(ctx context.Context, userID string, limit int) []models.Movie {
	if limit <= 0 {
		return []models.Movie{}
	}

	key := fmt.Sprintf("%s:%s:%d", opRecommend, userID, limit)
	var cached []models.Movie
	if r.cache.Get(ctx, key, &cached) {
		r.metrics.ObserveCacheLookup(opRecommend, true)
		r.metrics.ObserveRequest(opRecommend, outcomeCached)
		return cached
	}
	r.metrics.ObserveCacheLookup(opRecommend, false)

	start := time.Now()
	result, outcome := r.recommend(ctx, userID, limit)
	r.metrics.ObserveScoringDuration(opRecommend, time.Since(start).Seconds())
	r.metrics.ObserveRequest(opRecommend, outcome)

	if result == nil {
		result = []models.Movie{}
	}
	r.cache.Set(ctx, key, result, r.cfg.Cache.RecommendTTL)
	return result
}

func (r *Ranker) recommend(ctx context.Context, userID string, limit int) ([]models.Movie, string) {
	if userID == "" {
		return r.popularity(ctx, limit), outcomePopularity
	}

	log := r.logger.WithField("user_id", userID)

	userRatings, err := r.ratings.ListUserRatings(ctx, userID)
	if err != nil {
		log.WithError(err).Warn("Failed to load user ratings, degrading to popularity ranking")
		return r.popularity(ctx, limit), outcomePopularity
	}
	watched, err := r.signals.ListUserSignals(ctx, userID, models.SignalWatched)
	if err != nil {
		log.WithError(err).Warn("Failed to load watch signals, degrading to popularity ranking")
		return r.popularity(ctx, limit), outcomePopularity
	}
	favorites, err := r.signals.ListUserSignals(ctx, userID, models.SignalFavorite)
	if err != nil {
		log.WithError(err).Warn("Failed to load favorite signals, degrading to popularity ranking")
		return r.popularity(ctx, limit), outcomePopularity
	}

	// Insufficient signal is not an error: cold-start users get the
	// popularity ranking.
	if len(userRatings) == 0 && len(watched) == 0 && len(favorites) == 0 {
		return r.popularity(ctx, limit), outcomePopularity
	}

	catalog, err := r.catalog.ListMovies(ctx, nil)
	if err != nil {
		log.WithError(err).Warn("Failed to load catalog")
		return nil, outcomeEmpty
	}

	byID := make(map[int64]*models.Movie, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = &catalog[i]
	}

	ratingByMovie := make(map[int64]int, len(userRatings))
	targetVector := make(map[int64]float64, len(userRatings))
	for _, rating := range userRatings {
		ratingByMovie[rating.MovieID] = rating.Score
		targetVector[rating.MovieID] = float64(rating.Score)
	}

	// Watched and rated movies leave the candidate pool; recommending what
	// the user already consumed is never useful.
	seen := make(map[int64]struct{}, len(watched)+len(userRatings))
	for _, id := range watched {
		seen[id] = struct{}{}
	}
	for id := range ratingByMovie {
		seen[id] = struct{}{}
	}

	candidates := make([]models.Movie, 0, len(catalog))
	for i := range catalog {
		if _, ok := seen[catalog[i].ID]; ok {
			continue
		}
		candidates = append(candidates, catalog[i])
		if len(candidates) == r.cfg.MaxCandidates {
			break
		}
	}
	if len(candidates) == 0 {
		return []models.Movie{}, outcomeEmpty
	}

	liked := r.likedMovies(byID, ratingByMovie, watched, favorites)
	profile := r.features.BuildUserProfile(liked, ratingByMovie)

	collabScores, err := r.collab.Score(ctx, userID, targetVector, candidates)
	if err != nil {
		log.WithError(err).Warn("Collaborative scoring failed, degrading to genre-overlap ranking")
		return rankByGenreOverlap(candidates, preferredGenres(liked), limit), outcomeFallback
	}
	contentScores := r.content.Score(profile, candidates)

	ranked := r.combineScores(candidates, collabScores, contentScores, limit)

	// Under-yield means the personalized evidence was too thin to fill the
	// request; the simple genre-overlap ranking gives a full list instead of
	// a short one.
	if float64(len(ranked)) < r.cfg.FallbackFillRatio*float64(limit) && len(candidates) > len(ranked) {
		log.WithFields(logrus.Fields{"ranked": len(ranked), "limit": limit}).
			Debug("Hybrid ranking under-yielded, using genre-overlap fallback")
		return rankByGenreOverlap(candidates, preferredGenres(liked), limit), outcomeFallback
	}

	return ranked, outcomeHybrid
}

// likedMovies resolves the metadata of everything the user signalled
// preference for: explicit ratings at or above the like threshold, plus all
// watched and favorited movies.
func (r *Ranker) likedMovies(
	byID map[int64]*models.Movie,
	ratingByMovie map[int64]int,
	watched, favorites []int64,
) []models.Movie {
	likedIDs := make(map[int64]struct{})
	for movieID, score := range ratingByMovie {
		if score >= r.cfg.LikeThreshold {
			likedIDs[movieID] = struct{}{}
		}
	}
	for _, id := range watched {
		likedIDs[id] = struct{}{}
	}
	for _, id := range favorites {
		likedIDs[id] = struct{}{}
	}

	liked := make([]models.Movie, 0, len(likedIDs))
	for id := range likedIDs {
		if m, ok := byID[id]; ok {
			liked = append(liked, *m)
		}
	}
	return liked
}

// combineScores merges the two evidence channels plus the popularity bonus
// and returns the top candidates that carried any personalized evidence.
// Candidates are already in catalog order, so the stable sort keeps ties
// deterministic.
func (r *Ranker) combineScores(
	candidates []models.Movie,
	collabScores, contentScores map[int64]float64,
	limit int,
) []models.Movie {
	type scoredCandidate struct {
		movie models.Movie
		score float64
	}

	scored := make([]scoredCandidate, 0, len(candidates))
	for i := range candidates {
		id := candidates[i].ID
		cf := collabScores[id]
		cb := contentScores[id]
		if cf == 0 && cb == 0 {
			continue
		}
		score := r.cfg.CollaborativeWeight*cf +
			r.cfg.ContentWeight*cb +
			r.popularityBonus(candidates[i].ViewCount)
		scored = append(scored, scoredCandidate{movie: candidates[i], score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	result := make([]models.Movie, len(scored))
	for i, sc := range scored {
		result[i] = sc.movie
	}
	return result
}

// popularityBonus is a small saturating nudge that keeps high-traffic movies
// visible when per-user evidence is sparse.
func (r *Ranker) popularityBonus(viewCount int64) float64 {
	return math.Min(1.0, math.Log10(float64(viewCount)+1)/10.0) * r.cfg.PopularityBoost
}

// SimilarTo returns up to limit movies most similar to the seed. The seed
// never appears in its own result.
func (r *Ranker) SimilarTo(ctx context.Context, movieID int64, limit int) []models.Movie {
	if limit <= 0 {
		return []models.Movie{}
	}

	key := fmt.Sprintf("%s:%d:%d", opSimilar, movieID, limit)
	var cached []models.Movie
	if r.cache.Get(ctx, key, &cached) {
		r.metrics.ObserveCacheLookup(opSimilar, true)
		r.metrics.ObserveRequest(opSimilar, outcomeCached)
		return cached
	}
	r.metrics.ObserveCacheLookup(opSimilar, false)

	start := time.Now()
	result, outcome := r.similarTo(ctx, movieID, limit)
	r.metrics.ObserveScoringDuration(opSimilar, time.Since(start).Seconds())
	r.metrics.ObserveRequest(opSimilar, outcome)

	if result == nil {
		result = []models.Movie{}
	}
	r.cache.Set(ctx, key, result, r.cfg.Cache.SimilarTTL)
	return result
}

func (r *Ranker) similarTo(ctx context.Context, movieID int64, limit int) ([]models.Movie, string) {
	log := r.logger.WithField("movie_id", movieID)

	seed, err := r.catalog.GetMovie(ctx, movieID)
	if err != nil {
		log.WithError(err).Warn("Failed to load seed movie, degrading to popularity ranking")
		return r.popularity(ctx, limit), outcomePopularity
	}
	if seed == nil {
		return []models.Movie{}, outcomeEmpty
	}

	others, err := r.catalog.ListMovies(ctx, []int64{movieID})
	if err != nil {
		log.WithError(err).Warn("Failed to load catalog, degrading to popularity ranking")
		return r.popularity(ctx, limit), outcomePopularity
	}

	seedVector := r.features.BuildItemFeatures(seed)
	seedGenres := make(map[int64]struct{}, len(seed.GenreIDs))
	for _, g := range seed.GenreIDs {
		seedGenres[g] = struct{}{}
	}

	type scoredCandidate struct {
		movie models.Movie
		score float64
	}

	scored := make([]scoredCandidate, 0, len(others))
	for i := range others {
		if others[i].ID == movieID {
			continue
		}
		vec := r.features.BuildItemFeatures(&others[i])
		score := Cosine(seedVector, vec)

		// Exact genre matches earn a flat boost beyond what the weighted
		// vector captures.
		for _, g := range others[i].GenreIDs {
			if _, ok := seedGenres[g]; ok {
				score += r.cfg.GenreOverlapBoost
			}
		}

		scored = append(scored, scoredCandidate{movie: others[i], score: score})
		if len(scored) == r.cfg.MaxCandidates {
			break
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	result := make([]models.Movie, len(scored))
	for i, sc := range scored {
		result[i] = sc.movie
	}
	return result, outcomeHybrid
}

// popularity is the terminal degradation path: catalog ordered by view count
// then aggregate rating. Failure here returns an empty list; the engine
// never surfaces a hard error.
func (r *Ranker) popularity(ctx context.Context, limit int) []models.Movie {
	catalog, err := r.catalog.ListMovies(ctx, nil)
	if err != nil {
		r.logger.WithError(err).Warn("Failed to load catalog for popularity ranking")
		return []models.Movie{}
	}
	return rankByPopularity(catalog, limit)
}
