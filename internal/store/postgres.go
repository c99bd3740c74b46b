package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/cinematch/engine/internal/engine"
	"github.com/cinematch/engine/pkg/models"
)

// DatabaseQuerier interface for database operations
type DatabaseQuerier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// MovieStore reads catalog, rating and signal rows owned by the surrounding
// application. Strictly read-only: the engine never writes through it.
type MovieStore struct {
	db     DatabaseQuerier
	logger *logrus.Logger
}

var (
	_ engine.CatalogStore = (*MovieStore)(nil)
	_ engine.RatingStore  = (*MovieStore)(nil)
	_ engine.SignalStore  = (*MovieStore)(nil)
)

func NewMovieStore(db DatabaseQuerier, logger *logrus.Logger) *MovieStore {
	return &MovieStore{db: db, logger: logger}
}

const movieColumns = `id, title, year, content_type, genre_ids, director, view_count, avg_rating`

func (s *MovieStore) GetMovie(ctx context.Context, id int64) (*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`

	rows, err := s.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("movie lookup failed: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	movie, err := scanMovie(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan movie %d: %w", id, err)
	}
	return movie, nil
}

func (s *MovieStore) ListMovies(ctx context.Context, excludeIDs []int64) ([]models.Movie, error) {
	// Stable id order keeps downstream tie-breaks deterministic.
	query := `SELECT ` + movieColumns + ` FROM movies ORDER BY id`
	args := []interface{}{}

	if len(excludeIDs) > 0 {
		query = `SELECT ` + movieColumns + ` FROM movies WHERE NOT (id = ANY($1)) ORDER BY id`
		args = append(args, excludeIDs)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog listing failed: %w", err)
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			s.logger.WithError(err).Warn("Failed to scan catalog row")
			continue
		}
		movies = append(movies, *movie)
	}

	return movies, rows.Err()
}

func (s *MovieStore) ListRatings(ctx context.Context) ([]models.Rating, error) {
	return s.listRatings(ctx, `SELECT user_id, movie_id, score FROM ratings`)
}

func (s *MovieStore) ListUserRatings(ctx context.Context, userID string) ([]models.Rating, error) {
	return s.listRatings(ctx, `SELECT user_id, movie_id, score FROM ratings WHERE user_id = $1`, userID)
}

func (s *MovieStore) listRatings(ctx context.Context, query string, args ...interface{}) ([]models.Rating, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("rating listing failed: %w", err)
	}
	defer rows.Close()

	var ratings []models.Rating
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.UserID, &r.MovieID, &r.Score); err != nil {
			s.logger.WithError(err).Warn("Failed to scan rating row")
			continue
		}
		ratings = append(ratings, r)
	}

	return ratings, rows.Err()
}

func (s *MovieStore) ListUserSignals(ctx context.Context, userID string, kind models.SignalKind) ([]int64, error) {
	// Repeated watches collapse here; the engine treats signals as booleans.
	query := `SELECT DISTINCT movie_id FROM signals WHERE user_id = $1 AND kind = $2`

	rows, err := s.db.Query(ctx, query, userID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("signal listing failed: %w", err)
	}
	defer rows.Close()

	var movieIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			s.logger.WithError(err).Warn("Failed to scan signal row")
			continue
		}
		movieIDs = append(movieIDs, id)
	}

	return movieIDs, rows.Err()
}

func scanMovie(rows pgx.Rows) (*models.Movie, error) {
	var m models.Movie
	if err := rows.Scan(
		&m.ID, &m.Title, &m.Year, &m.ContentType,
		&m.GenreIDs, &m.Director, &m.ViewCount, &m.AvgRating,
	); err != nil {
		return nil, err
	}
	return &m, nil
}
