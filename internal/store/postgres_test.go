package store

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinematch/engine/pkg/models"
)

func newMockStore(t *testing.T) (*MovieStore, pgxmock.PgxPoolIface) {
	t.Helper()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return NewMovieStore(mockDB, logger), mockDB
}

func TestMovieStore_GetMovie(t *testing.T) {
	s, mockDB := newMockStore(t)

	t.Run("found", func(t *testing.T) {
		director := "nolan"
		rating := 4.4

		rows := pgxmock.NewRows([]string{
			"id", "title", "year", "content_type", "genre_ids", "director", "view_count", "avg_rating",
		}).AddRow(int64(7), "Interstellar", 2014, "feature", []int64{1, 3}, &director, int64(9000), &rating)

		mockDB.ExpectQuery("SELECT (.+) FROM movies WHERE id").
			WithArgs(int64(7)).
			WillReturnRows(rows)

		movie, err := s.GetMovie(context.Background(), 7)

		require.NoError(t, err)
		require.NotNil(t, movie)
		assert.Equal(t, int64(7), movie.ID)
		assert.Equal(t, []int64{1, 3}, movie.GenreIDs)
		require.NotNil(t, movie.Director)
		assert.Equal(t, "nolan", *movie.Director)
		require.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("missing id yields nil without error", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{
			"id", "title", "year", "content_type", "genre_ids", "director", "view_count", "avg_rating",
		})

		mockDB.ExpectQuery("SELECT (.+) FROM movies WHERE id").
			WithArgs(int64(404)).
			WillReturnRows(rows)

		movie, err := s.GetMovie(context.Background(), 404)

		require.NoError(t, err)
		assert.Nil(t, movie)
		require.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestMovieStore_ListMovies(t *testing.T) {
	s, mockDB := newMockStore(t)

	t.Run("exclusion list", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{
			"id", "title", "year", "content_type", "genre_ids", "director", "view_count", "avg_rating",
		}).
			AddRow(int64(1), "Steel Run", 1999, "feature", []int64{1}, (*string)(nil), int64(500), (*float64)(nil)).
			AddRow(int64(2), "Night Patrol", 2005, "feature", []int64{1}, (*string)(nil), int64(300), (*float64)(nil))

		mockDB.ExpectQuery("SELECT (.+) FROM movies WHERE NOT").
			WithArgs([]int64{3}).
			WillReturnRows(rows)

		movies, err := s.ListMovies(context.Background(), []int64{3})

		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2}, []int64{movies[0].ID, movies[1].ID})
		require.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("no exclusions", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{
			"id", "title", "year", "content_type", "genre_ids", "director", "view_count", "avg_rating",
		}).AddRow(int64(1), "Steel Run", 1999, "feature", []int64{1}, (*string)(nil), int64(500), (*float64)(nil))

		mockDB.ExpectQuery("SELECT (.+) FROM movies ORDER BY id").
			WillReturnRows(rows)

		movies, err := s.ListMovies(context.Background(), nil)

		require.NoError(t, err)
		assert.Len(t, movies, 1)
		require.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestMovieStore_ListUserRatings(t *testing.T) {
	s, mockDB := newMockStore(t)

	rows := pgxmock.NewRows([]string{"user_id", "movie_id", "score"}).
		AddRow("u1", int64(1), 5).
		AddRow("u1", int64(2), 3)

	mockDB.ExpectQuery("SELECT user_id, movie_id, score FROM ratings WHERE user_id").
		WithArgs("u1").
		WillReturnRows(rows)

	ratings, err := s.ListUserRatings(context.Background(), "u1")

	require.NoError(t, err)
	require.Len(t, ratings, 2)
	assert.Equal(t, models.Rating{UserID: "u1", MovieID: 1, Score: 5}, ratings[0])
	require.NoError(t, mockDB.ExpectationsWereMet())
}

func TestMovieStore_ListUserSignals(t *testing.T) {
	s, mockDB := newMockStore(t)

	rows := pgxmock.NewRows([]string{"movie_id"}).
		AddRow(int64(4)).
		AddRow(int64(9))

	mockDB.ExpectQuery("SELECT DISTINCT movie_id FROM signals").
		WithArgs("u1", "watched").
		WillReturnRows(rows)

	ids, err := s.ListUserSignals(context.Background(), "u1", models.SignalWatched)

	require.NoError(t, err)
	assert.Equal(t, []int64{4, 9}, ids)
	require.NoError(t, mockDB.ExpectationsWereMet())
}
