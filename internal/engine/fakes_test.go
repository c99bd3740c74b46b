package engine

import (
	"context"

	"github.com/cinematch/engine/pkg/models"
)

// In-memory store fakes. Error fields inject the failure paths the ranker
// has to degrade through.

type fakeCatalog struct {
	movies  []models.Movie
	listErr error
	getErr  error
}

func (f *fakeCatalog) GetMovie(_ context.Context, id int64) (*models.Movie, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for i := range f.movies {
		if f.movies[i].ID == id {
			m := f.movies[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) ListMovies(_ context.Context, excludeIDs []int64) ([]models.Movie, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	excluded := make(map[int64]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}
	var out []models.Movie
	for _, m := range f.movies {
		if _, ok := excluded[m.ID]; !ok {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeRatings struct {
	ratings     []models.Rating
	listErr     error
	listUserErr error
}

func (f *fakeRatings) ListRatings(context.Context) ([]models.Rating, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.ratings, nil
}

func (f *fakeRatings) ListUserRatings(_ context.Context, userID string) ([]models.Rating, error) {
	if f.listUserErr != nil {
		return nil, f.listUserErr
	}
	var out []models.Rating
	for _, r := range f.ratings {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeSignals struct {
	signals []models.Signal
	listErr error
}

func (f *fakeSignals) ListUserSignals(_ context.Context, userID string, kind models.SignalKind) ([]int64, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []int64
	for _, s := range f.signals {
		if s.UserID == userID && s.Kind == kind {
			out = append(out, s.MovieID)
		}
	}
	return out, nil
}

func strPtr(s string) *string    { return &s }
func floatPtr(f float64) *float64 { return &f }

func movieIDs(movies []models.Movie) []int64 {
	ids := make([]int64, len(movies))
	for i, m := range movies {
		ids[i] = m.ID
	}
	return ids
}
