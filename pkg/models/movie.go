package models

// ContentType classifies a catalog entry.
const (
	ContentTypeFeature = "feature"
	ContentTypeSeries  = "series"
)

// Movie is a read-only snapshot of a catalog item. Identity is immutable;
// ViewCount and AvgRating are owned by the catalog service and may move
// between snapshots.
type Movie struct {
	ID          int64    `json:"id" db:"id"`
	Title       string   `json:"title" db:"title"`
	Year        int      `json:"year,omitempty" db:"year"`
	ContentType string   `json:"content_type" db:"content_type"`
	GenreIDs    []int64  `json:"genre_ids,omitempty" db:"genre_ids"`
	Director    *string  `json:"director,omitempty" db:"director"`
	ViewCount   int64    `json:"view_count" db:"view_count"`
	AvgRating   *float64 `json:"avg_rating,omitempty" db:"avg_rating"`
}

// HasGenre reports whether the movie carries the given genre id.
func (m *Movie) HasGenre(genreID int64) bool {
	for _, g := range m.GenreIDs {
		if g == genreID {
			return true
		}
	}
	return false
}
