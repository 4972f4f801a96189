package model

import "time"

// Rating bounds for the ratings.rating column.
const (
    RatingMin = 1
    RatingMax = 10
)

// Rating mirrors the `ratings` table. (UserID, MovieID) is unique: a user
// holds at most one rating per movie.
type Rating struct {
    ID        uint64    // ratings.id
    UserID    uint64    // ratings.user_id
    MovieID   uint64    // ratings.movie_id
    Rating    int       // ratings.rating (1..10)
    CreatedAt time.Time // ratings.created_at
}
