package model

import "time"

// Reaction values allowed for the movie_reactions.reaction enum column.
const (
    ReactionLike    = "like"
    ReactionDislike = "dislike"
)

// ValidReaction reports whether s is one of the allowed enum values.
func ValidReaction(s string) bool {
    return s == ReactionLike || s == ReactionDislike
}

// Reaction mirrors the `movie_reactions` table. (UserID, MovieID) is
// unique: a user holds at most one reaction per movie.
type Reaction struct {
    ID        uint64    // movie_reactions.id
    UserID    uint64    // movie_reactions.user_id
    MovieID   uint64    // movie_reactions.movie_id
    Reaction  string    // movie_reactions.reaction (like | dislike)
    CreatedAt time.Time // movie_reactions.created_at
}
