package model

import "time"

// Comment mirrors the `comments` table.
type Comment struct {
    ID        uint64    // comments.id
    UserID    uint64    // comments.user_id
    MovieID   uint64    // comments.movie_id
    Comment   string    // comments.comment
    CreatedAt time.Time // comments.created_at
    UpdatedAt time.Time // comments.updated_at
}
