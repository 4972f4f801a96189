package model

// Favourite mirrors the `favourites` table. Each user owns at most one
// favourites row; the movies themselves live in the `favourites_movies`
// join table.
type Favourite struct {
    ID     uint64 // favourites.id
    UserID uint64 // favourites.user_id (unique)
}
