package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/movie-catalog/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/movie-catalog/internal/middleware" // import middleware for JWT authentication and group enforcement
	"github.com/iliyamo/movie-catalog/internal/model"      // group name constants
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAccounts registers the account lifecycle routes under /v1/accounts.
// Registration, activation, password reset, login and refresh operate
// without an existing session; password change requires a valid access
// token; the user administration endpoints require the admin group.
func RegisterAccounts(e *echo.Echo, a *handler.AccountHandler, jwtSecret string) {
	g := e.Group("/v1/accounts")
	g.POST("/register/", a.Register)
	g.POST("/activate/", a.Activate)
	g.POST("/password-reset/request/", a.RequestPasswordReset)
	g.POST("/reset-password/complete/", a.CompletePasswordReset)
	g.POST("/login/", a.Login)
	// Logout and refresh authenticate through the refresh token carried in
	// the body, so neither route sits behind the JWT middleware.
	g.POST("/logout/", a.Logout)
	g.POST("/refresh/", a.Refresh)

	// Password change needs a live session on top of the credential check.
	authed := e.Group("/v1/accounts", middleware.JWTAuth(jwtSecret))
	authed.POST("/change-password/", a.ChangePassword)

	// User administration is reserved for admins.
	admin := e.Group(
		"/v1/accounts/users",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireGroup(model.GroupAdmin),
	)
	admin.POST("/:user_id/change-group/", a.ChangeUserGroup)
	admin.POST("/:user_id/activate/", a.ActivateUser)
}

// CinemaHandlers bundles every handler mounted under /v1/cinema so the
// registration signature stays manageable.
type CinemaHandlers struct {
	Movies     *handler.MovieHandler
	Genres     *handler.GenreHandler
	Comments   *handler.CommentHandler
	Ratings    *handler.RatingHandler
	Reactions  *handler.ReactionHandler
	Favourites *handler.FavouriteHandler
}

// RegisterCinema registers the catalogue routes under /v1/cinema.  Every
// route requires a valid access token; writes to the movie catalogue
// additionally require a staff group (moderator or admin).
func RegisterCinema(e *echo.Echo, h CinemaHandlers, jwtSecret string) {
	g := e.Group("/v1/cinema", middleware.JWTAuth(jwtSecret))

	// Movie browsing is open to every authenticated user.
	g.GET("/movies/", h.Movies.List)
	g.GET("/movies/:movie_id/", h.Movies.Detail)

	// Catalogue writes are staff-only.
	staff := e.Group(
		"/v1/cinema",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireGroup(model.GroupModerator, model.GroupAdmin),
	)
	staff.POST("/movies/", h.Movies.Create)
	staff.PATCH("/movies/:movie_id/", h.Movies.Update)
	staff.DELETE("/movies/:movie_id/", h.Movies.Delete)

	// Genres.
	g.GET("/genres/", h.Genres.List)
	g.GET("/genres/:genre_id/", h.Genres.Detail)

	// Comments: create/list per movie plus edit/delete per comment.
	g.POST("/movies/:movie_id/comments/", h.Comments.Create)
	g.GET("/movies/:movie_id/comments/", h.Comments.List)
	g.PUT("/movies/:movie_id/comments/:comment_id/", h.Comments.Update)
	g.DELETE("/movies/:movie_id/comments/:comment_id/", h.Comments.Delete)

	// Rating and reaction toggles.
	g.POST("/movies/:movie_id/ratings/", h.Ratings.Toggle)
	g.POST("/movies/:movie_id/reactions/", h.Reactions.Toggle)

	// Favourites.
	g.POST("/user/favourites/:movie_id/", h.Favourites.Add)
	g.GET("/user/favourites/", h.Favourites.List)
	g.DELETE("/user/favourites/:movie_id/", h.Favourites.Remove)
}
