// Package routes defines HTTP route constants for the application.
package routes

const (
	// Public surface
	RootPath = "/"
	PostPath = "/posts/{slug}"

	// Auth
	AuthLogin  = "/auth/login"
	AuthLogout = "/auth/logout"

	// Admin API
	APIPosts       = "/api/posts"
	APIPostsID     = "/api/posts/{id}"
	APIPostPublish = "/api/posts/{id}/publish"
	APIImages      = "/api/images"
)
