// Package server wires the HTTP surface: public HTML pages backed by the
// repository and a JSON admin API behind the session middleware. All
// collaborators are injected through New; the package holds no singletons.
package server

import (
	"embed"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Rahuman122003/blogify-module/internal/auth"
	"github.com/Rahuman122003/blogify-module/internal/config"
	"github.com/Rahuman122003/blogify-module/internal/repository"
	"github.com/Rahuman122003/blogify-module/internal/routes"
	"github.com/Rahuman122003/blogify-module/internal/storage"
)

//go:embed templates/*
var content embed.FS

type Server struct {
	cfg      *config.Config
	posts    repository.PostRepository
	uploader storage.Uploader
	authp    *auth.Provider
	log      zerolog.Logger
}

func New(cfg *config.Config, posts repository.PostRepository, uploader storage.Uploader, authp *auth.Provider, log zerolog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		posts:    posts,
		uploader: uploader,
		authp:    authp,
		log:      log,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCType, "text/plain")
		w.Header().Set(config.HCacheControl, "public, max-age=86400")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("User-agent: *\nDisallow:"))
	})

	mux.HandleFunc("GET "+routes.PostPath, s.servePost)
	mux.HandleFunc("GET "+routes.RootPath, s.serveIndex)

	mux.HandleFunc("POST "+routes.AuthLogin, s.handleLogin)
	mux.HandleFunc("POST "+routes.AuthLogout, s.handleLogout)

	mux.HandleFunc("GET "+routes.APIPosts, s.authp.RequireSession(s.handleListPosts))
	mux.HandleFunc("POST "+routes.APIPosts, s.authp.RequireSession(s.handleCreatePost))
	mux.HandleFunc("GET "+routes.APIPostsID, s.authp.RequireSession(s.handleGetPost))
	mux.HandleFunc("PUT "+routes.APIPostsID, s.authp.RequireSession(s.handleUpdatePost))
	mux.HandleFunc("DELETE "+routes.APIPostsID, s.authp.RequireSession(s.handleDeletePost))
	mux.HandleFunc("POST "+routes.APIPostPublish, s.authp.RequireSession(s.handleSetPublished))
	mux.HandleFunc("POST "+routes.APIImages, s.authp.RequireSession(s.handleUploadImage))

	return mux
}

func (s *Server) ListenAndServe() error {
	addr := s.cfg.Server.Host + ":" + s.cfg.Server.Port
	s.log.Info().Str("addr", addr).Msg("Server listening")
	return http.ListenAndServe(addr, s.Handler())
}
