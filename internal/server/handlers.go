package server

import (
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"

	"github.com/Rahuman122003/blogify-module/internal/auth"
	"github.com/Rahuman122003/blogify-module/internal/config"
	"github.com/Rahuman122003/blogify-module/internal/editor"
	"github.com/Rahuman122003/blogify-module/internal/model"
	"github.com/Rahuman122003/blogify-module/internal/render"
	"github.com/Rahuman122003/blogify-module/internal/repository"
	"github.com/Rahuman122003/blogify-module/internal/storage"
)

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	posts, err := s.posts.ListPublished(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("Error listing posts")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if len(posts) > s.cfg.Content.PostsPerPage {
		posts = posts[:s.cfg.Content.PostsPerPage]
	}

	tmpl, err := template.ParseFS(content,
		config.TemplatesLocalDir+"/"+config.TemplateLayout,
		config.TemplatesLocalDir+"/"+config.TemplateIndex)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := struct {
		Site  config.SiteConfig
		Posts []model.Post
	}{
		Site:  s.cfg.Site,
		Posts: posts,
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	if err := tmpl.ExecuteTemplate(w, config.TemplateLayout, data); err != nil {
		s.log.Error().Err(err).Msg("Error rendering index")
	}
}

func (s *Server) servePost(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	post, err := s.posts.GetBySlug(r.Context(), slug)
	if errors.Is(err, repository.ErrNotFound) {
		http.NotFound(w, r)
		return
	} else if err != nil {
		s.log.Error().Err(err).Str("slug", slug).Msg("Error loading post")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Unpublished posts are invisible on the public surface.
	if !post.Published {
		http.NotFound(w, r)
		return
	}

	tmpl, err := template.ParseFS(content,
		config.TemplatesLocalDir+"/"+config.TemplateLayout,
		config.TemplatesLocalDir+"/"+config.TemplatePost)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := struct {
		Site config.SiteConfig
		Post *model.Post
		Body template.HTML
	}{
		Site: s.cfg.Site,
		Post: post,
		Body: render.RenderBlocksCached(post),
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	if err := tmpl.ExecuteTemplate(w, config.TemplateLayout, data); err != nil {
		s.log.Error().Err(err).Msg("Error rendering post")
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	if !s.authp.Verify(creds.Email, creds.Password) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token := s.authp.StartSession(creds.Email)
	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieSession,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"email": creds.Email})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(config.CookieSession); err == nil {
		s.authp.EndSession(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:   config.CookieSession,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.ListAll(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.posts.GetByID(r.Context(), model.PostID(r.PathValue("id")))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var post model.Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	// Reading time is derived, never taken from the payload.
	post.ReadingTime = editor.ReadingTime(post.Blocks)

	created, err := s.posts.Create(r.Context(), &post)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	var patch model.PostPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	if patch.Blocks != nil {
		readingTime := editor.ReadingTime(patch.Blocks)
		patch.ReadingTime = &readingTime
	}

	id := model.PostID(r.PathValue("id"))
	if err := s.posts.Update(r.Context(), id, patch); err != nil {
		s.writeStoreError(w, err)
		return
	}

	post, err := s.posts.GetByID(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	if err := s.posts.Delete(r.Context(), model.PostID(r.PathValue("id"))); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetPublished(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Published bool `json:"published"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	if err := s.posts.SetPublished(r.Context(), model.PostID(r.PathValue("id")), body.Published); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(storage.MaxImageSize + 1024); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Missing image field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get(config.HCType)
	if err := storage.ValidateImage(header.Size, contentType); err != nil {
		email, _ := auth.EmailFromContext(r.Context())
		s.log.Warn().Err(err).Str("filename", header.Filename).Str("by", email).Msg("Upload rejected")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	url, err := s.uploader.Store(r.Context(), data, contentType)
	if err != nil {
		s.log.Error().Err(err).Msg("Error uploading image")
		http.Error(w, "Upload failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	var validationErr *model.ValidationError
	switch {
	case errors.As(err, &validationErr):
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrNotFound):
		http.Error(w, "Post not found", http.StatusNotFound)
	case errors.Is(err, repository.ErrConflict):
		http.Error(w, "Slug already in use", http.StatusConflict)
	default:
		s.log.Error().Err(err).Msg("Store error")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
