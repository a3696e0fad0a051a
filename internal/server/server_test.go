package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Rahuman122003/blogify-module/internal/auth"
	"github.com/Rahuman122003/blogify-module/internal/config"
	"github.com/Rahuman122003/blogify-module/internal/model"
	"github.com/Rahuman122003/blogify-module/internal/repository"
)

type fakeUploader struct {
	calls int
	fail  bool
}

func (u *fakeUploader) Store(ctx context.Context, data []byte, contentType string) (string, error) {
	u.calls++
	if u.fail {
		return "", fmt.Errorf("error uploading image: boom")
	}
	return "https://cdn.example.com/uploads/test.png", nil
}

func newTestServer(t *testing.T) (*Server, *repository.MemoryPostRepository, *fakeUploader) {
	t.Helper()

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	repo := repository.NewMemoryPostRepository()
	uploader := &fakeUploader{}
	authp := auth.NewProvider("admin@example.com", "hunter2")

	return New(cfg, repo, uploader, authp, zerolog.Nop()), repo, uploader
}

func login(t *testing.T, handler http.Handler) *http.Cookie {
	t.Helper()

	body := strings.NewReader(`{"email":"admin@example.com","password":"hunter2"}`)
	r := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Login failed with status %d", w.Code)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == config.CookieSession {
			return c
		}
	}
	t.Fatal("No session cookie set")
	return nil
}

func seedPost(t *testing.T, repo *repository.MemoryPostRepository, slug string, published bool) *model.Post {
	t.Helper()

	created, err := repo.Create(context.Background(), &model.Post{
		Title:       "Post " + slug,
		Slug:        slug,
		Description: "desc",
		CoverImage:  "https://example.com/c.jpg",
		Published:   published,
		Blocks: []model.ContentBlock{
			{ID: "b1", Kind: model.KindHeading2, Text: "Hello"},
			{ID: "b2", Kind: model.KindParagraph, Text: "Body text with some words."},
		},
	})
	if err != nil {
		t.Fatalf("Failed to seed post: %v", err)
	}
	return created
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv, _, _ := newTestServer(t)
	handler := srv.Handler()

	body := strings.NewReader(`{"email":"admin@example.com","password":"wrong"}`)
	r := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
}

func TestAdminAPIRequiresSession(t *testing.T) {
	srv, _, _ := newTestServer(t)
	handler := srv.Handler()

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/posts"},
		{http.MethodPost, "/api/posts"},
		{http.MethodGet, "/api/posts/1"},
		{http.MethodPut, "/api/posts/1"},
		{http.MethodDelete, "/api/posts/1"},
		{http.MethodPost, "/api/posts/1/publish"},
		{http.MethodPost, "/api/images"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			r := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401, got %d", w.Code)
			}
		})
	}
}

func TestCreateAndReadPost(t *testing.T) {
	srv, _, _ := newTestServer(t)
	handler := srv.Handler()
	cookie := login(t, handler)

	payload := `{
		"title": "API Post",
		"slug": "api-post",
		"description": "From the API",
		"coverImage": "https://example.com/c.jpg",
		"published": true,
		"blocks": [
			{"id": "b1", "kind": "heading-2", "text": "Hi"},
			{"id": "b2", "kind": "paragraph", "text": "` + strings.TrimSpace(strings.Repeat("word ", 250)) + `"}
		]
	}`

	r := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(payload))
	r.AddCookie(cookie)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created model.Post
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if created.ID == "" {
		t.Error("Expected assigned id")
	}
	if created.ReadingTime != "2 min read" {
		t.Errorf("Expected server-derived reading time, got %q", created.ReadingTime)
	}

	// The published post shows up on the public surface.
	r = httptest.NewRequest(http.MethodGet, "/posts/api-post", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on public detail page, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "API Post") {
		t.Error("Expected post title on detail page")
	}
}

func TestCreatePostValidation(t *testing.T) {
	srv, _, _ := newTestServer(t)
	handler := srv.Handler()
	cookie := login(t, handler)

	r := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{"title":"","slug":"x"}`))
	r.AddCookie(cookie)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty title, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "title") {
		t.Errorf("Expected field name in error, got %q", w.Body.String())
	}
}

func TestCreatePostRejectsUnknownBlockKind(t *testing.T) {
	srv, repo, _ := newTestServer(t)
	handler := srv.Handler()
	cookie := login(t, handler)

	payload := `{
		"title": "Code Post",
		"slug": "code-post",
		"blocks": [{"id": "b1", "kind": "code", "text": "x := 1"}]
	}`
	r := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(payload))
	r.AddCookie(cookie)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown block kind, got %d", w.Code)
	}
	if _, err := repo.GetBySlug(context.Background(), "code-post"); err == nil {
		t.Error("Post with unknown block kind reached the store")
	}
}

func TestRobotsTxtIsCacheable(t *testing.T) {
	srv, _, _ := newTestServer(t)
	handler := srv.Handler()

	r := httptest.NewRequest(http.MethodGet, "/robots.txt", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if got := w.Header().Get(config.HCacheControl); !strings.Contains(got, "max-age") {
		t.Errorf("Expected a cache policy on robots.txt, got %q", got)
	}
}

func TestPublicSurfaceHidesUnpublished(t *testing.T) {
	srv, repo, _ := newTestServer(t)
	handler := srv.Handler()

	seedPost(t, repo, "visible", true)
	time.Sleep(2 * time.Millisecond)
	seedPost(t, repo, "hidden", false)

	t.Run("IndexListsOnlyPublished", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, "/posts/visible") {
			t.Error("Expected published post on index")
		}
		if strings.Contains(body, "/posts/hidden") {
			t.Error("Unpublished post leaked to the public index")
		}
	})

	t.Run("DetailPage404ForUnpublished", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/posts/hidden", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})

	t.Run("DetailPage404ForMissing", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/posts/never-existed", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}

func TestPublishToggle(t *testing.T) {
	srv, repo, _ := newTestServer(t)
	handler := srv.Handler()
	cookie := login(t, handler)

	post := seedPost(t, repo, "toggle-me", false)

	r := httptest.NewRequest(http.MethodPost, "/api/posts/"+string(post.ID)+"/publish",
		strings.NewReader(`{"published":true}`))
	r.AddCookie(cookie)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", w.Code)
	}

	got, err := repo.GetByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("Failed to reload post: %v", err)
	}
	if !got.Published {
		t.Error("Expected post to be published")
	}
}

func TestDeletePost(t *testing.T) {
	srv, repo, _ := newTestServer(t)
	handler := srv.Handler()
	cookie := login(t, handler)

	post := seedPost(t, repo, "doomed", false)

	r := httptest.NewRequest(http.MethodDelete, "/api/posts/"+string(post.ID), nil)
	r.AddCookie(cookie)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", w.Code)
	}

	r = httptest.NewRequest(http.MethodDelete, "/api/posts/"+string(post.ID), nil)
	r.AddCookie(cookie)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 on double delete, got %d", w.Code)
	}
}

func multipartImage(t *testing.T, fieldType string, size int) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="photo.png"`)
	header.Set("Content-Type", fieldType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("Failed to create part: %v", err)
	}
	part.Write(bytes.Repeat([]byte{0xAB}, size))
	mw.Close()

	return &buf, mw.FormDataContentType()
}

func TestImageUpload(t *testing.T) {
	srv, _, uploader := newTestServer(t)
	handler := srv.Handler()
	cookie := login(t, handler)

	upload := func(fieldType string, size int) *httptest.ResponseRecorder {
		body, contentType := multipartImage(t, fieldType, size)
		r := httptest.NewRequest(http.MethodPost, "/api/images", body)
		r.Header.Set("Content-Type", contentType)
		r.AddCookie(cookie)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	t.Run("RejectsOversized", func(t *testing.T) {
		w := upload("image/png", 6*1024*1024)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
		if uploader.calls != 0 {
			t.Errorf("Expected rejection before any store call, got %d calls", uploader.calls)
		}
	})

	t.Run("RejectsNonImage", func(t *testing.T) {
		w := upload("application/pdf", 1024)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
		if uploader.calls != 0 {
			t.Errorf("Expected rejection before any store call, got %d calls", uploader.calls)
		}
	})

	t.Run("AcceptsValidImage", func(t *testing.T) {
		w := upload("image/png", 1024)
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		var resp map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp["url"] == "" {
			t.Error("Expected uploaded URL in response")
		}
		if uploader.calls != 1 {
			t.Errorf("Expected exactly one store call, got %d", uploader.calls)
		}
	})

	t.Run("UploadFailureIsSurfacedOnce", func(t *testing.T) {
		uploader.fail = true
		uploader.calls = 0

		w := upload("image/png", 1024)
		if w.Code != http.StatusBadGateway {
			t.Errorf("Expected 502, got %d", w.Code)
		}
		if uploader.calls != 1 {
			t.Errorf("Expected a single attempt with no retry, got %d", uploader.calls)
		}
	})
}
