package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftlist/craft-list/pkg/craftlist"
	"github.com/craftlist/craft-list/pkg/craftlist/api"
	"github.com/craftlist/craft-list/pkg/craftlist/repo/memory"
	memorystorage "github.com/craftlist/craft-list/pkg/craftlist/storage/memory"
)

func setupAPI(t *testing.T) (*chi.Mux, *memory.Repository) {
	t.Helper()

	repo := memory.New()
	svc, err := craftlist.New(
		craftlist.WithRepository(repo),
		craftlist.WithBlobStore(memorystorage.New()),
	)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Mount("/", api.NewSiteHandler(svc).Routes())
		r.Mount("/blog", api.NewBlogHandler(svc).Routes())
		r.Mount("/admin", api.NewAdminHandler(svc).Routes())
	})
	return r, repo
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestCategoryEndpoints(t *testing.T) {
	router, _ := setupAPI(t)

	t.Run("create", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/blog/categories", map[string]any{
			"name": "Tutorials",
			"slug": "tutorials",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		category := decode[craftlist.Category](t, rec)
		assert.Equal(t, "tutorials", category.Slug)
		assert.NotEqual(t, uuid.Nil, category.ID)
	})

	t.Run("missing name", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/blog/categories", map[string]any{
			"slug": "no-name",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		body := decode[api.ErrorResponse](t, rec)
		assert.Contains(t, body.Error, "name")
	})

	t.Run("duplicate slug", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/blog/categories", map[string]any{
			"name": "Tutorials Again",
			"slug": "tutorials",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("list", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/blog/categories", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		categories := decode[[]craftlist.Category](t, rec)
		assert.Len(t, categories, 1)
	})

	t.Run("delete without id", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, "/api/blog/categories", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete unknown id", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, "/api/blog/categories?id="+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete malformed id", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, "/api/blog/categories?id=not-a-uuid", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPostEndpoints(t *testing.T) {
	router, _ := setupAPI(t)
	author := uuid.NewString()

	createCategory := func(t *testing.T, name, slug string) craftlist.Category {
		rec := doJSON(t, router, http.MethodPost, "/api/blog/categories", map[string]any{
			"name": name,
			"slug": slug,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		return decode[craftlist.Category](t, rec)
	}

	guides := createCategory(t, "Guides", "guides")
	news := createCategory(t, "News", "news")

	rec := doJSON(t, router, http.MethodPost, "/api/blog/posts", map[string]any{
		"title":      "Redstone Basics",
		"content":    "Start with a lever.",
		"categoryId": guides.ID.String(),
		"userId":     author,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	post := decode[craftlist.Post](t, rec)
	assert.Equal(t, "redstone-basics", post.Slug)

	t.Run("missing category", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/blog/posts", map[string]any{
			"title":   "No Category",
			"content": "x",
			"userId":  author,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown category", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/blog/posts", map[string]any{
			"title":      "Orphan",
			"content":    "x",
			"categoryId": uuid.NewString(),
			"userId":     author,
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("get by id", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/blog/posts/"+post.ID.String(), nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		got := decode[craftlist.Post](t, rec)
		assert.Equal(t, post.ID, got.ID)
		assert.Equal(t, "redstone-basics", got.Slug)
	})

	t.Run("get unknown id", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/blog/posts/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("filter by slug", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/blog/posts?categorySlug=guides", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		posts := decode[[]craftlist.Post](t, rec)
		require.Len(t, posts, 1)
		assert.Equal(t, post.ID, posts[0].ID)
	})

	t.Run("unknown slug is 404", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/blog/posts?categorySlug=nope", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown category id is an empty list", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/blog/posts?categoryId="+uuid.NewString(), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		posts := decode[[]craftlist.Post](t, rec)
		assert.Empty(t, posts)
	})

	t.Run("malformed category id filter", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/blog/posts?categoryId=42", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("cascade delete through the API", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, "/api/blog/categories?id="+guides.ID.String(), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		ack := decode[api.AckResponse](t, rec)
		assert.True(t, ack.Success)

		rec = doJSON(t, router, http.MethodGet, "/api/blog/posts", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		posts := decode[[]craftlist.Post](t, rec)
		assert.Empty(t, posts)

		// The untouched category is still there.
		rec = doJSON(t, router, http.MethodGet, "/api/blog/categories", nil)
		categories := decode[[]craftlist.Category](t, rec)
		require.Len(t, categories, 1)
		assert.Equal(t, news.ID, categories[0].ID)
	})
}

func TestUserEndpoints(t *testing.T) {
	router, repo := setupAPI(t)

	user := &craftlist.User{
		ID:        uuid.New(),
		Email:     "alex@example.com",
		Username:  "alex",
		Role:      craftlist.RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	repo.SeedUser(user)

	t.Run("list users", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/admin/users", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		users := decode[[]craftlist.User](t, rec)
		require.Len(t, users, 1)
		assert.Equal(t, "alex", users[0].Username)
	})

	t.Run("promote", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPatch,
			fmt.Sprintf("/api/admin/users/%s/role", user.ID), map[string]any{"role": "admin"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		updated := decode[craftlist.User](t, rec)
		assert.Equal(t, craftlist.RoleAdmin, updated.Role)
	})

	t.Run("invalid role", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPatch,
			fmt.Sprintf("/api/admin/users/%s/role", user.ID), map[string]any{"role": "overlord"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPatch,
			fmt.Sprintf("/api/admin/users/%s/role", uuid.New()), map[string]any{"role": "admin"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed user id", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPatch,
			"/api/admin/users/not-a-uuid/role", map[string]any{"role": "admin"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTicketEndpoints(t *testing.T) {
	router, _ := setupAPI(t)

	rec := doJSON(t, router, http.MethodPost, "/api/tickets", map[string]any{
		"subject": "Login broken",
		"message": "I cannot sign in since the update.",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ticket := decode[craftlist.Ticket](t, rec)
	assert.Equal(t, craftlist.TicketStatusOpen, ticket.Status)

	t.Run("missing message", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/tickets", map[string]any{"subject": "hi"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("close", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPatch,
			fmt.Sprintf("/api/admin/tickets/%s/close", ticket.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		closed := decode[craftlist.Ticket](t, rec)
		assert.Equal(t, craftlist.TicketStatusClosed, closed.Status)
	})

	t.Run("delete", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete,
			fmt.Sprintf("/api/admin/tickets/%s", ticket.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		ack := decode[api.AckResponse](t, rec)
		assert.True(t, ack.Success)
	})

	t.Run("delete unknown", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete,
			fmt.Sprintf("/api/admin/tickets/%s", uuid.New()), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServerAndVoteEndpoints(t *testing.T) {
	router, repo := setupAPI(t)

	server := &craftlist.Server{
		ID:        uuid.New(),
		Name:      "Skyblock Realms",
		Address:   "play.skyblock.example.com",
		CreatedAt: time.Now().UTC(),
	}
	repo.SeedServer(server)

	t.Run("list servers", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/servers", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		servers := decode[[]craftlist.Server](t, rec)
		require.Len(t, servers, 1)
	})

	t.Run("can vote before voting", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet,
			fmt.Sprintf("/api/servers/%s/can-vote", server.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		status := decode[api.VoteStatusResponse](t, rec)
		assert.True(t, status.CanVote)
		assert.Zero(t, status.TimeLeft)
	})

	t.Run("vote", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost,
			fmt.Sprintf("/api/servers/%s/vote", server.ID), nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		voted := decode[craftlist.Server](t, rec)
		assert.Equal(t, 1, voted.Votes)
	})

	t.Run("second vote from the same address", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost,
			fmt.Sprintf("/api/servers/%s/vote", server.ID), nil)
		assert.Equal(t, http.StatusConflict, rec.Code)

		rec = doJSON(t, router, http.MethodGet,
			fmt.Sprintf("/api/servers/%s/can-vote", server.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		status := decode[api.VoteStatusResponse](t, rec)
		assert.False(t, status.CanVote)
		assert.Greater(t, status.TimeLeft, int64(0))
	})

	t.Run("admin delete", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete,
			fmt.Sprintf("/api/admin/servers/%s", server.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, router, http.MethodDelete,
			fmt.Sprintf("/api/admin/servers/%s", server.ID), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPageEndpoints(t *testing.T) {
	router, _ := setupAPI(t)

	rec := doJSON(t, router, http.MethodPost, "/api/admin/pages", map[string]any{
		"title":        "About Us",
		"slug":         "about",
		"content":      "We list servers.",
		"isPublished":  true,
		"showInFooter": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	page := decode[craftlist.Page](t, rec)

	rec = doJSON(t, router, http.MethodPost, "/api/admin/pages", map[string]any{
		"title": "Draft",
		"slug":  "draft",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("public listing hides drafts", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/pages", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		pages := decode[[]craftlist.Page](t, rec)
		require.Len(t, pages, 1)
		assert.Equal(t, "about", pages[0].Slug)
	})

	t.Run("footer filter", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/pages?footer=true", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		pages := decode[[]craftlist.Page](t, rec)
		require.Len(t, pages, 1)
	})

	t.Run("get by slug", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/pages/about", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[craftlist.Page](t, rec)
		assert.Equal(t, page.ID, got.ID)
	})

	t.Run("draft slug is 404", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/pages/draft", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("duplicate slug is 409", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/admin/pages", map[string]any{
			"title": "About Again",
			"slug":  "about",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete,
			fmt.Sprintf("/api/admin/pages/%s", page.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		ack := decode[api.AckResponse](t, rec)
		assert.True(t, ack.Success)
	})
}

func TestBannerEndpoints(t *testing.T) {
	router, _ := setupAPI(t)
	now := time.Now().UTC()

	rec := doJSON(t, router, http.MethodPost, "/api/admin/banners", map[string]any{
		"title":     "Summer Event",
		"position":  "header",
		"isActive":  true,
		"startDate": now.Add(-time.Hour).Format(time.RFC3339),
		"endDate":   now.Add(time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	banner := decode[craftlist.Banner](t, rec)

	t.Run("bare date form is accepted", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/admin/banners", map[string]any{
			"title":     "Sidebar Promo",
			"position":  "sidebar",
			"isActive":  true,
			"startDate": "2020-01-01",
			"endDate":   "2099-12-31",
		})
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("invalid position", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/admin/banners", map[string]any{
			"title":    "Popup",
			"position": "popup",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("active listing", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/banners/active", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		banners := decode[[]craftlist.Banner](t, rec)
		assert.Len(t, banners, 2)
	})

	t.Run("position filter", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/banners/active?position=header", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		banners := decode[[]craftlist.Banner](t, rec)
		require.Len(t, banners, 1)
		assert.Equal(t, banner.ID, banners[0].ID)
	})

	t.Run("invalid position filter", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/banners/active?position=bogus", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("image upload", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut,
			fmt.Sprintf("/api/admin/banners/%s/image", banner.ID),
			bytes.NewReader([]byte("png bytes")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		updated := decode[craftlist.Banner](t, rec)
		assert.NotEmpty(t, updated.ImageURL)
	})

	t.Run("delete", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete,
			fmt.Sprintf("/api/admin/banners/%s", banner.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, router, http.MethodDelete,
			fmt.Sprintf("/api/admin/banners/%s", banner.ID), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSettingsEndpoints(t *testing.T) {
	router, _ := setupAPI(t)

	t.Run("public settings start as defaults", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/settings/public", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		settings := decode[craftlist.SiteSettings](t, rec)
		assert.Equal(t, "Craft List", settings.SiteName)
	})

	t.Run("update and read back", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/api/admin/settings", map[string]any{
			"siteName":     "Block Central",
			"primaryColor": "#ff0000",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = doJSON(t, router, http.MethodGet, "/api/settings/public", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		settings := decode[craftlist.SiteSettings](t, rec)
		assert.Equal(t, "Block Central", settings.SiteName)
	})

	t.Run("missing site name", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/api/admin/settings", map[string]any{
			"primaryColor": "#00ff00",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestStatsEndpoint(t *testing.T) {
	router, repo := setupAPI(t)

	repo.SeedUser(&craftlist.User{ID: uuid.New(), Username: "steve"})
	repo.SeedServer(&craftlist.Server{ID: uuid.New(), Name: "s", Address: "a"})

	rec := doJSON(t, router, http.MethodPost, "/api/tickets", map[string]any{
		"subject": "s", "message": "m",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/admin/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	stats := decode[craftlist.Stats](t, rec)
	assert.Equal(t, 1, stats.Users)
	assert.Equal(t, 1, stats.Servers)
	assert.Equal(t, 1, stats.Tickets)
	assert.Equal(t, 0, stats.Posts)
}
