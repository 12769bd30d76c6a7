package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/craftlist/craft-list/pkg/craftlist"
)

// BlogHandler handles HTTP requests for blog categories and posts
type BlogHandler struct {
	service craftlist.Service
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(service craftlist.Service) *BlogHandler {
	return &BlogHandler{service: service}
}

// Routes returns the routes for the blog
func (h *BlogHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/categories", h.ListCategories)
	r.Post("/categories", h.CreateCategory)
	r.Delete("/categories", h.DeleteCategory)

	r.Get("/posts", h.ListPosts)
	r.Post("/posts", h.CreatePost)
	r.Delete("/posts", h.DeletePost)
	r.Get("/posts/{id}", h.GetPost)

	return r
}

// CreateCategoryRequest is the request body for creating a category
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
}

// ListCategories lists all blog categories
func (h *BlogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if categories == nil {
		categories = []*craftlist.Category{}
	}
	render.JSON(w, r, categories)
}

// CreateCategory creates a new blog category
func (h *BlogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.service.CreateCategory(r.Context(), craftlist.CreateCategoryRequest{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, category)
}

// DeleteCategory deletes a category and all posts that reference it.
// The target is named by the "id" query parameter.
func (h *BlogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		respondError(w, r, http.StatusBadRequest, "missing id parameter")
		return
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(w, r, http.StatusNotFound, craftlist.ErrCategoryNotFound.Error())
		return
	}

	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	respondAck(w, r, "Category deleted successfully")
}

// CreatePostRequest is the request body for creating a post
type CreatePostRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Excerpt    string   `json:"excerpt,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	CategoryID string   `json:"categoryId"`
	UserID     string   `json:"userId"`
}

// ListPosts lists posts, optionally filtered by categoryId or categorySlug
func (h *BlogHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	var req craftlist.ListPostsRequest

	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid categoryId")
			return
		}
		req.CategoryID = &id
	}
	if slug := r.URL.Query().Get("categorySlug"); slug != "" {
		req.CategorySlug = &slug
	}

	posts, err := h.service.ListPosts(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if posts == nil {
		posts = []*craftlist.Post{}
	}
	render.JSON(w, r, posts)
}

// CreatePost creates a new blog post
func (h *BlogHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	serviceReq := craftlist.CreatePostRequest{
		Title:   req.Title,
		Content: req.Content,
		Excerpt: req.Excerpt,
		Tags:    req.Tags,
	}
	if req.CategoryID != "" {
		id, err := uuid.Parse(req.CategoryID)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid categoryId")
			return
		}
		serviceReq.CategoryID = id
	}
	if req.UserID != "" {
		id, err := uuid.Parse(req.UserID)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid userId")
			return
		}
		serviceReq.UserID = id
	}

	post, err := h.service.CreatePost(r.Context(), serviceReq)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, post)
}

// GetPost returns a single post by id
func (h *BlogHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, craftlist.ErrPostNotFound)
	if !ok {
		return
	}

	post, err := h.service.GetPost(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, post)
}

// DeletePost deletes a post named by the "id" query parameter
func (h *BlogHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		respondError(w, r, http.StatusBadRequest, "missing id parameter")
		return
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(w, r, http.StatusNotFound, craftlist.ErrPostNotFound.Error())
		return
	}

	if err := h.service.DeletePost(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	respondAck(w, r, "Post deleted successfully")
}
