package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/craftlist/craft-list/pkg/craftlist"
)

// AdminHandler handles HTTP requests for the admin surface: user role
// management, ticket triage, server removal, content administration and
// site settings.
type AdminHandler struct {
	service craftlist.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(service craftlist.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

// Routes returns the routes for the admin surface
func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/users", h.ListUsers)
	r.Patch("/users/{id}/role", h.UpdateUserRole)

	r.Get("/tickets", h.ListTickets)
	r.Patch("/tickets/{id}/close", h.CloseTicket)
	r.Delete("/tickets/{id}", h.DeleteTicket)

	r.Delete("/servers/{id}", h.DeleteServer)

	r.Get("/stats", h.GetStats)

	r.Post("/pages", h.CreatePage)
	r.Delete("/pages/{id}", h.DeletePage)

	r.Post("/banners", h.CreateBanner)
	r.Put("/banners/{id}/image", h.UploadBannerImage)
	r.Delete("/banners/{id}", h.DeleteBanner)

	r.Put("/settings", h.UpdateSettings)

	return r
}

func pathID(w http.ResponseWriter, r *http.Request, missing error) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusNotFound, missing.Error())
		return uuid.Nil, false
	}
	return id, true
}

// ListUsers lists all registered users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if users == nil {
		users = []*craftlist.User{}
	}
	render.JSON(w, r, users)
}

// UpdateUserRoleRequest is the request body for changing a user's role
type UpdateUserRoleRequest struct {
	Role string `json:"role"`
}

// UpdateUserRole assigns a new role to a user
func (h *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, craftlist.ErrUserNotFound)
	if !ok {
		return
	}

	var req UpdateUserRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.service.UpdateUserRole(r.Context(), id, craftlist.Role(req.Role))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, user)
}

// ListTickets lists all support tickets
func (h *AdminHandler) ListTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.service.ListTickets(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if tickets == nil {
		tickets = []*craftlist.Ticket{}
	}
	render.JSON(w, r, tickets)
}

// CloseTicket marks a ticket as closed. Closing an already closed ticket
// succeeds without changing it.
func (h *AdminHandler) CloseTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, craftlist.ErrTicketNotFound)
	if !ok {
		return
	}

	ticket, err := h.service.CloseTicket(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, ticket)
}

// DeleteTicket deletes a support ticket
func (h *AdminHandler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, craftlist.ErrTicketNotFound)
	if !ok {
		return
	}

	if err := h.service.DeleteTicket(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	respondAck(w, r, "Ticket deleted successfully")
}

// DeleteServer removes a server from the directory
func (h *AdminHandler) DeleteServer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, craftlist.ErrServerNotFound)
	if !ok {
		return
	}

	if err := h.service.DeleteServer(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	respondAck(w, r, "Server deleted successfully")
}

// GetStats returns dashboard entity counts
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, stats)
}

// CreatePageRequest is the request body for creating a custom page
type CreatePageRequest struct {
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	Content         string `json:"content,omitempty"`
	MetaDescription string `json:"metaDescription,omitempty"`
	Published       bool   `json:"isPublished"`
	ShowInFooter    bool   `json:"showInFooter"`
	FooterOrder     int    `json:"footerOrder"`
}

// CreatePage creates a new custom page
func (h *AdminHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req CreatePageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	page, err := h.service.CreatePage(r.Context(), craftlist.CreatePageRequest{
		Title:           req.Title,
		Slug:            req.Slug,
		Content:         req.Content,
		MetaDescription: req.MetaDescription,
		Published:       req.Published,
		ShowInFooter:    req.ShowInFooter,
		FooterOrder:     req.FooterOrder,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, page)
}

// DeletePage deletes a custom page
func (h *AdminHandler) DeletePage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, craftlist.ErrPageNotFound)
	if !ok {
		return
	}

	if err := h.service.DeletePage(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	respondAck(w, r, "Page deleted successfully")
}

// CreateBannerRequest is the request body for creating a banner. Dates
// accept either a bare date (2026-01-31) or full RFC 3339.
type CreateBannerRequest struct {
	Title     string `json:"title"`
	TargetURL string `json:"targetUrl,omitempty"`
	Position  string `json:"position"`
	Active    bool   `json:"isActive"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

func parseBannerDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// CreateBanner creates a new banner
func (h *AdminHandler) CreateBanner(w http.ResponseWriter, r *http.Request) {
	var req CreateBannerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	start, err := parseBannerDate(req.StartDate)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid startDate")
		return
	}
	end, err := parseBannerDate(req.EndDate)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid endDate")
		return
	}

	banner, err := h.service.CreateBanner(r.Context(), craftlist.CreateBannerRequest{
		Title:     req.Title,
		TargetURL: req.TargetURL,
		Position:  craftlist.BannerPosition(req.Position),
		Active:    req.Active,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, banner)
}

const maxBannerImageSize = 10 << 20 // 10 MB

// UploadBannerImage stores the request body as the banner's image
func (h *AdminHandler) UploadBannerImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, craftlist.ErrBannerNotFound)
	if !ok {
		return
	}

	banner, err := h.service.UploadBannerImage(r.Context(), id, http.MaxBytesReader(w, r.Body, maxBannerImageSize))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, banner)
}

// DeleteBanner deletes a banner and its stored image
func (h *AdminHandler) DeleteBanner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, craftlist.ErrBannerNotFound)
	if !ok {
		return
	}

	if err := h.service.DeleteBanner(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	respondAck(w, r, "Banner deleted successfully")
}

// UpdateSettings replaces the site settings
func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings craftlist.SiteSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.service.UpdateSettings(r.Context(), &settings)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, updated)
}
