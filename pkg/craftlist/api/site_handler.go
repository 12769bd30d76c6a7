package api

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/craftlist/craft-list/pkg/craftlist"
)

// SiteHandler handles the public HTTP surface: the server directory and
// voting, ticket submission, published pages, active banners and public
// site settings.
type SiteHandler struct {
	service craftlist.Service
}

// NewSiteHandler creates a new site handler
func NewSiteHandler(service craftlist.Service) *SiteHandler {
	return &SiteHandler{service: service}
}

// Routes returns the routes for the public surface
func (h *SiteHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/servers", h.ListServers)
	r.Get("/servers/{id}/can-vote", h.VoteStatus)
	r.Post("/servers/{id}/vote", h.CastVote)

	r.Post("/tickets", h.CreateTicket)

	r.Get("/pages", h.ListPages)
	r.Get("/pages/{slug}", h.GetPage)

	r.Get("/banners/active", h.ListActiveBanners)

	r.Get("/settings/public", h.GetSettings)

	return r
}

// clientIP returns the caller's address with any port stripped. The
// RealIP middleware has already folded proxy headers into RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ListServers lists the server directory
func (h *SiteHandler) ListServers(w http.ResponseWriter, r *http.Request) {
	servers, err := h.service.ListServers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if servers == nil {
		servers = []*craftlist.Server{}
	}
	render.JSON(w, r, servers)
}

// VoteStatusResponse reports whether the caller may vote for a server.
// TimeLeft is milliseconds until the cooldown expires, zero when voting
// is allowed.
type VoteStatusResponse struct {
	CanVote  bool  `json:"canVote"`
	TimeLeft int64 `json:"timeLeft"`
}

// VoteStatus reports whether the calling address may vote for a server
func (h *SiteHandler) VoteStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, craftlist.ErrServerNotFound)
	if !ok {
		return
	}

	status, err := h.service.VoteStatus(r.Context(), id, clientIP(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, VoteStatusResponse{
		CanVote:  status.CanVote,
		TimeLeft: status.TimeLeft.Milliseconds(),
	})
}

// CastVote registers a vote for a server from the calling address
func (h *SiteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, craftlist.ErrServerNotFound)
	if !ok {
		return
	}

	server, err := h.service.CastVote(r.Context(), id, clientIP(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, server)
}

// CreateTicketRequest is the request body for submitting a support ticket
type CreateTicketRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
	UserID  string `json:"userId,omitempty"`
}

// CreateTicket submits a new support ticket
func (h *SiteHandler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	serviceReq := craftlist.CreateTicketRequest{
		Subject: req.Subject,
		Message: req.Message,
	}
	if req.UserID != "" {
		id, err := uuid.Parse(req.UserID)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid userId")
			return
		}
		serviceReq.UserID = &id
	}

	ticket, err := h.service.CreateTicket(r.Context(), serviceReq)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, ticket)
}

// ListPages lists published pages, restricted to footer pages when
// footer=true is given
func (h *SiteHandler) ListPages(w http.ResponseWriter, r *http.Request) {
	req := craftlist.ListPagesRequest{
		FooterOnly: r.URL.Query().Get("footer") == "true",
	}

	pages, err := h.service.ListPages(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if pages == nil {
		pages = []*craftlist.Page{}
	}
	render.JSON(w, r, pages)
}

// GetPage returns a published page by slug
func (h *SiteHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.GetPageBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, page)
}

// ListActiveBanners lists banners currently inside their display window,
// optionally restricted to one position
func (h *SiteHandler) ListActiveBanners(w http.ResponseWriter, r *http.Request) {
	var req craftlist.ListBannersRequest
	if raw := r.URL.Query().Get("position"); raw != "" {
		position, err := craftlist.ParseBannerPosition(raw)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid position")
			return
		}
		req.Position = &position
	}

	banners, err := h.service.ListActiveBanners(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if banners == nil {
		banners = []*craftlist.Banner{}
	}
	render.JSON(w, r, banners)
}

// GetSettings returns the public site settings
func (h *SiteHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.GetSettings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, settings)
}
