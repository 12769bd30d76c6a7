package craftlist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// voteCooldown is the minimum interval between two votes from the same IP
// for the same server.
const voteCooldown = 24 * time.Hour

// service implements the Service interface
type service struct {
	repository Repository
	blobStore  BlobStore
	eventSink  EventSink
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the blob store used for banner images
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.eventSink == nil {
		s.eventSink = NewNoopEventSink()
	}

	return s, nil
}

// User operations

func (s *service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.repository.ListUsers(ctx)
}

func (s *service) UpdateUserRole(ctx context.Context, id uuid.UUID, role Role) (*User, error) {
	if !role.IsValid() {
		return nil, &ValidationError{Field: "role", Reason: "must be one of: user, admin"}
	}

	user, err := s.repository.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := s.repository.UpdateUser(ctx, user); err != nil {
		return nil, &StoreError{Entity: "user", Op: "update-role", Err: err}
	}

	return user, nil
}

// Ticket operations

func (s *service) CreateTicket(ctx context.Context, req CreateTicketRequest) (*Ticket, error) {
	if req.Subject == "" {
		return nil, MissingField("subject")
	}
	if req.Message == "" {
		return nil, MissingField("message")
	}

	now := time.Now().UTC()
	ticket := &Ticket{
		ID:        uuid.New(),
		Subject:   req.Subject,
		Message:   req.Message,
		UserID:    req.UserID,
		Status:    TicketStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repository.CreateTicket(ctx, ticket); err != nil {
		return nil, &StoreError{Entity: "ticket", Op: "create", Err: err}
	}

	return ticket, nil
}

func (s *service) ListTickets(ctx context.Context) ([]*Ticket, error) {
	return s.repository.ListTickets(ctx)
}

// CloseTicket moves a ticket to closed. Re-closing an already closed
// ticket is not an error; the ticket is returned unchanged.
func (s *service) CloseTicket(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	ticket, err := s.repository.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	if ticket.Status == TicketStatusClosed {
		return ticket, nil
	}

	ticket.Status = TicketStatusClosed
	ticket.UpdatedAt = time.Now().UTC()
	if err := s.repository.UpdateTicket(ctx, ticket); err != nil {
		return nil, &StoreError{Entity: "ticket", Op: "close", Err: err}
	}

	_ = s.eventSink.TicketClosed(ctx, ticket)

	return ticket, nil
}

func (s *service) DeleteTicket(ctx context.Context, id uuid.UUID) error {
	return s.repository.DeleteTicket(ctx, id)
}

// Server directory operations

func (s *service) ListServers(ctx context.Context) ([]*Server, error) {
	return s.repository.ListServers(ctx)
}

func (s *service) DeleteServer(ctx context.Context, id uuid.UUID) error {
	return s.repository.DeleteServer(ctx, id)
}

func (s *service) VoteStatus(ctx context.Context, serverID uuid.UUID, ip string) (*VoteStatus, error) {
	if _, err := s.repository.GetServer(ctx, serverID); err != nil {
		return nil, err
	}

	last, err := s.repository.GetLastVote(ctx, serverID, ip)
	if err != nil {
		if errors.Is(err, ErrVoteNotFound) {
			return &VoteStatus{CanVote: true}, nil
		}
		return nil, err
	}

	elapsed := time.Now().UTC().Sub(last.CreatedAt)
	if elapsed >= voteCooldown {
		return &VoteStatus{CanVote: true}, nil
	}
	return &VoteStatus{CanVote: false, TimeLeft: voteCooldown - elapsed}, nil
}

func (s *service) CastVote(ctx context.Context, serverID uuid.UUID, ip string) (*Server, error) {
	status, err := s.VoteStatus(ctx, serverID, ip)
	if err != nil {
		return nil, err
	}
	if !status.CanVote {
		return nil, ErrVoteTooSoon
	}

	vote := &Vote{
		ID:        uuid.New(),
		ServerID:  serverID,
		IPAddress: ip,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repository.CreateVote(ctx, vote); err != nil {
		return nil, &StoreError{Entity: "vote", Op: "create", Err: err}
	}
	if err := s.repository.IncrementServerVotes(ctx, serverID); err != nil {
		return nil, &StoreError{Entity: "server", Op: "increment-votes", Err: err}
	}

	return s.repository.GetServer(ctx, serverID)
}

// Blog category operations

func (s *service) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error) {
	if req.Name == "" {
		return nil, MissingField("name")
	}
	if req.Slug == "" {
		return nil, MissingField("slug")
	}
	if !ValidSlug(req.Slug) {
		return nil, &ValidationError{Field: "slug", Reason: "must contain only lowercase letters, digits and hyphens"}
	}

	category := &Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repository.CreateCategory(ctx, category); err != nil {
		return nil, &StoreError{Entity: "category", Op: "create", Err: err}
	}

	_ = s.eventSink.CategoryCreated(ctx, category)

	return category, nil
}

func (s *service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.repository.ListCategories(ctx)
}

// DeleteCategory removes the category and every post referencing it. The
// repository performs the cascade as one atomic unit.
func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.repository.DeleteCategoryAndPosts(ctx, id); err != nil {
		return err
	}

	_ = s.eventSink.CategoryDeleted(ctx, id)

	return nil
}

// Blog post operations

func (s *service) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if req.Title == "" {
		return nil, MissingField("title")
	}
	if req.Content == "" {
		return nil, MissingField("content")
	}
	if req.CategoryID == uuid.Nil {
		return nil, MissingField("categoryId")
	}
	if req.UserID == uuid.Nil {
		return nil, MissingField("userId")
	}

	now := time.Now().UTC()
	post := &Post{
		ID:         uuid.New(),
		Title:      req.Title,
		Slug:       Slugify(req.Title),
		Content:    req.Content,
		Excerpt:    req.Excerpt,
		Tags:       req.Tags,
		CategoryID: req.CategoryID,
		UserID:     req.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if post.Slug == "" {
		post.Slug = post.ID.String()[:8]
	}

	err := s.repository.CreatePost(ctx, post)
	if errors.Is(err, ErrDuplicateSlug) {
		// Another live post derived the same slug from its title; retry
		// once with an id suffix.
		post.Slug = fmt.Sprintf("%s-%s", post.Slug, post.ID.String()[:8])
		err = s.repository.CreatePost(ctx, post)
	}
	if err != nil {
		return nil, &StoreError{Entity: "post", Op: "create", Err: err}
	}

	_ = s.eventSink.PostCreated(ctx, post)

	return post, nil
}

// ListPosts returns posts, optionally filtered by category. A slug filter
// that matches no category is an error; an id filter that matches nothing
// yields an empty result.
func (s *service) ListPosts(ctx context.Context, req ListPostsRequest) ([]*Post, error) {
	params := ListPostsParams{CategoryID: req.CategoryID}

	if req.CategorySlug != nil {
		category, err := s.repository.GetCategoryBySlug(ctx, *req.CategorySlug)
		if err != nil {
			return nil, err
		}
		params.CategoryID = &category.ID
	}

	return s.repository.ListPosts(ctx, params)
}

func (s *service) GetPost(ctx context.Context, id uuid.UUID) (*Post, error) {
	return s.repository.GetPost(ctx, id)
}

func (s *service) DeletePost(ctx context.Context, id uuid.UUID) error {
	if err := s.repository.DeletePost(ctx, id); err != nil {
		return err
	}

	_ = s.eventSink.PostDeleted(ctx, id)

	return nil
}

// Custom page operations

func (s *service) CreatePage(ctx context.Context, req CreatePageRequest) (*Page, error) {
	if req.Title == "" {
		return nil, MissingField("title")
	}
	if req.Slug == "" {
		return nil, MissingField("slug")
	}
	if !ValidSlug(req.Slug) {
		return nil, &ValidationError{Field: "slug", Reason: "must contain only lowercase letters, digits and hyphens"}
	}

	now := time.Now().UTC()
	page := &Page{
		ID:              uuid.New(),
		Slug:            req.Slug,
		Title:           req.Title,
		Content:         req.Content,
		MetaDescription: req.MetaDescription,
		Published:       req.Published,
		ShowInFooter:    req.ShowInFooter,
		FooterOrder:     req.FooterOrder,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repository.CreatePage(ctx, page); err != nil {
		return nil, &StoreError{Entity: "page", Op: "create", Err: err}
	}

	return page, nil
}

func (s *service) ListPages(ctx context.Context, req ListPagesRequest) ([]*Page, error) {
	return s.repository.ListPages(ctx, ListPagesParams{
		PublishedOnly: true,
		FooterOnly:    req.FooterOnly,
	})
}

// GetPageBySlug returns a published page. Unpublished pages are not
// visible through this path.
func (s *service) GetPageBySlug(ctx context.Context, slug string) (*Page, error) {
	page, err := s.repository.GetPageBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !page.Published {
		return nil, ErrPageNotFound
	}
	return page, nil
}

func (s *service) DeletePage(ctx context.Context, id uuid.UUID) error {
	return s.repository.DeletePage(ctx, id)
}

// Banner operations

func (s *service) CreateBanner(ctx context.Context, req CreateBannerRequest) (*Banner, error) {
	if req.Title == "" {
		return nil, MissingField("title")
	}
	if !req.Position.IsValid() {
		return nil, &ValidationError{Field: "position", Reason: "must be one of: header, sidebar, footer"}
	}
	if !req.StartDate.IsZero() && !req.EndDate.IsZero() && req.EndDate.Before(req.StartDate) {
		return nil, &ValidationError{Field: "endDate", Reason: "must not precede startDate"}
	}

	banner := &Banner{
		ID:        uuid.New(),
		Title:     req.Title,
		TargetURL: req.TargetURL,
		Position:  req.Position,
		Active:    req.Active,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repository.CreateBanner(ctx, banner); err != nil {
		return nil, &StoreError{Entity: "banner", Op: "create", Err: err}
	}

	return banner, nil
}

func (s *service) ListActiveBanners(ctx context.Context, req ListBannersRequest) ([]*Banner, error) {
	return s.repository.ListActiveBanners(ctx, ListActiveBannersParams{
		Position: req.Position,
		Now:      time.Now().UTC(),
	})
}

// UploadBannerImage stores the image bytes through the configured blob
// store and records the resulting URL on the banner.
func (s *service) UploadBannerImage(ctx context.Context, id uuid.UUID, reader io.Reader) (*Banner, error) {
	if s.blobStore == nil {
		return nil, fmt.Errorf("no blob store configured")
	}

	banner, err := s.repository.GetBanner(ctx, id)
	if err != nil {
		return nil, err
	}

	key := "banners/" + banner.ID.String()
	if err := s.blobStore.Upload(ctx, key, reader); err != nil {
		return nil, &StoreError{Entity: "banner", Op: "upload-image", Err: err}
	}

	banner.ImageURL = s.blobStore.URL(key)
	if err := s.repository.UpdateBanner(ctx, banner); err != nil {
		return nil, &StoreError{Entity: "banner", Op: "update", Err: err}
	}

	return banner, nil
}

func (s *service) DeleteBanner(ctx context.Context, id uuid.UUID) error {
	banner, err := s.repository.GetBanner(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repository.DeleteBanner(ctx, id); err != nil {
		return err
	}

	// Image cleanup is best effort; a dangling blob is harmless.
	if s.blobStore != nil && banner.ImageURL != "" {
		_ = s.blobStore.Delete(ctx, "banners/"+banner.ID.String())
	}

	return nil
}

// Settings operations

// GetSettings returns the saved settings document, or defaults when no
// admin has saved one yet.
func (s *service) GetSettings(ctx context.Context) (*SiteSettings, error) {
	settings, err := s.repository.GetSettings(ctx)
	if err != nil {
		if errors.Is(err, ErrSettingsNotFound) {
			return DefaultSettings(), nil
		}
		return nil, err
	}
	return settings, nil
}

func (s *service) UpdateSettings(ctx context.Context, settings *SiteSettings) (*SiteSettings, error) {
	if settings == nil {
		return nil, MissingField("settings")
	}
	if settings.SiteName == "" {
		return nil, MissingField("siteName")
	}

	if err := s.repository.SaveSettings(ctx, settings); err != nil {
		return nil, &StoreError{Entity: "settings", Op: "save", Err: err}
	}

	return settings, nil
}

// Dashboard

func (s *service) GetStats(ctx context.Context) (*Stats, error) {
	servers, err := s.repository.CountServers(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.repository.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	tickets, err := s.repository.CountTickets(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := s.repository.CountPosts(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		Servers: servers,
		Users:   users,
		Tickets: tickets,
		Posts:   posts,
	}, nil
}
