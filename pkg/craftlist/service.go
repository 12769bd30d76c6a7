package craftlist

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Service defines the main interface for the craftlist backend.
type Service interface {
	// User operations
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateUserRole(ctx context.Context, id uuid.UUID, role Role) (*User, error)

	// Ticket operations
	CreateTicket(ctx context.Context, req CreateTicketRequest) (*Ticket, error)
	ListTickets(ctx context.Context) ([]*Ticket, error)
	CloseTicket(ctx context.Context, id uuid.UUID) (*Ticket, error)
	DeleteTicket(ctx context.Context, id uuid.UUID) error

	// Server directory operations
	ListServers(ctx context.Context) ([]*Server, error)
	DeleteServer(ctx context.Context, id uuid.UUID) error
	VoteStatus(ctx context.Context, serverID uuid.UUID, ip string) (*VoteStatus, error)
	CastVote(ctx context.Context, serverID uuid.UUID, ip string) (*Server, error)

	// Blog category operations
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// Blog post operations
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)
	ListPosts(ctx context.Context, req ListPostsRequest) ([]*Post, error)
	GetPost(ctx context.Context, id uuid.UUID) (*Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error

	// Custom page operations
	CreatePage(ctx context.Context, req CreatePageRequest) (*Page, error)
	ListPages(ctx context.Context, req ListPagesRequest) ([]*Page, error)
	GetPageBySlug(ctx context.Context, slug string) (*Page, error)
	DeletePage(ctx context.Context, id uuid.UUID) error

	// Banner operations
	CreateBanner(ctx context.Context, req CreateBannerRequest) (*Banner, error)
	ListActiveBanners(ctx context.Context, req ListBannersRequest) ([]*Banner, error)
	UploadBannerImage(ctx context.Context, id uuid.UUID, reader io.Reader) (*Banner, error)
	DeleteBanner(ctx context.Context, id uuid.UUID) error

	// Settings operations
	GetSettings(ctx context.Context) (*SiteSettings, error)
	UpdateSettings(ctx context.Context, settings *SiteSettings) (*SiteSettings, error)

	// Dashboard
	GetStats(ctx context.Context) (*Stats, error)
}
