package craftlist

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// Repository defines the persistence port for all directory and content
// entities. Implementations own the uniqueness and cascade invariants:
// CreateCategory/CreatePage/CreatePost return ErrDuplicateSlug on a slug
// collision among live rows, and DeleteCategoryAndPosts removes a category
// together with every post referencing it as one atomic unit.
type Repository interface {
	// User operations. Users are created by the external identity system;
	// only reads and role updates go through here.
	ListUsers(ctx context.Context) ([]*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateUser(ctx context.Context, user *User) error

	// Ticket operations
	CreateTicket(ctx context.Context, ticket *Ticket) error
	ListTickets(ctx context.Context) ([]*Ticket, error)
	GetTicket(ctx context.Context, id uuid.UUID) (*Ticket, error)
	UpdateTicket(ctx context.Context, ticket *Ticket) error
	DeleteTicket(ctx context.Context, id uuid.UUID) error

	// Server directory operations
	ListServers(ctx context.Context) ([]*Server, error)
	GetServer(ctx context.Context, id uuid.UUID) (*Server, error)
	DeleteServer(ctx context.Context, id uuid.UUID) error

	// Vote operations. GetLastVote returns ErrVoteNotFound when the pair
	// has never voted.
	CreateVote(ctx context.Context, vote *Vote) error
	GetLastVote(ctx context.Context, serverID uuid.UUID, ip string) (*Vote, error)
	IncrementServerVotes(ctx context.Context, serverID uuid.UUID) error

	// Blog category operations
	CreateCategory(ctx context.Context, category *Category) error
	ListCategories(ctx context.Context) ([]*Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	DeleteCategoryAndPosts(ctx context.Context, id uuid.UUID) error

	// Blog post operations. CreatePost returns ErrCategoryNotFound when
	// the referenced category does not exist.
	CreatePost(ctx context.Context, post *Post) error
	ListPosts(ctx context.Context, params ListPostsParams) ([]*Post, error)
	GetPost(ctx context.Context, id uuid.UUID) (*Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error

	// Custom page operations
	CreatePage(ctx context.Context, page *Page) error
	ListPages(ctx context.Context, params ListPagesParams) ([]*Page, error)
	GetPageBySlug(ctx context.Context, slug string) (*Page, error)
	DeletePage(ctx context.Context, id uuid.UUID) error

	// Banner operations
	CreateBanner(ctx context.Context, banner *Banner) error
	GetBanner(ctx context.Context, id uuid.UUID) (*Banner, error)
	UpdateBanner(ctx context.Context, banner *Banner) error
	ListActiveBanners(ctx context.Context, params ListActiveBannersParams) ([]*Banner, error)
	DeleteBanner(ctx context.Context, id uuid.UUID) error

	// Settings operations. GetSettings returns ErrSettingsNotFound until
	// the first save.
	GetSettings(ctx context.Context) (*SiteSettings, error)
	SaveSettings(ctx context.Context, settings *SiteSettings) error

	// Dashboard counts
	CountUsers(ctx context.Context) (int, error)
	CountTickets(ctx context.Context) (int, error)
	CountServers(ctx context.Context) (int, error)
	CountPosts(ctx context.Context) (int, error)
}

// ListPostsParams contains repository-level filters for listing posts.
type ListPostsParams struct {
	CategoryID *uuid.UUID
}

// ListPagesParams contains repository-level filters for listing pages.
type ListPagesParams struct {
	PublishedOnly bool
	FooterOnly    bool
}

// ListActiveBannersParams contains repository-level filters for listing
// banners that are active at the given instant.
type ListActiveBannersParams struct {
	Position *BannerPosition
	Now      time.Time
}

// BlobStore defines the interface for stored banner images.
type BlobStore interface {
	// Upload stores the bytes under the given key, replacing any
	// previous object.
	Upload(ctx context.Context, key string, reader io.Reader) error

	// Download returns a reader for the stored object.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the stored object.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL for a stored key.
	URL(key string) string
}

// EventSink defines the interface for entity lifecycle notifications.
// Sink failures never fail the triggering operation.
type EventSink interface {
	// CategoryCreated is fired when a blog category is created
	CategoryCreated(ctx context.Context, category *Category) error

	// CategoryDeleted is fired after a category and its posts are removed
	CategoryDeleted(ctx context.Context, categoryID uuid.UUID) error

	// PostCreated is fired when a blog post is created
	PostCreated(ctx context.Context, post *Post) error

	// PostDeleted is fired when a blog post is removed
	PostDeleted(ctx context.Context, postID uuid.UUID) error

	// TicketClosed is fired when a ticket transitions to closed
	TicketClosed(ctx context.Context, ticket *Ticket) error
}
