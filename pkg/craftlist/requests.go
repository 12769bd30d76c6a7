package craftlist

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs for Service operations.

// CreateTicketRequest contains parameters for submitting a support ticket.
type CreateTicketRequest struct {
	Subject string
	Message string
	UserID  *uuid.UUID
}

// CreateCategoryRequest contains parameters for creating a blog category.
// Name and Slug are required.
type CreateCategoryRequest struct {
	Name        string
	Slug        string
	Description string
	Icon        string
	Color       string
}

// CreatePostRequest contains parameters for creating a blog post.
// Title, Content, CategoryID and UserID are required; the post slug is
// assigned by the service.
type CreatePostRequest struct {
	Title      string
	Content    string
	Excerpt    string
	Tags       []string
	CategoryID uuid.UUID
	UserID     uuid.UUID
}

// ListPostsRequest contains optional filters for listing posts. When both
// are set, slug resolution determines the effective category.
type ListPostsRequest struct {
	CategoryID   *uuid.UUID
	CategorySlug *string
}

// CreatePageRequest contains parameters for creating a custom page.
// Title and Slug are required.
type CreatePageRequest struct {
	Title           string
	Slug            string
	Content         string
	MetaDescription string
	Published       bool
	ShowInFooter    bool
	FooterOrder     int
}

// ListPagesRequest contains optional filters for listing published pages.
type ListPagesRequest struct {
	FooterOnly bool
}

// CreateBannerRequest contains parameters for creating a banner.
// Title and Position are required.
type CreateBannerRequest struct {
	Title     string
	TargetURL string
	Position  BannerPosition
	Active    bool
	StartDate time.Time
	EndDate   time.Time
}

// ListBannersRequest contains optional filters for listing active banners.
type ListBannersRequest struct {
	Position *BannerPosition
}
