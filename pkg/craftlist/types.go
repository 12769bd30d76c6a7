package craftlist

import (
	"time"

	"github.com/google/uuid"
)

// Role is the domain type for user roles.
type Role string

// Recognized roles (typed).
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid reports whether the role is one of the recognized values.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// ParseRole converts boundary input into a Role, rejecting anything
// outside the recognized set.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", &ValidationError{Field: "role", Reason: "must be one of: user, admin"}
	}
	return r, nil
}

// TicketStatus is the domain type for ticket lifecycle states.
type TicketStatus string

// Ticket status constants (typed).
const (
	TicketStatusOpen   TicketStatus = "open"
	TicketStatusClosed TicketStatus = "closed"
)

// IsValid reports whether the status is one of the recognized values.
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusClosed:
		return true
	}
	return false
}

// BannerPosition is the domain type for banner placement slots.
type BannerPosition string

// Banner position constants (typed).
const (
	BannerPositionHeader  BannerPosition = "header"
	BannerPositionSidebar BannerPosition = "sidebar"
	BannerPositionFooter  BannerPosition = "footer"
)

// IsValid reports whether the position is one of the recognized values.
func (p BannerPosition) IsValid() bool {
	switch p {
	case BannerPositionHeader, BannerPositionSidebar, BannerPositionFooter:
		return true
	}
	return false
}

// ParseBannerPosition converts boundary input into a BannerPosition.
func ParseBannerPosition(s string) (BannerPosition, error) {
	p := BannerPosition(s)
	if !p.IsValid() {
		return "", &ValidationError{Field: "position", Reason: "must be one of: header, sidebar, footer"}
	}
	return p, nil
}

// User is a site account. Accounts are created and deleted by the external
// identity system; this API only reads them and moves them between roles.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Ticket is a support request. Lifecycle: open -> closed, deletable from
// either state.
type Ticket struct {
	ID        uuid.UUID    `json:"id"`
	Subject   string       `json:"subject"`
	Message   string       `json:"message"`
	UserID    *uuid.UUID   `json:"userId,omitempty"`
	Status    TicketStatus `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Server is a directory listing entry. The descriptive attributes are
// display-only; nothing in the contract validates them.
type Server struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Address     string     `json:"address"`
	Version     string     `json:"version,omitempty"`
	Website     string     `json:"website,omitempty"`
	Votes       int        `json:"votes"`
	OwnerID     *uuid.UUID `json:"ownerId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Category is a blog category. Slug is unique among live categories.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Color       string    `json:"color,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Post is a blog post. Slug is server-assigned, derived from the title.
type Post struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Content    string    `json:"content"`
	Excerpt    string    `json:"excerpt,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	CategoryID uuid.UUID `json:"categoryId"`
	UserID     uuid.UUID `json:"userId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Page is an editor-managed custom page. Slug is unique among live pages;
// only published pages are visible outside the admin surface.
type Page struct {
	ID              uuid.UUID `json:"id"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Content         string    `json:"content,omitempty"`
	MetaDescription string    `json:"metaDescription,omitempty"`
	Published       bool      `json:"isPublished"`
	ShowInFooter    bool      `json:"showInFooter"`
	FooterOrder     int       `json:"footerOrder"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Banner is a promotional placement. A banner is served while Active and
// the current date falls inside [StartDate, EndDate].
type Banner struct {
	ID        uuid.UUID      `json:"id"`
	Title     string         `json:"title"`
	ImageURL  string         `json:"imageUrl,omitempty"`
	TargetURL string         `json:"targetUrl,omitempty"`
	Position  BannerPosition `json:"position"`
	Active    bool           `json:"isActive"`
	StartDate time.Time      `json:"startDate"`
	EndDate   time.Time      `json:"endDate"`
	CreatedAt time.Time      `json:"createdAt"`
}

// SiteSettings is the singleton site configuration document.
type SiteSettings struct {
	SiteName         string            `json:"siteName"`
	Tagline          string            `json:"siteTagline"`
	LogoURL          string            `json:"logoUrl"`
	FaviconURL       string            `json:"faviconUrl"`
	PrimaryColor     string            `json:"primaryColor"`
	SecondaryColor   string            `json:"secondaryColor"`
	AccentColor      string            `json:"accentColor"`
	FooterText       string            `json:"footerText"`
	AnalyticsEnabled bool              `json:"analyticsEnabled"`
	AdsEnabled       bool              `json:"adsEnabled"`
	SocialLinks      map[string]string `json:"socialMedia"`
}

// DefaultSettings returns the settings served before an admin has saved any.
func DefaultSettings() *SiteSettings {
	return &SiteSettings{
		SiteName:       "Craft List",
		Tagline:        "Find your next server",
		PrimaryColor:   "#22c55e",
		SecondaryColor: "#eab308",
		AccentColor:    "#3b82f6",
		FooterText:     "© Craft List",
		SocialLinks:    map[string]string{},
	}
}

// Vote is a single listing vote, keyed by server and caller IP.
type Vote struct {
	ID        uuid.UUID `json:"id"`
	ServerID  uuid.UUID `json:"serverId"`
	IPAddress string    `json:"ipAddress"`
	CreatedAt time.Time `json:"createdAt"`
}

// VoteStatus reports whether a caller may vote for a server and, if not,
// how long until the window reopens.
type VoteStatus struct {
	CanVote  bool          `json:"canVote"`
	TimeLeft time.Duration `json:"timeLeft"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	Servers int `json:"servers"`
	Users   int `json:"users"`
	Tickets int `json:"tickets"`
	Posts   int `json:"posts"`
}
