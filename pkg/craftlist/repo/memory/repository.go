package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/craftlist/craft-list/pkg/craftlist"
)

// Repository implements craftlist.Repository using in-memory storage.
// Lists preserve insertion order; the category/post cascade and the slug
// uniqueness checks run under a single write lock, so readers observe
// either all of a category's posts or none of them.
type Repository struct {
	mu sync.RWMutex

	users      map[uuid.UUID]*craftlist.User
	tickets    map[uuid.UUID]*craftlist.Ticket
	servers    map[uuid.UUID]*craftlist.Server
	categories map[uuid.UUID]*craftlist.Category
	posts      map[uuid.UUID]*craftlist.Post
	pages      map[uuid.UUID]*craftlist.Page
	banners    map[uuid.UUID]*craftlist.Banner
	votes      []*craftlist.Vote
	settings   *craftlist.SiteSettings

	// Insertion order per entity type.
	userOrder     []uuid.UUID
	ticketOrder   []uuid.UUID
	serverOrder   []uuid.UUID
	categoryOrder []uuid.UUID
	postOrder     []uuid.UUID
	pageOrder     []uuid.UUID
	bannerOrder   []uuid.UUID
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		users:      make(map[uuid.UUID]*craftlist.User),
		tickets:    make(map[uuid.UUID]*craftlist.Ticket),
		servers:    make(map[uuid.UUID]*craftlist.Server),
		categories: make(map[uuid.UUID]*craftlist.Category),
		posts:      make(map[uuid.UUID]*craftlist.Post),
		pages:      make(map[uuid.UUID]*craftlist.Page),
		banners:    make(map[uuid.UUID]*craftlist.Banner),
	}
}

func removeID(order []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}

// User operations

// SeedUser inserts a user directly. Users are owned by the external
// identity system; this is the hook its sync job (and tests) use.
func (r *Repository) SeedUser(user *craftlist.User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userCopy := *user
	r.users[user.ID] = &userCopy
	r.userOrder = append(r.userOrder, user.ID)
}

// SeedServer inserts a server listing directly, on behalf of the listing
// submission flow that lives outside this API.
func (r *Repository) SeedServer(server *craftlist.Server) {
	r.mu.Lock()
	defer r.mu.Unlock()

	serverCopy := *server
	r.servers[server.ID] = &serverCopy
	r.serverOrder = append(r.serverOrder, server.ID)
}

func (r *Repository) ListUsers(ctx context.Context) ([]*craftlist.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*craftlist.User, 0, len(r.userOrder))
	for _, id := range r.userOrder {
		userCopy := *r.users[id]
		result = append(result, &userCopy)
	}
	return result, nil
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*craftlist.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, craftlist.ErrUserNotFound
	}
	userCopy := *user
	return &userCopy, nil
}

func (r *Repository) UpdateUser(ctx context.Context, user *craftlist.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.ID]; !exists {
		return craftlist.ErrUserNotFound
	}
	userCopy := *user
	r.users[user.ID] = &userCopy
	return nil
}

// Ticket operations

func (r *Repository) CreateTicket(ctx context.Context, ticket *craftlist.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ticketCopy := *ticket
	r.tickets[ticket.ID] = &ticketCopy
	r.ticketOrder = append(r.ticketOrder, ticket.ID)
	return nil
}

func (r *Repository) ListTickets(ctx context.Context) ([]*craftlist.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*craftlist.Ticket, 0, len(r.ticketOrder))
	for _, id := range r.ticketOrder {
		ticketCopy := *r.tickets[id]
		result = append(result, &ticketCopy)
	}
	return result, nil
}

func (r *Repository) GetTicket(ctx context.Context, id uuid.UUID) (*craftlist.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ticket, exists := r.tickets[id]
	if !exists {
		return nil, craftlist.ErrTicketNotFound
	}
	ticketCopy := *ticket
	return &ticketCopy, nil
}

func (r *Repository) UpdateTicket(ctx context.Context, ticket *craftlist.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tickets[ticket.ID]; !exists {
		return craftlist.ErrTicketNotFound
	}
	ticketCopy := *ticket
	r.tickets[ticket.ID] = &ticketCopy
	return nil
}

func (r *Repository) DeleteTicket(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tickets[id]; !exists {
		return craftlist.ErrTicketNotFound
	}
	delete(r.tickets, id)
	r.ticketOrder = removeID(r.ticketOrder, id)
	return nil
}

// Server directory operations

func (r *Repository) ListServers(ctx context.Context) ([]*craftlist.Server, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*craftlist.Server, 0, len(r.serverOrder))
	for _, id := range r.serverOrder {
		serverCopy := *r.servers[id]
		result = append(result, &serverCopy)
	}
	return result, nil
}

func (r *Repository) GetServer(ctx context.Context, id uuid.UUID) (*craftlist.Server, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	server, exists := r.servers[id]
	if !exists {
		return nil, craftlist.ErrServerNotFound
	}
	serverCopy := *server
	return &serverCopy, nil
}

func (r *Repository) DeleteServer(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.servers[id]; !exists {
		return craftlist.ErrServerNotFound
	}
	delete(r.servers, id)
	r.serverOrder = removeID(r.serverOrder, id)
	return nil
}

// Vote operations

func (r *Repository) CreateVote(ctx context.Context, vote *craftlist.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	voteCopy := *vote
	r.votes = append(r.votes, &voteCopy)
	return nil
}

func (r *Repository) GetLastVote(ctx context.Context, serverID uuid.UUID, ip string) (*craftlist.Vote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var last *craftlist.Vote
	for _, vote := range r.votes {
		if vote.ServerID == serverID && vote.IPAddress == ip {
			if last == nil || vote.CreatedAt.After(last.CreatedAt) {
				last = vote
			}
		}
	}
	if last == nil {
		return nil, craftlist.ErrVoteNotFound
	}
	voteCopy := *last
	return &voteCopy, nil
}

func (r *Repository) IncrementServerVotes(ctx context.Context, serverID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	server, exists := r.servers[serverID]
	if !exists {
		return craftlist.ErrServerNotFound
	}
	server.Votes++
	return nil
}

// Blog category operations

func (r *Repository) CreateCategory(ctx context.Context, category *craftlist.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.categories {
		if existing.Slug == category.Slug {
			return craftlist.ErrDuplicateSlug
		}
	}

	categoryCopy := *category
	r.categories[category.ID] = &categoryCopy
	r.categoryOrder = append(r.categoryOrder, category.ID)
	return nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]*craftlist.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*craftlist.Category, 0, len(r.categoryOrder))
	for _, id := range r.categoryOrder {
		categoryCopy := *r.categories[id]
		result = append(result, &categoryCopy)
	}
	return result, nil
}

func (r *Repository) GetCategory(ctx context.Context, id uuid.UUID) (*craftlist.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, exists := r.categories[id]
	if !exists {
		return nil, craftlist.ErrCategoryNotFound
	}
	categoryCopy := *category
	return &categoryCopy, nil
}

func (r *Repository) GetCategoryBySlug(ctx context.Context, slug string) (*craftlist.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, category := range r.categories {
		if category.Slug == slug {
			categoryCopy := *category
			return &categoryCopy, nil
		}
	}
	return nil, craftlist.ErrCategoryNotFound
}

// DeleteCategoryAndPosts removes the category and every post referencing
// it under one lock, so no reader ever sees the partial state.
func (r *Repository) DeleteCategoryAndPosts(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.categories[id]; !exists {
		return craftlist.ErrCategoryNotFound
	}

	for postID, post := range r.posts {
		if post.CategoryID == id {
			delete(r.posts, postID)
			r.postOrder = removeID(r.postOrder, postID)
		}
	}
	delete(r.categories, id)
	r.categoryOrder = removeID(r.categoryOrder, id)
	return nil
}

// Blog post operations

func (r *Repository) CreatePost(ctx context.Context, post *craftlist.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.categories[post.CategoryID]; !exists {
		return craftlist.ErrCategoryNotFound
	}
	for _, existing := range r.posts {
		if existing.Slug == post.Slug {
			return craftlist.ErrDuplicateSlug
		}
	}

	postCopy := *post
	r.posts[post.ID] = &postCopy
	r.postOrder = append(r.postOrder, post.ID)
	return nil
}

func (r *Repository) ListPosts(ctx context.Context, params craftlist.ListPostsParams) ([]*craftlist.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*craftlist.Post, 0, len(r.postOrder))
	for _, id := range r.postOrder {
		post := r.posts[id]
		if params.CategoryID != nil && post.CategoryID != *params.CategoryID {
			continue
		}
		postCopy := *post
		result = append(result, &postCopy)
	}
	return result, nil
}

func (r *Repository) GetPost(ctx context.Context, id uuid.UUID) (*craftlist.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, exists := r.posts[id]
	if !exists {
		return nil, craftlist.ErrPostNotFound
	}
	postCopy := *post
	return &postCopy, nil
}

func (r *Repository) DeletePost(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[id]; !exists {
		return craftlist.ErrPostNotFound
	}
	delete(r.posts, id)
	r.postOrder = removeID(r.postOrder, id)
	return nil
}

// Custom page operations

func (r *Repository) CreatePage(ctx context.Context, page *craftlist.Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.pages {
		if existing.Slug == page.Slug {
			return craftlist.ErrDuplicateSlug
		}
	}

	pageCopy := *page
	r.pages[page.ID] = &pageCopy
	r.pageOrder = append(r.pageOrder, page.ID)
	return nil
}

func (r *Repository) ListPages(ctx context.Context, params craftlist.ListPagesParams) ([]*craftlist.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*craftlist.Page, 0, len(r.pageOrder))
	for _, id := range r.pageOrder {
		page := r.pages[id]
		if params.PublishedOnly && !page.Published {
			continue
		}
		if params.FooterOnly && !page.ShowInFooter {
			continue
		}
		pageCopy := *page
		result = append(result, &pageCopy)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].FooterOrder < result[j].FooterOrder
	})
	return result, nil
}

func (r *Repository) GetPageBySlug(ctx context.Context, slug string) (*craftlist.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, page := range r.pages {
		if page.Slug == slug {
			pageCopy := *page
			return &pageCopy, nil
		}
	}
	return nil, craftlist.ErrPageNotFound
}

func (r *Repository) DeletePage(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pages[id]; !exists {
		return craftlist.ErrPageNotFound
	}
	delete(r.pages, id)
	r.pageOrder = removeID(r.pageOrder, id)
	return nil
}

// Banner operations

func (r *Repository) CreateBanner(ctx context.Context, banner *craftlist.Banner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bannerCopy := *banner
	r.banners[banner.ID] = &bannerCopy
	r.bannerOrder = append(r.bannerOrder, banner.ID)
	return nil
}

func (r *Repository) GetBanner(ctx context.Context, id uuid.UUID) (*craftlist.Banner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	banner, exists := r.banners[id]
	if !exists {
		return nil, craftlist.ErrBannerNotFound
	}
	bannerCopy := *banner
	return &bannerCopy, nil
}

func (r *Repository) UpdateBanner(ctx context.Context, banner *craftlist.Banner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.banners[banner.ID]; !exists {
		return craftlist.ErrBannerNotFound
	}
	bannerCopy := *banner
	r.banners[banner.ID] = &bannerCopy
	return nil
}

func (r *Repository) ListActiveBanners(ctx context.Context, params craftlist.ListActiveBannersParams) ([]*craftlist.Banner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*craftlist.Banner
	for _, id := range r.bannerOrder {
		banner := r.banners[id]
		if !bannerActiveAt(banner, params.Now) {
			continue
		}
		if params.Position != nil && banner.Position != *params.Position {
			continue
		}
		bannerCopy := *banner
		result = append(result, &bannerCopy)
	}

	// Newest first.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func bannerActiveAt(b *craftlist.Banner, now time.Time) bool {
	if !b.Active {
		return false
	}
	if !b.StartDate.IsZero() && now.Before(b.StartDate) {
		return false
	}
	if !b.EndDate.IsZero() && now.After(b.EndDate) {
		return false
	}
	return true
}

func (r *Repository) DeleteBanner(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.banners[id]; !exists {
		return craftlist.ErrBannerNotFound
	}
	delete(r.banners, id)
	r.bannerOrder = removeID(r.bannerOrder, id)
	return nil
}

// Settings operations

func (r *Repository) GetSettings(ctx context.Context) (*craftlist.SiteSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.settings == nil {
		return nil, craftlist.ErrSettingsNotFound
	}
	settingsCopy := *r.settings
	return &settingsCopy, nil
}

func (r *Repository) SaveSettings(ctx context.Context, settings *craftlist.SiteSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	settingsCopy := *settings
	r.settings = &settingsCopy
	return nil
}

// Dashboard counts

func (r *Repository) CountUsers(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}

func (r *Repository) CountTickets(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tickets), nil
}

func (r *Repository) CountServers(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.servers), nil
}

func (r *Repository) CountPosts(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.posts), nil
}
