package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/craftlist/craft-list/pkg/craftlist"
)

// Repository implements craftlist.Repository using PostgreSQL. Slug
// uniqueness is enforced by unique indexes on blog_categories.slug,
// blog_posts.slug and custom_pages.slug; the category/post cascade runs
// inside a transaction.
type Repository struct {
	pool *pgxpool.Pool
}

// NewWithPool creates a new PostgreSQL repository with a connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// mapError translates driver-level failures onto domain errors.
func mapError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "slug") {
				return craftlist.ErrDuplicateSlug
			}
			return fmt.Errorf("duplicate entry in %s", operation)
		case "23503": // foreign_key_violation
			if strings.Contains(pgErr.ConstraintName, "category") {
				return craftlist.ErrCategoryNotFound
			}
			if strings.Contains(pgErr.ConstraintName, "server") {
				return craftlist.ErrServerNotFound
			}
			return fmt.Errorf("referenced record not found in %s", operation)
		case "23502": // not_null_violation
			return fmt.Errorf("required column %s is missing", pgErr.ColumnName)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

// User operations

const userColumns = "id, email, username, role, created_at"

func scanUser(row pgx.Row) (*craftlist.User, error) {
	var user craftlist.User
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.Role, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]*craftlist.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapError("list users", err)
	}
	defer rows.Close()

	var result []*craftlist.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*craftlist.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, craftlist.ErrUserNotFound
		}
		return nil, mapError("get user", err)
	}
	return user, nil
}

func (r *Repository) UpdateUser(ctx context.Context, user *craftlist.User) error {
	query := `UPDATE users SET email = $2, username = $3, role = $4 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, user.ID, user.Email, user.Username, user.Role)
	if err != nil {
		return mapError("update user", err)
	}
	if tag.RowsAffected() == 0 {
		return craftlist.ErrUserNotFound
	}
	return nil
}

// Ticket operations

const ticketColumns = "id, subject, message, user_id, status, created_at, updated_at"

func scanTicket(row pgx.Row) (*craftlist.Ticket, error) {
	var ticket craftlist.Ticket
	err := row.Scan(&ticket.ID, &ticket.Subject, &ticket.Message, &ticket.UserID,
		&ticket.Status, &ticket.CreatedAt, &ticket.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *Repository) CreateTicket(ctx context.Context, ticket *craftlist.Ticket) error {
	query := `
		INSERT INTO tickets (id, subject, message, user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		ticket.ID, ticket.Subject, ticket.Message, ticket.UserID,
		ticket.Status, ticket.CreatedAt, ticket.UpdatedAt)
	if err != nil {
		return mapError("create ticket", err)
	}
	return nil
}

func (r *Repository) ListTickets(ctx context.Context) ([]*craftlist.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapError("list tickets", err)
	}
	defer rows.Close()

	var result []*craftlist.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func (r *Repository) GetTicket(ctx context.Context, id uuid.UUID) (*craftlist.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, craftlist.ErrTicketNotFound
		}
		return nil, mapError("get ticket", err)
	}
	return ticket, nil
}

func (r *Repository) UpdateTicket(ctx context.Context, ticket *craftlist.Ticket) error {
	query := `UPDATE tickets SET status = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, ticket.ID, ticket.Status, ticket.UpdatedAt)
	if err != nil {
		return mapError("update ticket", err)
	}
	if tag.RowsAffected() == 0 {
		return craftlist.ErrTicketNotFound
	}
	return nil
}

func (r *Repository) DeleteTicket(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return mapError("delete ticket", err)
	}
	if tag.RowsAffected() == 0 {
		return craftlist.ErrTicketNotFound
	}
	return nil
}

// Server directory operations

const serverColumns = "id, name, description, address, version, website, votes, owner_id, created_at"

func scanServer(row pgx.Row) (*craftlist.Server, error) {
	var server craftlist.Server
	err := row.Scan(&server.ID, &server.Name, &server.Description, &server.Address,
		&server.Version, &server.Website, &server.Votes, &server.OwnerID, &server.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &server, nil
}

func (r *Repository) ListServers(ctx context.Context) ([]*craftlist.Server, error) {
	query := `SELECT ` + serverColumns + ` FROM servers ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapError("list servers", err)
	}
	defer rows.Close()

	var result []*craftlist.Server
	for rows.Next() {
		server, err := scanServer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, server)
	}
	return result, rows.Err()
}

func (r *Repository) GetServer(ctx context.Context, id uuid.UUID) (*craftlist.Server, error) {
	query := `SELECT ` + serverColumns + ` FROM servers WHERE id = $1`

	server, err := scanServer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, craftlist.ErrServerNotFound
		}
		return nil, mapError("get server", err)
	}
	return server, nil
}

func (r *Repository) DeleteServer(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM servers WHERE id = $1`, id)
	if err != nil {
		return mapError("delete server", err)
	}
	if tag.RowsAffected() == 0 {
		return craftlist.ErrServerNotFound
	}
	return nil
}

// Vote operations

func (r *Repository) CreateVote(ctx context.Context, vote *craftlist.Vote) error {
	query := `
		INSERT INTO votes (id, server_id, ip_address, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query, vote.ID, vote.ServerID, vote.IPAddress, vote.CreatedAt)
	if err != nil {
		return mapError("create vote", err)
	}
	return nil
}

func (r *Repository) GetLastVote(ctx context.Context, serverID uuid.UUID, ip string) (*craftlist.Vote, error) {
	query := `
		SELECT id, server_id, ip_address, created_at FROM votes
		WHERE server_id = $1 AND ip_address = $2
		ORDER BY created_at DESC LIMIT 1`

	var vote craftlist.Vote
	err := r.pool.QueryRow(ctx, query, serverID, ip).Scan(
		&vote.ID, &vote.ServerID, &vote.IPAddress, &vote.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, craftlist.ErrVoteNotFound
		}
		return nil, mapError("get last vote", err)
	}
	return &vote, nil
}

func (r *Repository) IncrementServerVotes(ctx context.Context, serverID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE servers SET votes = votes + 1 WHERE id = $1`, serverID)
	if err != nil {
		return mapError("increment server votes", err)
	}
	if tag.RowsAffected() == 0 {
		return craftlist.ErrServerNotFound
	}
	return nil
}

// Blog category operations

const categoryColumns = "id, name, slug, description, icon, color, created_at"

func scanCategory(row pgx.Row) (*craftlist.Category, error) {
	var category craftlist.Category
	err := row.Scan(&category.ID, &category.Name, &category.Slug,
		&category.Description, &category.Icon, &category.Color, &category.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *Repository) CreateCategory(ctx context.Context, category *craftlist.Category) error {
	query := `
		INSERT INTO blog_categories (id, name, slug, description, icon, color, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		category.ID, category.Name, category.Slug,
		category.Description, category.Icon, category.Color, category.CreatedAt)
	if err != nil {
		return mapError("create category", err)
	}
	return nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]*craftlist.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM blog_categories ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapError("list categories", err)
	}
	defer rows.Close()

	var result []*craftlist.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

func (r *Repository) GetCategory(ctx context.Context, id uuid.UUID) (*craftlist.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM blog_categories WHERE id = $1`

	category, err := scanCategory(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, craftlist.ErrCategoryNotFound
		}
		return nil, mapError("get category", err)
	}
	return category, nil
}

func (r *Repository) GetCategoryBySlug(ctx context.Context, slug string) (*craftlist.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM blog_categories WHERE slug = $1`

	category, err := scanCategory(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, craftlist.ErrCategoryNotFound
		}
		return nil, mapError("get category by slug", err)
	}
	return category, nil
}

// DeleteCategoryAndPosts removes the category and its posts in one
// transaction: either both deletes commit or neither does.
func (r *Repository) DeleteCategoryAndPosts(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return mapError("delete category", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM blog_posts WHERE category_id = $1`, id); err != nil {
		return mapError("delete category posts", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM blog_categories WHERE id = $1`, id)
	if err != nil {
		return mapError("delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return craftlist.ErrCategoryNotFound
	}

	return tx.Commit(ctx)
}

// Blog post operations

const postColumns = "id, title, slug, content, excerpt, tags, category_id, user_id, created_at, updated_at"

func scanPost(row pgx.Row) (*craftlist.Post, error) {
	var post craftlist.Post
	err := row.Scan(&post.ID, &post.Title, &post.Slug, &post.Content, &post.Excerpt,
		&post.Tags, &post.CategoryID, &post.UserID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *Repository) CreatePost(ctx context.Context, post *craftlist.Post) error {
	query := `
		INSERT INTO blog_posts (id, title, slug, content, excerpt, tags, category_id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		post.ID, post.Title, post.Slug, post.Content, post.Excerpt, post.Tags,
		post.CategoryID, post.UserID, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		return mapError("create post", err)
	}
	return nil
}

func (r *Repository) ListPosts(ctx context.Context, params craftlist.ListPostsParams) ([]*craftlist.Post, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts`
	var args []any
	if params.CategoryID != nil {
		query += ` WHERE category_id = $1`
		args = append(args, *params.CategoryID)
	}
	query += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list posts", err)
	}
	defer rows.Close()

	var result []*craftlist.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, post)
	}
	return result, rows.Err()
}

func (r *Repository) GetPost(ctx context.Context, id uuid.UUID) (*craftlist.Post, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE id = $1`

	post, err := scanPost(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, craftlist.ErrPostNotFound
		}
		return nil, mapError("get post", err)
	}
	return post, nil
}

func (r *Repository) DeletePost(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return mapError("delete post", err)
	}
	if tag.RowsAffected() == 0 {
		return craftlist.ErrPostNotFound
	}
	return nil
}

// Custom page operations

const pageColumns = "id, slug, title, content, meta_description, is_published, show_in_footer, footer_order, created_at, updated_at"

func scanPage(row pgx.Row) (*craftlist.Page, error) {
	var page craftlist.Page
	err := row.Scan(&page.ID, &page.Slug, &page.Title, &page.Content, &page.MetaDescription,
		&page.Published, &page.ShowInFooter, &page.FooterOrder, &page.CreatedAt, &page.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *Repository) CreatePage(ctx context.Context, page *craftlist.Page) error {
	query := `
		INSERT INTO custom_pages (id, slug, title, content, meta_description, is_published, show_in_footer, footer_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		page.ID, page.Slug, page.Title, page.Content, page.MetaDescription,
		page.Published, page.ShowInFooter, page.FooterOrder, page.CreatedAt, page.UpdatedAt)
	if err != nil {
		return mapError("create page", err)
	}
	return nil
}

func (r *Repository) ListPages(ctx context.Context, params craftlist.ListPagesParams) ([]*craftlist.Page, error) {
	query := `SELECT ` + pageColumns + ` FROM custom_pages`
	var conds []string
	if params.PublishedOnly {
		conds = append(conds, "is_published")
	}
	if params.FooterOnly {
		conds = append(conds, "show_in_footer")
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY footer_order`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapError("list pages", err)
	}
	defer rows.Close()

	var result []*craftlist.Page
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, page)
	}
	return result, rows.Err()
}

func (r *Repository) GetPageBySlug(ctx context.Context, slug string) (*craftlist.Page, error) {
	query := `SELECT ` + pageColumns + ` FROM custom_pages WHERE slug = $1`

	page, err := scanPage(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, craftlist.ErrPageNotFound
		}
		return nil, mapError("get page by slug", err)
	}
	return page, nil
}

func (r *Repository) DeletePage(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM custom_pages WHERE id = $1`, id)
	if err != nil {
		return mapError("delete page", err)
	}
	if tag.RowsAffected() == 0 {
		return craftlist.ErrPageNotFound
	}
	return nil
}

// Banner operations

const bannerColumns = "id, title, image_url, target_url, position, is_active, start_date, end_date, created_at"

// Zero banner dates mean an unbounded window and are stored as NULL.
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func scanBanner(row pgx.Row) (*craftlist.Banner, error) {
	var banner craftlist.Banner
	var start, end *time.Time
	err := row.Scan(&banner.ID, &banner.Title, &banner.ImageURL, &banner.TargetURL,
		&banner.Position, &banner.Active, &start, &end, &banner.CreatedAt)
	if err != nil {
		return nil, err
	}
	if start != nil {
		banner.StartDate = *start
	}
	if end != nil {
		banner.EndDate = *end
	}
	return &banner, nil
}

func (r *Repository) CreateBanner(ctx context.Context, banner *craftlist.Banner) error {
	query := `
		INSERT INTO banners (id, title, image_url, target_url, position, is_active, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		banner.ID, banner.Title, banner.ImageURL, banner.TargetURL, banner.Position,
		banner.Active, nullableTime(banner.StartDate), nullableTime(banner.EndDate), banner.CreatedAt)
	if err != nil {
		return mapError("create banner", err)
	}
	return nil
}

func (r *Repository) GetBanner(ctx context.Context, id uuid.UUID) (*craftlist.Banner, error) {
	query := `SELECT ` + bannerColumns + ` FROM banners WHERE id = $1`

	banner, err := scanBanner(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, craftlist.ErrBannerNotFound
		}
		return nil, mapError("get banner", err)
	}
	return banner, nil
}

func (r *Repository) UpdateBanner(ctx context.Context, banner *craftlist.Banner) error {
	query := `
		UPDATE banners SET title = $2, image_url = $3, target_url = $4, position = $5,
			is_active = $6, start_date = $7, end_date = $8
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		banner.ID, banner.Title, banner.ImageURL, banner.TargetURL, banner.Position,
		banner.Active, nullableTime(banner.StartDate), nullableTime(banner.EndDate))
	if err != nil {
		return mapError("update banner", err)
	}
	if tag.RowsAffected() == 0 {
		return craftlist.ErrBannerNotFound
	}
	return nil
}

func (r *Repository) ListActiveBanners(ctx context.Context, params craftlist.ListActiveBannersParams) ([]*craftlist.Banner, error) {
	query := `
		SELECT ` + bannerColumns + ` FROM banners
		WHERE is_active
		  AND (start_date IS NULL OR start_date <= $1)
		  AND (end_date IS NULL OR end_date >= $1)`
	args := []any{params.Now}
	if params.Position != nil {
		query += ` AND position = $2`
		args = append(args, *params.Position)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list active banners", err)
	}
	defer rows.Close()

	var result []*craftlist.Banner
	for rows.Next() {
		banner, err := scanBanner(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, banner)
	}
	return result, rows.Err()
}

func (r *Repository) DeleteBanner(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM banners WHERE id = $1`, id)
	if err != nil {
		return mapError("delete banner", err)
	}
	if tag.RowsAffected() == 0 {
		return craftlist.ErrBannerNotFound
	}
	return nil
}

// Settings operations

func (r *Repository) GetSettings(ctx context.Context) (*craftlist.SiteSettings, error) {
	var data []byte
	err := r.pool.QueryRow(ctx, `SELECT data FROM site_settings WHERE id = 1`).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, craftlist.ErrSettingsNotFound
		}
		return nil, mapError("get settings", err)
	}

	var settings craftlist.SiteSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &settings, nil
}

func (r *Repository) SaveSettings(ctx context.Context, settings *craftlist.SiteSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	query := `
		INSERT INTO site_settings (id, data) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`
	if _, err := r.pool.Exec(ctx, query, data); err != nil {
		return mapError("save settings", err)
	}
	return nil
}

// Dashboard counts

func (r *Repository) count(ctx context.Context, table string) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM `+table).Scan(&n); err != nil {
		return 0, mapError("count "+table, err)
	}
	return n, nil
}

func (r *Repository) CountUsers(ctx context.Context) (int, error) {
	return r.count(ctx, "users")
}

func (r *Repository) CountTickets(ctx context.Context) (int, error) {
	return r.count(ctx, "tickets")
}

func (r *Repository) CountServers(ctx context.Context) (int, error) {
	return r.count(ctx, "servers")
}

func (r *Repository) CountPosts(ctx context.Context) (int, error) {
	return r.count(ctx, "blog_posts")
}
