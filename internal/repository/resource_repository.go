package repository

import (
	"context"
	"time"

	"github.com/iliyamo/eco-education/internal/database"
	"github.com/iliyamo/eco-education/internal/model"
)

// ResourceFilter narrows a resource listing the same way ArticleFilter does.
type ResourceFilter struct {
	Category model.Category
	Language model.Language
}

// ResourceRepo encapsulates queries against the resource library.
type ResourceRepo struct{ db *database.DB }

func NewResourceRepo(db *database.DB) *ResourceRepo { return &ResourceRepo{db: db} }

const resourceColumns = "id, title, description, type, category, url, language, created_at"

func scanResource(s rowScanner) (*model.Resource, error) {
	var r model.Resource
	if err := s.Scan(&r.ID, &r.Title, &r.Description, &r.Type, &r.Category, &r.URL, &r.Language, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.CreatedAt = r.CreatedAt.UTC()
	return &r, nil
}

func (r *ResourceRepo) list(ctx context.Context, q string, args ...any) ([]model.Resource, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Resource{}
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// ListResources returns resources in the filter's language, optionally in
// one category, newest first.
func (r *ResourceRepo) ListResources(ctx context.Context, f ResourceFilter) ([]model.Resource, error) {
	q := "SELECT " + resourceColumns + " FROM resources WHERE language = ?"
	args := []any{f.Language.OrDefault()}
	if f.Category != "" {
		q += " AND category = ?"
		args = append(args, f.Category)
	}
	return r.list(ctx, q+" ORDER BY created_at DESC, id DESC", args...)
}

// SearchResources returns resources in lang whose title contains query,
// matching case exactly, newest first.
func (r *ResourceRepo) SearchResources(ctx context.Context, query string, lang model.Language) ([]model.Resource, error) {
	return r.list(ctx,
		"SELECT "+resourceColumns+" FROM resources WHERE language = ? AND "+r.db.Dialect.Contains("title")+" ORDER BY created_at DESC, id DESC",
		lang.OrDefault(), query)
}

// GetResource fetches a resource by id.
func (r *ResourceRepo) GetResource(ctx context.Context, id uint64) (*model.Resource, error) {
	res, err := scanResource(r.db.QueryRowContext(ctx,
		"SELECT "+resourceColumns+" FROM resources WHERE id = ?", id))
	return res, notFound(err)
}

// CreateResource inserts a resource with a server-set creation time.
func (r *ResourceRepo) CreateResource(ctx context.Context, res model.Resource) (*model.Resource, error) {
	created := res.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	id, err := r.db.InsertID(ctx,
		"INSERT INTO resources (title, description, type, category, url, language, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		res.Title, res.Description, res.Type, res.Category, res.URL, res.Language.OrDefault(), created.UTC())
	if err != nil {
		return nil, err
	}
	return r.GetResource(ctx, uint64(id))
}
