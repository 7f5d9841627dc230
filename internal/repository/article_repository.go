package repository

import (
	"context"
	"time"

	"github.com/iliyamo/eco-education/internal/database"
	"github.com/iliyamo/eco-education/internal/model"
)

// ArticleFilter narrows an article listing.  An empty Category lists every
// category; an empty Language means model.DefaultLanguage.
type ArticleFilter struct {
	Category model.Category
	Language model.Language
}

// ArticleRepo encapsulates queries against the articles table.
type ArticleRepo struct{ db *database.DB }

func NewArticleRepo(db *database.DB) *ArticleRepo { return &ArticleRepo{db: db} }

const articleColumns = "id, title, content, excerpt, category, tags, publish_date, language"

func scanArticle(s rowScanner) (*model.Article, error) {
	var a model.Article
	if err := s.Scan(&a.ID, &a.Title, &a.Content, &a.Excerpt, &a.Category, &a.Tags, &a.PublishDate, &a.Language); err != nil {
		return nil, err
	}
	a.PublishDate = a.PublishDate.UTC()
	return &a, nil
}

// ListArticles returns articles in the filter's language, optionally
// restricted to one category, newest publish date first.
func (r *ArticleRepo) ListArticles(ctx context.Context, f ArticleFilter) ([]model.Article, error) {
	q := "SELECT " + articleColumns + " FROM articles WHERE language = ?"
	args := []any{f.Language.OrDefault()}
	if f.Category != "" {
		q += " AND category = ?"
		args = append(args, f.Category)
	}
	q += " ORDER BY publish_date DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// GetArticle fetches an article by id.
func (r *ArticleRepo) GetArticle(ctx context.Context, id uint64) (*model.Article, error) {
	a, err := scanArticle(r.db.QueryRowContext(ctx,
		"SELECT "+articleColumns+" FROM articles WHERE id = ?", id))
	return a, notFound(err)
}

// CreateArticle inserts an article.  A zero PublishDate means now.
func (r *ArticleRepo) CreateArticle(ctx context.Context, a model.Article) (*model.Article, error) {
	if a.PublishDate.IsZero() {
		a.PublishDate = time.Now()
	}
	id, err := r.db.InsertID(ctx,
		"INSERT INTO articles (title, content, excerpt, category, tags, publish_date, language) VALUES (?, ?, ?, ?, ?, ?, ?)",
		a.Title, a.Content, a.Excerpt, a.Category, a.Tags, a.PublishDate.UTC(), a.Language.OrDefault())
	if err != nil {
		return nil, err
	}
	return r.GetArticle(ctx, uint64(id))
}
