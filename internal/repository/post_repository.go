package repository

import (
	"context"
	"time"

	"github.com/iliyamo/eco-education/internal/database"
	"github.com/iliyamo/eco-education/internal/model"
)

// PostRepo encapsulates queries against the forum posts table.
type PostRepo struct{ db *database.DB }

func NewPostRepo(db *database.DB) *PostRepo { return &PostRepo{db: db} }

const postColumns = "id, user_id, title, content, category, tags, created_at, like_count, comment_count"

func scanPost(s rowScanner) (*model.Post, error) {
	var p model.Post
	if err := s.Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &p.Category, &p.Tags, &p.CreatedAt, &p.LikeCount, &p.CommentCount); err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}

// ListPosts returns posts newest first.  An empty category or
// model.AllPostsCategory lists every post.
func (r *PostRepo) ListPosts(ctx context.Context, category model.Category) ([]model.Post, error) {
	q := "SELECT " + postColumns + " FROM posts"
	var args []any
	if category != "" && category != model.AllPostsCategory {
		q += " WHERE category = ?"
		args = append(args, category)
	}
	q += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// GetPost fetches a post by id.
func (r *PostRepo) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE id = ?", id))
	return p, notFound(err)
}

// CreatePost inserts a post.  The counters always start at zero and the
// creation time is set here; caller-supplied values for them are ignored.
func (r *PostRepo) CreatePost(ctx context.Context, p model.Post) (*model.Post, error) {
	id, err := r.db.InsertID(ctx,
		"INSERT INTO posts (user_id, title, content, category, tags, created_at, like_count, comment_count) VALUES (?, ?, ?, ?, ?, ?, 0, 0)",
		p.UserID, p.Title, p.Content, p.Category, p.Tags, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return r.GetPost(ctx, uint64(id))
}

// LikePost increments the like counter in a single UPDATE, so concurrent
// likes never overwrite each other, then returns the updated post.
func (r *PostRepo) LikePost(ctx context.Context, id uint64) (*model.Post, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE posts SET like_count = like_count + 1 WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return r.GetPost(ctx, id)
}
