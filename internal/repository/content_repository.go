package repository

// Tips and challenges are static, language-keyed content with identical
// shapes, so their repositories live side by side.

import (
	"context"

	"github.com/iliyamo/eco-education/internal/database"
	"github.com/iliyamo/eco-education/internal/model"
)

// TipRepo encapsulates queries against the tips table.
type TipRepo struct{ db *database.DB }

func NewTipRepo(db *database.DB) *TipRepo { return &TipRepo{db: db} }

func scanTip(s rowScanner) (*model.Tip, error) {
	var t model.Tip
	if err := s.Scan(&t.ID, &t.Title, &t.Description, &t.Language); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTips returns every tip in lang ordered by id.
func (r *TipRepo) ListTips(ctx context.Context, lang model.Language) ([]model.Tip, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, title, description, language FROM tips WHERE language = ? ORDER BY id", lang.OrDefault())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Tip{}
	for rows.Next() {
		t, err := scanTip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// GetTip fetches a tip by id.
func (r *TipRepo) GetTip(ctx context.Context, id uint64) (*model.Tip, error) {
	t, err := scanTip(r.db.QueryRowContext(ctx,
		"SELECT id, title, description, language FROM tips WHERE id = ?", id))
	return t, notFound(err)
}

// CreateTip inserts a tip and reads it back.
func (r *TipRepo) CreateTip(ctx context.Context, t model.Tip) (*model.Tip, error) {
	id, err := r.db.InsertID(ctx,
		"INSERT INTO tips (title, description, language) VALUES (?, ?, ?)",
		t.Title, t.Description, t.Language.OrDefault())
	if err != nil {
		return nil, err
	}
	return r.GetTip(ctx, uint64(id))
}

// ChallengeRepo encapsulates queries against the challenges table.
type ChallengeRepo struct{ db *database.DB }

func NewChallengeRepo(db *database.DB) *ChallengeRepo { return &ChallengeRepo{db: db} }

func scanChallenge(s rowScanner) (*model.Challenge, error) {
	var c model.Challenge
	if err := s.Scan(&c.ID, &c.Title, &c.Description, &c.Language); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListChallenges returns every challenge in lang ordered by id.
func (r *ChallengeRepo) ListChallenges(ctx context.Context, lang model.Language) ([]model.Challenge, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, title, description, language FROM challenges WHERE language = ? ORDER BY id", lang.OrDefault())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Challenge{}
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// GetChallenge fetches a challenge by id.
func (r *ChallengeRepo) GetChallenge(ctx context.Context, id uint64) (*model.Challenge, error) {
	c, err := scanChallenge(r.db.QueryRowContext(ctx,
		"SELECT id, title, description, language FROM challenges WHERE id = ?", id))
	return c, notFound(err)
}

// CreateChallenge inserts a challenge and reads it back.
func (r *ChallengeRepo) CreateChallenge(ctx context.Context, c model.Challenge) (*model.Challenge, error) {
	id, err := r.db.InsertID(ctx,
		"INSERT INTO challenges (title, description, language) VALUES (?, ?, ?)",
		c.Title, c.Description, c.Language.OrDefault())
	if err != nil {
		return nil, err
	}
	return r.GetChallenge(ctx, uint64(id))
}
