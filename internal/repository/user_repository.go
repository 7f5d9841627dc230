package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/eco-education/internal/database"
	"github.com/iliyamo/eco-education/internal/model"
	"github.com/iliyamo/eco-education/internal/utils"
)

// NewUser is the insert payload for a user.  Password is the plain text
// password; only its bcrypt hash is stored.
type NewUser struct {
	Username              string
	Password              string
	Name                  string
	Email                 string
	Language              model.Language
	AccessibilitySettings *model.AccessibilitySettings
}

// UserRepo encapsulates all queries against the users table.
type UserRepo struct {
	db   *database.DB
	cost int // bcrypt cost for new passwords
}

func NewUserRepo(db *database.DB, bcryptCost int) *UserRepo {
	return &UserRepo{db: db, cost: bcryptCost}
}

const userColumns = "id, username, password, name, email, language, accessibility_settings"

func scanUser(s rowScanner) (*model.User, error) {
	var u model.User
	if err := s.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Name, &u.Email, &u.Language, &u.AccessibilitySettings); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser hashes the password, inserts the row and reads it back.
// Username is trimmed and email lower-cased before insert.  A duplicate
// username or email yields ErrConflict.
func (r *UserRepo) CreateUser(ctx context.Context, in NewUser) (*model.User, error) {
	hash, err := utils.HashPassword(in.Password, r.cost)
	if err != nil {
		return nil, err
	}
	settings := model.DefaultAccessibilitySettings()
	if in.AccessibilitySettings != nil {
		settings = *in.AccessibilitySettings
	}
	id, err := r.db.InsertID(ctx,
		"INSERT INTO users (username, password, name, email, language, accessibility_settings) VALUES (?, ?, ?, ?, ?, ?)",
		strings.TrimSpace(in.Username), hash, strings.TrimSpace(in.Name),
		strings.ToLower(strings.TrimSpace(in.Email)), in.Language.OrDefault(), settings)
	if err != nil {
		return nil, conflict(err)
	}
	return r.GetUser(ctx, uint64(id))
}

// GetUser fetches a user by id.
func (r *UserRepo) GetUser(ctx context.Context, id uint64) (*model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id))
	return u, notFound(err)
}

// GetUserByUsername fetches a user by exact username.
func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = ?", strings.TrimSpace(username)))
	return u, notFound(err)
}

// UpdateUserLanguage sets the preferred language and returns the updated
// row.  The row is re-read rather than trusting RowsAffected, which MySQL
// reports as 0 when the value did not change.
func (r *UserRepo) UpdateUserLanguage(ctx context.Context, id uint64, lang model.Language) (*model.User, error) {
	if _, err := r.db.ExecContext(ctx, "UPDATE users SET language = ? WHERE id = ?", lang, id); err != nil {
		return nil, err
	}
	return r.GetUser(ctx, id)
}

// UpdateUserAccessibilitySettings replaces the whole settings blob.
func (r *UserRepo) UpdateUserAccessibilitySettings(ctx context.Context, id uint64, s model.AccessibilitySettings) (*model.User, error) {
	if _, err := r.db.ExecContext(ctx, "UPDATE users SET accessibility_settings = ? WHERE id = ?", s, id); err != nil {
		return nil, err
	}
	return r.GetUser(ctx, id)
}
