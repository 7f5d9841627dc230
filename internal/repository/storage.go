package repository

import (
	"context"

	"github.com/iliyamo/eco-education/internal/database"
	"github.com/iliyamo/eco-education/internal/model"
)

// Storage is everything the HTTP layer needs from persistence.  Each method
// is a single query or a single write against one table.
type Storage interface {
	CreateUser(ctx context.Context, in NewUser) (*model.User, error)
	GetUser(ctx context.Context, id uint64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateUserLanguage(ctx context.Context, id uint64, lang model.Language) (*model.User, error)
	UpdateUserAccessibilitySettings(ctx context.Context, id uint64, s model.AccessibilitySettings) (*model.User, error)

	ListTips(ctx context.Context, lang model.Language) ([]model.Tip, error)
	GetTip(ctx context.Context, id uint64) (*model.Tip, error)
	CreateTip(ctx context.Context, t model.Tip) (*model.Tip, error)

	ListChallenges(ctx context.Context, lang model.Language) ([]model.Challenge, error)
	GetChallenge(ctx context.Context, id uint64) (*model.Challenge, error)
	CreateChallenge(ctx context.Context, c model.Challenge) (*model.Challenge, error)

	ListArticles(ctx context.Context, f ArticleFilter) ([]model.Article, error)
	GetArticle(ctx context.Context, id uint64) (*model.Article, error)
	CreateArticle(ctx context.Context, a model.Article) (*model.Article, error)

	ListUserActivities(ctx context.Context, userID uint64) ([]model.Activity, error)
	CreateActivity(ctx context.Context, a model.Activity) (*model.Activity, error)

	ListPosts(ctx context.Context, category model.Category) ([]model.Post, error)
	GetPost(ctx context.Context, id uint64) (*model.Post, error)
	CreatePost(ctx context.Context, p model.Post) (*model.Post, error)
	LikePost(ctx context.Context, id uint64) (*model.Post, error)

	ListResources(ctx context.Context, f ResourceFilter) ([]model.Resource, error)
	SearchResources(ctx context.Context, query string, lang model.Language) ([]model.Resource, error)
	GetResource(ctx context.Context, id uint64) (*model.Resource, error)
	CreateResource(ctx context.Context, r model.Resource) (*model.Resource, error)

	Ping(ctx context.Context) error
}

// Store implements Storage by composing one repository per table.
type Store struct {
	*UserRepo
	*TipRepo
	*ChallengeRepo
	*ArticleRepo
	*ActivityRepo
	*PostRepo
	*ResourceRepo

	db *database.DB
}

var _ Storage = (*Store)(nil)

func NewStore(db *database.DB, bcryptCost int) *Store {
	return &Store{
		UserRepo:      NewUserRepo(db, bcryptCost),
		TipRepo:       NewTipRepo(db),
		ChallengeRepo: NewChallengeRepo(db),
		ArticleRepo:   NewArticleRepo(db),
		ActivityRepo:  NewActivityRepo(db),
		PostRepo:      NewPostRepo(db),
		ResourceRepo:  NewResourceRepo(db),
		db:            db,
	}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
