// Package seed loads demo content into an empty database.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/iliyamo/eco-education/internal/model"
	"github.com/iliyamo/eco-education/internal/repository"
)

//go:embed seed.yaml
var defaultContent []byte

type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Language string `yaml:"language"`
}

type Text struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Language    string `yaml:"language"`
}

type Article struct {
	Title       string    `yaml:"title"`
	Excerpt     string    `yaml:"excerpt"`
	Content     string    `yaml:"content"`
	Category    string    `yaml:"category"`
	Tags        []string  `yaml:"tags"`
	PublishDate time.Time `yaml:"publishDate"`
	Language    string    `yaml:"language"`
}

type Resource struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Type        string `yaml:"type"`
	Category    string `yaml:"category"`
	URL         string `yaml:"url"`
	Language    string `yaml:"language"`
}

// Post and Activity refer to their author by username.
type Post struct {
	Username string   `yaml:"username"`
	Title    string   `yaml:"title"`
	Content  string   `yaml:"content"`
	Category string   `yaml:"category"`
	Tags     []string `yaml:"tags"`
}

type Activity struct {
	Username    string    `yaml:"username"`
	Type        string    `yaml:"type"`
	Description string    `yaml:"description"`
	CarbonSaved float64   `yaml:"carbonSaved"`
	Date        time.Time `yaml:"date"`
}

// Content is the whole seed document.
type Content struct {
	Users      []User     `yaml:"users"`
	Tips       []Text     `yaml:"tips"`
	Challenges []Text     `yaml:"challenges"`
	Articles   []Article  `yaml:"articles"`
	Resources  []Resource `yaml:"resources"`
	Posts      []Post     `yaml:"posts"`
	Activities []Activity `yaml:"activities"`
}

// Parse decodes a seed document and checks its enumerated fields.
func Parse(b []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	if len(c.Users) == 0 {
		return nil, errors.New("seed: at least one user is required")
	}
	for _, r := range c.Resources {
		if !model.ResourceType(r.Type).Valid() {
			return nil, fmt.Errorf("seed: resource %q: unknown type %q", r.Title, r.Type)
		}
	}
	for _, a := range c.Activities {
		if !model.ActivityType(a.Type).Valid() {
			return nil, fmt.Errorf("seed: activity %q: unknown type %q", a.Description, a.Type)
		}
	}
	return &c, nil
}

// Default returns the embedded demo content.
func Default() (*Content, error) { return Parse(defaultContent) }

// Result counts the rows Apply inserted.
type Result struct {
	Users, Tips, Challenges, Articles, Resources, Posts, Activities int
	Skipped                                                         bool
}

func lang(s string) model.Language { return model.Language(s).OrDefault() }

// Apply inserts c through store.  When the first user already exists the
// database is considered seeded and nothing is written.
func Apply(ctx context.Context, store repository.Storage, c *Content, log *zap.Logger) (Result, error) {
	var res Result
	if log == nil {
		log = zap.NewNop()
	}

	_, err := store.GetUserByUsername(ctx, c.Users[0].Username)
	switch {
	case err == nil:
		log.Info("seed: demo user exists, skipping", zap.String("username", c.Users[0].Username))
		res.Skipped = true
		return res, nil
	case !errors.Is(err, repository.ErrNotFound):
		return res, err
	}

	ids := make(map[string]uint64, len(c.Users))
	for _, u := range c.Users {
		out, err := store.CreateUser(ctx, repository.NewUser{
			Username: u.Username, Password: u.Password, Name: u.Name, Email: u.Email, Language: lang(u.Language),
		})
		if err != nil {
			return res, fmt.Errorf("seed user %s: %w", u.Username, err)
		}
		ids[u.Username] = out.ID
		res.Users++
	}
	for _, t := range c.Tips {
		if _, err := store.CreateTip(ctx, model.Tip{Title: t.Title, Description: t.Description, Language: lang(t.Language)}); err != nil {
			return res, fmt.Errorf("seed tip: %w", err)
		}
		res.Tips++
	}
	for _, t := range c.Challenges {
		if _, err := store.CreateChallenge(ctx, model.Challenge{Title: t.Title, Description: t.Description, Language: lang(t.Language)}); err != nil {
			return res, fmt.Errorf("seed challenge: %w", err)
		}
		res.Challenges++
	}
	for _, a := range c.Articles {
		if _, err := store.CreateArticle(ctx, model.Article{
			Title: a.Title, Content: a.Content, Excerpt: a.Excerpt,
			Category: model.NormalizeCategory(a.Category), Tags: model.NormalizeTags(a.Tags),
			PublishDate: a.PublishDate, Language: lang(a.Language),
		}); err != nil {
			return res, fmt.Errorf("seed article: %w", err)
		}
		res.Articles++
	}
	for _, r := range c.Resources {
		if _, err := store.CreateResource(ctx, model.Resource{
			Title: r.Title, Description: r.Description, Type: model.ResourceType(r.Type),
			Category: model.NormalizeCategory(r.Category), URL: r.URL, Language: lang(r.Language),
		}); err != nil {
			return res, fmt.Errorf("seed resource: %w", err)
		}
		res.Resources++
	}
	for _, p := range c.Posts {
		uid, ok := ids[p.Username]
		if !ok {
			return res, fmt.Errorf("seed post %q: unknown user %q", p.Title, p.Username)
		}
		if _, err := store.CreatePost(ctx, model.Post{
			UserID: uid, Title: p.Title, Content: p.Content,
			Category: model.NormalizeCategory(p.Category), Tags: model.NormalizeTags(p.Tags),
		}); err != nil {
			return res, fmt.Errorf("seed post: %w", err)
		}
		res.Posts++
	}
	for _, a := range c.Activities {
		uid, ok := ids[a.Username]
		if !ok {
			return res, fmt.Errorf("seed activity %q: unknown user %q", a.Description, a.Username)
		}
		if _, err := store.CreateActivity(ctx, model.Activity{
			UserID: uid, Type: model.ActivityType(a.Type), Description: a.Description,
			CarbonSaved: a.CarbonSaved, Date: a.Date,
		}); err != nil {
			return res, fmt.Errorf("seed activity: %w", err)
		}
		res.Activities++
	}
	log.Info("seed: done",
		zap.Int("users", res.Users), zap.Int("tips", res.Tips), zap.Int("challenges", res.Challenges),
		zap.Int("articles", res.Articles), zap.Int("resources", res.Resources),
		zap.Int("posts", res.Posts), zap.Int("activities", res.Activities))
	return res, nil
}
