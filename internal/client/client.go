// Package client talks to the eco-education REST API.  Reads are served
// through a QueryCache keyed by endpoint and filters; writes invalidate the
// keys they make stale.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/iliyamo/eco-education/internal/model"
)

// MinSearchLength is the shortest query, in characters, SearchResources sends.  Shorter
// queries return no results without a request.
const MinSearchLength = 3

// Client is safe for concurrent use, except that Login sets Token and
// should finish before other requests start.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Cache   *QueryCache
	Token   string // optional bearer token
}

// New returns a client with a fresh cache and a 10s HTTP timeout.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		Cache:   NewQueryCache(),
	}
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	u := c.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ae := &APIError{Status: resp.StatusCode}
		var payload struct {
			Message string       `json:"message"`
			Errors  []FieldError `json:"errors"`
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err == nil {
			ae.Message, ae.Errors = payload.Message, payload.Errors
		}
		return ae
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func get[T any](ctx context.Context, c *Client, key Key) (T, error) {
	return fetch(ctx, c.Cache, key, func(ctx context.Context) (T, error) {
		var out T
		err := c.do(ctx, http.MethodGet, key.Path, key.Params, nil, &out)
		return out, err
	})
}

func idPath(prefix string, id uint64) string { return prefix + "/" + strconv.FormatUint(id, 10) }

func langParams(lang model.Language, extra ...string) url.Values {
	v := url.Values{"language": {string(lang.OrDefault())}}
	for i := 0; i+1 < len(extra); i += 2 {
		if extra[i+1] != "" {
			v.Set(extra[i], extra[i+1])
		}
	}
	return v
}

func (c *Client) invalidate(prefix string) {
	if c.Cache != nil {
		c.Cache.Invalidate(prefix)
	}
}

func (c *Client) forget(key Key) {
	if c.Cache != nil {
		c.Cache.Delete(key)
	}
}

// ----- users -----

// CreateUserRequest is the body of POST /api/users.
type CreateUserRequest struct {
	Username              string                       `json:"username"`
	Password              string                       `json:"password"`
	Name                  string                       `json:"name"`
	Email                 string                       `json:"email"`
	Language              model.Language               `json:"language,omitempty"`
	AccessibilitySettings *model.AccessibilitySettings `json:"accessibilitySettings,omitempty"`
}

func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodPost, "/api/users", nil, req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) GetUser(ctx context.Context, id uint64) (model.User, error) {
	return get[model.User](ctx, c, Key{Path: idPath("/api/users", id)})
}

func (c *Client) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return get[model.User](ctx, c, Key{Path: "/api/users", Params: url.Values{"username": {username}}})
}

// UpdateLanguage sets the preferred language and drops the cached user.
func (c *Client) UpdateLanguage(ctx context.Context, userID uint64, lang model.Language) (*model.User, error) {
	var u model.User
	body := map[string]model.Language{"language": lang}
	if err := c.do(ctx, http.MethodPatch, idPath("/api/users", userID)+"/language", nil, body, &u); err != nil {
		return nil, err
	}
	c.forget(Key{Path: idPath("/api/users", userID)})
	return &u, nil
}

func (c *Client) UpdateAccessibility(ctx context.Context, userID uint64, s model.AccessibilitySettings) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodPatch, idPath("/api/users", userID)+"/accessibility", nil, s, &u); err != nil {
		return nil, err
	}
	c.forget(Key{Path: idPath("/api/users", userID)})
	return &u, nil
}

// Login exchanges credentials for an access token and keeps it on the
// client for later requests.
func (c *Client) Login(ctx context.Context, username, password string) (*model.User, error) {
	var out struct {
		User   model.User `json:"user"`
		Access struct {
			Token string `json:"token"`
		} `json:"access"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	c.Token = out.Access.Token
	return &out.User, nil
}

// ----- content -----

func (c *Client) ListTips(ctx context.Context, lang model.Language) ([]model.Tip, error) {
	return get[[]model.Tip](ctx, c, Key{Path: "/api/tips", Params: langParams(lang)})
}

func (c *Client) ListChallenges(ctx context.Context, lang model.Language) ([]model.Challenge, error) {
	return get[[]model.Challenge](ctx, c, Key{Path: "/api/challenges", Params: langParams(lang)})
}

// ListArticles lists articles newest first; an empty category lists all.
func (c *Client) ListArticles(ctx context.Context, category string, lang model.Language) ([]model.Article, error) {
	return get[[]model.Article](ctx, c, Key{Path: "/api/articles", Params: langParams(lang, "category", category)})
}

func (c *Client) GetArticle(ctx context.Context, id uint64) (model.Article, error) {
	return get[model.Article](ctx, c, Key{Path: idPath("/api/articles", id)})
}

// ----- activities -----

// NewActivity is the body of POST /api/activities.  A nil Date means now.
type NewActivity struct {
	UserID      uint64             `json:"userId"`
	Type        model.ActivityType `json:"type"`
	Description string             `json:"description"`
	CarbonSaved float64            `json:"carbonSaved"`
	Date        *time.Time         `json:"date,omitempty"`
}

func activitiesPath(userID uint64) string { return idPath("/api/users", userID) + "/activities" }

func (c *Client) ListUserActivities(ctx context.Context, userID uint64) ([]model.Activity, error) {
	return get[[]model.Activity](ctx, c, Key{Path: activitiesPath(userID)})
}

// CreateActivity logs an activity and drops the user's cached activities.
func (c *Client) CreateActivity(ctx context.Context, a NewActivity) (*model.Activity, error) {
	var out model.Activity
	if err := c.do(ctx, http.MethodPost, "/api/activities", nil, a, &out); err != nil {
		return nil, err
	}
	c.forget(Key{Path: activitiesPath(a.UserID)})
	return &out, nil
}

// ----- forum -----

// NewPost is the body of POST /api/posts.
type NewPost struct {
	UserID   uint64   `json:"userId"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags,omitempty"`
}

// ListPosts lists posts newest first.  "" and "All Posts" list every post.
func (c *Client) ListPosts(ctx context.Context, category string) ([]model.Post, error) {
	key := Key{Path: "/api/posts"}
	if category != "" && category != string(model.AllPostsCategory) {
		key.Params = url.Values{"category": {category}}
	}
	return get[[]model.Post](ctx, c, key)
}

func (c *Client) CreatePost(ctx context.Context, p NewPost) (*model.Post, error) {
	var out model.Post
	if err := c.do(ctx, http.MethodPost, "/api/posts", nil, p, &out); err != nil {
		return nil, err
	}
	c.invalidate("/api/posts")
	return &out, nil
}

// LikePost counts a like and drops every cached post listing.
func (c *Client) LikePost(ctx context.Context, id uint64) (*model.Post, error) {
	var out model.Post
	if err := c.do(ctx, http.MethodPost, idPath("/api/posts", id)+"/like", nil, nil, &out); err != nil {
		return nil, err
	}
	c.invalidate("/api/posts")
	return &out, nil
}

// ----- resources -----

func (c *Client) ListResources(ctx context.Context, category string, lang model.Language) ([]model.Resource, error) {
	return get[[]model.Resource](ctx, c, Key{Path: "/api/resources", Params: langParams(lang, "category", category)})
}

// SearchResources searches resource titles.  A query shorter than
// MinSearchLength returns nil without contacting the server.
func (c *Client) SearchResources(ctx context.Context, q string, lang model.Language) ([]model.Resource, error) {
	if utf8.RuneCountInString(q) < MinSearchLength {
		return nil, nil
	}
	return get[[]model.Resource](ctx, c, Key{Path: "/api/resources/search", Params: langParams(lang, "q", q)})
}
