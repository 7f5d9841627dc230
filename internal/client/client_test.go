package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/eco-education/internal/client"
	"github.com/iliyamo/eco-education/internal/config"
	"github.com/iliyamo/eco-education/internal/database"
	"github.com/iliyamo/eco-education/internal/handler"
	"github.com/iliyamo/eco-education/internal/model"
	"github.com/iliyamo/eco-education/internal/repository"
	"github.com/iliyamo/eco-education/internal/router"
	"github.com/iliyamo/eco-education/internal/seed"
	"github.com/iliyamo/eco-education/internal/state"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newClient points a client at srv and closes both when the test ends.
func newClient(t *testing.T, srv *httptest.Server) *client.Client {
	t.Helper()
	c := client.New(srv.URL)
	t.Cleanup(func() {
		c.HTTP.CloseIdleConnections()
		srv.Close()
	})
	return c
}

// countingServer answers every request with body and counts requests per
// path.
func countingServer(t *testing.T, body any) (*httptest.Server, *sync.Map) {
	t.Helper()
	hits := &sync.Map{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, _ := hits.LoadOrStore(r.Method+" "+r.URL.Path, new(atomic.Int32))
		n.(*atomic.Int32).Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	return srv, hits
}

func hitCount(hits *sync.Map, key string) int32 {
	n, ok := hits.Load(key)
	if !ok {
		return 0
	}
	return n.(*atomic.Int32).Load()
}

func TestKeyString(t *testing.T) {
	a := client.Key{Path: "/api/articles", Params: url.Values{"language": {"en"}, "category": {"Pollution"}}}
	b := client.Key{Path: "/api/articles", Params: url.Values{"category": {"Pollution"}, "language": {"en"}}}
	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, "/api/articles?category=Pollution&language=en", a.String())

	c := client.Key{Path: "/api/articles", Params: url.Values{"category": {""}}}
	assert.Equal(t, "/api/articles", c.String())
}

func TestSearchResources_ShortQuerySendsNothing(t *testing.T) {
	srv, hits := countingServer(t, []model.Resource{})
	c := newClient(t, srv)

	for _, q := range []string{"", "a", "ab", "éa", "日本"} {
		got, err := c.SearchResources(context.Background(), q, "en")
		require.NoError(t, err)
		assert.Nil(t, got)
	}
	assert.Zero(t, hitCount(hits, "GET /api/resources/search"))

	_, err := c.SearchResources(context.Background(), "abc", "en")
	require.NoError(t, err)
	assert.EqualValues(t, 1, hitCount(hits, "GET /api/resources/search"))

	_, err = c.SearchResources(context.Background(), "guí", "en")
	require.NoError(t, err)
	assert.EqualValues(t, 2, hitCount(hits, "GET /api/resources/search"))
}

func TestReadsAreCached(t *testing.T) {
	srv, hits := countingServer(t, []model.Tip{{ID: 1, Title: "Unplug"}})
	c := newClient(t, srv)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		tips, err := c.ListTips(ctx, "en")
		require.NoError(t, err)
		require.Len(t, tips, 1)
	}
	assert.EqualValues(t, 1, hitCount(hits, "GET /api/tips"))

	// another language is another key
	_, err := c.ListTips(ctx, "es")
	require.NoError(t, err)
	assert.EqualValues(t, 2, hitCount(hits, "GET /api/tips"))
	assert.Equal(t, 2, c.Cache.Len())
}

func TestConcurrentReadsShareOneRequest(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		_ = json.NewEncoder(w).Encode([]model.Challenge{{ID: 1}})
	}))
	c := newClient(t, srv)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.ListChallenges(context.Background(), "en")
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.EqualValues(t, 1, calls.Load())
}

func TestCancelledCallerDoesNotFailSharedRead(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		_ = json.NewEncoder(w).Encode([]model.Tip{{ID: 7}})
	}))
	c := newClient(t, srv)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.ListTips(firstCtx, "en")
		firstErr <- err
	}()
	<-started

	var (
		tips      []model.Tip
		secondErr error
		wg        sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		tips, secondErr = c.ListTips(context.Background(), "en")
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	wg.Wait()
	require.NoError(t, secondErr)
	require.Len(t, tips, 1)
	assert.EqualValues(t, 7, tips[0].ID)
	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, 1, c.Cache.Len())
}

func TestLikePost_InvalidatesPostListings(t *testing.T) {
	var lists atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_ = json.NewEncoder(w).Encode(model.Post{ID: 1, LikeCount: 1})
			return
		}
		lists.Add(1)
		_ = json.NewEncoder(w).Encode([]model.Post{{ID: 1}})
	}))
	c := newClient(t, srv)
	ctx := context.Background()

	_, err := c.ListPosts(ctx, "")
	require.NoError(t, err)
	_, err = c.ListPosts(ctx, "Questions")
	require.NoError(t, err)
	_, err = c.ListPosts(ctx, string(model.AllPostsCategory))
	require.NoError(t, err)
	assert.EqualValues(t, 2, lists.Load())

	p, err := c.LikePost(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.LikeCount)
	assert.Zero(t, c.Cache.Len())

	_, err = c.ListPosts(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, lists.Load())
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"Invalid post data","errors":[{"field":"title","rule":"required","message":"is required"}]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Article not found"}`))
	}))
	c := newClient(t, srv)
	ctx := context.Background()

	_, err := c.GetArticle(ctx, 9)
	require.Error(t, err)
	assert.True(t, client.IsNotFound(err))
	assert.Contains(t, err.Error(), "Article not found")
	assert.Zero(t, c.Cache.Len())

	_, err = c.CreatePost(ctx, client.NewPost{UserID: 1})
	var ae *client.APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusBadRequest, ae.Status)
	require.Len(t, ae.Errors, 1)
	assert.Equal(t, "title", ae.Errors[0].Field)
	assert.False(t, client.IsNotFound(err))
}

// liveServer runs the real API over a seeded in-memory database.
func liveServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := database.Open("sqlite::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()
	require.NoError(t, db.EnsureSchema(ctx))

	store := repository.NewStore(db, bcrypt.MinCost)
	content, err := seed.Default()
	require.NoError(t, err)
	_, err = seed.Apply(ctx, store, content, nil)
	require.NoError(t, err)

	h := handler.New(config.Config{JWTSecret: "s", AccessTTLMin: 5}, store, nil, nil)
	return httptest.NewServer(router.New(h, router.Options{}))
}

func TestHome(t *testing.T) {
	c := newClient(t, liveServer(t))
	store := state.NewStore(state.Initial())
	store.Dispatch(state.UpdateChallengeProgress{Progress: 60})

	var notified atomic.Int32
	store.Subscribe(func(state.AppState) { notified.Add(1) })

	view, err := c.Home(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, "Save water while brushing teeth", view.State.DailyTip.Title)
	assert.Equal(t, "Plastic-Free Week", view.State.WeeklyChallenge.Title)
	assert.Equal(t, 60, view.State.WeeklyChallenge.Progress)
	require.Len(t, view.Articles, client.LatestArticles)
	assert.Equal(t, "A Zero-Waste Kitchen", view.Articles[0].Title)
	assert.EqualValues(t, 2, notified.Load())

	stats, err := c.RefreshStats(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, "6 kg", stats.CarbonSaved)
	assert.Equal(t, "1 times", stats.Recycling)
	assert.Equal(t, stats, store.State().Stats)
}

func TestLiveFlow(t *testing.T) {
	c := newClient(t, liveServer(t))
	ctx := context.Background()

	u, err := c.Login(ctx, "alicia", "alicia-demo-password")
	require.NoError(t, err)
	assert.NotEmpty(t, c.Token)

	got, err := c.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultLanguage, got.Language)

	_, err = c.UpdateLanguage(ctx, u.ID, "es")
	require.NoError(t, err)
	got, err = c.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Language("es"), got.Language)

	tips, err := c.ListTips(ctx, got.Language)
	require.NoError(t, err)
	require.Len(t, tips, 1)
	assert.Equal(t, "Ahorra agua al cepillarte", tips[0].Title)

	before, err := c.ListUserActivities(ctx, u.ID)
	require.NoError(t, err)
	_, err = c.CreateActivity(ctx, client.NewActivity{UserID: u.ID, Type: model.ActivityEnergy, Description: "Air-dried laundry", CarbonSaved: 1.1})
	require.NoError(t, err)
	after, err := c.ListUserActivities(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, after, len(before)+1)
	assert.Equal(t, "Air-dried laundry", after[0].Description)

	posts, err := c.ListPosts(ctx, string(model.AllPostsCategory))
	require.NoError(t, err)
	require.NotEmpty(t, posts)
	liked, err := c.LikePost(ctx, posts[0].ID)
	require.NoError(t, err)
	posts, err = c.ListPosts(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, liked.LikeCount, posts[0].LikeCount)

	res, err := c.SearchResources(ctx, "Recycl", "en")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Home Recycling Guide", res[0].Title)

	_, err = c.GetArticle(ctx, 999)
	assert.True(t, client.IsNotFound(err))
}
