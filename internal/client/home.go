package client

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/eco-education/internal/model"
	"github.com/iliyamo/eco-education/internal/state"
)

// LatestArticles is how many articles the home screen shows.
const LatestArticles = 3

// HomeView is what the home screen renders besides the store state.
type HomeView struct {
	State    state.AppState
	Articles []model.Article
}

// Home fetches the tips, challenges and articles for the user's language
// concurrently, then dispatches the first tip and challenge into store.
// The challenge keeps the store's current progress, which is tracked only
// on the client.  The first failed fetch ends the wait and nothing is
// dispatched.
func (c *Client) Home(ctx context.Context, store *state.Store) (HomeView, error) {
	lang := store.State().User.Language.OrDefault()

	var (
		tips       []model.Tip
		challenges []model.Challenge
		articles   []model.Article
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tips, err = c.ListTips(gctx, lang)
		return err
	})
	g.Go(func() error {
		var err error
		challenges, err = c.ListChallenges(gctx, lang)
		return err
	})
	g.Go(func() error {
		var err error
		articles, err = c.ListArticles(gctx, "", lang)
		return err
	})
	if err := g.Wait(); err != nil {
		return HomeView{}, err
	}

	if len(tips) > 0 {
		t := tips[0]
		store.Dispatch(state.SetDailyTip{Tip: state.DailyTip{ID: t.ID, Title: t.Title, Description: t.Description}})
	}
	if len(challenges) > 0 {
		ch := challenges[0]
		progress := store.State().WeeklyChallenge.Progress
		store.Dispatch(state.SetWeeklyChallenge{Challenge: state.WeeklyChallenge{
			ID: ch.ID, Title: ch.Title, Description: ch.Description, Progress: progress,
		}})
	}
	if len(articles) > LatestArticles {
		articles = articles[:LatestArticles]
	}
	return HomeView{State: store.State(), Articles: articles}, nil
}

// RefreshStats recomputes the dashboard stats from the user's activities
// and dispatches them.
func (c *Client) RefreshStats(ctx context.Context, store *state.Store) (state.UserStats, error) {
	st := store.State()
	acts, err := c.ListUserActivities(ctx, st.User.ID)
	if err != nil {
		return state.UserStats{}, err
	}
	stats := state.StatsFromActivities(st.Stats, acts)
	store.Dispatch(state.SetUserStats{Stats: stats})
	return stats, nil
}
