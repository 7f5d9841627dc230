package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/eco-education/internal/client"
	"github.com/iliyamo/eco-education/internal/model"
	"github.com/iliyamo/eco-education/internal/state"
)

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Show the daily tip, weekly challenge, stats and latest articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		view, err := s.api.Home(cmd.Context(), s.store)
		if err != nil {
			return err
		}
		if _, err := s.api.RefreshStats(cmd.Context(), s.store); err != nil {
			s.log.Warn("stats not refreshed", zap.Error(err))
		} else {
			view.State = s.store.State()
		}
		st := view.State
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Hello, %s\n\n", st.User.Name)
		fmt.Fprintf(w, "Tip of the day: %s\n  %s\n\n", st.DailyTip.Title, st.DailyTip.Description)
		fmt.Fprintf(w, "Weekly challenge: %s (%d%%)\n  %s\n\n", st.WeeklyChallenge.Title, st.WeeklyChallenge.Progress, st.WeeklyChallenge.Description)
		fmt.Fprintf(w, "Carbon saved: %s | Recycling: %s | Water saved: %s | Trees planted: %d\n\n",
			st.Stats.CarbonSaved, st.Stats.Recycling, st.Stats.WaterSaved, st.Stats.TreesPlanted)
		fmt.Fprintln(w, "Latest articles:")
		for _, a := range view.Articles {
			fmt.Fprintf(w, "  [%d] %s (%s)\n", a.ID, a.Title, a.Category)
		}
		return nil
	},
}

var articleCategory string

var articlesCmd = &cobra.Command{
	Use:   "articles [id]",
	Short: "List articles, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := s.api.GetArticle(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), a)
		}
		list, err := s.api.ListArticles(cmd.Context(), articleCategory, s.lang())
		if err != nil {
			return err
		}
		for _, a := range list {
			fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s  %s  %s\n", a.ID, a.PublishDate.Format("2006-01-02"), a.Category, a.Title)
		}
		return nil
	},
}

var postCategory string

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List forum posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		s.store.Dispatch(state.SetActiveTab{Tab: state.TabCommunity})
		list, err := s.api.ListPosts(cmd.Context(), postCategory)
		if err != nil {
			return err
		}
		for _, p := range list {
			fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s  (%s)  likes=%d comments=%d\n", p.ID, p.Title, p.Category, p.LikeCount, p.CommentCount)
		}
		return nil
	},
}

var likeCmd = &cobra.Command{
	Use:   "like <post-id>",
	Short: "Like a forum post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		p, err := s.api.LikePost(cmd.Context(), id)
		if err != nil {
			if client.IsNotFound(err) {
				return fmt.Errorf("post %d does not exist", id)
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "liked %q, now %d likes\n", p.Title, p.LikeCount)
		return nil
	},
}

var resourceCategory string

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "List library resources",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		list, err := s.api.ListResources(cmd.Context(), resourceCategory, s.lang())
		if err != nil {
			return err
		}
		printResources(cmd, list)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search resource titles",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := strings.Join(args, " ")
		if len(q) < client.MinSearchLength {
			return fmt.Errorf("search needs at least %d characters", client.MinSearchLength)
		}
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		list, err := s.api.SearchResources(cmd.Context(), q, s.lang())
		if err != nil {
			return err
		}
		printResources(cmd, list)
		return nil
	},
}

func printResources(cmd *cobra.Command, list []model.Resource) {
	for _, r := range list {
		fmt.Fprintf(cmd.OutOrStdout(), "[%d] %-7s %s  (%s)  %s\n", r.ID, r.Type, r.Title, r.Category, r.URL)
	}
}

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "List the user's logged activities",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		list, err := s.api.ListUserActivities(cmd.Context(), s.store.State().User.ID)
		if err != nil {
			return err
		}
		for _, a := range list {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-11s %5.1f kg  %s\n", a.Date.Format("2006-01-02"), a.Type, a.CarbonSaved, a.Description)
		}
		stats := state.StatsFromActivities(s.store.State().Stats, list)
		fmt.Fprintf(cmd.OutOrStdout(), "total carbon saved: %s\n", stats.CarbonSaved)
		return nil
	},
}

var (
	activityType   string
	activityCarbon float64
)

var logActivityCmd = &cobra.Command{
	Use:   "log-activity <description>",
	Short: "Log a sustainability activity",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t := model.ActivityType(activityType)
		if !t.Valid() {
			return fmt.Errorf("unknown activity type %q", activityType)
		}
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		a, err := s.api.CreateActivity(cmd.Context(), client.NewActivity{
			UserID:      s.store.State().User.ID,
			Type:        t,
			Description: strings.Join(args, " "),
			CarbonSaved: activityCarbon,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "logged activity %d\n", a.ID)
		return nil
	},
}

var languageCmd = &cobra.Command{
	Use:   "language [code]",
	Short: "Show or set the user's preferred language",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), s.lang())
			return nil
		}
		l, err := model.ParseLanguage(args[0])
		if err != nil {
			return err
		}
		u, err := s.api.UpdateLanguage(cmd.Context(), s.store.State().User.ID, l)
		if err != nil {
			return err
		}
		s.store.Dispatch(state.UpdateUserLanguage{Language: u.Language})
		fmt.Fprintf(cmd.OutOrStdout(), "language set to %s\n", u.Language)
		return nil
	},
}

func init() {
	articlesCmd.Flags().StringVar(&articleCategory, "category", "", "filter by category")
	postsCmd.Flags().StringVar(&postCategory, "category", string(model.AllPostsCategory), "filter by category")
	resourcesCmd.Flags().StringVar(&resourceCategory, "category", "", "filter by category")
	logActivityCmd.Flags().StringVar(&activityType, "type", string(model.ActivityRecycling), "transport, recycling, energy or consumption")
	logActivityCmd.Flags().Float64Var(&activityCarbon, "carbon", 0, "kg of CO2 saved")
}
