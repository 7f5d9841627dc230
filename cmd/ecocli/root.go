package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/eco-education/internal/client"
	"github.com/iliyamo/eco-education/internal/logging"
	"github.com/iliyamo/eco-education/internal/model"
	"github.com/iliyamo/eco-education/internal/state"
)

var (
	// Global flags
	apiURL   string
	userID   uint64
	language string
	username string
	password string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "ecocli",
	Short:         "Terminal client for the eco-education API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	def := os.Getenv("ECO_API_URL")
	if def == "" {
		def = "http://localhost:5000"
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", def, "API base URL (env ECO_API_URL)")
	rootCmd.PersistentFlags().Uint64Var(&userID, "user", 1, "user id")
	rootCmd.PersistentFlags().StringVar(&language, "lang", "", "content language (default: the user's preference)")
	rootCmd.PersistentFlags().StringVar(&username, "username", "", "log in as this user before running the command")
	rootCmd.PersistentFlags().StringVar(&password, "password", os.Getenv("ECO_PASSWORD"), "password for --username (env ECO_PASSWORD)")

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "zap log level")

	rootCmd.AddCommand(homeCmd, articlesCmd, postsCmd, likeCmd, resourcesCmd, searchCmd,
		activitiesCmd, logActivityCmd, languageCmd)
}

// session holds the client and the state store for one command run.
type session struct {
	api   *client.Client
	store *state.Store
	log   *zap.Logger
}

// newSession builds the client, logs in when --username is set, and loads
// the user into the store.  An unreachable user keeps the demo profile.
func newSession(cmd *cobra.Command) (*session, error) {
	api := client.New(apiURL)
	store := state.NewStore(state.Initial())
	ctx := cmd.Context()
	log := logging.Must(os.Getenv("APP_ENV"), logLevel)

	if username != "" {
		u, err := api.Login(ctx, username, password)
		if err != nil {
			return nil, fmt.Errorf("login: %w", err)
		}
		userID = u.ID
		store.Dispatch(state.SetUser{User: *u})
	} else if u, err := api.GetUser(ctx, userID); err == nil {
		store.Dispatch(state.SetUser{User: u})
	} else if client.IsNotFound(err) {
		log.Warn("user not found, using demo profile", zap.Uint64("user", userID))
	} else {
		return nil, err
	}

	if language != "" {
		l, err := model.ParseLanguage(language)
		if err != nil {
			return nil, err
		}
		store.Dispatch(state.UpdateUserLanguage{Language: l})
	}
	log.Debug("session ready", zap.String("api", apiURL), zap.Uint64("user", store.State().User.ID),
		zap.String("language", string(store.State().User.Language)))
	return &session{api: api, store: store, log: log}, nil
}

func (s *session) lang() model.Language { return s.store.State().User.Language.OrDefault() }

func parseID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
