package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KirkDiggler/zombeers/internal/common/clock"
	"github.com/KirkDiggler/zombeers/internal/common/uuid"
	"github.com/KirkDiggler/zombeers/internal/config"
	"github.com/KirkDiggler/zombeers/internal/models"
	sessionrepo "github.com/KirkDiggler/zombeers/internal/repositories/session"
	"github.com/KirkDiggler/zombeers/internal/services/game"
	"github.com/KirkDiggler/zombeers/internal/services/messaging"
	"github.com/KirkDiggler/zombeers/internal/services/session"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// historyLines is the number of history entries shown as text
const historyLines = 5

// localSession is an opened local session and the services rendering it
type localSession struct {
	session   session.Service
	game      game.Service
	messaging messaging.Service
	clock     clock.Clock
	cleanup   func()
}

func newLocalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "local",
		Short: "Play offline against the stored local session.",
	}

	cmd.AddCommand(
		newLocalShowCmd(a),
		newLocalAddCmd(a),
		newLocalRemoveCmd(a),
		newLocalStartCmd(a),
		newLocalActionCmd(a),
		newLocalSettingsCmd(a),
		newLocalEndCmd(a),
		newLocalResetCmd(a),
		newLocalFreshCmd(a),
	)

	return cmd
}

// withSession opens the local session, reports a discarded snapshot and runs
// fn against it
func (a *app) withSession(cmd *cobra.Command, fn func(ctx context.Context, ls *localSession) error) error {
	ctx := cmd.Context()

	ls, err := openSession(ctx, a.cfg, a.localLogger())
	if err != nil {
		return err
	}
	defer ls.cleanup()

	if _, err := ls.session.Load(ctx, &session.LoadInput{}); err != nil {
		if err := report(cmd, err); err != nil {
			return err
		}
	}

	return report(cmd, fn(ctx, ls))
}

func (a *app) localLogger() *zap.Logger {
	if a.cfg.Verbose {
		return a.logger
	}
	return a.logger.WithOptions(zap.IncreaseLevel(zap.WarnLevel))
}

func openSession(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*localSession, error) {
	repo, closeRepo, err := newSessionRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	wallClock := clock.New()

	messagingService, err := messaging.NewService(&messaging.ServiceConfig{})
	if err != nil {
		closeRepo()
		return nil, fmt.Errorf("failed to create messaging service: %w", err)
	}

	gameService, err := game.New(&game.Config{
		Clock:            wallClock,
		UUIDGenerator:    uuid.New(),
		MessagingService: messagingService,
		Logger:           logger.Named("game"),
	})
	if err != nil {
		closeRepo()
		return nil, fmt.Errorf("failed to create game service: %w", err)
	}

	svc, err := session.New(&session.Config{
		Repository:       repo,
		GameService:      gameService,
		MessagingService: messagingService,
		Clock:            wallClock,
		Key:              cfg.SessionKey,
		Logger:           logger.Named("session"),
	})
	if err != nil {
		closeRepo()
		return nil, fmt.Errorf("failed to create local session: %w", err)
	}

	return &localSession{
		session:   svc,
		game:      gameService,
		messaging: messagingService,
		clock:     wallClock,
		cleanup:   closeRepo,
	}, nil
}

func newSessionRepository(ctx context.Context, cfg *config.Config) (sessionrepo.Repository, func(), error) {
	switch cfg.SessionBackend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		repo, err := sessionrepo.NewRedis(&sessionrepo.Config{
			RedisClient: client,
		})
		if err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}

		return repo, func() { _ = client.Close() }, nil

	default:
		repo, err := sessionrepo.NewFile(&sessionrepo.FileConfig{
			Dir: cfg.SessionDir,
		})
		if err != nil {
			return nil, nil, err
		}

		return repo, func() {}, nil
	}
}

// report prints a failed save as a warning and turns a rejected operation
// into its player facing message
func report(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}

	switch game.KindOf(err) {
	case "":
		return err
	case game.KindPersistence:
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning:", game.MessageOf(err))
		return nil
	default:
		return errors.New(game.MessageOf(err))
	}
}

// resolvePlayer finds a player by ID or by case-insensitive name
func resolvePlayer(ctx context.Context, ls *localSession, ref string) (*models.Player, error) {
	out, err := ls.session.GetState(ctx, &session.GetStateInput{})
	if err != nil {
		return nil, err
	}

	state := out.Session.State
	if p := state.FindPlayer(ref); p != nil {
		return p, nil
	}
	if p := state.FindPlayerByName(ref); p != nil {
		return p, nil
	}

	return nil, fmt.Errorf("no player named %q", ref)
}

func newLocalShowCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the local session.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, ls *localSession) error {
				out, err := ls.session.GetState(ctx, &session.GetStateInput{})
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				switch output {
				case "json":
					enc := json.NewEncoder(w)
					enc.SetIndent("", "  ")
					return enc.Encode(out.Session)
				case "yaml":
					enc := yaml.NewEncoder(w)
					defer enc.Close()
					return enc.Encode(out.Session)
				case "text":
					return writeSessionText(ctx, w, ls, out.Session)
				default:
					return fmt.Errorf("unknown output format %q (must be text, yaml or json)", output)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, yaml or json")

	return cmd
}

func writeSessionText(ctx context.Context, w io.Writer, ls *localSession, sess *models.LocalSession) error {
	state := sess.State

	if state.GameActive {
		fmt.Fprintf(w, "Game: active (%s)\n", game.FormatElapsed(state.StartTime, ls.clock.Now()))
	} else {
		fmt.Fprintln(w, "Game: setup")
	}

	s := state.Settings
	fmt.Fprintf(w, "Settings: %s=%d %s=%d %s=%d %s=%d %s=%d\n",
		models.SettingPointsPerBeer, s.PointsPerBeer,
		models.SettingPointsPerShot, s.PointsPerShot,
		models.SettingPointsPerRevive, s.PointsPerRevive,
		models.SettingRedemptionCost, s.RedemptionCost,
		models.SettingShotLimit, s.ShotLimit)

	leaderboard, err := ls.game.GetLeaderboard(ctx, &game.GetLeaderboardInput{State: state})
	if err != nil {
		return err
	}

	board, err := ls.messaging.GetLeaderboardMessage(ctx, &messaging.GetLeaderboardMessageInput{
		Leaderboard: leaderboard.Leaderboard,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(w, board.Message)

	totals, err := ls.game.GetTotals(ctx, &game.GetTotalsInput{State: state})
	if err != nil {
		return err
	}
	t := totals.Totals
	fmt.Fprintf(w, "Totals: earned=%d spent=%d beers=%d shots=%d revives=%d\n", t.Earned, t.Spent, t.Beers, t.Shots, t.Revives)

	history := state.History
	if len(history) > historyLines {
		history = history[len(history)-historyLines:]
	}
	for _, entry := range history {
		fmt.Fprintln(w, "  "+entry.Message)
	}

	return nil
}

func newLocalAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a player.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, ls *localSession) error {
				out, err := ls.session.AddPlayer(ctx, &session.AddPlayerInput{Name: strings.Join(args, " ")})
				if out != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", out.Player.Name)
				}
				return err
			})
		},
	}
}

func newLocalRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name-or-id>",
		Short: "Remove a player.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, ls *localSession) error {
				player, err := resolvePlayer(ctx, ls, strings.Join(args, " "))
				if err != nil {
					return err
				}

				out, err := ls.session.RemovePlayer(ctx, &session.RemovePlayerInput{PlayerID: player.ID})
				if out != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", out.Player.Name)
				}
				return err
			})
		},
	}
}

func newLocalStartCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start a game with the current players.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, ls *localSession) error {
				out, err := ls.session.StartGame(ctx, &session.StartGameInput{})
				if out != nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Game started.")
				}
				return err
			})
		},
	}
}

func newLocalActionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "action <name-or-id> <beer|shot|revive|redeem|reset-score>",
		Short:     "Apply a player action.",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"beer", "shot", "revive", "redeem", "reset-score"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, ls *localSession) error {
				player, err := resolvePlayer(ctx, ls, args[0])
				if err != nil {
					return err
				}

				out, err := ls.session.ApplyAction(ctx, &session.ApplyActionInput{
					PlayerID: player.ID,
					Action:   models.ActionType(args[1]),
				})
				if out != nil {
					fmt.Fprintln(cmd.OutOrStdout(), out.Entry.Message)
				}
				return err
			})
		},
	}
}

func newLocalSettingsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "settings <key=value>...",
		Short: "Update game settings.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			update := make(map[string]any, len(args))
			for _, arg := range args {
				key, value, ok := strings.Cut(arg, "=")
				if !ok || key == "" {
					return fmt.Errorf("invalid setting %q (must be key=value)", arg)
				}
				update[key] = value
			}

			return a.withSession(cmd, func(ctx context.Context, ls *localSession) error {
				out, err := ls.session.UpdateSettings(ctx, &session.UpdateSettingsInput{Settings: update})
				if out == nil {
					return err
				}

				for _, key := range out.Applied {
					fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", key)
				}
				for _, rejected := range out.Rejected {
					fmt.Fprintln(cmd.ErrOrStderr(), rejected.Message)
				}

				if err == nil && len(out.Applied) == 0 {
					return errors.New("no settings were updated")
				}
				return err
			})
		},
	}
}

func newLocalEndCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "End the game and print its statistics.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, ls *localSession) error {
				out, err := ls.session.EndGame(ctx, &session.EndGameInput{})
				if out == nil {
					return err
				}

				summary, msgErr := ls.messaging.GetGameStatsMessage(ctx, &messaging.GetGameStatsMessageInput{Stats: out.Stats})
				if msgErr != nil {
					return msgErr
				}
				fmt.Fprintln(cmd.OutOrStdout(), summary.Message)

				return err
			})
		},
	}
}

func newLocalResetCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Zero player stats and return to setup.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, ls *localSession) error {
				if all {
					if err := ls.session.ResetAll(ctx, &session.ResetAllInput{}); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Session cleared.")
					return nil
				}

				if err := ls.session.ResetGame(ctx, &session.ResetGameInput{}); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Game reset.")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "also remove every player and the stored session")

	return cmd
}

func newLocalFreshCmd(a *app) *cobra.Command {
	var winner string

	cmd := &cobra.Command{
		Use:   "fresh",
		Short: "Start over with a new group of players.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, ls *localSession) error {
				input := &session.StartFreshInput{}
				if winner != "" {
					player, err := resolvePlayer(ctx, ls, winner)
					if err != nil {
						return err
					}
					input.WinnerID = player.ID
					fmt.Fprintf(cmd.OutOrStdout(), "Challenge winner: %s\n", player.Name)
				}

				if err := ls.session.StartFresh(ctx, input); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Session cleared.")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&winner, "winner", "", "name or ID of the challenge winner")

	return cmd
}
