package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"showdown-agent/agent"
	"showdown-agent/client"
	"showdown-agent/config"
	"showdown-agent/data"
	"showdown-agent/policy"
	"showdown-agent/storage"
)

var (
	v          = viper.New()
	configFile string
	logger     = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "showdown-agent",
	Short: "Automated player for Pokemon Showdown battles",
	Long: `showdown-agent plays single battles against the Pokemon Showdown
simulator, deciding one action per turn with a pluggable policy.`,
	SilenceUsage: true,
}

var stdioCmd = &cobra.Command{
	Use:   "stdio",
	Short: "Play a battle over stdin/stdout",
	Long: `Reads protocol chunks separated by blank lines from stdin and writes
one choice per line to stdout. Use --side to prefix choices the way
"pokemon-showdown simulate-battle" expects (">p1 move 1").`,
	RunE: runStdio,
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a battle room on a Showdown server",
	RunE:  runPlay,
}

func init() {
	defaults := config.Default()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (yaml, json or toml)")
	flags.String("policy", defaults.Policy, "Decision policy (first, random, greedy)")
	flags.Int64("seed", defaults.Seed, "Seed for the random policy (0 uses the clock)")
	flags.String("pokedex", "", "Path to pokedex.json")
	flags.String("moves", "", "Path to moves.json")
	flags.String("db", "", "Record decisions to this sqlite database")
	flags.String("log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")

	stdioCmd.Flags().String("side", "", "Side to prefix choices with (p1, p2)")
	playCmd.Flags().String("server-url", defaults.ServerURL, "Showdown websocket URL")
	playCmd.Flags().String("room", "", "Battle room to join")

	// Bind flags to viper so SHOWDOWN_* environment variables also apply
	for key, flag := range map[string]string{
		"policy":    "policy",
		"seed":      "seed",
		"pokedex":   "pokedex",
		"moves":     "moves",
		"db_path":   "db",
		"log_level": "log-level",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
	_ = v.BindPFlag("side", stdioCmd.Flags().Lookup("side"))
	_ = v.BindPFlag("server_url", playCmd.Flags().Lookup("server-url"))
	_ = v.BindPFlag("room", playCmd.Flags().Lookup("room"))

	rootCmd.AddCommand(stdioCmd, playCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return nil, err
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.SetLevel(level)
	return cfg, nil
}

// session holds what both play modes share.
type session struct {
	policy agent.Policy
	dex    *data.Dex
	store  storage.Store
}

func (s *session) Close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			logger.WithError(err).Warn("close decision store")
		}
	}
}

func newSession(cfg *config.Config) (*session, error) {
	s := &session{dex: data.NewDex()}
	if cfg.PokedexPath != "" {
		if err := s.dex.LoadPokedexFile(cfg.PokedexPath); err != nil {
			return nil, fmt.Errorf("load pokedex: %w", err)
		}
	}
	if cfg.MovesPath != "" {
		if err := s.dex.LoadMovesFile(cfg.MovesPath); err != nil {
			return nil, fmt.Errorf("load moves: %w", err)
		}
	}
	pokemon, moves := s.dex.Len()
	logger.WithFields(logrus.Fields{"pokemon": pokemon, "moves": moves}).Debug("dex loaded")

	p, err := policy.ByName(cfg.Policy, cfg.Seed, s.dex)
	if err != nil {
		return nil, err
	}
	s.policy = p

	if cfg.DBPath != "" {
		store, err := storage.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open decision store: %w", err)
		}
		s.store = store
	}
	return s, nil
}

func (s *session) run(ctx context.Context, stream agent.Stream, battleID string) error {
	opts := []agent.Option{
		agent.WithLogger(logger),
		agent.WithObserver(agent.LogObserver(logger)),
		agent.WithDex(s.dex),
		agent.WithBattleID(battleID),
	}
	if s.store != nil {
		opts = append(opts, agent.WithRecorder(s.store))
	}
	a, err := agent.New(stream, s.policy, opts...)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

func runStdio(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	stream := client.NewLineStream(os.Stdin, os.Stdout)
	if cfg.Side != "" {
		stream.ForSide(cfg.Side)
	}
	ctx, stop := signalContext()
	defer stop()
	return s.run(ctx, stream, "stdio-"+uuid.NewString())
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateRemote(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	sc, err := client.NewShowdownClient(cfg.ServerURL, logger)
	if err != nil {
		return err
	}
	defer sc.Close()

	if err := sc.JoinRoom(cfg.Room); err != nil {
		return fmt.Errorf("join room %s: %w", cfg.Room, err)
	}
	logger.WithField("room", cfg.Room).Info("joined room")

	ctx, stop := signalContext()
	defer stop()
	return s.run(ctx, sc.RoomStream(cfg.Room), cfg.Room)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
