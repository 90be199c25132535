package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jask/sevadesk/internal/catalog"
	"github.com/jask/sevadesk/internal/config"
	"github.com/jask/sevadesk/internal/llm"
	"github.com/jask/sevadesk/internal/places"
	"github.com/jask/sevadesk/internal/secrets"
	"github.com/jask/sevadesk/internal/server"
	"github.com/jask/sevadesk/internal/service"
)

var (
	verbose bool
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sevadesk",
	Short: "SevaDesk - government service catalog search and facility lookup",
	Long: `SevaDesk helps users find the right government/legal procedure from a
task catalog using natural-language search, and locate the nearest
physical office offering that service.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		store, resolver, locator := wire(cfg)

		srv, err := server.New(store, resolver, locator, cfg.Places.DefaultRadius, logger)
		if err != nil {
			return err
		}

		httpSrv := &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: srv.Handler(),
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", zap.String("addr", cfg.Server.Addr))
			errCh <- httpSrv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		case <-ctx.Done():
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				return err
			}
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Resolve a free-text query to a catalog task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		_, resolver, _ := wire(cfg)

		result := resolver.Resolve(cmd.Context(), strings.Join(args, " "))
		if result.Matched {
			fmt.Println(result.Title)
			return nil
		}
		fmt.Println(result.Message)
		return nil
	},
}

var nearestCmd = &cobra.Command{
	Use:   "nearest <keyword> <lat> <lng>",
	Short: "Find the nearest facility for a keyword",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		lat, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid latitude %q", args[1])
		}
		lng, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid longitude %q", args[2])
		}
		loc := places.Coordinate{Lat: lat, Lng: lng}
		if !loc.Valid() {
			return fmt.Errorf("coordinates out of range")
		}

		_, _, locator := wire(cfg)
		facility, err := locator.FindNearest(cmd.Context(), args[0], loc, cfg.Places.DefaultRadius)
		if err != nil || facility == nil {
			fmt.Println("No centers found nearby.")
			return nil
		}
		fmt.Printf("%s\n%s\n", facility.Name, facility.Address)
		return nil
	},
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List all catalog task titles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		store := catalog.NewStore(cfg.Catalog.Path, logger)
		for _, title := range store.ListTitles() {
			fmt.Println(title)
		}
		return nil
	},
}

var setKeyCmd = &cobra.Command{
	Use:   "set-key <provider>",
	Short: "Store an API key (gemini or places) in the local secrets store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(os.Stderr, "API key for %s: ", args[0])
		reader := bufio.NewReader(os.Stdin)
		key, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("empty key")
		}
		return secrets.StoreProviderKey(args[0], key)
	},
}

// wire builds the core components from config. Each command constructs
// only what it needs from the returned trio.
func wire(cfg config.Config) (*catalog.Store, *service.Resolver, *places.Client) {
	store := catalog.NewStore(cfg.Catalog.Path, logger.Named("catalog"))
	provider := llm.NewGeminiProvider(resolveKey(cfg.LLM.APIKeyEnv, "gemini", cfg.LLM.APIKey), cfg.LLM.Model)
	resolver := service.NewResolver(store, provider, llm.DefaultSynonymHints, logger.Named("resolver"))
	locator := places.NewClient(resolveKey(cfg.Places.APIKeyEnv, "places", cfg.Places.APIKey), cfg.Places.BaseURL, logger.Named("places"))
	return store, resolver, locator
}

// resolveKey looks up a credential: env var first, then the secrets
// store, then the config file value.
func resolveKey(envName, provider, configValue string) string {
	if envName != "" {
		if v := os.Getenv(envName); v != "" {
			return v
		}
	}
	if k, err := secrets.FetchProviderKey(provider); err == nil {
		return k
	}
	return strings.TrimSpace(configValue)
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd, searchCmd, nearestCmd, tasksCmd, setKeyCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
