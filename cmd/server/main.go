/*
main.go - Application entry point.

Configuration hierarchy (highest to lowest priority):
  1. CLI flags
  2. Environment variables (EMISSIONS_*)
  3. Defaults

SETTINGS:
  port         HTTP server port            (default 8080)
  db           SQLite database path        (default data/emissions.db,
                                            ":memory:" for in-memory)
  ors-api-key  OpenRouteService API key    (empty disables the logistics
                                            distance provider)
  log-level    zerolog level               (default info)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, wait up to 30s for active
  requests, close the database, exit.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MBdjLOTR/GHG-Emissions-Calculator/api"
	"github.com/MBdjLOTR/GHG-Emissions-Calculator/logistics"
	"github.com/MBdjLOTR/GHG-Emissions-Calculator/logistics/ors"
	"github.com/MBdjLOTR/GHG-Emissions-Calculator/store/sqlite"
)

var rootCmd = &cobra.Command{
	Use:   "emissions-server",
	Short: "Event emissions calculator and analysis backend",
	Long: `Backend for the GHG emissions dashboard: records activity data per
event (fuel, electricity, refrigerants, materials, food, transport,
logistics), computes CO2e with fixed emission factors, and serves the
aggregated rollups the dashboard charts are built from.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.Int("port", 8080, "HTTP server port")
	flags.String("db", "data/emissions.db", "SQLite database path (\":memory:\" for in-memory)")
	flags.String("ors-api-key", "", "OpenRouteService API key")
	flags.String("log-level", "info", "log level (trace|debug|info|warn|error)")

	_ = viper.BindPFlag("port", flags.Lookup("port"))
	_ = viper.BindPFlag("db", flags.Lookup("db"))
	_ = viper.BindPFlag("ors_api_key", flags.Lookup("ors-api-key"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))

	viper.SetEnvPrefix("EMISSIONS")
	viper.AutomaticEnv()
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}

func serve(ctx context.Context) error {
	log := newLogger(viper.GetString("log_level"))

	store, err := sqlite.New(viper.GetString("db"), log.With().Str("component", "store").Logger())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	var provider logistics.DistanceProvider
	if key := viper.GetString("ors_api_key"); key != "" {
		provider = ors.New(key)
	} else {
		log.Warn().Msg("no ORS API key configured; logistics endpoints disabled")
	}

	handler := api.NewHandler(store, provider, log.With().Str("component", "api").Logger())
	router := api.NewRouter(handler)

	port := viper.GetInt("port")
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
