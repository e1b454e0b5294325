// Command sleuth is the daily deduction puzzle client. It fetches puzzle
// content over HTTP, tracks the playthrough, and keeps the durable player
// record in a local SQLite database.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/myrjola/dailysleuth/internal/content"
	"github.com/myrjola/dailysleuth/internal/envstruct"
	"github.com/myrjola/dailysleuth/internal/errors"
	"github.com/myrjola/dailysleuth/internal/game"
	"github.com/myrjola/dailysleuth/internal/logging"
	"github.com/myrjola/dailysleuth/internal/player"
	"github.com/myrjola/dailysleuth/internal/sqlite"
	"github.com/spf13/cobra"
)

type config struct {
	ContentURL string `env:"SLEUTH_CONTENT_URL" envDefault:"http://localhost:4000"`
	DBPath     string `env:"SLEUTH_DB_PATH" envDefault:"./dailysleuth.sqlite"`
	LogLevel   string `env:"SLEUTH_LOG_LEVEL" envDefault:"warn"`
}

type application struct {
	logger   *slog.Logger
	client   *content.Client
	store    *player.Store
	director *game.Director
	db       *sqlite.Database
}

func newApplication() (*application, error) {
	var cfg config
	if err := envstruct.Populate(&cfg, os.LookupEnv); err != nil {
		return nil, errors.Wrap(err, "populate config")
	}

	level := slog.LevelWarn
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	handler := logging.NewContextHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	logger := slog.New(handler)

	db, err := sqlite.NewDatabase(cfg.DBPath)
	if err != nil {
		return nil, errors.Wrap(err, "open database", slog.String("path", cfg.DBPath))
	}

	store := player.NewStore(player.NewSQLiteSnapshots(db), logger, player.DefaultDebounce, nil)
	client := content.NewClient(cfg.ContentURL, nil, logger)
	director := game.NewDirector(client, logger, game.DefaultDeliberation, time.Now)

	return &application{
		logger:   logger,
		client:   client,
		store:    store,
		director: director,
		db:       db,
	}, nil
}

func (app *application) close() {
	// Flush so the final mutation before exit is not lost to the debounce.
	app.store.Flush(cmdContext())
	if err := app.db.Close(); err != nil {
		app.logger.Warn("could not close database", errors.SlogError(err))
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:  "sleuth",
		Long: `Daily deduction puzzles on the command line. One case a day, four suspects, three clues.`,
	}
	rootCmd.AddCommand(dailyCmd(), practiceCmd(), statsCmd())

	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
