// Command content serves the puzzle content directory as the JSON documents
// the game fetches: the index manifest, per-puzzle documents, and
// per-solution documents.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/myrjola/dailysleuth/internal/logging"
	"github.com/myrjola/dailysleuth/internal/pprofserver"
)

type application struct {
	logger     *slog.Logger
	contentDir string
}

func main() {
	addr := flag.String("addr", "localhost:4000", "HTTP network address")
	pprofPort := flag.String("pprof-port", ":6060", "Port for pprof listening on localhost")
	contentDir := flag.String("content-dir", "./content", "Directory with the puzzle JSON documents")
	flag.Parse()

	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}))
	logger := slog.New(loggerHandler)

	// Initialise pprof listening on localhost so that it's not open to the world.
	pprofserver.Launch(*pprofPort, logger)

	app := application{
		logger:     logger,
		contentDir: *contentDir,
	}

	if err := app.configureAndStartServer(context.Background(), *addr); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}
