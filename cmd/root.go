package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/joshhunt/marquee/internal/cache"
	"github.com/joshhunt/marquee/internal/config"
	"github.com/joshhunt/marquee/internal/listings"
	"github.com/joshhunt/marquee/internal/prefs"
	"github.com/joshhunt/marquee/internal/render"
	"github.com/joshhunt/marquee/internal/server"
	"github.com/joshhunt/marquee/internal/tui"
)

var (
	clock    = time.Now
	markSeen = tui.MarkSeen
)

// CLI represents the complete command structure for the marquee application
type CLI struct {
	// Global flags
	CacheDBFile string `help:"Path to cache SQLite database file" default:"./cache.db"`
	PrefsFile   string `help:"Path to local preferences file" default:"./prefs.json"`
	DebugDir    string `help:"Directory to dump raw upstream responses into (empty disables)"`

	List  ListCmd  `cmd:"" default:"1" help:"Print upcoming movie listings to the terminal"`
	Serve ServeCmd `cmd:"" help:"Run the listings web UI"`
	Seen  SeenCmd  `cmd:"" help:"Interactively mark movies as seen"`
	Cache CacheCmd `cmd:"" help:"Cache maintenance"`
}

// ListCmd prints the aggregated listings for the default date window.
type ListCmd struct {
	Days     int      `short:"d" help:"How many days ahead to include (defaults to config)"`
	Theaters []string `short:"t" help:"Theater IDs in preference order (defaults to config)"`
}

// ServeCmd runs the web UI until interrupted.
type ServeCmd struct {
	Port int `short:"p" help:"Port to listen on (defaults to config)"`
}

// SeenCmd opens a picker over currently listed movies to toggle their seen state.
type SeenCmd struct {
	Days     int      `short:"d" help:"How many days ahead to include (defaults to config)"`
	Theaters []string `short:"t" help:"Theater IDs in preference order (defaults to config)"`
}

// CacheCmd groups cache maintenance subcommands.
type CacheCmd struct {
	Invalidate InvalidateCmd `cmd:"" help:"Drop cached data for one layer"`
}

// InvalidateCmd clears one cache layer so the next fetch goes upstream.
type InvalidateCmd struct {
	Layer string `arg:"" enum:"sitehash,staticqueries,schedule" help:"Cache layer to invalidate (sitehash, staticqueries or schedule)"`
}

var cacheTableForLayer = map[string]string{
	"sitehash":      "site_hash_cache",
	"staticqueries": "static_query_cache",
	"schedule":      "schedule_cache",
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("marquee"),
		kong.Description("Aggregated movie listings for your local cinemas."),
		kong.UsageOnError(),
	)

	updateGlobalConfig(&cli)

	err := ctx.Run(&cli)
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("prefs.file", "./prefs.json")

	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	viper.Set("cache.dbfile", cli.CacheDBFile)
	viper.Set("prefs.file", cli.PrefsFile)
	config.SetDebugDir(cli.DebugDir)
}

// newClient opens the cache database and builds a listings client from the
// global configuration. The caller owns closing the returned cache.
func newClient() (*listings.Client, *cache.DB, error) {
	db, err := cache.Open(viper.GetString("cache.dbfile"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open cache: %w", err)
	}

	client := listings.New(db,
		listings.WithBaseURL(config.BaseURL),
		listings.WithAssetsBaseURL(config.AssetsBaseURL),
		listings.WithCircuitID(config.CircuitID),
		listings.WithWebsiteID(config.WebsiteID),
		listings.WithTimeZone(config.TimeZone),
		listings.WithDebugDir(config.DebugDir),
	)
	return client, db, nil
}

// fetch runs the full aggregation pipeline for the given preferences.
func fetch(ctx context.Context, days int, theaters []string) (*listings.Listings, error) {
	client, db, err := newClient()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Warn("Failed to close cache database", "error", err)
		}
	}()

	if days <= 0 {
		days = config.DaysAhead
	}
	if len(theaters) == 0 {
		theaters = config.Theaters
	}

	from, to := listings.Window(clock(), days)
	query := listings.Query{
		FromDate: from,
		ToDate:   to,
		Theaters: theaters,
	}

	return client.FetchMovieData(ctx, query)
}

func (l *ListCmd) Run(cli *CLI) error {
	result, err := fetch(context.Background(), l.Days, l.Theaters)
	if err != nil {
		return err
	}

	p, err := prefs.Load(cli.PrefsFile)
	if err != nil {
		return err
	}

	render.Terminal(os.Stdout, result, p.SeenSet())
	return nil
}

func (s *ServeCmd) Run(cli *CLI) error {
	client, db, err := newClient()
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Warn("Failed to close cache database", "error", err)
		}
	}()

	port := s.Port
	if port <= 0 {
		port = config.ServerPort
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(client).Start(ctx, port); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func (s *SeenCmd) Run(cli *CLI) error {
	result, err := fetch(context.Background(), s.Days, s.Theaters)
	if err != nil {
		return err
	}

	p, err := prefs.Load(cli.PrefsFile)
	if err != nil {
		return err
	}
	seenSet := p.SeenSet()

	var movies []tui.Movie
	for _, theater := range result.Screenings {
		for _, movie := range theater.Movies {
			if movie.IsAtEarlierTheater {
				continue
			}
			movies = append(movies, tui.Movie{
				ID:      movie.MovieID,
				Title:   movie.Title,
				Theater: theater.TheaterName,
				Seen:    seenSet[movie.MovieID],
			})
		}
	}

	seen, ok, err := markSeen(movies)
	if err != nil {
		return err
	}
	if !ok {
		slog.Info("No changes made")
		return nil
	}

	// Movies not on the current listings keep their stored state.
	for id, isSeen := range seen {
		seenSet[id] = isSeen
	}
	p.SetSeen(seenSet)

	if err := p.Save(cli.PrefsFile); err != nil {
		return err
	}
	slog.Info("Preferences saved", "file", cli.PrefsFile)
	return nil
}

func (i *InvalidateCmd) Run(cli *CLI) error {
	db, err := cache.Open(viper.GetString("cache.dbfile"))
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Warn("Failed to close cache database", "error", err)
		}
	}()

	table := cacheTableForLayer[i.Layer]
	rows, err := db.Invalidate(table)
	if err != nil {
		return err
	}

	slog.Info("Cache layer invalidated", "layer", i.Layer, "entries", rows)
	return nil
}

func initLogging() {
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: slog.LevelInfo,
	})

	slog.SetDefault(slog.New(handler))
}
