package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"

	"edu-catalog/internal/catalog"
	"edu-catalog/internal/catalogcache"
	"edu-catalog/internal/config"
	"edu-catalog/internal/kvstore"
	"edu-catalog/internal/logger"
	"edu-catalog/internal/mappers"
	"edu-catalog/internal/providers/openlibrary"
)

// Options are the global flags shared by every command.
type Options struct {
	Verbose bool          `short:"v" long:"verbose" description:"Enable debug logging"`
	Seed    uint64        `long:"seed" env:"CATALOG_SEED" description:"Seed for synthesized price/rating/date/location (0 = time based)"`
	Timeout time.Duration `long:"timeout" default:"2m" description:"Overall deadline for the command"`

	Fetch      fetchCommand      `command:"fetch" description:"Fetch the catalog, served from cache for 30 minutes"`
	Search     searchCommand     `command:"search" description:"Search the upstream catalog, bypassing the cache"`
	Get        getCommand        `command:"get" description:"Look up one item by id"`
	ClearCache clearCacheCommand `command:"clear-cache" description:"Remove the cached catalog"`
	Export     exportCommand     `command:"export" description:"Write the catalog to CSV or XML and optionally upload it via SFTP"`
}

// serviceFactory builds the catalog service and a cleanup func.
type serviceFactory func(ctx context.Context, cfg config.Config, log *logger.Logger, seed uint64) (*catalog.Service, func() error, error)

type app struct {
	opts    Options
	cfg     config.Config
	log     *logger.Logger
	svc     *catalog.Service
	out     io.Writer
	factory serviceFactory

	// ctx is set for the duration of one command; go-flags' Execute has no
	// context parameter.
	ctx context.Context
}

func main() {
	if err := run(os.Args[1:], os.Stdout, buildService); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) {
			if ferr.Type == flags.ErrHelp {
				return
			}
			fmt.Fprintf(os.Stderr, "catalog: %v\n", err)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "catalog: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer, factory serviceFactory) error {
	a := &app{out: out, factory: factory}
	a.opts.Fetch.app = a
	a.opts.Search.app = a
	a.opts.Get.app = a
	a.opts.ClearCache.app = a
	a.opts.Export.app = a

	// errors are printed once, by main
	parser := flags.NewParser(&a.opts, flags.Default&^flags.PrintErrors)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if cmd == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), a.opts.Timeout)
		defer cancel()
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		cleanup, err := a.setup(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		a.ctx = ctx
		return cmd.Execute(args)
	}

	_, err := parser.ParseArgs(args)
	var ferr *flags.Error
	if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
		fmt.Fprintln(out, ferr.Message)
	}
	return err
}

func (a *app) setup(ctx context.Context) (func(), error) {
	a.cfg = config.Load()

	mode := a.cfg.LogMode
	if a.opts.Verbose {
		mode = "debug"
	}
	l, err := logger.New(mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a.log = l

	svc, closeFn, err := a.factory(ctx, a.cfg, a.log, a.opts.Seed)
	if err != nil {
		a.log.Sync()
		return nil, err
	}
	a.svc = svc

	return func() {
		if err := closeFn(); err != nil {
			a.log.Warn("failed to close store", "error", err)
		}
		a.log.Sync()
	}, nil
}

// buildService wires the Open Library client, the configured key-value
// store and the catalog tables into a catalog.Service.
func buildService(ctx context.Context, cfg config.Config, log *logger.Logger, seed uint64) (*catalog.Service, func() error, error) {
	tables, err := config.LoadCatalogTables(cfg.TablesFile)
	if err != nil {
		return nil, nil, err
	}
	if cfg.CoversBaseURL != "" {
		tables.CoversBaseURL = cfg.CoversBaseURL
	}

	store, closeStore, err := kvstore.Open(ctx, kvstore.Options{
		Backend:       cfg.KVBackend,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		RedisPrefix:   cfg.RedisPrefix,
		SQLitePath:    cfg.SQLitePath,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.KVBackend, err)
	}

	client := openlibrary.New(cfg.OpenLibraryBaseURL)
	client.Retry.MaxAttempts = cfg.MaxAttempts
	client.Retry.AttemptTimeout = cfg.RequestTimeout

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	norm := mappers.NewNormalizer(tables, mappers.WithRandom(mappers.NewRandomSource(seed)))

	cache := catalogcache.New(store, catalogcache.WithLogger(log.With("component", "cache")))
	svc := catalog.New(client, cache, norm, tables,
		catalog.WithLogger(log.With("component", "catalog")),
		catalog.WithMaxWorkers(cfg.MaxWorkers),
	)

	log.Debug("catalog service ready",
		"backend", cfg.KVBackend,
		"base_url", cfg.OpenLibraryBaseURL,
		"topics", tables.SelectedTopics(),
	)
	return svc, closeStore, nil
}
