package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sqliteadapter "github.com/atvirokodosprendimai/liveforever-migrate/internal/adapters/db/sqlite"
	httpadapter "github.com/atvirokodosprendimai/liveforever-migrate/internal/adapters/http"
	rpcadapter "github.com/atvirokodosprendimai/liveforever-migrate/internal/adapters/rpcjson"
	"github.com/atvirokodosprendimai/liveforever-migrate/internal/application"
	"github.com/atvirokodosprendimai/liveforever-migrate/internal/config"
	"github.com/atvirokodosprendimai/liveforever-migrate/internal/domain"
	"github.com/atvirokodosprendimai/liveforever-migrate/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	cfg, err := config.Load(".env", ".env.local")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
	defer func() { _ = logger.Sync() }()

	a := &app{cfg: cfg, logger: logger}
	root := &cli.Command{
		Name:  "liveforever-migrate",
		Usage: "Migrate the legacy Live Forever family-tree database",
		Commands: []*cli.Command{
			a.serverCommand(),
			a.migrateCommand(),
			a.importCommand(),
			a.statusCommand(),
			a.treesCommand(),
			remoteCommand(),
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		logger.Error("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "error:", err)
		_ = logger.Sync()
		os.Exit(exitCode(err))
	}
}

// app carries the loaded configuration into the local commands.
type app struct {
	cfg    config.Config
	logger *zap.Logger
}

type runtime struct {
	service  *application.MigrationService
	registry *prometheus.Registry
	db       *sql.DB
}

func (r *runtime) Close() error {
	return r.db.Close()
}

func (a *app) dbFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "db-path", Value: a.cfg.DBPath, Usage: "SQLite database path"},
		&cli.StringFlag{Name: "dump", Value: a.cfg.DumpPath, Usage: "legacy SQL dump path"},
	}
}

// open wires the database, repositories and service for one command.
func (a *app) open(ctx context.Context, dbPath string) (*runtime, error) {
	db, err := sqliteadapter.Open(dbPath)
	if err != nil {
		return nil, withCode(exitDatabase, fmt.Errorf("open database: %w", err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, withCode(exitDatabase, fmt.Errorf("open database: %w", err))
	}
	if err := sqliteadapter.RunMigrations(ctx, db, a.logger); err != nil {
		_ = sqlDB.Close()
		return nil, withCode(exitDatabase, fmt.Errorf("run migrations: %w", err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	service := application.NewMigrationService(
		sqliteadapter.NewLegacyRepository(db),
		sqliteadapter.NewTargetRepository(db),
		application.WithLogger(a.logger),
		application.WithMetrics(application.NewMetrics(reg)),
		application.WithPasswordCost(a.cfg.BcryptCost),
		application.WithEmailDomain(a.cfg.EmailDomain),
	)
	return &runtime{service: service, registry: reg, db: sqlDB}, nil
}

func (a *app) serverCommand() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Run the HTTP and JSON-RPC trigger surfaces",
		Flags: append(a.dbFlags(),
			&cli.StringFlag{Name: "addr", Value: a.cfg.HTTPAddr, Usage: "HTTP listen address"},
			&cli.StringFlag{Name: "rpc-socket", Value: a.cfg.RPCSocket, Usage: "JSON-RPC unix socket path"},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			return a.runServer(ctx, c.String("addr"), c.String("rpc-socket"), c.String("db-path"), c.String("dump"))
		},
	}
}

func (a *app) runServer(ctx context.Context, addr, rpcSocket, dbPath, dumpPath string) error {
	rt, err := a.open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = rt.Close()
	}()

	router := httpadapter.NewRouter(rt.service, dumpPath, a.logger, rt.registry)
	srv := &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 5 * time.Second}
	rpcSrv, err := rpcadapter.Start(rpcSocket, rt.service, dumpPath, a.logger)
	if err != nil {
		return err
	}

	defer func() {
		_ = rpcSrv.Close()
	}()
	a.logger.Info("json-rpc listening", zap.String("socket", "unix://"+rpcSocket))

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (a *app) migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Migrate legacy users and family trees",
		Flags: append(a.dbFlags(),
			&cli.BoolFlag{Name: "import-old", Usage: "import the legacy SQL dump first"},
			&cli.UintFlag{Name: "tree", Usage: "migrate a single legacy tree by id"},
			&cli.BoolFlag{Name: "all", Usage: "migrate every active legacy tree"},
			&cli.BoolFlag{Name: "core", Usage: "users and family trees only (default)"},
			&cli.BoolFlag{Name: "complete", Usage: "also migrate education, deceased profiles, media and cities"},
			&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.IsSet("tree") && c.Bool("all") {
				return withCode(exitUsage, errors.New("--tree and --all are mutually exclusive"))
			}
			if c.Bool("core") && c.Bool("complete") {
				return withCode(exitUsage, errors.New("--core and --complete are mutually exclusive"))
			}
			scope := application.ScopeCore
			if c.Bool("complete") {
				scope = application.ScopeComplete
			}

			rt, err := a.open(ctx, c.String("db-path"))
			if err != nil {
				return err
			}
			defer func() {
				_ = rt.Close()
			}()
			if c.Bool("import-old") {
				result, err := rt.service.Importer().Import(ctx, c.String("dump"), false)
				if err != nil {
					return classify(err)
				}
				if !c.Bool("json") {
					printImportResult(result)
				}
			} else {
				imported, err := rt.service.Importer().IsImported(ctx)
				if err != nil {
					return withCode(exitDatabase, err)
				}
				if !imported {
					return withCode(exitUsage, errors.New("legacy database not imported; run with --import-old first"))
				}
			}

			switch {
			case c.IsSet("tree"):
				migrated, err := rt.service.MigrateTree(ctx, uint(c.Uint("tree")), scope)
				if err != nil {
					return classify(err)
				}
				if c.Bool("json") {
					return printJSON(map[string]any{"result": migrated.Result(), "flow": migrated.Flow})
				}
				printTreeResults([]application.TreeResult{migrated.Result()})
			case c.Bool("all"):
				batch, err := rt.service.MigrateAll(ctx, scope)
				if err != nil {
					return classify(err)
				}
				if c.Bool("json") {
					return printJSON(batch)
				}
				printBatch(batch)
			default:
				report, err := rt.service.Run(ctx, scope)
				if err != nil {
					return classify(err)
				}
				if c.Bool("json") {
					return printJSON(report)
				}
				printReport(report)
			}
			return nil
		},
	}
}

func (a *app) importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import the legacy SQL dump",
		Flags: append(a.dbFlags(),
			&cli.BoolFlag{Name: "force", Usage: "import even when legacy data is present"},
			&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := a.open(ctx, c.String("db-path"))
			if err != nil {
				return err
			}
			defer func() {
				_ = rt.Close()
			}()
			result, err := rt.service.Importer().Import(ctx, c.String("dump"), c.Bool("force"))
			if err != nil {
				return classify(err)
			}
			if c.Bool("json") {
				return printJSON(result)
			}
			printImportResult(result)
			return nil
		},
	}
}

func (a *app) statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show legacy and target database counts",
		Flags: append(a.dbFlags(), &cli.BoolFlag{Name: "json", Usage: "output raw JSON"}),
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := a.open(ctx, c.String("db-path"))
			if err != nil {
				return err
			}
			defer func() {
				_ = rt.Close()
			}()
			status, err := rt.service.Status(ctx)
			if err != nil {
				return withCode(exitDatabase, err)
			}
			if c.Bool("json") {
				return printJSON(status)
			}
			printStatus(status)
			return nil
		},
	}
}

func (a *app) treesCommand() *cli.Command {
	return &cli.Command{
		Name:  "trees",
		Usage: "List active legacy trees",
		Flags: append(a.dbFlags(), &cli.BoolFlag{Name: "json", Usage: "output raw JSON"}),
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := a.open(ctx, c.String("db-path"))
			if err != nil {
				return err
			}
			defer func() {
				_ = rt.Close()
			}()
			trees, err := rt.service.AvailableTrees(ctx)
			if err != nil {
				return classify(err)
			}
			if c.Bool("json") {
				return printJSON(trees)
			}
			printTrees(trees)
			return nil
		},
	}
}

func remoteCommand() *cli.Command {
	jsonFlag := &cli.BoolFlag{Name: "json", Usage: "output raw JSON"}
	return &cli.Command{
		Name:  "remote",
		Usage: "Drive a running server over uds or http",
		Commands: []*cli.Command{
			{
				Name:  "configure",
				Usage: "Store the transport used by remote commands",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "transport", Value: "uds", Usage: "uds or http"},
					&cli.StringFlag{Name: "server", Value: defaultServer},
					&cli.StringFlag{Name: "socket", Value: defaultSocket},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg := cliConfig{Transport: c.String("transport"), Server: c.String("server"), Socket: c.String("socket")}
					if cfg.Transport != "uds" && cfg.Transport != "http" {
						return withCode(exitUsage, fmt.Errorf("unknown transport %q", cfg.Transport))
					}
					if err := saveConfig(cfg); err != nil {
						return err
					}
					fmt.Printf("remote transport set to %s\n", cfg.Transport)
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "Show migration status",
				Flags: []cli.Flag{jsonFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out application.MigrationStatus
					if err := doStatus(ctx, cfg, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printStatus(out)
					return nil
				},
			},
			{
				Name:  "trees",
				Usage: "List active legacy trees",
				Flags: []cli.Flag{jsonFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.AvailableTree
					if err := doTrees(ctx, cfg, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printTrees(out)
					return nil
				},
			},
			{
				Name:  "import",
				Usage: "Import the legacy dump on the server",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "force"}, jsonFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out application.ImportResult
					if err := doImport(ctx, cfg, c.Bool("force"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printImportResult(out)
					return nil
				},
			},
			{
				Name:  "migrate",
				Usage: "Run a migration on the server",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "tree", Usage: "migrate a single legacy tree by id"},
					&cli.BoolFlag{Name: "all", Usage: "migrate every active legacy tree"},
					&cli.StringFlag{Name: "scope", Value: string(application.ScopeCore), Usage: "core or complete"},
					jsonFlag,
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					scope, err := application.ParseScope(c.String("scope"))
					if err != nil {
						return withCode(exitUsage, err)
					}
					switch {
					case c.IsSet("tree"):
						var out struct {
							Result application.TreeResult `json:"result"`
						}
						if err := doMigrateTree(ctx, cfg, uint(c.Uint("tree")), scope, &out); err != nil {
							return err
						}
						if c.Bool("json") {
							return printJSON(out)
						}
						printTreeResults([]application.TreeResult{out.Result})
					case c.Bool("all"):
						var out application.BatchResult
						if err := doMigrateAll(ctx, cfg, scope, &out); err != nil {
							return err
						}
						if c.Bool("json") {
							return printJSON(out)
						}
						printBatch(out)
					default:
						var out application.Report
						if err := doRun(ctx, cfg, scope, &out); err != nil {
							return err
						}
						if c.Bool("json") {
							return printJSON(out)
						}
						printReport(out)
					}
					return nil
				},
			},
		},
	}
}

func jsonMarshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
