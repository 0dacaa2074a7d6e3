package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/google/uuid"
	"github.com/hylla/hemma/internal/adapters/server"
	"github.com/hylla/hemma/internal/adapters/storage/sqlite"
	"github.com/hylla/hemma/internal/app"
	"github.com/hylla/hemma/internal/config"
	"github.com/hylla/hemma/internal/dnd"
	"github.com/hylla/hemma/internal/platform"
	"github.com/hylla/hemma/internal/tui"
)

// version is set at build time via ldflags.
var version = "dev"

// program represents program data used by this package.
type program interface {
	Run() (tea.Model, error)
}

// programFactory stores a package-level helper value.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// main handles main.
func main() {
	root := newRootCommand(os.Stdout, os.Stderr)
	if err := fang.Execute(context.Background(), root, fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

// run executes the command tree without the styled fang wrapper; tests use it.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// rootOptions carries the persistent flag values shared by every subcommand.
type rootOptions struct {
	configPath string
	dbPath     string
	appName    string
	devMode    bool
	stdout     io.Writer
	stderr     io.Writer
}

// newRootCommand builds the command tree.
func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	opts := &rootOptions{stdout: stdout, stderr: stderr}

	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("HEMMA_DEV_MODE"); ok {
		defaultDevMode = envDev
	}
	defaultApp := "hemma"
	if envApp := strings.TrimSpace(os.Getenv("HEMMA_APP_NAME")); envApp != "" {
		defaultApp = envApp
	}

	root := &cobra.Command{
		Use:           "hemma",
		Short:         "Household board with draggable tasks, events and birthdays",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "path to config TOML")
	pf.StringVar(&opts.dbPath, "db", "", "path to sqlite database")
	pf.StringVar(&opts.appName, "app", defaultApp, "application name for config/data path resolution")
	pf.BoolVar(&opts.devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev)")

	root.AddCommand(
		newTUICommand(opts),
		newServeCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
		newPathsCommand(opts),
	)
	return root
}

// newTUICommand mirrors the root run so `hemma tui` and bare `hemma` match.
func newTUICommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive board (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}
}

// newServeCommand exposes the board over HTTP and MCP.
func newServeCommand(opts *rootOptions) *cobra.Command {
	var bindAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over HTTP and MCP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts, bindAddr)
		},
	}
	cmd.Flags().StringVar(&bindAddr, "bind", "", "listen address (overrides server.addr)")
	return cmd
}

// newExportCommand writes the full household snapshot as JSON.
func newExportCommand(opts *rootOptions) *cobra.Command {
	var (
		outPath         string
		includeArchived bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the household snapshot as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd.Context(), opts, outPath, includeArchived)
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "-", "output file path ('-' for stdout)")
	cmd.Flags().BoolVar(&includeArchived, "include-archived", true, "include archived columns, tasks and events")
	return cmd
}

// newImportCommand restores a previously exported snapshot.
func newImportCommand(opts *rootOptions) *cobra.Command {
	var inPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a household snapshot from JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImport(cmd.Context(), opts, inPath)
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "input snapshot JSON file")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

// newPathsCommand prints the resolved config and data locations.
func newPathsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and data paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := platform.DefaultPathsWithOptions(platform.Options{
				AppName: opts.appName,
				DevMode: opts.devMode,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(out, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(out, "config: %s\n", paths.ConfigPath)
			_, _ = fmt.Fprintf(out, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(out, "db: %s\n", paths.DBPath)
			return nil
		},
	}
}

// runtimeState bundles everything a command flow needs once config is resolved.
type runtimeState struct {
	cfg        config.Config
	configPath string
	paths      platform.Paths
	logger     *runtimeLogger
	repo       *sqlite.Repository
	svc        *app.Service
}

// close releases the repository and the log sinks.
func (r *runtimeState) close(stderr io.Writer) {
	if r.repo != nil {
		if err := r.repo.Close(); err != nil {
			r.logger.Warn("sqlite close failed", "db_path", r.cfg.Database.Path, "err", err)
		}
	}
	if err := r.logger.Close(); err != nil && r.logger.shouldLogToSink(r.logger.consoleSink) {
		_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", err)
	}
}

// openRuntime resolves paths and config, then opens the repository and
// service. A fresh database is seeded with the configured lanes so every
// command flow starts from a usable board.
func openRuntime(ctx context.Context, opts *rootOptions, command string) (*runtimeState, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	})
	if err != nil {
		return nil, err
	}

	configPath := strings.TrimSpace(opts.configPath)
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("HEMMA_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	dbPath := strings.TrimSpace(opts.dbPath)
	dbOverridden := dbPath != ""
	if !dbOverridden {
		if envPath := strings.TrimSpace(os.Getenv("HEMMA_DB_PATH")); envPath != "" {
			dbPath = envPath
			dbOverridden = true
		} else {
			dbPath = paths.DBPath
		}
	}

	cfg, err := config.Load(configPath, config.Default(dbPath))
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dbOverridden {
		cfg.Database.Path = dbPath
	}

	logger, err := newRuntimeLogger(opts.stderr, opts.appName, opts.devMode, cfg.Logging, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}

	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "db_path", cfg.Database.Path)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	logger.Info("opening sqlite repository", "db_path", cfg.Database.Path)
	repo, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("sqlite open failed", "db_path", cfg.Database.Path, "err", err)
		closeRuntimeLogger(logger, opts.stderr)
		return nil, fmt.Errorf("open sqlite repository: %w", err)
	}

	svc := app.NewService(repo, uuid.NewString, nil, app.ServiceConfig{
		DefaultDeleteMode: app.DeleteMode(cfg.Delete.DefaultMode),
		LaneTemplates:     laneTemplatesFromConfig(cfg),
		BirthdayLaneID:    cfg.Birthdays.LaneID,
		BirthdayWindow:    cfg.BirthdayWindow(),
	})
	logger.Debug("application service initialized", "default_delete_mode", cfg.Delete.DefaultMode, "lanes", len(cfg.Board.Lanes))

	columns, err := svc.EnsureDefaultColumns(ctx)
	if err != nil {
		logger.Error("lane seeding failed", "err", err)
		if closeErr := repo.Close(); closeErr != nil {
			logger.Warn("sqlite close failed", "db_path", cfg.Database.Path, "err", closeErr)
		}
		closeRuntimeLogger(logger, opts.stderr)
		return nil, fmt.Errorf("ensure board lanes: %w", err)
	}
	logger.Debug("board lanes ensured", "lanes", len(columns))

	return &runtimeState{
		cfg:        cfg,
		configPath: configPath,
		paths:      paths,
		logger:     logger,
		repo:       repo,
		svc:        svc,
	}, nil
}

// closeRuntimeLogger closes sinks when runtime setup fails partway.
func closeRuntimeLogger(logger *runtimeLogger, stderr io.Writer) {
	if err := logger.Close(); err != nil {
		_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", err)
	}
}

// runTUI runs the interactive board program loop.
func runTUI(ctx context.Context, opts *rootOptions) error {
	rt, err := openRuntime(ctx, opts, "tui")
	if err != nil {
		return err
	}
	defer rt.close(opts.stderr)

	// Keep board rendering clean: runtime logs stay in the dev-file sink
	// while the program is active.
	rt.logger.SetConsoleEnabled(false)

	m := tui.NewModel(
		rt.svc,
		rt.logger.UILogger(),
		tui.WithKeyBindings(tui.KeyBindingConfig{
			PickUp: rt.cfg.Keys.PickUp,
			Drop:   rt.cfg.Keys.Drop,
			Cancel: rt.cfg.Keys.Cancel,
			Help:   rt.cfg.Keys.Help,
			Quit:   rt.cfg.Keys.Quit,
		}),
		tui.WithSensors(sensorsFromConfig(rt.cfg)),
		tui.WithDefaultDeleteMode(app.DeleteMode(rt.cfg.Delete.DefaultMode)),
	)

	rt.logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		rt.logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	rt.logger.Info("command flow complete", "command", "tui")
	return nil
}

// runServe exposes the board over the composed HTTP/MCP handler.
func runServe(ctx context.Context, opts *rootOptions, bindAddr string) error {
	rt, err := openRuntime(ctx, opts, "serve")
	if err != nil {
		return err
	}
	defer rt.close(opts.stderr)

	addr := strings.TrimSpace(bindAddr)
	if addr == "" {
		addr = rt.cfg.Server.Addr
	}
	srvCfg := server.Config{
		HTTPBind:      addr,
		ServerName:    opts.appName,
		ServerVersion: version,
	}

	rt.logger.Info("command flow start", "command", "serve", "bind", addr)
	if err := server.Run(ctx, srvCfg, server.Dependencies{Board: rt.svc}); err != nil {
		rt.logger.Error("command flow failed", "command", "serve", "err", err)
		return fmt.Errorf("run server: %w", err)
	}
	rt.logger.Info("command flow complete", "command", "serve")
	return nil
}

// runExport writes the snapshot JSON to a file or stdout.
func runExport(ctx context.Context, opts *rootOptions, outPath string, includeArchived bool) error {
	rt, err := openRuntime(ctx, opts, "export")
	if err != nil {
		return err
	}
	defer rt.close(opts.stderr)

	rt.logger.Info("command flow start", "command", "export", "include_archived", includeArchived)
	snap, err := rt.svc.ExportSnapshot(ctx, includeArchived)
	if err != nil {
		rt.logger.Error("command flow failed", "command", "export", "err", err)
		return fmt.Errorf("export snapshot: %w", err)
	}
	encoded, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot json: %w", err)
	}
	encoded = append(encoded, '\n')

	if outPath == "-" {
		if _, err := opts.stdout.Write(encoded); err != nil {
			return fmt.Errorf("write snapshot to stdout: %w", err)
		}
		rt.logger.Info("command flow complete", "command", "export")
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create export output dir: %w", err)
	}
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	rt.logger.Info("command flow complete", "command", "export", "out", outPath)
	return nil
}

// runImport restores a snapshot JSON file into the repository.
func runImport(ctx context.Context, opts *rootOptions, inPath string) error {
	if strings.TrimSpace(inPath) == "" {
		return fmt.Errorf("--in is required")
	}
	content, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	var snap app.Snapshot
	if err := json.Unmarshal(content, &snap); err != nil {
		return fmt.Errorf("decode snapshot json: %w", err)
	}

	rt, err := openRuntime(ctx, opts, "import")
	if err != nil {
		return err
	}
	defer rt.close(opts.stderr)

	rt.logger.Info("command flow start", "command", "import", "in", inPath)
	if err := rt.svc.ImportSnapshot(ctx, snap); err != nil {
		rt.logger.Error("command flow failed", "command", "import", "err", err)
		return fmt.Errorf("import snapshot: %w", err)
	}
	rt.logger.Info("command flow complete", "command", "import")
	return nil
}

// laneTemplatesFromConfig maps configured lanes to service seed templates.
func laneTemplatesFromConfig(cfg config.Config) []app.LaneTemplate {
	templates := make([]app.LaneTemplate, 0, len(cfg.Board.Lanes))
	for _, lane := range cfg.Board.Lanes {
		templates = append(templates, app.LaneTemplate{
			ID:          lane.ID,
			Name:        lane.Name,
			Position:    lane.Position,
			AcceptsDrop: lane.AcceptsDrop,
		})
	}
	return templates
}

// sensorsFromConfig maps drag tuning values to sensor declarations.
func sensorsFromConfig(cfg config.Config) dnd.SensorConfig {
	return dnd.SensorConfig{
		Pointer: dnd.PointerSensor{
			ActivationDistance: cfg.Drag.PointerDistance,
		},
		Touch: dnd.TouchSensor{
			ActivationDelay: cfg.TouchDelay(),
			Tolerance:       cfg.Drag.TouchTolerance,
		},
		Keyboard: dnd.KeyboardSensor{
			Enabled:    true,
			PickUpKeys: []string{cfg.Keys.PickUp},
			CancelKeys: []string{cfg.Keys.Cancel},
		},
	}
}

// parseBoolEnv parses input into a normalized form.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
