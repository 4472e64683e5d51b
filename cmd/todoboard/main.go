package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/dustin/go-humanize"
	"github.com/hylla/todoboard/internal/adapters/server"
	"github.com/hylla/todoboard/internal/app"
	"github.com/hylla/todoboard/internal/config"
	"github.com/hylla/todoboard/internal/domain"
	"github.com/hylla/todoboard/internal/platform"
	"github.com/hylla/todoboard/internal/tui"
	"github.com/spf13/cobra"
)

// version is set at build time.
var version = "dev"

// program is the part of tea.Program the CLI drives.
type program interface {
	Run() (tea.Model, error)
	Send(msg tea.Msg)
}

var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// serveCommandRunner starts the HTTP MCP flow.
var serveCommandRunner = func(ctx context.Context, cfg server.Config, deps server.Dependencies) error {
	return server.Run(ctx, cfg, deps)
}

// stdioCommandRunner starts the stdio MCP flow.
var stdioCommandRunner = func(ctx context.Context, cfg server.Config, deps server.Dependencies, in io.Reader, out io.Writer) error {
	return server.RunStdio(ctx, cfg, deps, in, out)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

// run executes the command tree through fang.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	root := newRootCommand(stdin, stdout, stderr)
	root.SetArgs(args)
	return fang.Execute(ctx, root, fang.WithVersion(version))
}

// rootOptions holds persistent flag values.
type rootOptions struct {
	configPath string
	appName    string
	devMode    bool
}

func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	opts := &rootOptions{appName: platform.DefaultAppName, devMode: version == "dev"}
	if envDev, ok := parseBoolEnv("TODOBOARD_DEV_MODE"); ok {
		opts.devMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("TODOBOARD_APP_NAME")); envApp != "" {
		opts.appName = envApp
	}

	root := &cobra.Command{
		Use:          "todoboard",
		Short:        "A keyboard-driven todo board",
		Long:         "Tasks live in categories (Personal, Work, or your own) and move to Completed and back.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config TOML")
	flags.StringVar(&opts.appName, "app", opts.appName, "application name for config/data path resolution")
	flags.BoolVar(&opts.devMode, "dev", opts.devMode, "use dev mode paths (<app>-dev)")

	root.AddCommand(
		newPathsCommand(opts),
		newMCPCommand(opts),
		newCheckAttachmentCommand(),
	)
	return root
}

func newPathsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config, data, log, and download paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := resolvePaths(opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(out, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(out, "config: %s\n", resolveConfigPath(opts, paths))
			_, _ = fmt.Fprintf(out, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(out, "log_dir: %s\n", paths.LogDir)
			_, _ = fmt.Fprintf(out, "download_dir: %s\n", paths.DownloadDir)
			return nil
		},
	}
}

func newMCPCommand(opts *rootOptions) *cobra.Command {
	var (
		httpBind string
		endpoint string
	)
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the board as MCP tools over stdio, or HTTP with --http",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd, opts, "mcp")
			if err != nil {
				return err
			}
			defer rt.close(cmd.ErrOrStderr())

			cfg := server.Config{
				HTTPBind:      httpBind,
				MCPEndpoint:   endpoint,
				ServerName:    "todoboard",
				ServerVersion: version,
			}
			deps := server.Dependencies{
				Board:       rt.newService(),
				Attachments: rt.newAttachments(),
			}
			if strings.TrimSpace(httpBind) == "" {
				rt.logger.Info("serving mcp over stdio")
				err = stdioCommandRunner(cmd.Context(), cfg, deps, cmd.InOrStdin(), cmd.OutOrStdout())
			} else {
				rt.logger.Info("serving mcp over http", "bind", httpBind, "endpoint", endpoint)
				err = serveCommandRunner(cmd.Context(), cfg, deps)
			}
			if err != nil {
				rt.logger.Error("mcp server terminated with error", "err", err)
				return fmt.Errorf("run mcp server: %w", err)
			}
			rt.logger.Info("command flow complete", "command", "mcp")
			return nil
		},
	}
	cmd.Flags().StringVar(&httpBind, "http", "", "serve streamable HTTP on this address instead of stdio")
	cmd.Flags().StringVar(&endpoint, "endpoint", "/mcp", "MCP endpoint path for --http")
	return cmd
}

func newCheckAttachmentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check-attachment <file>",
		Short: "Report whether a file fits the 5 MiB attachment limit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := app.NewAttachmentService("", nil).Check(args[0])
			if err != nil && !errors.Is(err, domain.ErrAttachmentTooLarge) {
				return fmt.Errorf("check attachment: %w", err)
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "name: %s\n", info.Name)
			_, _ = fmt.Fprintf(out, "media_type: %s\n", info.MediaType)
			_, _ = fmt.Fprintf(out, "size: %s (%d bytes)\n", info.HumanSize(), info.Size)
			if !info.Accepted {
				_, _ = fmt.Fprintf(out, "accepted: false (limit %s)\n", humanize.IBytes(uint64(domain.MaxAttachmentSize)))
				return err
			}
			_, _ = fmt.Fprintln(out, "accepted: true")
			return nil
		},
	}
}

// runTUI starts the board program loop.
func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	rt, err := loadRuntime(cmd, opts, "tui")
	if err != nil {
		return err
	}
	defer rt.close(cmd.ErrOrStderr())

	svc := rt.newService()
	previews := app.NewPreviewRegistry()
	m := tui.NewModel(svc, rt.newAttachments(), previews, tuiOptions(rt.cfg, time.Now)...)
	p := programFactory(m)
	unsubscribe := svc.Subscribe(func(ev app.Event) {
		// Events fire inside Update, and Send blocks until the loop reads it.
		go p.Send(tui.BoardChangedMsg{Board: ev.Board, Revision: ev.Revision})
	})
	defer unsubscribe()

	rt.logger.Info("starting tui program loop")
	if _, err := p.Run(); err != nil {
		rt.logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	if active := previews.Active(); active > 0 {
		rt.logger.Warn("preview handles left open at exit", "count", active)
	}
	rt.logger.Info("command flow complete", "command", "tui")
	return nil
}

// tuiOptions maps config values onto model options.
func tuiOptions(cfg config.Config, now func() time.Time) []tui.Option {
	opts := []tui.Option{
		tui.WithTheme(tui.Theme(cfg.UI.Theme)),
		tui.WithToastTTL(cfg.ToastDuration()),
		tui.WithShowNotes(cfg.UI.ShowNotes),
		tui.WithDefaultPriority(domain.Priority(strings.ToLower(strings.TrimSpace(cfg.Board.DefaultPriority)))),
		tui.WithKeyConfig(tui.KeyConfig{
			AddTask:       cfg.Keys.AddTask,
			AddCategory:   cfg.Keys.AddCategory,
			ToggleDone:    cfg.Keys.ToggleDone,
			RemoveTask:    cfg.Keys.RemoveTask,
			CompletedView: cfg.Keys.CompletedView,
			ToggleTheme:   cfg.Keys.ToggleTheme,
		}),
	}
	if cfg.UI.Particles && cfg.UI.ParticleCount > 0 {
		opts = append(opts, tui.WithParticles(cfg.UI.ParticleCount, uint64(now().UnixNano())))
	}
	return opts
}

// runtimeEnv holds resolved state shared by the commands that touch the board.
type runtimeEnv struct {
	paths      platform.Paths
	configPath string
	cfg        config.Config
	logger     *runtimeLogger
}

// loadRuntime resolves paths, loads config, and configures logging.
func loadRuntime(cmd *cobra.Command, opts *rootOptions, command string) (*runtimeEnv, error) {
	paths, err := resolvePaths(opts)
	if err != nil {
		return nil, err
	}
	configPath := resolveConfigPath(opts, paths)
	if err := config.EnsureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	cfg, err := config.Load(configPath, config.Default(paths.DownloadDir, paths.LogDir))
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	logger, err := newRuntimeLogger(cmd.ErrOrStderr(), opts.appName, opts.devMode, cfg.Logging, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	if command == "tui" {
		// Runtime logs stay in the dev-file sink while the board owns the terminal.
		logger.muteConsole(true)
	}

	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "download_dir", cfg.Attachments.DownloadDir)
	logger.Info("configuration loaded", "config_path", configPath, "log_level", cfg.Logging.Level, "categories", len(cfg.Board.Categories))
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}
	return &runtimeEnv{paths: paths, configPath: configPath, cfg: cfg, logger: logger}, nil
}

// newService builds the board state manager with configured extra categories.
func (rt *runtimeEnv) newService() *app.Service {
	priority, err := domain.ParsePriority(rt.cfg.Board.DefaultPriority)
	if err != nil {
		priority = domain.PriorityMedium
	}
	svc := app.NewService(app.NewMonotonicIDs(time.Now), rt.logger.With("component", "board"), app.ServiceConfig{
		DefaultPriority: priority,
		Categories:      rt.cfg.Board.Categories,
	})
	rt.logger.Debug("board service initialized", "default_priority", priority, "categories", len(svc.Snapshot().Categories()))
	return svc
}

// newAttachments builds the attachment desk rooted at the configured download dir.
func (rt *runtimeEnv) newAttachments() *app.AttachmentService {
	return app.NewAttachmentService(rt.cfg.Attachments.DownloadDir, rt.logger.With("component", "attachments"))
}

func (rt *runtimeEnv) close(stderr io.Writer) {
	if err := rt.logger.Close(); err != nil && !rt.logger.consoleMuted() {
		_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", err)
	}
}

func resolvePaths(opts *rootOptions) (platform.Paths, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	})
	if err != nil {
		return platform.Paths{}, fmt.Errorf("resolve paths: %w", err)
	}
	return paths, nil
}

// resolveConfigPath applies --config, then TODOBOARD_CONFIG, then the platform default.
func resolveConfigPath(opts *rootOptions, paths platform.Paths) string {
	if path := strings.TrimSpace(opts.configPath); path != "" {
		return path
	}
	if path := strings.TrimSpace(os.Getenv("TODOBOARD_CONFIG")); path != "" {
		return path
	}
	return paths.ConfigPath
}

// parseBoolEnv reports the parsed value of name and whether it was set and valid.
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
