package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"os/signal"
	"strings"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"

	"github.com/hpungsan/avrora/internal/advisor"
	"github.com/hpungsan/avrora/internal/config"
	"github.com/hpungsan/avrora/internal/errors"
	"github.com/hpungsan/avrora/internal/notify"
	"github.com/hpungsan/avrora/internal/ops"
	"github.com/hpungsan/avrora/internal/sampler"
	"github.com/hpungsan/avrora/internal/telemetry"
	"github.com/hpungsan/avrora/internal/tracker"
	"github.com/hpungsan/avrora/internal/web"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)

	kindStyles = map[advisor.Kind]lipgloss.Style{
		advisor.KindPositive:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		advisor.KindWarning:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		advisor.KindNeutral:    lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		advisor.KindSuggestion: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		advisor.KindInfo:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	}
)

// newCLIApp creates the CLI application with all commands.
// env is nil when only help or version output is needed.
func newCLIApp(env *appEnv) *cli.App {
	app := &cli.App{
		Name:    "avrora",
		Usage:   "Focus activity tracker",
		Version: Version,
		Commands: []*cli.Command{
			monitorCmd(env),
			statsCmd(env),
			adviceCmd(env),
			summaryCmd(env),
			historyCmd(env),
			categorizeCmd(env),
			serveCmd(env),
			mcpCmd(env),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// monitorCmd creates the monitor command.
func monitorCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "monitor",
		Usage: "Track the foreground window until interrupted",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "flush", Usage: "Record the open session on exit (overrides flush_on_stop)"},
			&cli.BoolFlag{Name: "notify", Usage: "Send desktop notifications for warnings (overrides notify)"},
		},
		Action: func(c *cli.Context) error {
			cfg := *env.cfg
			if c.IsSet("flush") {
				cfg.FlushOnStop = c.Bool("flush")
			}
			if c.IsSet("notify") {
				cfg.Notify = c.Bool("notify")
			}

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := log.New(c.App.ErrWriter, "avrora: ", log.LstdFlags)

			metrics, err := telemetry.New(ctx, telemetry.LoadConfig(), Version)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			defer func() {
				if err := metrics.Close(context.Background()); err != nil {
					logger.Printf("telemetry shutdown: %v", err)
				}
			}()

			t := newTracker(env, &cfg, sampler.New(cfg.SamplerCommand), logger, metrics)
			if err := t.Start(ctx); err != nil {
				return outputError(err)
			}
			logger.Printf("monitoring every %s", cfg.PollInterval())

			if cfg.Notify {
				n := notify.New(env.store, &cfg, advisor.New(nil), notify.Desktop, logger)
				go n.Run(ctx, cfg.NotifyInterval())
			}

			<-ctx.Done()
			t.Stop()
			logger.Printf("monitor stopped")
			return nil
		},
	}
}

// newTracker wires a tracker to the store, categorizer and observers.
func newTracker(env *appEnv, cfg *config.Config, smp sampler.Sampler, logger *log.Logger, observers ...tracker.Observer) *tracker.Tracker {
	return tracker.New(tracker.Options{
		Sampler:        smp,
		Recorder:       env.store,
		Categorize:     env.categorizer.Categorize,
		Logger:         logger,
		PollInterval:   cfg.PollInterval(),
		SamplerTimeout: cfg.SamplerTimeout(),
		FlushOnStop:    cfg.FlushOnStop,
		Observers:      observers,
	})
}

// statsCmd creates the stats command.
func statsCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Print today's statistics as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Read stored stats for YYYY-MM-DD instead of today"},
		},
		Action: func(c *cli.Context) error {
			if date := c.String("date"); date != "" {
				output, err := ops.StoredStats(c.Context, env.store, ops.StoredStatsInput{Date: date})
				if err != nil {
					return outputError(err)
				}
				return outputJSON(c.App.Writer, output)
			}

			return outputJSON(c.App.Writer, ops.TodayStats(c.Context, env.store, env.cfg))
		},
	}
}

// adviceCmd creates the advice command.
func adviceCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "advice",
		Usage: "Print advice for today",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
		},
		Action: func(c *cli.Context) error {
			output := ops.Advice(c.Context, env.store, env.cfg, advisor.New(nil))
			if c.Bool("json") {
				return outputJSON(c.App.Writer, output)
			}

			if len(output.Items) == 0 {
				fmt.Fprintln(c.App.Writer, dimStyle.Render(advisor.NoDataSummary))
				return nil
			}
			for _, item := range output.Items {
				fmt.Fprintln(c.App.Writer, formatAdviceItem(item))
			}
			return nil
		},
	}
}

// summaryCmd creates the summary command.
func summaryCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "Print today's summary",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "markdown", Aliases: []string{"m"}, Usage: "Output Markdown instead of plain text"},
			&cli.BoolFlag{Name: "copy", Aliases: []string{"c"}, Usage: "Copy the summary to the clipboard"},
			&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
		},
		Action: func(c *cli.Context) error {
			output := ops.Summary(c.Context, env.store, env.cfg)
			if c.Bool("json") {
				return outputJSON(c.App.Writer, output)
			}

			text := output.Text
			if c.Bool("markdown") && output.HasData {
				text = output.Markdown
			}

			if c.Bool("copy") {
				if err := clipboard.WriteAll(text); err != nil {
					return outputError(errors.NewInternal(fmt.Errorf("copy to clipboard: %w", err)))
				}
				fmt.Fprintln(c.App.ErrWriter, dimStyle.Render("copied to clipboard"))
			}

			if !output.HasData {
				fmt.Fprintln(c.App.Writer, dimStyle.Render(text))
				return nil
			}
			fmt.Fprint(c.App.Writer, text)
			if !strings.HasSuffix(text, "\n") {
				fmt.Fprintln(c.App.Writer)
			}
			return nil
		},
	}
}

// historyCmd creates the history command.
func historyCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recent sessions as JSON",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "days", Aliases: []string{"d"}, Value: ops.DefaultHistoryDays, Usage: "Look back this many days"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultHistoryLimit, Usage: "Maximum items to return"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.History(c.Context, env.store, ops.HistoryInput{
				Days:  c.Int("days"),
				Limit: c.Int("limit"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// categorizeCmd creates the categorize command.
func categorizeCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "categorize",
		Usage:     "Show how an app and window title would be categorized",
		ArgsUsage: "[app] [title]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "app", Aliases: []string{"a"}, Usage: "Application name"},
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Window title"},
		},
		Action: func(c *cli.Context) error {
			input := ops.CategorizeInput{
				AppName:     c.String("app"),
				WindowTitle: c.String("title"),
			}

			// Positional arguments fill whatever the flags left empty
			args := c.Args().Slice()
			if input.AppName == "" && len(args) > 0 {
				input.AppName = args[0]
				args = args[1:]
			}
			if input.WindowTitle == "" && len(args) > 0 {
				input.WindowTitle = strings.Join(args, " ")
			}

			output, err := ops.Categorize(env.categorizer, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the report page on localhost",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Usage: "Bind address (overrides web_bind)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port (overrides web_port)"},
		},
		Action: func(c *cli.Context) error {
			cfg := *env.cfg
			if bind := c.String("bind"); bind != "" {
				cfg.WebBind = bind
			}
			if port := c.Int("port"); port > 0 {
				cfg.WebPort = port
			}

			srv := web.NewServer(env.store, &cfg, advisor.New(nil), Version)
			if err := web.Run(c.Context, srv); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP server on stdio",
		Action: func(c *cli.Context) error {
			return runMCP(env)
		},
	}
}

// Helper functions

// outputJSON marshals result to w as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var aErr *errors.AvroraError
	if stderrors.As(err, &aErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", aErr.Code, aErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// formatAdviceItem renders one advice line with a colored kind marker.
func formatAdviceItem(item advisor.AdviceItem) string {
	style, ok := kindStyles[item.Kind]
	if !ok {
		style = lipgloss.NewStyle()
	}
	return style.Render("● ") + titleStyle.Render(string(item.Topic)) + dimStyle.Render(": ") + item.Message
}
