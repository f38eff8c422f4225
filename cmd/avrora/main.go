package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/avrora/internal/activity"
	"github.com/hpungsan/avrora/internal/clock"
	"github.com/hpungsan/avrora/internal/config"
	"github.com/hpungsan/avrora/internal/db"
	"github.com/hpungsan/avrora/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"monitor": true, "stats": true, "advice": true, "summary": true,
	"history": true, "categorize": true, "serve": true, "mcp": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
     _
    / \__   ___ __ ___  _ __ __ _
   / _ \ \ / / '__/ _ \| '__/ _' |
  / ___ \ V /| | | (_) | | | (_| |
 /_/   \_\_/ |_|  \___/|_|  \__,_|

  Focus activity tracker

  Usage: avrora <command> [options]
         avrora --help

  MCP server mode requires piped input.`)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".avrora")

	env, err := openEnv(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer env.store.Close()

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(env)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'avrora --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := runMCP(env); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// appEnv holds the long-lived dependencies shared by every command.
type appEnv struct {
	store       *db.Store
	cfg         *config.Config
	categorizer *activity.Categorizer
}

// openEnv loads configuration and category tables from baseDir and opens the database.
func openEnv(baseDir string) (*appEnv, error) {
	cfg, err := config.Load(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	tables, err := config.LoadTables(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load category tables: %w", err)
	}

	database, err := db.Init(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	db.ConfigurePool(database, cfg)

	return &appEnv{
		store:       db.NewStore(database, clock.System{}),
		cfg:         cfg,
		categorizer: activity.NewCategorizer(tables),
	}, nil
}

func runMCP(env *appEnv) error {
	if unknown := mcp.ValidateDisabledTools(env.cfg.DisabledTools); len(unknown) > 0 {
		log.Printf("ignoring unknown disabled_tools: %s (valid: %s)",
			strings.Join(unknown, ", "), strings.Join(mcp.AllToolNames(), ", "))
	}
	return mcp.Run(env.store, env.cfg, env.categorizer, Version)
}
