/*
Package main implements the crossword pattern server and CLI application.

xwgrid loads a tab separated dictionary into a pattern index and answers
slot queries such as "C?T". It can run as a MessagePack IPC server for a
solver or editor, as an interactive CLI, or print the slots of a grid file
with the number of words that fit each one.

# Usage

Start the server with the configured dictionary:

	xwgrid

Use another dictionary and enable debug logging:

	xwgrid -dict words.txt -d

Query patterns interactively:

	xwgrid -c -limit 10

Show the slots of a grid (".ctb" is appended when missing):

	xwgrid -grid puzzles/mini

# Configuration

Runtime configuration lives in a TOML file, created with defaults on first
run in the user config directory:

	[dictionary]
	dictionary_file_path = "bigdict.txt"
	alphabet = "latin"
	max_words = 65536
	shuffle = true

	[grid]
	blocked = "#"
	wildcard = "?"

A different file can be given with -config. When neither that file nor the
default one can be used, xwgrid exits.

# Dictionaries

Each dictionary line holds a word, a tab and its explanation. Words are
reduced to uppercase letters of the configured alphabet; the first entry of
each reduced word wins. A dictionary with more than 65536 distinct words is
rejected.

# Command Line Flags

	-config string
	    Path to a config file
	-dict string
	    Dictionary file, overrides the config
	-grid string
	    Grid file whose slots to print
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of words to print per query
	-rebuild-config
	    Rewrite the default config file with built-in values
	-version
	    Show current version
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/wordgrid/internal/cli"
	"github.com/bastiangx/wordgrid/internal/logger"
	"github.com/bastiangx/wordgrid/internal/utils"
	"github.com/bastiangx/wordgrid/pkg/board"
	"github.com/bastiangx/wordgrid/pkg/config"
	"github.com/bastiangx/wordgrid/pkg/dictionary"
	"github.com/bastiangx/wordgrid/pkg/index"
	"github.com/bastiangx/wordgrid/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "xwgrid"
	gh      = "https://github.com/bastiangx/wordgrid"
)

const gridExt = ".ctb"

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires config, index and the selected front end; the logic lives in
// the packages.
func main() {
	sigHandler()
	defaults := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to a config file")
	dictPath := flag.String("dict", "", "Dictionary file (overrides the config)")
	gridPath := flag.String("grid", "", "Grid file whose slots to print")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", 0, fmt.Sprintf("Number of words to print per query (default from config, %d)", defaults.CLI.DefaultLimit))
	rebuild := flag.Bool("rebuild-config", false, "Rewrite the default config file with built-in values")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode)

	if *rebuild {
		path, err := config.RebuildConfigFile()
		if err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		log.Printf("Wrote default config to %s", path)
		os.Exit(0)
	}

	cfg, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: %s", config.GetActiveConfigPath(activePath))

	if *limit < 1 {
		*limit = cfg.CLI.DefaultLimit
	}
	if *dictPath != "" {
		cfg.Dictionary.Path = *dictPath
	}

	idxOpts, err := cfg.IndexOptions()
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	idxOpts.Logger = logger.New("index")
	idx := index.New(idxOpts)

	dictFile := utils.ResolveFile(cfg.Dictionary.Path, "data", mustConfigDir())
	if err := dictionary.ValidateFileFormat(dictFile, dictionary.FormatText); err != nil {
		log.Warnf("Dictionary check failed: %v", err)
	}
	if err := idx.Load(dictFile); err != nil {
		if errors.Is(err, index.ErrCapacityExceeded) {
			log.Fatalf("Dictionary too large: %v", err)
		}
		log.Warn("Running with an empty dictionary")
	}

	if *gridPath != "" {
		showGrid(*gridPath, cfg, idx)
		return
	}

	// CLI is mainly for testing and debugging; the server is the real interface.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:", "limit", *limit, "maxPattern", cfg.Server.MaxPattern)

		handler := cli.NewInputHandler(idx, *limit, cfg.Server.MaxPattern, cfg.CLI.ShowExplanations)
		if err := handler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(idx, cfg, os.Stdin, os.Stdout)
	showStartupInfo(dictFile, idx.Len())

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// showGrid loads a grid file and prints its slots.
func showGrid(path string, cfg *config.Config, idx *index.Index) {
	path = utils.WithExtension(path, gridExt)
	if err := dictionary.ValidateFileFormat(path, dictionary.FormatGrid); err != nil {
		log.Fatalf("Invalid grid: %v", err)
	}

	opts, err := cfg.BoardOptions()
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	b, err := board.Load(path, opts)
	if err != nil {
		log.Fatalf("Failed to load grid: %v", err)
	}
	cli.PrintGrid(os.Stdout, b, cli.Analyze(b, idx))
}

func mustConfigDir() string {
	dir, err := config.GetConfigDir()
	if err != nil {
		return "."
	}
	return dir
}

func printVersion() {
	l := logger.Plain(os.Stdout, "")

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ xwgrid ] crossword slots and pattern lookups")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dictFile string, words int) {
	l := logger.Plain(os.Stderr, AppName)
	l.Infof("Version: %s", Version)
	l.Infof("Process ID: [ %d ]", os.Getpid())
	l.Infof("dictionary: ( %s ) %d words", dictFile, words)
	l.Info("status: ready")
}
