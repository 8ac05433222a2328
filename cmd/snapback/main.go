// Package main is the entry point for the snapback demo.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dshills/snapback/internal/demo"
	"github.com/dshills/snapback/script"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, scriptPath := parseFlags()

	if scriptPath != "" {
		return runScript(scriptPath)
	}

	app, err := demo.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer app.Shutdown()

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

// runScript executes a Lua history script headlessly.
func runScript(path string) int {
	session, err := script.NewSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create script session: %v\n", err)
		return 1
	}
	defer session.Close()

	if err := session.DoFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func parseFlags() (demo.Options, string) {
	var opts demo.Options
	var scriptPath string
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&scriptPath, "script", "", "Run a Lua history script instead of the TUI")
	flag.StringVar(&scriptPath, "s", "", "Run a Lua history script (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "snapback - snapshot-based undo/redo demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: snapback [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  snapback                     Run the interactive demo\n")
		fmt.Fprintf(os.Stderr, "  snapback -c snapback.toml    Run with a config file\n")
		fmt.Fprintf(os.Stderr, "  snapback -s scenario.lua     Run a scripted history session\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("snapback %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		os.Exit(0)
	}

	return opts, scriptPath
}
