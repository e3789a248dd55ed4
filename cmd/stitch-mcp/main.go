package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/page-stitch-mcp/internal/config"
	"github.com/ironsheep/page-stitch-mcp/internal/logging"
	"github.com/ironsheep/page-stitch-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("page-stitch-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("page-stitch-mcp - MCP server that stitches scrolled page captures")
			fmt.Println()
			fmt.Println("Usage: page-stitch-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Printf("  %s=path        Config file (default %s)\n", config.EnvConfigPath, config.DefaultPath)
			fmt.Printf("  %s=debug    Log level: debug, info, warn, error\n", config.EnvLogLevel)
			fmt.Printf("  %s=dir     Directory for relative output paths\n", config.EnvOutputDir)
			fmt.Printf("  %s=n    Maximum output width/height in pixels\n", config.EnvMaxDimension)
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Register it as a stdio server in your MCP client.")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	logging.SetLevel(cfg.LogLevel)
	logging.Debug("Page Stitch MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
