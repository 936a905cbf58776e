package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eringen/inkwell"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "seed":
		if err := runSeed(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("inkwell %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func loadConfig() (inkwell.Config, error) {
	return inkwell.LoadConfig(inkwell.EnvOr("INKWELL_CONFIG", "inkwell.toml"))
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app, err := inkwell.New(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
		}
	}()

	return app.Start()
}

func runSeed() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app, err := inkwell.New(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	password := inkwell.EnvOr("ADMIN_PASSWORD", "")
	if password == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required for seeding")
	}
	if err := app.Seed(context.Background(), password); err != nil {
		return err
	}
	fmt.Println("database seeded")
	return nil
}

func printUsage() {
	fmt.Println(`inkwell - a blog platform with a JSON API and server-rendered pages

Usage:
  inkwell <command>

Commands:
  serve         Start the HTTP server
  seed          Create the admin account and starter content
  version       Print the inkwell version
  help          Show this help message

Configuration comes from inkwell.toml (override with INKWELL_CONFIG) and
environment variables. JWT_SECRET is required; seeding also needs
ADMIN_PASSWORD.`)
}
