package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/foxxcyber/turismo/internal/cli"
	"github.com/foxxcyber/turismo/internal/client"
)

func main() {
	godotenv.Load()

	defaultAPI := os.Getenv("TURISMO_API_URL")
	if defaultAPI == "" {
		defaultAPI = "http://localhost:8080"
	}

	// Root flags (apply to every subcommand)
	api := flag.String("api", defaultAPI, "base URL of the turismo server")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Run(ctx, flag.Args(), cli.Options{
		Client: client.New(*api),
		Out:    os.Stdout,
		Err:    os.Stderr,
	})
	stop()
	os.Exit(code)
}
