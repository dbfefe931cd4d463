package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/specialistvlad/paintworklet/internal/app"
	"github.com/specialistvlad/paintworklet/internal/cli"
)

// main is the entrypoint for the paintworklet application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, os.Args[1:]); err != nil {
		stop()
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical config errors; turn that into an error.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	loader, err := app.LoaderFor(appConfig.ConfigPaths...)
	if err != nil {
		return err
	}
	paintApp := app.NewApp(outW, appConfig, loader)

	results, err := paintApp.Run(ctx)
	for _, res := range results {
		if res.Draw == nil {
			continue
		}
		status := "ok"
		if res.Fallback {
			status = "fallback"
		}
		fmt.Fprintf(outW, "%s\t%s\t%s\n", res.Draw.ID(), status, res.Location)
	}
	return err
}
