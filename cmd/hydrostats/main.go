package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/chrissnell/hydrostats/internal/app"
	"github.com/chrissnell/hydrostats/internal/log"
	"github.com/chrissnell/hydrostats/pkg/config"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	cfgFile := flag.String("config", "", "Path to YAML configuration. Without it the built-in Wildcat/Tippe\n\t\t\t  comparison is run against record files in the current directory")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	serve := flag.Bool("serve", false, "Serve the result archive over HTTP instead of running an analysis")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("hydrostats %s\n", version)
		os.Exit(0)
	}

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfgData, err := loadConfig(*cfgFile)
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.New(cfgData, log.Named("hydrostats"))
	if *serve {
		err = application.Serve(ctx)
	} else {
		_, err = application.Run(ctx)
	}
	if err != nil {
		log.Errorf("Application error: %v", err)
		log.Sync()
		os.Exit(1)
	}
}

func loadConfig(cfgFile string) (*config.ConfigData, error) {
	if cfgFile == "" {
		cfgData := config.Default()
		if err := config.ApplyEnv(cfgData); err != nil {
			return nil, err
		}
		return cfgData, config.Validate(cfgData)
	}

	filename, _ := filepath.Abs(cfgFile)
	provider := config.NewYAMLProvider(filename)
	defer provider.Close()

	cfgData, err := config.Load(provider)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", filename, err)
	}
	return cfgData, nil
}
