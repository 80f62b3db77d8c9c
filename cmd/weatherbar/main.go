// SPDX-FileCopyrightText: The weatherbar authors
//
// SPDX-License-Identifier: MIT

//go:build linux

// Package main implements the weatherbar widget daemon.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/weatherbar/weatherbar/internal/config"
	"github.com/weatherbar/weatherbar/internal/display"
	"github.com/weatherbar/weatherbar/internal/logger"
	"github.com/weatherbar/weatherbar/internal/service"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const triggerBufferSize = 4

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGABRT,
		os.Interrupt)
	defer cancel()

	// Initialize Logger
	log := logger.New(slog.LevelError)

	// Read config
	confRead := false
	confPath := flag.String("config", "", "path to the config file")
	flag.Parse()

	// Read default config
	conf, err := config.New()
	if err != nil {
		log.Error("failed to load config", logger.Err(err))
		os.Exit(1)
	}

	// If config file was specified, read it
	if *confPath != "" {
		file := filepath.Base(*confPath)
		path := filepath.Dir(*confPath)
		conf, err = config.NewFromFile(path, file)
		if err != nil {
			log.Error("failed to load config from file", logger.Err(err))
			os.Exit(1)
		}
		confRead = true
	}

	// Check if we have a config file in the default location
	if path, file := findConfigFile(); !confRead && (path != "" && file != "") {
		conf, err = config.NewFromFile(path, file)
		if err != nil {
			log.Error("failed to load config from file", logger.Err(err))
			os.Exit(1)
		}
	}

	log = logger.New(conf.LogLevel)

	provider, err := service.SelectWeatherProvider(conf, log)
	if err != nil {
		log.Error("failed to select weather provider", logger.Err(err))
		os.Exit(1)
	}
	locator, err := service.SelectLocator(conf, log)
	if err != nil {
		log.Error("failed to select geolocation capability", logger.Err(err))
		os.Exit(1)
	}

	// The widget renders into the status bar via stdout
	region := display.NewBarRegion(os.Stdout)

	// Initialize the service
	serv, err := service.New(conf, log, provider, locator, region)
	if err != nil {
		log.Error("failed to initialize weatherbar service", logger.Err(err))
		os.Exit(1)
	}

	// SIGUSR1 requests current-location weather, SIGUSR2 re-activates the default location
	currentTrigger := make(chan os.Signal, triggerBufferSize)
	fallbackTrigger := make(chan os.Signal, triggerBufferSize)
	signal.Notify(currentTrigger, syscall.SIGUSR1)
	signal.Notify(fallbackTrigger, syscall.SIGUSR2)
	defer signal.Stop(currentTrigger)
	defer signal.Stop(fallbackTrigger)
	go serv.HandleTriggerSignals(ctx, currentTrigger, fallbackTrigger)

	// Start the service loop
	log.Info("starting weatherbar service", slog.String("version", version),
		slog.String("commit", commit), slog.String("date", date))
	if err = serv.Run(ctx); err != nil {
		log.Error("failed to start weatherbar service", logger.Err(err))
	}
	log.Info("shutting down weatherbar service")
}

func findConfigFile() (string, string) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(homedir, ".config", "weatherbar", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}
