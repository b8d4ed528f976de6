// Command rescuesim runs the two-fleet rescue simulation and manages its
// recorded history.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/rescuesim/simulator/internal/config"
	"github.com/rescuesim/simulator/internal/logging"
)

func main() {
	configDir := os.Getenv("RESCUESIM_CONFIG_DIR")
	if configDir == "" {
		configDir = "."
	}

	// Defaults are registered before the file is read, so a missing
	// config file still yields a usable run.
	loadErr := config.Load(configDir)

	logger := setupLogging()
	if loadErr != nil {
		logger.Warn().Err(loadErr).Str("configDir", configDir).
			Msg("no config file loaded, using defaults")
	}

	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		return
	}

	var err error
	switch strings.ToLower(args[0]) {
	case "run":
		err = runSimulation(logger, false)
	case "resume":
		err = runSimulation(logger, true)
	case "list":
		err = listRuns(logger)
	case "export":
		dir := "./exports"
		if len(args) > 1 {
			dir = args[1]
		}
		err = exportRuns(logger, dir)
	default:
		usage()
	}
	if err != nil {
		logger.Fatal().Err(err).Str("command", args[0]).Msg("command failed")
	}
}

func usage() {
	fmt.Println("usage: rescuesim <command>")
	fmt.Println()
	fmt.Println("commands:")
	fmt.Println("  run            run a simulation to completion")
	fmt.Println("  resume         resume from the latest stored snapshot")
	fmt.Println("  list           list recorded runs")
	fmt.Println("  export [dir]   export recorded runs to CSV (default ./exports)")
}

func setupLogging() zerolog.Logger {
	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logs dir: %v\n", err)
		return logging.Setup(nil, viper.GetString("logLevel"))
	}

	path := logging.LogFilePath(logsDir, "rescuesim", time.Now().UTC())
	file, err := os.OpenFile(filepath.Clean(path), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		return logging.Setup(nil, viper.GetString("logLevel"))
	}
	return logging.Setup(file, viper.GetString("logLevel"))
}
