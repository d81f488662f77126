package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/woozymasta/synthgeo/internal/config"
	"github.com/woozymasta/synthgeo/internal/logger"
	"github.com/woozymasta/synthgeo/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"    env:"CONFIG_FILE"    description:"Path to configuration file"    default:"config.yaml"`
	Addr       string `short:"a" long:"addr"      env:"LISTEN_ADDRESS" description:"Address to listen on"          default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"      env:"LISTEN_PORT"    description:"Port to listen on"             default:"8080"`
	TilesDir   string `short:"t" long:"tiles-dir" env:"TILES_DIR"      description:"Directory of pre-generated tiles"`
	Seed       uint64 `short:"s" long:"seed"      env:"SEED"           description:"Generator seed, 0 for random"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, found, err := config.LoadOptional(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if !found {
		log.Warn().Str("path", opts.ConfigFile).Msg("Configuration file not found, using built-in cases")
	}

	if opts.TilesDir != "" {
		cfg.TilesDir = opts.TilesDir
	}
	if opts.Seed != 0 {
		cfg.Seed = opts.Seed
	}

	srvCtx, err := server.NewServerContext(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Strs("cases", srvCtx.Catalog.Names()).
		Str("tiles_dir", cfg.TilesDir).
		Msg("Web server started")

	if err := http.ListenAndServe(listenAddr, srvCtx.Routes()); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
