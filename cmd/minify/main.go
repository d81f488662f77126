package main

import (
	"fmt"
	"log"
	"os"

	"github.com/woozymasta/synthgeo/internal/bench"
	"github.com/woozymasta/synthgeo/internal/config"
	"github.com/woozymasta/synthgeo/internal/page"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	Output     string `short:"o" long:"out"    description:"Output file path" default:"assets/index.html"`
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

	cfg, _, err := config.LoadOptional(opts.ConfigFile)
	if err != nil {
		log.Fatal("error read config:", err)
	}

	cat, err := bench.NewCatalog(cfg)
	if err != nil {
		log.Fatal("error build cases:", err)
	}

	html, err := page.Render(cat)
	if err != nil {
		log.Fatal(err)
	}

	if err := os.WriteFile(opts.Output, html, 0644); err != nil {
		log.Fatal(err)
	}

	fmt.Println("minify done")
}
