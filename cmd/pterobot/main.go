package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/qysp/pterobot/pkg/common"
	"github.com/qysp/pterobot/pkg/common/config"
	"github.com/qysp/pterobot/pkg/core"
)

type options struct {
	EnvFile string `long:"env-file" description:"Environment file to load" default:".env"`
	Gateway string `long:"gateway" description:"Discord library receiving commands" choice:"disgord" choice:"discordgo"`
	Debug   bool   `long:"debug" description:"Enable debug logging"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Load env variables. A missing file is fine when the environment is set directly.
	if _, err := os.Stat(opts.EnvFile); err == nil {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			panic(err)
		}
	}

	if opts.Gateway != "" {
		os.Setenv("GATEWAY", opts.Gateway)
	}
	if opts.Debug {
		os.Setenv("DEBUG", "true")
	}

	debug, _ := strconv.ParseBool(os.Getenv("DEBUG"))
	if err := common.InitLogger(debug); err != nil {
		panic(err)
	}
	defer common.Logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		common.Logger.Fatal(err)
	}

	bot, err := core.New(cfg)
	if err != nil {
		common.Logger.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bot.Run(ctx); err != nil {
		common.Logger.Error(err)
	}
}
