package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"clashberry/bot"
	"clashberry/coc"
	"clashberry/config"
	"clashberry/handlers"
	"clashberry/lang"
	"clashberry/storage"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to config file")
	langPath := flag.String("lang", "messages.yml", "Path to message catalog")
	cleanup := flag.Bool("cleanup", false, "Remove slash commands on shutdown")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Discord.Token == "" {
		log.Fatal("Set your bot token in config.json → discord.token or DISCORD_TOKEN")
	}
	if cfg.CoC.APIToken == "" {
		log.Fatal("Set your Clash of Clans API token in config.json → coc.api_token or API_TOKEN")
	}

	lang.Load(*langPath)

	storage.InitLinkStore(cfg)
	handlers.Links = storage.Links

	storage.TicketCfg = storage.NewTicketConfigStore(cfg.DataDir)
	storage.TicketCfg.Load()
	handlers.TicketCfg = storage.TicketCfg

	if err := storage.InitDB(&cfg.Database); err != nil {
		log.Printf("WARNING: Database init failed (%v). Ticket events will not be recorded.", err)
	} else {
		handlers.Events = storage.DB
		defer storage.DB.Close()
	}

	handlers.CoC = coc.NewClient(cfg.CoC.BaseURL, cfg.CoC.APIToken)
	handlers.LogChannelID = cfg.Discord.LogChannel

	b, err := bot.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	handlers.Register(b.Session)

	if err := b.Start(); err != nil {
		log.Fatalf("Failed to start bot: %v", err)
	}
	defer b.Stop()

	registered := b.RegisterCommands(handlers.Commands())

	log.Println("Bot is running. Press Ctrl+C to exit.")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	if *cleanup {
		b.CleanupCommands(registered)
	}
}
