package main

import (
	"context"
	"flag"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/pcstyleorg/sen/internal/bot"
	"github.com/pcstyleorg/sen/internal/config"
	"github.com/pcstyleorg/sen/internal/history"
	"github.com/pcstyleorg/sen/internal/store"
	"github.com/pcstyleorg/sen/internal/ws"
)

func runServe(cfg config.Config, log *logrus.Logger, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cfg.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	hub := ws.NewHub(log)
	hub.PeekRevealDelay = cfg.PeekRevealDelay
	hub.BotDelay = cfg.BotDelay

	if cfg.BotProfilePath != "" {
		profiles, err := bot.LoadProfiles(cfg.BotProfilePath)
		if err != nil {
			return err
		}
		hub.SetProfiles(profiles)
	}

	// Persistence and history are optional; the server plays fine without
	// either backing service.
	if cfg.DatabaseURL != "" {
		st, err := store.New(context.Background(), cfg.DatabaseURL, log)
		if err != nil {
			return err
		}
		defer st.Close()
		hub.SetStore(st)
		log.Info("round persistence enabled")
	}
	if cfg.RedisAddr != "" {
		pub, err := history.New(context.Background(), cfg.RedisAddr, log)
		if err != nil {
			return err
		}
		defer pub.Close()
		hub.SetHistory(pub)
		log.Info("action history enabled")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	log.WithField("addr", *addr).Info("sen server listening")
	return http.ListenAndServe(*addr, mux)
}
