package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/pcstyleorg/sen/internal/config"
)

const usage = `usage: sen <command> [flags]

commands:
  serve   run the websocket game server
  play    play a match in the terminal (hotseat or against bots)
  sim     run bot-vs-bot matches and print statistics
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	log := logrus.New()
	log.SetLevel(cfg.LogLevel)

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(cfg, log, os.Args[2:])
	case "play":
		err = runPlay(cfg, log, os.Args[2:])
	case "sim":
		err = runSim(cfg, log, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
