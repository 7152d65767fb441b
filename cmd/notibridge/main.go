package main

import (
	"context"
	"io"
	"log"
	"os"

	"notibridge/internal/config"
	"notibridge/internal/locale"
	"notibridge/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// The terminal program owns stdout, so diagnostics go to a file when
	// configured and are discarded otherwise.
	if cfg.Debug.Logfile != "" {
		f, err := os.OpenFile(cfg.Debug.Logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("open logfile: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	catalogue := locale.New(cfg.Lang.Default)

	if err := tui.Run(context.Background(), cfg, catalogue); err != nil {
		log.Fatalf("run: %v", err)
	}
}
