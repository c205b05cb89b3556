package main

import (
	"flag"
	"io"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/minimap/logging"
)

func main() {
	logLevel := flag.String("log-level", "info", "log level: trace, debug, info, warn, error")
	logFile := flag.String("log-file", "", "also write logs to this file")
	watch := flag.Bool("watch", true, "reload prefabs/minimap.yaml when it changes on disk")
	noTraffic := flag.Bool("no-traffic", false, "do not run the traffic script")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	var fileOut io.Writer
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			errLog := logging.New(*logLevel, os.Stderr, nil)
			errLog.Fatal().Err(err).Str("path", *logFile).Msg("open log file")
		}
		defer f.Close()
		fileOut = f
	}
	log := logging.New(*logLevel, os.Stderr, fileOut)

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("minimap")

	game, err := NewGame(GameOptions{
		Log:        log,
		Watch:      *watch,
		Traffic:    !*noTraffic,
		PixelRatio: ebiten.Monitor().DeviceScaleFactor(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("start game")
	}
	defer game.Close()

	log.Info().Str("loglevel", log.GetLevel().String()).Msg("minimap demo running")
	if err := ebiten.RunGame(game); err != nil {
		log.Error().Err(err).Msg("game stopped")
	}
}
