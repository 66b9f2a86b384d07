// Package main provides the entry point for the Emoji Overlay application.
package main

import (
	"flag"
	"log/slog"
	"os"

	"emojioverlay/internal/app"
	"emojioverlay/internal/config"
	ovimage "emojioverlay/internal/image"
	"emojioverlay/internal/version"
	"emojioverlay/ui/mainwindow"
	"emojioverlay/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const appID = "io.github.emojioverlay"

func main() {
	configPath := flag.String("config", "", "Path to YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	logger := app.NewLogger(cfg, os.Stderr)
	slog.SetDefault(logger)
	logger.Info("starting emoji overlay", "version", version.String())

	session, err := app.NewSession(cfg, 0, logger)
	if err != nil {
		logger.Error("failed to create session", "error", err)
		os.Exit(1)
	}
	defer session.Close()

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.EmojiOverlayTheme{})
	appPrefs := prefs.Load()

	win := mainwindow.New(fyneApp, session, appPrefs)

	// Handle command line arguments
	if path := flag.Arg(0); path != "" {
		if ovimage.IsSupportedFormat(path) {
			win.LoadImageFile(path)
		} else {
			logger.Warn("ignoring unsupported image argument", "path", path)
		}
	}

	win.ShowAndRun()

	if err := win.SavePreferences(); err != nil {
		logger.Warn("failed to save preferences", "path", appPrefs.Path(), "error", err)
	}
}
