//go:build raylib

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/pingsim/internal/audio"
	"github.com/san-kum/pingsim/internal/config"
	"github.com/san-kum/pingsim/internal/game"
	"github.com/san-kum/pingsim/internal/gui"
)

func init() {
	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "play in a 3D window",
		Args:  cobra.NoArgs,
		RunE:  playWindow,
	}
	guiCmd.Flags().IntVar(&spheres, "spheres", config.DefaultConfig().Spawn.Initial, "spheres dropped at startup")
	guiCmd.Flags().BoolVar(&noAudio, "no-audio", false, "disable impact sounds")
	guiCmd.Flags().StringVar(&sound, "sound", "", "impact sound (wav or mp3)")
	guiCmd.Flags().BoolVar(&watch, "watch", false, "reload --config on change")
	extraCommands = append(extraCommands, guiCmd)
}

func playWindow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := log.New(os.Stderr, "", log.LstdFlags)

	var sink audio.Sink = audio.Discard{}
	if cfg.Audio.Enabled {
		s, closeAudio := audio.Open(cfg.Audio.Sound, logger)
		defer closeAudio()
		sink = s
	}

	var watcher *config.Watcher
	if watch {
		if configFile == "" {
			return fmt.Errorf("--watch needs --config")
		}
		watcher, err = config.Watch(configFile)
		if err != nil {
			return err
		}
		defer watcher.Close()
	}

	sb := &gui.Scoreboard{}
	g, err := game.Load(cmd.Context(), game.Options{
		Config:  cfg,
		Sink:    sink,
		Display: sb,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	return gui.Run(g, sb, gui.Options{Watcher: watcher, Logger: logger})
}
