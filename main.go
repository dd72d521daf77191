package main

import (
	"fmt"
	"math"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/milk9111/tilerpg/config"
)

var (
	flagConfig      string
	flagMap         string
	flagDebug       bool
	flagBaseMonitor bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tilerpg",
	Short: "Top-down tile map adventure",
	Long: `Runs the game on the configured start map.

Examples:
  tilerpg
  tilerpg --map cave --debug
  tilerpg --config ./configs/engine.yaml`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Engine configuration file")
	rootCmd.Flags().StringVar(&flagMap, "map", "", "Start map name (overrides start_map)")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "Enable debug mode")
	rootCmd.Flags().BoolVarP(&flagBaseMonitor, "base-monitor", "m", false, "Use base monitor instead of primary (for multi-monitor setups)")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagMap != "" {
		cfg.StartMap = flagMap
	}
	log.SetLevel(cfg.Level())
	if flagDebug {
		log.SetLevel(log.DebugLevel)
	}

	if flagBaseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.ScreenWidth, cfg.ScreenHeight)
	ebiten.SetWindowTitle("tilerpg")
	// The map clock converts speeds with the configured rate.
	ebiten.SetTPS(int(math.Round(cfg.TickRate)))

	game, err := NewGame(cfg, flagDebug)
	if err != nil {
		return err
	}
	defer game.Close()

	return ebiten.RunGame(game)
}
