// mapcheck loads tile maps without opening a window.
//
// Usage:
//
//	mapcheck validate [map...]   - Load maps and check their teleport links
//	mapcheck simulate <map>      - Run a map headlessly and report what happens
//
// Global flags:
//
//	--config <path>   - Engine configuration file
//	--maps <dir>      - Maps directory shadowing the embedded levels
//	--backend <name>  - Collision backend (aabb or chipmunk)
//	--debug           - Debug logging
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/milk9111/tilerpg/config"
)

var (
	// Global flags
	flagConfig  string
	flagMaps    string
	flagBackend string
	flagDebug   bool

	cfg config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mapcheck",
	Short: "Validate and simulate tile maps headlessly",
	Long: `mapcheck loads maps the way the game does, without a window.

Examples:
  mapcheck validate
  mapcheck validate town --maps ./levels
  mapcheck simulate town --ticks 600 --walk down,down,left
  mapcheck simulate cave --backend chipmunk`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Engine configuration file")
	rootCmd.PersistentFlags().StringVar(&flagMaps, "maps", "", "Maps directory (default: embedded levels)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Collision backend: aabb or chipmunk")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(simulateCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagMaps != "" {
		c.MapsDir = flagMaps
	}
	if flagBackend != "" {
		c.CollisionBackend = flagBackend
	}
	if err := c.Validate(); err != nil {
		return err
	}
	log.SetLevel(c.Level())
	if flagDebug {
		log.SetLevel(log.DebugLevel)
	}
	cfg = c
	return nil
}
