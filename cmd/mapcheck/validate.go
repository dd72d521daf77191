package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/milk9111/tilerpg/levels"
)

var validateCmd = &cobra.Command{
	Use:   "validate [map...]",
	Short: "Load maps and check their teleport links",
	Long: `Loads every named map, or every map in the level tree when none is
named, and checks that each cross-map teleport points at an entry.`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cfg, levels.FS(cfg.MapsDir))
	if err != nil {
		return err
	}
	return validateMaps(cmd.OutOrStdout(), e, args)
}

// validateMaps reports one line per map and fails if any map did.
func validateMaps(w io.Writer, e *env, names []string) error {
	if len(names) == 0 {
		var err error
		if names, err = levels.Names(e.fsys); err != nil {
			return err
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("no maps found")
	}

	failed := 0
	for _, name := range names {
		m, err := e.loader.Load(name)
		if err == nil {
			err = e.loader.CheckLinks(m)
		}
		if err == nil {
			err = e.scripts.Attach(m)
		}
		if err != nil {
			failed++
			fmt.Fprintf(w, "FAIL %s: %v\n", name, err)
			continue
		}
		fmt.Fprintf(w, "ok   %s (%d layers, %d actors)\n", name, len(m.Layers()), m.ActorCount())
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d maps failed", failed, len(names))
	}
	return nil
}
