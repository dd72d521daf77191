package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/milk9111/tilerpg/actor"
	"github.com/milk9111/tilerpg/common"
	"github.com/milk9111/tilerpg/levels"
	"github.com/milk9111/tilerpg/scene"
)

var (
	flagTicks int
	flagWalk  string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <map>",
	Short: "Run a map headlessly and report what happens",
	Long: `Starts the party on the map's start position and runs the given number
of ticks. --walk queues one-tile steps taken whenever the player stands
still. Dialog lines are printed and dismissed on the next tick, and map
changes are followed immediately.`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagTicks, "ticks", 600, "Number of ticks to run")
	simulateCmd.Flags().StringVar(&flagWalk, "walk", "", "Comma separated steps, e.g. down,down,left")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	walk, err := parseWalk(flagWalk)
	if err != nil {
		return err
	}
	e, err := newEnv(cfg, levels.FS(cfg.MapsDir))
	if err != nil {
		return err
	}
	_, err = simulate(cmd.OutOrStdout(), e, args[0], flagTicks, walk)
	return err
}

type summary struct {
	Ticks    int
	Cues     int
	Dialogs  int
	Changes  int
	Map      string
	Position common.Vec2
}

func simulate(w io.Writer, e *env, name string, ticks int, walk []actor.Direction) (summary, error) {
	world := e.world()
	if err := world.Start(name); err != nil {
		return summary{}, err
	}

	var s summary
	shown := false
	for tick := 1; tick <= ticks; tick++ {
		var in scene.Intent
		if _, ok := world.Dialog(); ok {
			in.Activate = true
			shown = false
		} else if len(walk) > 0 && !world.Player().IsMoving() {
			in.Move, walk = walk[0], walk[1:]
		}

		res := world.Step(in)
		s.Ticks++
		for _, cue := range res.Cues {
			s.Cues++
			fmt.Fprintf(w, "%6d cue %s\n", tick, cue)
		}
		if d, ok := world.Dialog(); ok && !shown {
			shown = true
			s.Dialogs++
			fmt.Fprintf(w, "%6d say #%d %q\n", tick, d.Speaker, d.Text)
		}
		if res.Change != nil {
			s.Changes++
			fmt.Fprintf(w, "%6d map %s entry %d\n", tick, res.Change.Map, res.Change.Entry)
			if err := world.Enter(*res.Change); err != nil {
				return s, err
			}
		}
	}

	s.Map = world.Map().Name()
	s.Position = world.Player().Position
	fmt.Fprintf(w, "done: %d ticks on %s, player at (%g,%g), %d cues, %d dialogs, %d map changes\n",
		s.Ticks, s.Map, s.Position.X, s.Position.Y, s.Cues, s.Dialogs, s.Changes)
	return s, nil
}

func parseWalk(s string) ([]actor.Direction, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []actor.Direction
	for _, part := range strings.Split(s, ",") {
		d, err := actor.ParseDirection(part)
		if err != nil {
			return nil, err
		}
		if d != actor.DirNone {
			out = append(out, d)
		}
	}
	return out, nil
}
