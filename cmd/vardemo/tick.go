package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zng-ui/zvar/pkg/vars"
)

func tickCmd() *cobra.Command {
	var (
		frames     int
		frameEvery time.Duration
	)

	cmd := &cobra.Command{
		Use:   "tick",
		Short: "Drive the demo graph headlessly for a fixed number of frames",
		Long: `tick runs the demo graph with a manual clock, driving one
increment, one todo push, and one eased progress animation, then prints one
line per frame showing the counter, label, status, and progress — useful
for watching the scheduler converge without standing up a server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTick(frames, frameEvery)
		},
	}

	cmd.Flags().IntVarP(&frames, "frames", "n", 30, "number of frames to drive")
	cmd.Flags().DurationVar(&frameEvery, "frame", 50*time.Millisecond, "manual clock advance per frame")
	return cmd
}

func runTick(frames int, frameEvery time.Duration) error {
	app := vars.NewApp()
	app.SetClockMode(vars.ClockManual)
	demo := NewDemo(app)

	printBanner()
	info("driving %d frames, %s apart", frames, frameEvery)
	fmt.Println()

	demo.Increment()
	demo.AddTodo("ship cmd/vardemo")
	demo.Progress.Set(0)
	demo.Busy.Set(true)
	vars.Ease[vars.Float64](demo.Progress, 100, time.Duration(frames/2)*frameEvery, vars.EaseOut(vars.Cubic))

	for i := 0; i < frames; i++ {
		app.AdvanceTime(frameEvery)
		snap := demo.Snapshot()
		if snap.Progress >= 100 && demo.Busy.Get() {
			demo.Busy.Set(false)
			app.Drain()
			snap = demo.Snapshot()
		}
		fmt.Printf("frame %3d  counter=%-3d label=%-22q progress=%6.2f status=%q todos=%d\n",
			i+1, snap.Counter, snap.Label, snap.Progress, snap.Status, len(snap.Todos))
	}

	fmt.Println()
	success("done: %d frames, %d drains total", frames, app.UpdateID())
	return nil
}
