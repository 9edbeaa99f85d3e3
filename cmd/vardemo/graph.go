package main

import (
	"fmt"
	"time"

	"github.com/zng-ui/zvar/pkg/vars"
)

// Demo is the one reactive variable graph every subcommand drives. It
// exercises a Cell, a Map, a When, an eased Cell, and an ObservableVec so
// each subcommand proves out a different slice of the scheduler.
type Demo struct {
	App *vars.App

	Counter  *vars.Cell[int]
	Label    vars.Var[string]
	Busy     *vars.Cell[bool]
	Progress *vars.Cell[vars.Float64]
	Status   vars.Var[string]
	Todos    *vars.ObservableVec[string]
}

// NewDemo builds the graph against app.
func NewDemo(app *vars.App) *Demo {
	counter := vars.NewCell(app, 0)
	busy := vars.NewCell(app, false)
	progress := vars.NewCell[vars.Float64](app, 0)
	todos := vars.NewObservableVec[string](app, "write the spec", "build the runtime")

	label := vars.Map(vars.Var[int](counter), func(n int) string {
		return fmt.Sprintf("clicked %d times", n)
	})

	idle := vars.NewCell(app, "idle message")
	busyLabel := vars.Map(vars.Var[bool](busy), func(b bool) string {
		if b {
			return "animating…"
		}
		return ""
	})

	status := vars.When[string](vars.Var[string](idle),
		vars.WhenArm[string]{Condition: vars.Var[bool](busy), Value: busyLabel},
	)

	return &Demo{
		App:      app,
		Counter:  counter,
		Label:    label,
		Busy:     busy,
		Progress: progress,
		Status:   status,
		Todos:    todos,
	}
}

// Increment bumps the click counter.
func (d *Demo) Increment() { d.Counter.Set(d.Counter.Peek() + 1) }

// AddTodo appends an item to the todo list.
func (d *Demo) AddTodo(text string) { d.Todos.Push(text) }

// RemoveTodo removes the item at index, if in range.
func (d *Demo) RemoveTodo(index int) {
	if index < 0 || index >= d.Todos.Len() {
		return
	}
	d.Todos.Remove(index)
}

// RunProgress eases Progress from 0 to 100 over duration, flipping Busy for
// the duration of the animation.
func (d *Demo) RunProgress(duration time.Duration) {
	d.Progress.Set(0)
	d.Busy.Set(true)
	d.App.Drain()
	handle := vars.Ease[vars.Float64](d.Progress, 100, duration, vars.EaseOut(vars.Cubic))
	go func() {
		for handle.IsRunning() {
			time.Sleep(10 * time.Millisecond)
		}
		d.Busy.Set(false)
		d.App.Drain()
	}()
}

// Snapshot is the JSON-serializable view of the graph's current state,
// shared by the serve and bench subcommands.
type Snapshot struct {
	Counter  int      `json:"counter"`
	Label    string   `json:"label"`
	Busy     bool     `json:"busy"`
	Progress float64  `json:"progress"`
	Status   string   `json:"status"`
	Todos    []string `json:"todos"`
}

func (d *Demo) Snapshot() Snapshot {
	return Snapshot{
		Counter:  d.Counter.Get(),
		Label:    d.Label.Get(),
		Busy:     d.Busy.Get(),
		Progress: float64(d.Progress.Get()),
		Status:   d.Status.Get(),
		Todos:    d.Todos.Get(),
	}
}
