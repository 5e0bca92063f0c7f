package main

import (
	"context"
	"fmt"
	"io"

	"github.com/phanxgames/flowsync"
	"github.com/urfave/cli/v3"
)

func NewRunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Run a project headless and print the final flow state",
		ArgsUsage: "<project.yaml>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "ticks",
				Usage: "Number of ticks to run",
				Value: 60,
			},
			&cli.StringSliceFlag{
				Name:  "click",
				Usage: "Widget to click before a tick, in order (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Log per-tick statistics",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			def, err := loadArg(cmd)
			if err != nil {
				return err
			}
			p, err := flowsync.Build(def, flowsync.Config{Debug: cmd.Bool("debug")})
			if err != nil {
				return err
			}
			if err := run(ctx, p, cmd.Int("ticks"), cmd.StringSlice("click")); err != nil {
				return err
			}
			return report(output(cmd), p)
		},
	}
}

// run clicks each named widget followed by one tick, then ticks until n
// ticks have run or the flow stops.
func run(ctx context.Context, p *flowsync.Project, n int, clicks []string) error {
	ticks := 0
	for _, name := range clicks {
		h, ok := p.Widget(name)
		if !ok {
			return fmt.Errorf("click: unknown widget %q", name)
		}
		p.Tree.Click(h)
		if !p.Tick() {
			return nil
		}
		ticks++
	}
	for ; ticks < n; ticks++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !p.Tick() {
			return nil
		}
	}
	return nil
}

// report writes the active page and every variable in definition order.
func report(w io.Writer, p *flowsync.Project) error {
	page := "none"
	if i := p.Runtime.CurrentPage(); i != flowsync.NoPage {
		page = p.Def.Pages[i].Name
	}
	if _, err := fmt.Fprintf(w, "page: %s\nsteps: %d\nstopped: %t\n", page, p.Flow.Steps(), p.Flow.Stopped()); err != nil {
		return err
	}
	for _, v := range p.Def.Variables {
		val, _ := p.Flow.Variable(v.Name)
		if _, err := fmt.Fprintf(w, "%s = %s\n", v.Name, val); err != nil {
			return err
		}
	}
	return nil
}
