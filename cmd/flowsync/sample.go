package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/mattn/go-isatty"
	"github.com/phanxgames/flowsync"
	"github.com/urfave/cli/v3"
)

func NewSampleCommand() *cli.Command {
	return &cli.Command{
		Name:      "sample",
		Usage:     "Print animated widget geometry at timeline positions",
		ArgsUsage: "<project.yaml>",
		Flags: []cli.Flag{
			&cli.FloatSliceFlag{
				Name:  "at",
				Usage: "Timeline positions to sample",
				Value: []float64{0, 0.25, 0.5, 0.75, 1},
			},
			&cli.BoolFlag{
				Name:  "header",
				Usage: "Print a column header (default: only on a terminal)",
				Value: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			def, err := loadArg(cmd)
			if err != nil {
				return err
			}
			p, err := flowsync.Build(def, flowsync.Config{})
			if err != nil {
				return err
			}
			return sample(output(cmd), p, cmd.FloatSlice("at"), cmd.Bool("header"))
		},
	}
}

// sample scrubs every timeline to each position and writes one row per
// animated widget.
func sample(w io.Writer, p *flowsync.Project, positions []float64, header bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if header {
		fmt.Fprintln(tw, "POS\tWIDGET\tX\tY\tW\tH\tOPACITY\tSCALE\tROTATE")
	}
	for _, pos := range positions {
		p.Runtime.Scrub(pos)
		for _, name := range animatedWidgets(p.Def) {
			h, _ := p.Widget(name)
			wd := p.Tree.Widget(h)
			if wd == nil {
				continue
			}
			fmt.Fprintf(tw, "%.3f\t%s\t%d\t%d\t%d\t%d\t%.2f\t%d\t%d\n",
				pos, name,
				wd.Style(flowsync.StyleX), wd.Style(flowsync.StyleY),
				wd.Style(flowsync.StyleWidth), wd.Style(flowsync.StyleHeight),
				wd.Opacity(), wd.Style(flowsync.StyleScale), wd.Style(flowsync.StyleRotate))
		}
	}
	return tw.Flush()
}

// animatedWidgets returns the names of widgets with keyframes, in definition
// order.
func animatedWidgets(def *flowsync.ProjectDef) []string {
	var names []string
	var walk func([]flowsync.WidgetDef)
	walk = func(ws []flowsync.WidgetDef) {
		for _, w := range ws {
			if len(w.Keyframes) > 0 {
				names = append(names, w.Name)
			}
			walk(w.Children)
		}
	}
	for _, p := range def.Pages {
		walk(p.Widgets)
	}
	return names
}
