package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/phanxgames/flowsync"
	"github.com/urfave/cli/v3"
)

var errNoProject = errors.New("missing project file argument")

func NewValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Aliases:   []string{"v"},
		Usage:     "Validate a project definition",
		ArgsUsage: "<project.yaml>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			def, err := loadArg(cmd)
			if err != nil {
				return err
			}
			widgets := 0
			for _, p := range def.Pages {
				widgets += countWidgets(p.Widgets)
			}
			_, err = fmt.Fprintf(output(cmd), "%s: ok (%d pages, %d widgets, %d variables)\n",
				cmd.Args().First(), len(def.Pages), widgets, len(def.Variables))
			return err
		},
	}
}

// loadArg loads the project named by the first positional argument.
func loadArg(cmd *cli.Command) (*flowsync.ProjectDef, error) {
	path := cmd.Args().First()
	if path == "" {
		return nil, errNoProject
	}
	return flowsync.LoadProject(path)
}

// output returns the writer command output goes to.
func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func countWidgets(ws []flowsync.WidgetDef) int {
	n := len(ws)
	for _, w := range ws {
		n += countWidgets(w.Children)
	}
	return n
}
