package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inkscene/inkscene/pkg/errors"
	"github.com/inkscene/inkscene/pkg/render/relgraph"
	"github.com/inkscene/inkscene/pkg/scenefile"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	output   string
	format   string // "dot" or "svg"
	detailed bool
}

// inspectCommand creates the inspect command, which renders a scene's
// relationship graph: which shapes sit on which surfaces, which bindings
// reference which frames or paths, and which links tie shapes together.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{format: "dot"}

	cmd := &cobra.Command{
		Use:   "inspect [scene.toml]",
		Short: "Visualize a scene's binding and link relationships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != "dot" && opts.format != "svg" {
				return fmt.Errorf("invalid format: %s (must be 'dot' or 'svg')", opts.format)
			}
			return c.runInspect(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: derived from input)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot (default), svg")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include kinds, bindings, and z-order in labels")

	return cmd
}

func (c *CLI) runInspect(cmd *cobra.Command, input string, opts *inspectOpts) error {
	canvas, err := scenefile.Load(input)
	if err != nil {
		printError("%s", errors.UserMessage(err))
		return err
	}
	c.Logger.Infof("Loaded scene: %d shapes, %d links", len(canvas.Shapes()), len(canvas.Links()))
	if len(canvas.Shapes()) == 0 {
		printWarning("Scene has no shapes")
	}

	dot := relgraph.ToDOT(canvas, relgraph.Options{Detailed: opts.detailed})

	var data []byte
	switch opts.format {
	case "svg":
		spin := newSpinnerWithContext(cmd.Context(), "Laying out relationship graph")
		spin.Start()
		data, err = relgraph.RenderSVG(cmd.Context(), dot)
		spin.Stop()
		if err != nil {
			if !spin.Cancelled() {
				printError("Graph layout failed")
			}
			return err
		}
	default:
		data = []byte(dot)
	}

	path := opts.output
	if path == "" {
		path = strings.TrimSuffix(input, filepath.Ext(input)) + "_relations." + opts.format
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	printSuccess("Generated relationship graph")
	printFile(path)
	return nil
}
