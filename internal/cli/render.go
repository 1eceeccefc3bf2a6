package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inkscene/inkscene/pkg/errors"
	"github.com/inkscene/inkscene/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // output file path (or base path when multiple formats)
	formats    []string
	background string // background color override
	outlines   bool   // draw surface outlines
	anchors    bool   // include anchor points in JSON output
	refresh    bool   // re-render even when cached
	noCache    bool
	redisAddr  string
}

// renderCommand creates the render command for generating scene outputs.
// It supports SVG and JSON formats; multiple formats write sibling files
// sharing a base path.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [scene.toml]",
		Short: "Render a scene file to SVG or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json (comma-separated)")
	cmd.Flags().StringVar(&opts.background, "background", "", "background color override")
	cmd.Flags().BoolVar(&opts.outlines, "outlines", false, "draw surface outlines")
	cmd.Flags().BoolVar(&opts.anchors, "anchors", false, "include anchor points in JSON output")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when a cached artifact exists")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "redis address for a shared artifact cache")

	return cmd
}

// runRender executes the pipeline and writes one file per requested format.
func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()

	runner, err := c.newRunner(ctx, opts.noCache, opts.redisAddr)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		ScenePath:       input,
		Formats:         opts.formats,
		Background:      opts.background,
		SurfaceOutlines: opts.outlines,
		Anchors:         opts.anchors,
		Refresh:         opts.refresh,
		Logger:          c.Logger,
	})
	if err != nil {
		printError("%s", errors.UserMessage(err))
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d shapes", result.Stats.ShapeCount))

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		path := outputPath(base, format, len(opts.formats) == 1, opts.output)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return err
		}
		printFile(path)
	}
	printStats(result.Stats.ShapeCount, result.Stats.LinkCount, result.CacheInfo.RenderHit)
	printNextStep("Inspect relationships", "inkscene inspect "+input)
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output carries a
// format extension, that extension is stripped so multiple formats can share
// the base.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath builds the file name for one format. A single requested format
// with an explicit --output keeps the user's path verbatim.
func outputPath(base, format string, single bool, explicit string) string {
	if single && explicit != "" {
		return explicit
	}
	return base + "." + format
}
