package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/native/internal/config"
	"github.com/vango-dev/native/internal/errors"
	"github.com/vango-dev/native/internal/treefile"
	"github.com/vango-dev/native/pkg/native"
	"github.com/vango-dev/native/pkg/toolkit/term"
	"github.com/vango-dev/native/pkg/vdom"
)

func renderCmd(a *app) *cobra.Command {
	var (
		width     int
		themePath string
		showPatch bool
	)

	cmd := &cobra.Command{
		Use:   "render TREE.yaml...",
		Short: "Draw trees with the terminal toolkit",
		Long: `Render tree fixtures as terminal text. The first tree is mounted; every
later tree, whether a later document in the same file or a later file, is
applied as an update to the same widgets and drawn again.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var steps []*vdom.VNode
			for _, path := range args {
				trees, err := treefile.LoadAll(path)
				if err != nil {
					return err
				}
				steps = append(steps, trees...)
			}

			tk, w, err := termToolkit(a.cfg, themePath, width)
			if err != nil {
				return err
			}
			return renderSteps(cmd.Context(), a, tk, w, steps, showPatch, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 0, "render width in cells (default from config or theme)")
	cmd.Flags().StringVar(&themePath, "theme", "", "TOML theme file (default from config)")
	cmd.Flags().BoolVar(&showPatch, "patches", false, "print the patches applied before each update")
	return cmd
}

// termToolkit builds the terminal toolkit from flags, falling back to config
// and then to the theme.
func termToolkit(cfg *config.Config, themePath string, width int) (*term.Toolkit, int, error) {
	if themePath == "" {
		themePath = cfg.ThemePath()
	}
	theme, err := term.LoadTheme(themePath)
	if err != nil {
		return nil, 0, errors.New("V042").Wrap(err)
	}
	if width == 0 {
		width = cfg.Term.Width
	}
	if width == 0 {
		width = theme.Width
	}
	return term.New(theme), width, nil
}

func renderSteps(ctx context.Context, a *app, tk *term.Toolkit, width int, steps []*vdom.VNode, showPatch bool, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	screen := tk.NewScreen()
	r := native.NewReconciler(tk,
		native.WithLogger(a.log),
		native.WithRebuildOnDrift(a.cfg.RebuildOnDrift()),
	)
	if err := r.Mount(ctx, screen, steps[0]); err != nil {
		return errors.FromError(err, "V022")
	}
	draw(out, tk.Render(screen, width))

	for i, next := range steps[1:] {
		fmt.Fprintf(out, "%s step %d %s\n", strings.Repeat("-", 2), i+2, strings.Repeat("-", max(width-12, 2)))
		if showPatch {
			for _, p := range vdom.Diff(r.Tree(), next) {
				fmt.Fprintf(out, "  %s\n", p)
			}
		}
		if err := r.Update(ctx, next); err != nil {
			return errors.FromError(err, "V020")
		}
		draw(out, tk.Render(screen, width))
	}
	return nil
}

func draw(out io.Writer, lines []string) {
	for _, l := range lines {
		fmt.Fprintln(out, strings.TrimRight(l, " "))
	}
}
