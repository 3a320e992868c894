package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/native/internal/config"
	"github.com/vango-dev/native/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries what every command needs once flags are parsed.
type app struct {
	configPath string
	noColor    bool

	cfg *config.Config
	log *slog.Logger
}

func main() {
	if err := newRootCmd(os.Stderr).Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "vnative",
		Short: "Diff, render and inspect native widget trees",
		Long: `vnative drives the widget-tree reconciliation engine from YAML tree
fixtures: print the patches between two trees, render trees through the
terminal toolkit, or serve a live inspector while a sequence of trees is
applied.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(logOut)
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file or directory (default ./vnative.yaml)")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		diffCmd(a),
		renderCmd(a),
		inspectCmd(a),
		versionCmd(),
	)
	return root
}

func (a *app) setup(logOut io.Writer) error {
	errors.SetColor(!a.noColor && errors.IsTerminal(os.Stderr))

	var err error
	switch {
	case a.configPath == "":
		a.cfg, err = config.Load(".")
	case isDir(a.configPath):
		a.cfg, err = config.Load(a.configPath)
	default:
		a.cfg, err = config.LoadFile(a.configPath)
	}
	if err != nil {
		return err
	}

	a.log = a.cfg.Logger(logOut)
	slog.SetDefault(a.log)
	if p := a.cfg.Path(); p != "" {
		a.log.Debug("config loaded", "path", p)
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
