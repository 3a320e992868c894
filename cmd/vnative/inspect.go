package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/vango-dev/native/internal/errors"
	"github.com/vango-dev/native/internal/inspector"
	"github.com/vango-dev/native/internal/treefile"
	"github.com/vango-dev/native/pkg/native"
	"github.com/vango-dev/native/pkg/vdom"
)

func inspectCmd(a *app) *cobra.Command {
	var (
		addr     string
		interval time.Duration
		loop     bool
		width    int
	)

	cmd := &cobra.Command{
		Use:   "inspect STEPS.yaml",
		Short: "Serve the inspector while replaying a sequence of trees",
		Long: `Mount the first tree of STEPS.yaml on the terminal toolkit, then apply
the remaining trees one by one, every --interval, while serving the inspector:

  /tree, /render, /batches, /metrics and the /ws patch feed.

Press Ctrl+C to stop.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := treefile.LoadAll(args[0])
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.Inspector.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.inspect(ctx, addr, steps, interval, loop, width, cmd)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "delay between steps")
	cmd.Flags().BoolVar(&loop, "loop", false, "start over after the last step")
	cmd.Flags().IntVarP(&width, "width", "w", 0, "render width for /render")
	return cmd
}

func (a *app) inspect(ctx context.Context, addr string, steps []*vdom.VNode, interval time.Duration, loop bool, width int, cmd *cobra.Command) error {
	tk, width, err := termToolkit(a.cfg, "", width)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := native.NewMetrics(
		native.WithNamespace(a.cfg.Metrics.Namespace),
		native.WithSubsystem(a.cfg.Metrics.Subsystem),
		native.WithRegistry(reg),
	)

	// The reconciler only runs on this goroutine; /render draws a fresh
	// tree so it never touches the live widgets.
	in := inspector.New(inspector.Options{
		Logger:   a.log,
		Gatherer: reg,
		History:  a.cfg.Inspector.History,
		Render: func(v *vdom.VNode) []string {
			screen := tk.NewScreen()
			built, err := native.Build(tk, v)
			if err != nil {
				return []string{err.Error()}
			}
			if err := tk.AddChild(screen, built.Widget); err != nil {
				return []string{err.Error()}
			}
			tk.Show(screen)
			return tk.Render(screen, width)
		},
	})
	defer in.Close()

	r := native.NewReconciler(tk,
		native.WithLogger(a.log),
		native.WithMetrics(metrics),
		native.WithTracer(otel.Tracer(a.cfg.Tracing.Tracer)),
		native.WithRebuildOnDrift(a.cfg.RebuildOnDrift()),
		native.WithObserver(in.Observe),
	)
	screen := tk.NewScreen()
	if err := r.Mount(ctx, screen, steps[0]); err != nil {
		return errors.FromError(err, "V022")
	}
	in.SetTree(steps[0])

	srv := &http.Server{Addr: addr, Handler: in.Handler(), ReadHeaderTimeout: 5 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "inspector listening on http://%s\n", addr)
	a.log.Info("inspector started", "addr", addr, "steps", len(steps))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	next := 1
	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		case err := <-serveErr:
			if stderrors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return errors.New("V060").Wrap(err)
		case <-ticker.C:
			if next >= len(steps) {
				if !loop {
					continue
				}
				next = 0
			}
			if err := r.Update(ctx, steps[next]); err != nil {
				a.log.Warn("update failed", "step", next+1, "error", err)
			}
			next++
		}
	}
}
