package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/native/internal/errors"
	"github.com/vango-dev/native/internal/inspector"
	"github.com/vango-dev/native/internal/treefile"
	"github.com/vango-dev/native/pkg/native"
	"github.com/vango-dev/native/pkg/toolkit/retained"
	"github.com/vango-dev/native/pkg/vdom"
	"github.com/vango-dev/native/pkg/wire"
)

func diffCmd(a *app) *cobra.Command {
	var (
		asJSON   bool
		check    bool
		wirePath string
	)

	cmd := &cobra.Command{
		Use:   "diff OLD.yaml NEW.yaml",
		Short: "Print the patches that turn one tree into another",
		Long: `Diff two tree fixtures and print the patches, one per line, in the
order they must be applied. With --check the patches are also applied to a
retained widget tree built from OLD, both directly and after a trip through
the binary wire format, and each result is compared with a tree built
directly from NEW. --wire writes the encoded frame to a file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prev, err := treefile.Load(args[0])
			if err != nil {
				return err
			}
			next, err := treefile.Load(args[1])
			if err != nil {
				return err
			}

			patches := vdom.Diff(prev, next)
			a.log.Debug("diffed", "old", args[0], "new", args[1], "patches", len(patches))

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(inspector.Describe(patches)); err != nil {
					return err
				}
			} else {
				for _, p := range patches {
					fmt.Fprintln(out, p)
				}
				if len(patches) == 0 {
					fmt.Fprintln(out, "no changes")
				}
			}

			if wirePath != "" {
				frame := wire.EncodeBatch(wire.Batch{Seq: 1, Patches: patches})
				if err := os.WriteFile(wirePath, frame, 0o644); err != nil {
					return errors.New("V062").WithDetail("Cannot write " + wirePath).Wrap(err)
				}
				a.log.Debug("wrote frame", "path", wirePath, "bytes", len(frame))
			}

			if check {
				if err := checkRoundTrip(cmd.Context(), a, prev, next, patches); err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "round trip ok")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print patches as JSON")
	cmd.Flags().BoolVar(&check, "check", false, "apply the patches to a retained tree and verify the result")
	cmd.Flags().StringVar(&wirePath, "wire", "", "write the patches as a binary frame to this file")
	return cmd
}

// checkRoundTrip patches retained trees built from prev and compares them
// with one built from next. One tree is updated through the reconciler, the
// other by applying the patches decoded from a wire frame.
func checkRoundTrip(ctx context.Context, a *app, prev, next *vdom.VNode, patches []vdom.Patch) error {
	if ctx == nil {
		ctx = context.Background()
	}
	tk := retained.New()
	opts := []native.Option{native.WithLogger(a.log), native.WithRebuildOnDrift(false)}

	fresh := retained.NewWindow("fresh")
	if err := native.NewReconciler(tk, opts...).Mount(ctx, fresh, next); err != nil {
		return errors.FromError(err, "V022")
	}
	want := retained.Describe(fresh)

	patched := retained.NewWindow("patched")
	r := native.NewReconciler(tk, opts...)
	if err := r.Mount(ctx, patched, prev); err != nil {
		return errors.FromError(err, "V022")
	}
	if err := r.Update(ctx, next); err != nil {
		return errors.FromError(err, "V020")
	}
	if diff := cmp.Diff(want, retained.Describe(patched)); diff != "" {
		return errors.Newf(errors.CategoryApply, "patched tree differs from a fresh build").
			Wrap(fmt.Errorf("(-fresh +patched)\n%s", diff))
	}

	batch, err := wire.DecodeBatch(wire.EncodeBatch(wire.Batch{Patches: patches}))
	if err != nil {
		return errors.Newf(errors.CategoryApply, "wire frame does not decode").Wrap(err)
	}
	remote := retained.NewWindow("wire")
	if err := native.NewReconciler(tk, opts...).Mount(ctx, remote, prev); err != nil {
		return errors.FromError(err, "V022")
	}
	if _, err := native.NewApplicator(tk, opts...).Apply(ctx, remote, batch.Patches); err != nil {
		return errors.FromError(err, "V020")
	}
	if diff := cmp.Diff(want, retained.Describe(remote)); diff != "" {
		return errors.Newf(errors.CategoryApply, "tree patched over the wire differs from a fresh build").
			Wrap(fmt.Errorf("(-fresh +wire)\n%s", diff))
	}
	return nil
}
