package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/funvibe/switchcase/internal/binding"
)

func newCheckCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "build every call point in the manifest and report errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, e)
		},
	}
}

func runCheck(cmd *cobra.Command, e *env) error {
	m, path, err := e.loadManifest()
	if err != nil {
		return err
	}
	defs, err := m.Definitions()
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Manifest: %s %s\n", path, e.ok())
	fmt.Fprintf(e.stdout, "Call points: %d\n", len(defs))

	ctx := cmd.Context()
	src := m.Source()
	cache := binding.NewCache(binding.WithLogger(e.logger()))
	// Build concurrently; the per-call-point report below reads the cached
	// results.
	_ = cache.Preload(ctx, defs, src)

	failed := 0
	for _, d := range defs {
		h, err := cache.BindDefinition(ctx, d, src)
		if err != nil {
			failed++
			fmt.Fprintf(e.stdout, "  %s %s: %v\n", e.fail(), d.ID, err)
			continue
		}
		r := h.Resolver()
		fmt.Fprintf(e.stdout, "  %s %s  %s %s  %d labels\n", e.ok(), h.ID(), r.Domain(), r.Signature(), r.Len())
	}

	if failed > 0 {
		fmt.Fprintf(e.stdout, "\n%d of %d call points failed\n", failed, len(defs))
		return errPrinted
	}
	fmt.Fprintf(e.stdout, "\nAll call points bound %s\n", e.ok())
	return nil
}
