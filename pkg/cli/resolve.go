package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/funvibe/switchcase/internal/binding"
	"github.com/funvibe/switchcase/internal/callpoint"
	"github.com/funvibe/switchcase/internal/enums"
	"github.com/funvibe/switchcase/internal/resolver"
)

func newResolveCmd(e *env) *cobra.Command {
	var (
		ordinal bool
		literal bool
	)
	cmd := &cobra.Command{
		Use:   "resolve <call-point> <value>",
		Short: "print the index a value selects at a call point",
		Long: `resolve builds one call point from the manifest and prints the index
and outcome for value.

The value null is the absent value unless --literal is given. Integral values
accept Go integer literals and quoted characters; enumerated values are
constant names, or ordinals with --ordinal.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := e.loadManifest()
			if err != nil {
				return err
			}
			def, err := findDefinition(m.Definitions, args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			src := m.Source()
			h, err := binding.NewCache(binding.WithLogger(e.logger())).BindDefinition(ctx, def, src)
			if err != nil {
				return err
			}
			v, err := parseValue(ctx, h.Resolver(), src, args[1], ordinal, literal)
			if err != nil {
				return err
			}
			out := h.Resolve(v)
			fmt.Fprintf(e.stdout, "%d\t%s\n", out.Index, out.Kind)
			return nil
		},
	}
	cmd.Flags().BoolVar(&ordinal, "ordinal", false, "treat an enumerated value as an ordinal")
	cmd.Flags().BoolVar(&literal, "literal", false, "treat null as text, not as the absent value")
	return cmd
}

func findDefinition(list func() ([]callpoint.Definition, error), id string) (callpoint.Definition, error) {
	defs, err := list()
	if err != nil {
		return callpoint.Definition{}, err
	}
	for _, d := range defs {
		if d.ID == id {
			return d, nil
		}
	}
	return callpoint.Definition{}, fmt.Errorf("call point %q is not declared", id)
}

// parseValue converts command-line text to a value of r's domain.
func parseValue(ctx context.Context, r *resolver.Resolver, src resolver.ConstantSource, s string, ordinal, literal bool) (resolver.Value, error) {
	if s == "null" && !literal {
		return resolver.Null(), nil
	}
	switch r.Domain() {
	case resolver.Integral:
		v, err := callpoint.ParseIntLabel(s)
		if err != nil {
			return resolver.Value{}, err
		}
		return resolver.Integer(v), nil
	case resolver.Textual:
		return resolver.Text(s), nil
	}
	if ordinal {
		n, err := strconv.Atoi(s)
		if err != nil {
			return resolver.Value{}, fmt.Errorf("invalid ordinal %q", s)
		}
		return resolver.Ordinal(n), nil
	}
	n, err := enums.Ordinal(ctx, src, r.TypeName(), s)
	if err != nil {
		return resolver.Value{}, err
	}
	return resolver.Ordinal(n), nil
}
