package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/funvibe/switchcase/internal/catalog"
	"github.com/funvibe/switchcase/internal/config"
)

func newCatalogCmd(e *env) *cobra.Command {
	var db string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "manage call points stored in a sqlite catalog",
	}
	cmd.PersistentFlags().StringVar(&db, "db", config.DefaultCatalogFile, "catalog path")

	open := func(cmd *cobra.Command) (*catalog.Catalog, error) {
		return catalog.Open(cmd.Context(), db, catalog.WithLogger(e.logger()))
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "import",
			Short: "store every manifest call point in the catalog",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, path, err := e.loadManifest()
				if err != nil {
					return err
				}
				defs, err := m.Definitions()
				if err != nil {
					return err
				}
				cat, err := open(cmd)
				if err != nil {
					return err
				}
				defer cat.Close()
				for _, d := range defs {
					if err := cat.Save(cmd.Context(), d); err != nil {
						return err
					}
				}
				fmt.Fprintf(e.stdout, "Imported %d call points from %s into %s %s\n", len(defs), path, db, e.ok())
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "list stored call points",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cat, err := open(cmd)
				if err != nil {
					return err
				}
				defer cat.Close()
				defs, err := cat.List(cmd.Context())
				if err != nil {
					return err
				}
				for _, d := range defs {
					labels := make([]string, len(d.Labels))
					for i, l := range d.Labels {
						labels[i] = l.Text
						if l.Null {
							labels[i] = "~"
						}
					}
					fmt.Fprintf(e.stdout, "%s\t%s\t%s\t[%s]\n", d.ID, d.Domain, d.Signature(), strings.Join(labels, ", "))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <call-point>",
			Short: "remove a stored call point",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cat, err := open(cmd)
				if err != nil {
					return err
				}
				defer cat.Close()
				return cat.Delete(cmd.Context(), args[0])
			},
		},
	)
	return cmd
}
