package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seclattice/taxonomy"
	"github.com/seclattice/taxonomy/schema"
)

func newSchemaCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <path-or-version>",
		Short: "Print a resolved schema as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := root.client()
			if err != nil {
				return err
			}
			s, err := taxonomy.LoadSchema(cmd.Context(), args[0], client)
			if err != nil {
				return err
			}
			data, err := schema.ToJSON(s)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
