package main

import (
	"github.com/spf13/cobra"

	"github.com/seclattice/taxonomy"
	"github.com/seclattice/taxonomy/compare"
	"github.com/seclattice/taxonomy/schema"
)

func newDiffCommand(root *rootOptions) *cobra.Command {
	var expandChanges bool

	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Diff two resolved schemas",
		Long: "Diff two resolved schemas, each given as a schema file path or a " +
			"schema server version.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			old, new, err := loadPair(cmd, root, args[0], args[1])
			if err != nil {
				return err
			}

			var formatOpts []compare.FormatOption
			if expandChanges {
				formatOpts = append(formatOpts, compare.WithExpandedChanges())
			}
			if root.noColor {
				formatOpts = append(formatOpts, compare.WithoutColor())
			}
			compare.Format(cmd.OutOrStdout(), compare.Diff(old, new), formatOpts...)
			return nil
		},
	}

	cmd.Flags().BoolVar(&expandChanges, "expand-changes", false, "render changes as paired +/- lines")
	return cmd
}

func loadPair(cmd *cobra.Command, root *rootOptions, oldRef, newRef string) (*schema.Schema, *schema.Schema, error) {
	client, err := root.client()
	if err != nil {
		return nil, nil, err
	}
	ctx := cmd.Context()

	old, err := taxonomy.LoadSchema(ctx, oldRef, client)
	if err != nil {
		return nil, nil, err
	}
	new, err := taxonomy.LoadSchema(ctx, newRef, client)
	if err != nil {
		return nil, nil, err
	}
	return old, new, nil
}
