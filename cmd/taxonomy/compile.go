package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seclattice/taxonomy"
	"github.com/seclattice/taxonomy/schema"
)

func newCompileCommand(root *rootOptions) *cobra.Command {
	var (
		profiles         []string
		ignoreProfiles   []string
		extensions       []string
		ignoreExtensions []string
		noPrefix         bool
		noObjectTypes    bool
		noObservables    bool
		noCategories     bool
	)

	cmd := &cobra.Command{
		Use:   "compile <repo-path>",
		Short: "Compile a repository into a resolved schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []taxonomy.CompileOption
			if profiles != nil {
				opts = append(opts, taxonomy.WithProfiles(profiles...))
			}
			if ignoreProfiles != nil {
				opts = append(opts, taxonomy.WithoutProfiles(ignoreProfiles...))
			}
			if extensions != nil {
				opts = append(opts, taxonomy.WithExtensions(extensions...))
			}
			if ignoreExtensions != nil {
				opts = append(opts, taxonomy.WithoutExtensions(ignoreExtensions...))
			}
			if noPrefix {
				opts = append(opts, taxonomy.WithoutExtensionPrefixes())
			}
			if noObjectTypes {
				opts = append(opts, taxonomy.WithoutObjectTypes())
			}
			if noObservables {
				opts = append(opts, taxonomy.WithoutObservables())
			}
			if noCategories {
				opts = append(opts, taxonomy.WithoutCategoryMapping())
			}

			compiled, err := taxonomy.CompileDir(args[0], opts...)
			if err != nil {
				return err
			}
			data, err := schema.ToJSON(compiled)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&profiles, "profile", nil, "enable only the named profiles")
	flags.StringSliceVar(&ignoreProfiles, "ignore-profile", nil, "disable the named profiles")
	flags.StringSliceVar(&extensions, "extension", nil, "enable only the named extensions")
	flags.StringSliceVar(&ignoreExtensions, "ignore-extension", nil, "disable the named extensions")
	flags.BoolVar(&noPrefix, "no-prefix-extensions", false, "keep extension keys unprefixed")
	flags.BoolVar(&noObjectTypes, "no-object-types", false, "skip object type canonicalization")
	flags.BoolVar(&noObservables, "no-observables", false, "skip observable marking")
	flags.BoolVar(&noCategories, "no-category-mapping", false, "skip mapping events into categories")
	return cmd
}
