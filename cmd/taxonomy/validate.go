package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seclattice/taxonomy/validate"
	"github.com/seclattice/taxonomy/validate/compatibility"
)

func newValidateCommand(root *rootOptions) *cobra.Command {
	var (
		infoFindings    []string
		warningFindings []string
		errorFindings   []string
		fatalFindings   []string
	)

	cmd := &cobra.Command{
		Use:   "validate <before> <after>",
		Short: "Validate that schema changes preserve backward compatibility",
		Long: "Validate the changes between two resolved schemas, each given as a " +
			"schema file path or a schema server version. Exits with status 2 when " +
			"error or fatal findings exist.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			beforeRef := root.v.GetString("before")
			afterRef := root.v.GetString("after")
			if len(args) > 0 {
				beforeRef = args[0]
			}
			if len(args) > 1 {
				afterRef = args[1]
			}
			if beforeRef == "" || afterRef == "" {
				return fmt.Errorf("before and after schemas required, as arguments or config keys")
			}

			before, after, err := loadPair(cmd, root, beforeRef, afterRef)
			if err != nil {
				return err
			}

			severities := map[string]validate.Severity{}
			for name, value := range root.v.GetStringMapString("severity") {
				severity, err := validate.ParseSeverity(value)
				if err != nil {
					return err
				}
				severities[name] = severity
			}
			for severity, names := range map[validate.Severity][]string{
				validate.SeverityInfo:    infoFindings,
				validate.SeverityWarning: warningFindings,
				validate.SeverityError:   errorFindings,
				validate.SeverityFatal:   fatalFindings,
			} {
				for _, name := range names {
					severities[name] = severity
				}
			}

			runner, err := compatibility.NewValidator(validate.WithSeverities(severities))
			if err != nil {
				return err
			}
			report, err := runner.Run(compatibility.NewContext(before, after))
			if err != nil {
				return err
			}

			var formatOpts []validate.FormatOption
			if !root.noColor {
				formatOpts = append(formatOpts, validate.WithColor())
			}
			validate.Format(cmd.OutOrStdout(), report, formatOpts...)

			if validate.CountSeverity(report, validate.SeverityError) > 0 {
				return errFindings
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&infoFindings, "info", nil, "downgrade the named finding types to info")
	flags.StringSliceVar(&warningFindings, "warning", nil, "set the named finding types to warning")
	flags.StringSliceVar(&errorFindings, "error", nil, "set the named finding types to error")
	flags.StringSliceVar(&fatalFindings, "fatal", nil, "escalate the named finding types to fatal")
	return cmd
}
