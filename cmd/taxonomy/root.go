package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/seclattice/taxonomy/api"
)

type rootOptions struct {
	configFile string
	noColor    bool
	serverURL  string
	cacheDir   string
	v          *viper.Viper
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	cmd := &cobra.Command{
		Use:           "taxonomy",
		Short:         "Compile, diff, and validate event-taxonomy schemas",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.load(); err != nil {
				return err
			}
			if opts.noColor {
				color.NoColor = true
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "TOML configuration file")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.StringVar(&opts.serverURL, "url", "", "schema server base URL")
	flags.StringVar(&opts.cacheDir, "cache", "", "schema cache directory")

	cmd.AddCommand(
		newCompileCommand(opts),
		newDiffCommand(opts),
		newValidateCommand(opts),
		newSchemaCommand(opts),
	)
	return cmd
}

// load reads the optional TOML config file. Flags set on the command line
// win over config file values.
func (o *rootOptions) load() error {
	if o.configFile == "" {
		return nil
	}
	o.v.SetConfigFile(o.configFile)
	o.v.SetConfigType("toml")
	if err := o.v.ReadInConfig(); err != nil {
		return fmt.Errorf("config %s: %w", o.configFile, err)
	}
	if o.serverURL == "" {
		o.serverURL = o.v.GetString("url")
	}
	if o.cacheDir == "" {
		o.cacheDir = o.v.GetString("cache")
	}
	return nil
}

// client builds a schema server client, or nil when no server is
// configured.
func (o *rootOptions) client() (*api.Client, error) {
	if o.serverURL == "" {
		return nil, nil
	}
	clientOpts := []api.Option{}
	if o.cacheDir != "" {
		clientOpts = append(clientOpts, api.WithCacheDir(o.cacheDir))
	}
	return api.NewClient(o.serverURL, clientOpts...)
}
