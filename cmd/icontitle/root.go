package main

import (
	"github.com/spf13/cobra"

	"icontitle/internal/config"
	"icontitle/internal/orchestrator"
	"icontitle/internal/output"
)

// options holds the command-line flags shared by all commands.
type options struct {
	configPath    string
	referenceFile string
	catalogFile   string
	outputFile    string
	assetsKey     string
	verbose       bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "icontitle",
		Short: "Annotate categorized icon assets with reference descriptions",
		Long: `icontitle reads a flat reference catalog of {path, description} entries and
a categorized asset catalog, and writes a copy of the asset catalog where every
asset whose normalized name shares a prefix with a reference entry carries that
entry's description as its "title".`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			_, err = runOnce(cfg, newOutput(cmd, opts))
			return err
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to a JSON configuration file")
	flags.StringVarP(&opts.referenceFile, "reference", "r", config.DefaultReferenceFile, "Reference catalog (JSON array of {path, description})")
	flags.StringVarP(&opts.catalogFile, "catalog", "i", config.DefaultCatalogFile, "Asset catalog to annotate")
	flags.StringVarP(&opts.outputFile, "output", "o", config.DefaultOutputFile, "Where to write the annotated catalog")
	flags.StringVar(&opts.assetsKey, "assets-key", config.DefaultAssetsKey, "Category field holding the asset list")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Print every assigned title")

	rootCmd.AddCommand(newWatchCmd(opts))
	rootCmd.AddCommand(newStatusCmd(opts))

	return rootCmd
}

// resolveConfig loads the configuration file, if any, and applies flag overrides.
func resolveConfig(cmd *cobra.Command, opts *options) (*config.Configuration, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("reference") || opts.configPath == "" {
		cfg.ReferenceFile = opts.referenceFile
	}
	if flags.Changed("catalog") || opts.configPath == "" {
		cfg.CatalogFile = opts.catalogFile
	}
	if flags.Changed("output") || opts.configPath == "" {
		cfg.OutputFile = opts.outputFile
	}
	if flags.Changed("assets-key") || opts.configPath == "" {
		cfg.AssetsKey = opts.assetsKey
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newOutput(cmd *cobra.Command, opts *options) *output.Output {
	oc := output.DefaultConfig()
	oc.Verbose = opts.verbose
	oc.Writer = cmd.OutOrStdout()
	oc.ErrWriter = cmd.ErrOrStderr()
	return output.New(oc)
}

// runOnce executes the pipeline and reports its outcome.
func runOnce(cfg *config.Configuration, out *output.Output) (*orchestrator.Summary, error) {
	summary, err := orchestrator.Run(cfg)
	if err != nil {
		return nil, err
	}

	for _, a := range summary.Assignments {
		out.Assignment(a.Category, a.Name, a.Title)
	}
	for _, line := range summary.CategoryLines() {
		out.Verbose("%s", line)
	}
	out.Verbose("%s", summary.PrintSummary())
	out.Info("%s", summary.DoneMessage())
	return summary, nil
}
