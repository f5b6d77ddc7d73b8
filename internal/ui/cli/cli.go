package cli

import "flag"

const defaultConfigPath = "./data/config/apidocgen.toml"

type cliOptions struct {
	configPath string
	once       bool
	watch      bool
	ui         bool
	verbose    bool
	strict     bool
	refresh    bool
	history    string
	since      string
	version    bool
	args       []string
}

func parseOptions(args []string) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("apidocgen", flag.ContinueOnError)

	fs.StringVar(&opts.configPath, "config", defaultConfigPath, "Path to config file (.toml, .yaml or .json)")
	fs.BoolVar(&opts.once, "once", false, "Generate once and exit (default unless --watch or --ui)")
	fs.BoolVar(&opts.watch, "watch", false, "Regenerate when local documents or the config change")
	fs.BoolVar(&opts.ui, "ui", false, "Show diagnostics in a terminal UI (implies --watch)")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging and diagnostics")
	fs.BoolVar(&opts.strict, "strict", false, "Exit non-zero on warnings as well as errors")
	fs.BoolVar(&opts.refresh, "refresh", false, "Ignore cached documents and fetch them again")
	fs.StringVar(&opts.history, "history", "", "Print recorded runs for a document and exit")
	fs.StringVar(&opts.since, "since", "", "Only include runs at/after this timestamp (RFC3339 or YYYY-MM-DD, requires --history)")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	return opts, nil
}
