package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ZebulonRouseFrantzich/sfinstall/internal/config"
	"github.com/ZebulonRouseFrantzich/sfinstall/internal/installer"
	"github.com/ZebulonRouseFrantzich/sfinstall/internal/platform"
	"github.com/ZebulonRouseFrantzich/sfinstall/internal/ui"
)

// installOptions are the command-line overrides for an install.
type installOptions struct {
	configPath     string
	tag            string
	asset          string
	target         string
	packageManager string
	timeout        time.Duration
	noProbe        bool
	verbose        bool
	help           bool
}

// parseInstallArgs accepts "--flag value" and "--flag=value".
func parseInstallArgs(args []string) (*installOptions, error) {
	opts := &installOptions{}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, value, hasValue := strings.Cut(arg, "=")

		// takeValue consumes the flag's value from the next argument when
		// it was not given inline.
		takeValue := func() (string, error) {
			if hasValue {
				return value, nil
			}
			if i+1 >= len(args) {
				return "", fmt.Errorf("option %s requires a value", name)
			}
			i++
			return args[i], nil
		}

		var err error
		switch name {
		case "--help", "-h":
			opts.help = true
		case "--verbose", "-v":
			opts.verbose = true
		case "--no-probe":
			opts.noProbe = true
		case "--config", "-c":
			opts.configPath, err = takeValue()
		case "--tag":
			opts.tag, err = takeValue()
		case "--asset":
			opts.asset, err = takeValue()
		case "--target":
			opts.target, err = takeValue()
		case "--package-manager":
			opts.packageManager, err = takeValue()
		case "--timeout":
			var raw string
			if raw, err = takeValue(); err == nil {
				opts.timeout, err = time.ParseDuration(raw)
				if err != nil {
					err = fmt.Errorf("invalid --timeout %q: %w", raw, err)
				}
			}
		default:
			return nil, fmt.Errorf("unknown option: %s\nRun 'sfinstall install --help' for usage", arg)
		}
		if err != nil {
			return nil, err
		}
	}

	return opts, nil
}

// apply overrides cfg with the options that were set.
func (o *installOptions) apply(cfg *config.Config) {
	if o.tag != "" {
		cfg.Version = o.tag
	}
	if o.asset != "" {
		cfg.Asset = o.asset
	}
	if o.target != "" {
		cfg.Target = o.target
	}
	if o.packageManager != "" {
		cfg.PackageManager = o.packageManager
	}
	if o.timeout > 0 {
		cfg.Timeout = o.timeout
	}
	if o.noProbe {
		cfg.Probe = false
	}
}

// loadConfig reads the config file. An explicitly named file must exist;
// the default one is optional.
func loadConfig(ctx context.Context, path string, explicit bool) (*config.Config, error) {
	if explicit {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
	}

	cfg, err := config.NewParser(platform.NewDetector()).Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// runInstall handles `sfinstall install`
func runInstall(ctx context.Context, args []string) error {
	opts, err := parseInstallArgs(args)
	if err != nil {
		return err
	}
	if opts.help {
		printInstallHelp()
		return nil
	}

	logger := newLogger(logOutput, opts.verbose)

	configPath := opts.configPath
	if configPath == "" {
		configPath = config.DefaultFile
	}
	cfg, err := loadConfig(ctx, configPath, opts.configPath != "")
	if err != nil {
		return fmt.Errorf("load config: %s", config.FormatError(err, opts.verbose))
	}
	opts.apply(cfg)

	printer := ui.New(os.Stdout)
	inst, err := installer.New(cfg,
		installer.WithLogger(logger),
		installer.WithPrinter(printer),
		installer.WithUserAgent("sfinstall/"+strings.TrimPrefix(Version, "v")),
	)
	if err != nil {
		return err
	}

	res, err := inst.Install(ctx)
	if err != nil {
		printer.Failure("install failed")
		return err
	}

	for _, step := range res.Steps {
		logger.Debug("step", "name", step.Step, "elapsed", step.Duration.Round(time.Millisecond))
	}

	printer.Success("%s", successMessage(cfg, res))
	return nil
}

// successMessage describes what the install did.
func successMessage(cfg *config.Config, res *installer.Result) string {
	engineName := "Stockfish"
	if res.Identity != nil {
		engineName = res.Identity.Name
	}

	switch res.Method {
	case installer.MethodPackage:
		if res.Path == "" {
			return fmt.Sprintf("%s installed with %s", cfg.Package, res.Manager)
		}
		return fmt.Sprintf("%s installed with %s at %s", engineName, res.Manager, res.Path)
	case installer.MethodPresent:
		return fmt.Sprintf("%s already installed at %s", engineName, res.Path)
	default:
		return fmt.Sprintf("%s (%s) installed at %s in %s", engineName, cfg.Version, res.Path, res.Duration.Round(time.Millisecond))
	}
}

func printInstallHelp() {
	fmt.Println("Usage: sfinstall install [options]")
	fmt.Println()
	fmt.Println("Install Stockfish with the package manager, or download a release")
	fmt.Println("archive when no package manager is available.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -c, --config <path>          Config file (default: ./sfinstall.lua)")
	fmt.Println("      --tag <tag>              Release tag (default: sf_17)")
	fmt.Println("      --asset <name>           Release asset filename")
	fmt.Println("      --target <path>          Install path for downloads (default: ./stockfish)")
	fmt.Println("      --package-manager <name> apt-get, dnf, yum, apk, pacman, brew, auto or none")
	fmt.Println("      --timeout <duration>     Per-attempt download timeout (e.g. 2m)")
	fmt.Println("      --no-probe               Skip the UCI handshake check")
	fmt.Println("  -v, --verbose                Show debug logs")
	fmt.Println("  -h, --help                   Show this help")
}
