package main

import (
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarchlab/simsweep/config"
)

const version = "0.1.0"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath   string
	verbose      bool
	outDir       string
	architecture string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "sweepstats",
		Short:         "Extracts scaling metrics from simulator sweeps",
		Long:          `Scans configuration directories of a width x threads sweep, parses their stats.txt files and reports cycles, IPC, speedup and efficiency.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetOutput(cmd.ErrOrStderr())
			if g.verbose {
				log.SetLevel(log.DebugLevel)
			} else {
				log.SetLevel(log.WarnLevel)
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&g.configPath, "config", "", "YAML or JSON settings file")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "log every parsed directory")
	flags.StringVar(&g.outDir, "out-dir", "", "directory for the reports (default: from config, else .)")
	flags.StringVar(&g.architecture, "architecture", "", "core name shown in titles (default: Cortex-A15)")

	root.AddCommand(newSpeedupCmd(g), newCyclesCmd(g), newIPCCmd(g))
	return root
}

// load reads the settings file if any and applies the global flags.
func (g *globalFlags) load(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if g.configPath != "" {
		loaded, err := config.LoadConfig(g.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("out-dir") {
		cfg.Output.Dir = g.outDir
	}
	if flags.Changed("architecture") {
		cfg.Architecture = g.architecture
	}
	return cfg, nil
}

// parseInputs turns NAME=DIR arguments into inputs. A bare DIR is named
// after its base name.
func parseInputs(values []string) ([]config.Input, error) {
	inputs := make([]config.Input, 0, len(values))
	for _, v := range values {
		name, root, found := strings.Cut(v, "=")
		if !found {
			root = name
			name = sourceName(root)
		}
		if root == "" {
			return nil, errors.Errorf("invalid input %q, want NAME=DIR", v)
		}
		inputs = append(inputs, config.Input{Name: name, Root: root})
	}
	return inputs, nil
}
