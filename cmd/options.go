package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zdunecki/jobwizard/pkg/options"
	"github.com/zdunecki/jobwizard/pkg/wizard"
)

var (
	optionsNode string
	optionsFile string
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Show the order in which a node's options are asked",
	Long: `Validate an option set and print the resolved presentation order and
the steps (single prompts and checkbox groups) the wizard would show.`,
	Args: cobra.NoArgs,
	RunE: runOptions,
}

func init() {
	optionsCmd.Flags().StringVarP(&optionsNode, "node", "n", "", "Fetch the options of this compute node")
	optionsCmd.Flags().StringVarP(&optionsFile, "file", "f", "", "Read option definitions from a YAML file")
	optionsCmd.MarkFlagsMutuallyExclusive("node", "file")
	optionsCmd.MarkFlagsOneRequired("node", "file")
}

func runOptions(cmd *cobra.Command, args []string) error {
	var set options.OptionSet
	var err error
	if optionsFile != "" {
		set, err = options.LoadFile(optionsFile)
	} else {
		set, err = fetchNodeOptions(cmd, optionsNode)
	}
	if err != nil {
		return err
	}

	collector, err := wizard.New(set)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Resolved order:")
	for i, id := range collector.Order() {
		opt, _ := set.Get(id)
		line := fmt.Sprintf("  %2d. %-20s %s", i+1, id, opt.Type)
		if tier := opt.Tier.Decoration(); tier != "" {
			line += " [" + tier + "]"
		}
		if opt.HasDependencies() {
			deps := make([]string, 0, len(opt.Dependencies))
			for _, d := range opt.Dependencies {
				deps = append(deps, d.ID)
			}
			line += " needs " + strings.Join(deps, ", ")
		}
		fmt.Fprintln(out, line)
	}

	fmt.Fprintln(out, "Steps:")
	for i, unit := range collector.Units() {
		fmt.Fprintf(out, "  %2d. %-9s %s\n", i+1, unit.Kind, strings.Join(unit.IDs, ", "))
	}
	return nil
}

func fetchNodeOptions(cmd *cobra.Command, nodeID string) (options.OptionSet, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return options.OptionSet{}, err
	}
	client, err := newClient(cfg)
	if err != nil {
		return options.OptionSet{}, err
	}
	return client.NodeOptions(cmd.Context(), nodeID)
}
