package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List available compute nodes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		client, err := newClient(cfg)
		if err != nil {
			return err
		}

		list, err := client.ListNodes(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Available nodes:")
		fmt.Fprintf(out, "  %-16s %-24s %6s\n", "ID", "NAME", "CPU")
		for _, n := range list.Nodes {
			line := fmt.Sprintf("  %-16s %-24s %5.0f%%", n.ID, n.Name, n.CPUUsage)
			if n.ID == list.Recommended {
				line += "  (recommended)"
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}
