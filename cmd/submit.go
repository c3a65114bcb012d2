package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zdunecki/jobwizard/pkg/cli"
)

var (
	submitNode         string
	submitLabel        string
	submitOptionsFile  string
	submitOutputDir    string
	submitPollInterval time.Duration
	submitTimeout      time.Duration
)

var submitCmd = &cobra.Command{
	Use:   "submit <file>",
	Short: "Configure options interactively and submit a job",
	Long: `Pick a compute node, answer the options it accepts and submit <file> as a
job. The command waits for the job and saves its result as
<name>.result.txt next to the source file (or in --output-dir).`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVarP(&submitNode, "node", "n", "", "Compute node id (skips the node picker)")
	submitCmd.Flags().StringVarP(&submitLabel, "label", "l", "", "Job label (defaults to the file name)")
	submitCmd.Flags().StringVar(&submitOptionsFile, "options-file", "", "Read option definitions from a YAML file instead of the node")
	submitCmd.Flags().StringVarP(&submitOutputDir, "output-dir", "o", "", "Directory for the result file")
	submitCmd.Flags().DurationVar(&submitPollInterval, "poll-interval", 0, "How often to poll the job status")
	submitCmd.Flags().DurationVar(&submitTimeout, "timeout", 0, "Give up waiting after this long")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.OutputDir = submitOutputDir
	}
	pollInterval := time.Duration(cfg.PollInterval)
	if flags.Changed("poll-interval") {
		pollInterval = submitPollInterval
	}
	timeout := time.Duration(cfg.Timeout)
	if flags.Changed("timeout") {
		timeout = submitTimeout
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	session := &cli.Session{
		Service:  client,
		Surface:  cli.NewSurface(tea.WithAltScreen()),
		Progress: cli.Progress(),
		Logf:     logger(cmd),
	}
	path, ok, err := session.Submit(ctx, cli.SubmitOptions{
		SourcePath:   args[0],
		Node:         submitNode,
		Label:        submitLabel,
		OptionsFile:  submitOptionsFile,
		OutputDir:    cfg.OutputDir,
		PollInterval: pollInterval,
	})
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
		return nil
	}
	if quiet {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}
