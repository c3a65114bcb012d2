package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/zdunecki/jobwizard/pkg/config"
	"github.com/zdunecki/jobwizard/pkg/jobs"
)

var (
	// Global flags
	configFile string
	endpoint   string
	token      string
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "jobwizard",
	Short: "Configure and submit jobs to a remote compute service",
	Long: `A CLI tool that walks you through the options a compute node accepts,
enforcing the dependencies between them, then submits the job, waits for
it to finish and saves the result next to the source file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file path (YAML or TOML)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "Job service URL (overrides "+config.EnvEndpoint+")")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Job service API token (overrides "+config.EnvToken+")")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print errors and the final result")

	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(nodesCmd)
	rootCmd.AddCommand(optionsCmd)
}

// Execute runs the root command; Ctrl-C cancels in-flight requests.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig layers the global flags over the config file and environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configFile, ".env")
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Endpoint = endpoint
	}
	if flags.Changed("token") {
		cfg.Token = token
	}
	return cfg, nil
}

func newClient(cfg config.Config) (*jobs.Client, error) {
	client, err := jobs.NewClient(cfg.Endpoint, cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("%w (set %s or use --endpoint)", err, config.EnvEndpoint)
	}
	return client, nil
}

func logger(cmd *cobra.Command) func(string, ...interface{}) {
	if quiet {
		return func(string, ...interface{}) {}
	}
	out := cmd.OutOrStdout()
	return func(format string, args ...interface{}) {
		fmt.Fprintf(out, format, args...)
	}
}
