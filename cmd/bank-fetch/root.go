package main

import (
	"strings"
	"time"

	"github.com/Sternrassler/bank-transactions-client/pkg/logging"
	"github.com/Sternrassler/bank-transactions-client/pkg/pagination"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix        = "BANK"
	defaultUserAgent = "bank-fetch/0.1.0"
)

// newRootCmd builds the command tree with its own viper instance so flags and
// BANK_* environment variables resolve independently per invocation.
func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "bank-fetch",
		Short:         "Fetch bank account transactions",
		Long:          `Fetch the transaction history of a bank account from the paginated bank API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logging.Config{
				Level:  logging.LogLevel(v.GetString("log-level")),
				Pretty: v.GetBool("pretty"),
				Output: cmd.ErrOrStderr(),
			})
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("domain", pagination.DefaultDomain, "Base URL of the bank API")
	flags.String("user-agent", defaultUserAgent, "User-Agent sent to the bank")
	flags.Duration("timeout", 30*time.Second, "Timeout per page request")
	flags.String("log-level", string(logging.LevelInfo), "Log level (debug, info, warn, error)")
	flags.Bool("pretty", false, "Human readable log output")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address while running")
	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(newTransactionsCmd(v))

	return rootCmd
}
