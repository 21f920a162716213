package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Sternrassler/bank-transactions-client/pkg/logging"
	"github.com/Sternrassler/bank-transactions-client/pkg/metrics"
	"github.com/Sternrassler/bank-transactions-client/pkg/pagination"
	"github.com/Sternrassler/bank-transactions-client/pkg/transport"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newTransactionsCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Fetch an account's transactions back to a cutoff date",
		Long: `Fetch an account's transactions page by page, newest first, until the bank
reports no more pages or a page ends on or before --from. The merged list is
written to stdout as a JSON array.

Credentials are best passed through BANK_AUTHORIZATION and BANK_JWS.`,
		Example: `  BANK_AUTHORIZATION="Bearer ..." bank-fetch transactions --account 42 --from 2024-01-01`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runTransactions(ctx, cmd, v)
		},
	}

	flags := cmd.Flags()
	flags.Int64("account", 0, "Account id (REQUIRED)")
	flags.String("from", "", "Cutoff date, YYYY-MM-DD (REQUIRED)")
	flags.Int("page", 1, "First page to fetch")
	flags.String("authorization", "", "Authorization header value")
	flags.String("jws", "", "Secondary jws token, if the bank issued one")
	flags.Int("max-pages", 0, "Fail when more pages are needed (0 = unlimited)")
	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}

	return cmd
}

func runTransactions(ctx context.Context, cmd *cobra.Command, v *viper.Viper) error {
	logger := logging.NewLogger("cli")

	if addr := v.GetString("metrics-addr"); addr != "" {
		srv := startMetricsServer(addr, logger)
		defer srv.Close()
	}

	req := pagination.PageRequest{
		Cutoff:         v.GetString("from"),
		Authorization:  v.GetString("authorization"),
		SecondaryToken: v.GetString("jws"),
		AccountID:      v.GetInt64("account"),
		Page:           v.GetInt("page"),
	}

	httpTransport, err := transport.New(transport.Config{
		UserAgent: v.GetString("user-agent"),
		Timeout:   v.GetDuration("timeout"),
	})
	if err != nil {
		return fmt.Errorf("create transport: %w", err)
	}

	paginator, err := pagination.New(pagination.Config{
		Domain:    v.GetString("domain"),
		Transport: httpTransport,
		MaxPages:  v.GetInt("max-pages"),
	})
	if err != nil {
		return fmt.Errorf("create paginator: %w", err)
	}

	logger.Info().
		Int64("account_id", req.AccountID).
		Str("cutoff", req.Cutoff).
		Msg("Fetching transactions")

	txs, err := paginator.FetchTransactions(ctx, req)
	if err != nil {
		return err
	}

	logger.Info().
		Int64("account_id", req.AccountID).
		Int("transactions", len(txs)).
		Msg("Transactions fetched")

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(txs)
}

func startMetricsServer(addr string, logger zerolog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn().Err(err).Str("addr", addr).Msg("Metrics server failed")
		}
	}()

	logger.Info().Str("addr", addr).Msg("Serving metrics")
	return srv
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}
