package pagination

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Sternrassler/bank-transactions-client/pkg/logging"
	"github.com/rs/zerolog"
)

// DefaultDomain is the bank API base URL.
const DefaultDomain = "https://bank.local.fr"

// Transport performs a single HTTP call for the paginator.
type Transport interface {
	Send(ctx context.Context, method, url string, headers map[string]string) (*PageResponse, error)
}

// Config holds paginator configuration.
type Config struct {
	// Domain is the base URL transactions paths are appended to
	Domain string

	// Transport is REQUIRED
	Transport Transport

	// MaxPages bounds the number of pages per fetch (0 = unlimited)
	MaxPages int

	// Logger defaults to logging.NewLogger("paginator")
	Logger *zerolog.Logger
}

// DefaultConfig returns a configuration for the default bank domain.
func DefaultConfig(transport Transport) Config {
	return Config{
		Domain:    DefaultDomain,
		Transport: transport,
	}
}

// Paginator fetches transaction pages sequentially and merges them.
// It holds no per-fetch state and may be shared between goroutines.
type Paginator struct {
	transport Transport
	config    Config
	logger    zerolog.Logger
}

// New creates a new paginator.
func New(cfg Config) (*Paginator, error) {
	if cfg.Transport == nil {
		return nil, fmt.Errorf("transport is required")
	}

	if cfg.Domain == "" {
		return nil, fmt.Errorf("domain is required")
	}

	if cfg.MaxPages < 0 {
		return nil, fmt.Errorf("max_pages must be >= 0 (got %d)", cfg.MaxPages)
	}

	cfg.Domain = strings.TrimRight(cfg.Domain, "/")

	return &Paginator{
		transport: cfg.Transport,
		config:    cfg,
		logger:    logging.ForComponent(cfg.Logger, "paginator"),
	}, nil
}

// TransactionsURL returns the URL of one page of an account's transactions.
func (p *Paginator) TransactionsURL(accountID int64, page int) string {
	return fmt.Sprintf("%s/accounts/%d/transactions?page=%d", p.config.Domain, accountID, page)
}

// FetchPage fetches and validates a single page. Every error is a *FetchError.
func (p *Paginator) FetchPage(ctx context.Context, req PageRequest) (*Page, error) {
	p.logger.Debug().
		Int64("account_id", req.AccountID).
		Int("page", req.Page).
		Msg("Fetching transactions page")

	headers := BuildHeaders(req.Authorization, req.SecondaryToken)

	resp, err := p.transport.Send(ctx, "GET", p.TransactionsURL(req.AccountID, req.Page), headers)
	if err != nil {
		return nil, wrapTransportError(ctx, req.Page, err)
	}

	if resp == nil || resp.StatusCode != 200 || resp.Body == nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		return nil, newFetchError(KindUnexpectedResponse, req.Page,
			fmt.Errorf("%w: status %d, body present: %t", ErrUnexpectedResponse, status, resp != nil && resp.Body != nil))
	}

	txs, err := decodeTransactions(resp.Body.Transactions)
	if err != nil {
		return nil, newFetchError(KindMalformedTransactionList, req.Page, err)
	}

	return &Page{
		Number:       req.Page,
		Transactions: txs,
		HasMore:      resp.Body.Pagination.HasMore,
	}, nil
}

// FetchTransactions fetches pages starting at req.Page until the bank reports
// no more pages or a page ends on or before req.Cutoff, and returns all
// transactions in page order.
//
// A page announcing more pages whose list is not an array, or whose last
// transaction has no value date, stops pagination and returns the pages
// fetched before it. Final and cutoff pages are returned as received. Any other failure returns a *FetchError and no transactions.
func (p *Paginator) FetchTransactions(ctx context.Context, req PageRequest) ([]Transaction, error) {
	start := time.Now()
	defer func() {
		fetchDuration.Observe(time.Since(start).Seconds())
	}()

	txs, outcome, err := p.fetchAll(ctx, req)
	if err != nil {
		fetchesTotal.WithLabelValues(string(KindOf(err))).Inc()
		p.logger.Error().
			Err(err).
			Str("kind", string(KindOf(err))).
			Int64("account_id", req.AccountID).
			Msg("Transaction fetch failed")
		return nil, err
	}

	fetchesTotal.WithLabelValues(outcome).Inc()
	transactionsFetchedTotal.Add(float64(len(txs)))

	p.logger.Debug().
		Int64("account_id", req.AccountID).
		Int("transactions", len(txs)).
		Str("outcome", outcome).
		Dur("duration", time.Since(start)).
		Msg("Transaction fetch complete")

	return txs, nil
}

func (p *Paginator) fetchAll(ctx context.Context, req PageRequest) ([]Transaction, string, error) {
	if err := req.Validate(); err != nil {
		return nil, "", newFetchError(KindInvalidRequest, req.Page, err)
	}

	logger := p.logger.With().
		Int64("account_id", req.AccountID).
		Str("cutoff", req.Cutoff).
		Logger()

	result := make([]Transaction, 0)

	for fetched := 0; ; fetched++ {
		if err := ctx.Err(); err != nil {
			return nil, "", newFetchError(KindCanceled, req.Page, err)
		}

		if p.config.MaxPages > 0 && fetched >= p.config.MaxPages {
			return nil, "", newFetchError(KindPageLimitExceeded, req.Page,
				fmt.Errorf("%w: %d pages", ErrPageLimitExceeded, p.config.MaxPages))
		}

		page, err := p.FetchPage(ctx, req)
		if err != nil {
			var fetchErr *FetchError
			if errors.As(err, &fetchErr) && fetchErr.Soft() {
				logTruncated(logger, err, req.Page, len(result))
				return result, outcomeMalformedTrimmed, nil
			}
			return nil, "", err
		}
		pagesFetchedTotal.Inc()

		logger.Debug().
			Int("page", page.Number).
			Int("transactions", len(page.Transactions)).
			Bool("has_more", page.HasMore).
			Msg("Fetched transactions page")

		if !page.HasMore {
			logger.Debug().Int("page", page.Number).Msg("Last page reached")
			return append(result, page.Transactions...), outcomeLastPage, nil
		}

		if len(page.Transactions) == 0 {
			logger.Error().Int("page", page.Number).Msg("Empty page announcing more pages")
			return nil, "", newFetchError(KindEmptyPageAnomaly, page.Number, ErrEmptyPage)
		}

		last := page.LastValueDate()
		if last == "" {
			err := newFetchError(KindMalformedTransactionList, page.Number,
				fmt.Errorf("%w: %w", ErrMalformedTransactions, ErrMissingValueDate))
			logTruncated(logger, err, page.Number, len(result))
			return result, outcomeMalformedTrimmed, nil
		}

		result = append(result, page.Transactions...)

		if last <= req.Cutoff {
			logger.Debug().
				Int("page", page.Number).
				Str("last_value_date", last).
				Msg("Cutoff reached, no more pages needed")
			return result, outcomeCutoffReached, nil
		}

		req = req.next()
	}
}

func logTruncated(logger zerolog.Logger, err error, page, kept int) {
	logger.Error().
		Err(err).
		Int("page", page).
		Int("kept_transactions", kept).
		Msg("Failed to validate transactions, stopping pagination")
}
