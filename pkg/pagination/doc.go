// Package pagination fetches an account's transaction history from the bank's
// paginated transactions endpoint.
//
// The bank exposes one page per request and signals further pages through
// pagination.hasMore. Pages are fetched strictly in order because the decision
// to continue depends on the content of the current page:
//
//   - the last page (hasMore=false) ends the fetch
//   - a page whose last transaction is dated on or before the cutoff ends the
//     fetch; the page itself is still part of the result
//   - a page claiming more pages but carrying no transactions is an anomaly and
//     fails the whole fetch
//   - a page whose transaction list cannot be decoded truncates the result to
//     the pages fetched before it
//
// Example usage:
//
//	httpTransport, _ := transport.New(transport.DefaultConfig("bank-fetch/0.1.0"))
//	paginator, _ := pagination.New(pagination.DefaultConfig(httpTransport))
//	txs, err := paginator.FetchTransactions(ctx, pagination.PageRequest{
//		Cutoff:        "2024-01-01",
//		Authorization: token,
//		AccountID:     42,
//		Page:          1,
//	})
//
// Hard failures are always returned as *FetchError; use KindOf to branch on
// the failure kind.
package pagination
