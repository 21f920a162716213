package pagination

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DateFormat is the layout of value dates and cutoffs returned by the bank.
const DateFormat = "2006-01-02"

// ErrMissingValueDate is returned when the last transaction of a page that
// announces more pages carries no valueDate.
var ErrMissingValueDate = errors.New("transaction has no valueDate")

// PageRequest identifies one page of an account's transaction listing.
type PageRequest struct {
	// Cutoff stops pagination once a page ends on or before this date
	Cutoff string

	// Authorization is sent verbatim in the Authorization header
	Authorization string

	// SecondaryToken is sent in the jws header when not empty
	SecondaryToken string

	AccountID int64

	// Page is 1-based
	Page int
}

// Validate checks the request before anything is sent to the bank.
func (r PageRequest) Validate() error {
	if r.Page < 1 {
		return fmt.Errorf("%w: page must be >= 1 (got %d)", ErrInvalidRequest, r.Page)
	}
	if r.AccountID <= 0 {
		return fmt.Errorf("%w: account id must be positive (got %d)", ErrInvalidRequest, r.AccountID)
	}
	if r.Authorization == "" {
		return fmt.Errorf("%w: authorization is required", ErrInvalidRequest)
	}
	if !isDate(r.Cutoff) {
		return fmt.Errorf("%w: cutoff %q is not a date", ErrInvalidRequest, r.Cutoff)
	}
	return nil
}

// next returns a copy of r pointing at the following page.
func (r PageRequest) next() PageRequest {
	r.Page++
	return r
}

func isDate(s string) bool {
	if _, err := time.Parse(DateFormat, s); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

// PageResponse is what a Transport returns for one page request.
type PageResponse struct {
	StatusCode int
	// Body is nil when the bank returned no body
	Body *PageBody
}

// PageBody is the JSON document of a transactions page.
// Transactions is kept raw so the list shape can be validated separately
// from the envelope.
type PageBody struct {
	Transactions json.RawMessage `json:"transactions"`
	Pagination   Pagination      `json:"pagination"`
}

// Pagination carries the bank's continuation flag.
type Pagination struct {
	HasMore bool `json:"hasMore"`
}

// Transaction is a bank transaction. Only the value date is interpreted;
// the full JSON element is kept in Raw and marshalled back unchanged.
// ValueDate is "" when the element carries no string valueDate.
type Transaction struct {
	ValueDate string
	Raw       json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler. Any JSON value is accepted.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	t.Raw = append(json.RawMessage(nil), data...)
	t.ValueDate = ""

	var fields struct {
		ValueDate json.RawMessage `json:"valueDate"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}

	var date string
	if err := json.Unmarshal(fields.ValueDate, &date); err == nil {
		t.ValueDate = date
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Transaction) MarshalJSON() ([]byte, error) {
	if len(t.Raw) > 0 {
		return t.Raw, nil
	}
	return json.Marshal(struct {
		ValueDate string `json:"valueDate"`
	}{t.ValueDate})
}

// Page is a validated page of transactions.
type Page struct {
	Number       int
	Transactions []Transaction
	HasMore      bool
}

// LastValueDate returns the value date of the last transaction of the page,
// or "" for an empty page.
func (p *Page) LastValueDate() string {
	if len(p.Transactions) == 0 {
		return ""
	}
	return p.Transactions[len(p.Transactions)-1].ValueDate
}

// decodeTransactions decodes the raw transaction list of a page.
// An absent or null list is an empty page. Elements are kept as they are;
// only the list itself must be a JSON array.
func decodeTransactions(raw json.RawMessage) ([]Transaction, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrMalformedTransactions)
	}

	var txs []Transaction
	if err := json.Unmarshal(trimmed, &txs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTransactions, err)
	}
	return txs, nil
}
