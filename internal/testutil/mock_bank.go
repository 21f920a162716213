// Package testutil provides testing utilities for the bank transactions client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"sync"
	"time"
)

var transactionsPath = regexp.MustCompile(`^/accounts/(\d+)/transactions$`)

// MockPage defines the response for one page of an account's transactions.
type MockPage struct {
	StatusCode int
	Body       string
	Delay      time.Duration
}

// MockBank is a configurable mock bank API server for testing.
// Pages are served per account; a page that was not configured answers 404.
type MockBank struct {
	server *httptest.Server
	mu     sync.RWMutex
	pages  map[int64][]MockPage

	// Tracking
	RequestCount      int
	RequestedPages    []int
	LastRequestHeader http.Header
}

// NewMockBank creates a new mock bank server.
func NewMockBank() *MockBank {
	mock := &MockBank{
		pages: make(map[int64][]MockPage),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))

	return mock
}

// URL returns the mock server URL, usable as the paginator domain.
func (m *MockBank) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockBank) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockBank) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.RequestedPages = nil
	m.LastRequestHeader = nil
}

// SetPages configures the pages served for an account; pages[0] is page 1.
func (m *MockBank) SetPages(accountID int64, pages ...MockPage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[accountID] = pages
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockBank) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetRequestedPages returns the page numbers requested, in order.
func (m *MockBank) GetRequestedPages() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]int(nil), m.RequestedPages...)
}

// GetLastRequestHeader returns the headers of the last request.
func (m *MockBank) GetLastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequestHeader
}

func (m *MockBank) handle(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	m.mu.Lock()
	m.RequestCount++
	m.RequestedPages = append(m.RequestedPages, page)
	m.LastRequestHeader = r.Header.Clone()
	m.mu.Unlock()

	match := transactionsPath.FindStringSubmatch(r.URL.Path)
	if r.Method != http.MethodGet || match == nil {
		http.NotFound(w, r)
		return
	}
	accountID, _ := strconv.ParseInt(match[1], 10, 64)

	m.mu.RLock()
	pages := m.pages[accountID]
	m.mu.RUnlock()

	if page < 1 || page > len(pages) {
		http.NotFound(w, r)
		return
	}
	resp := pages[page-1]

	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// NewTransactionsPage creates a 200 OK page holding one transaction per value
// date, in the given order.
func NewTransactionsPage(hasMore bool, valueDates ...string) MockPage {
	type transaction struct {
		ID        string `json:"id"`
		ValueDate string `json:"valueDate"`
		Amount    string `json:"amount"`
	}

	txs := make([]transaction, 0, len(valueDates))
	for i, date := range valueDates {
		txs = append(txs, transaction{
			ID:        fmt.Sprintf("tx-%s-%d", date, i),
			ValueDate: date,
			Amount:    fmt.Sprintf("-%d.50", i+1),
		})
	}

	body, _ := json.Marshal(map[string]any{
		"transactions": txs,
		"pagination":   map[string]bool{"hasMore": hasMore},
	})

	return NewPage(http.StatusOK, string(body))
}

// NewPage creates a page with a raw status and body.
func NewPage(statusCode int, body string) MockPage {
	return MockPage{
		StatusCode: statusCode,
		Body:       body,
	}
}

// NewNotFoundPage creates a 404 Not Found page.
func NewNotFoundPage() MockPage {
	return NewPage(http.StatusNotFound, `{"error": "Not found"}`)
}

// NewServerErrorPage creates a 500 Internal Server Error page.
func NewServerErrorPage() MockPage {
	return NewPage(http.StatusInternalServerError, `{"error": "Internal server error"}`)
}
