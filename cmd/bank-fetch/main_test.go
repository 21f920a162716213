package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Sternrassler/bank-transactions-client/internal/testutil"
	"github.com/Sternrassler/bank-transactions-client/pkg/pagination"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	cmd := newRootCmd()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	healthHandler(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	if string(body) != "OK" {
		t.Errorf("Expected body 'OK', got %s", string(body))
	}
}

func TestTransactionsCommand(t *testing.T) {
	mock := testutil.NewMockBank()
	defer mock.Close()

	mock.SetPages(42,
		testutil.NewTransactionsPage(true, "2024-03-01", "2024-02-01"),
		testutil.NewTransactionsPage(true, "2024-01-15", "2023-12-01"),
	)

	stdout, _, err := runCLI(t,
		"transactions",
		"--domain", mock.URL(),
		"--account", "42",
		"--from", "2024-01-01",
		"--authorization", "Bearer cli",
		"--log-level", "error",
	)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	var txs []map[string]any
	if err := json.Unmarshal([]byte(stdout), &txs); err != nil {
		t.Fatalf("Output is not a JSON array: %v\n%s", err, stdout)
	}
	if len(txs) != 4 {
		t.Errorf("transactions = %d, want 4", len(txs))
	}
	if txs[3]["valueDate"] != "2023-12-01" {
		t.Errorf("last valueDate = %v, want 2023-12-01", txs[3]["valueDate"])
	}
	if got := mock.GetLastRequestHeader().Get("Authorization"); got != "Bearer cli" {
		t.Errorf("Authorization = %q, want Bearer cli", got)
	}
	if got := mock.GetLastRequestHeader().Get("User-Agent"); got != defaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", got, defaultUserAgent)
	}
}

func TestTransactionsCommand_Environment(t *testing.T) {
	mock := testutil.NewMockBank()
	defer mock.Close()

	mock.SetPages(5, testutil.NewTransactionsPage(false, "2024-02-01"))

	t.Setenv("BANK_DOMAIN", mock.URL())
	t.Setenv("BANK_AUTHORIZATION", "Bearer env")
	t.Setenv("BANK_JWS", "env-jws")
	t.Setenv("BANK_LOG_LEVEL", "error")

	stdout, _, err := runCLI(t, "transactions", "--account", "5", "--from", "2024-01-01")
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	var txs []map[string]any
	if err := json.Unmarshal([]byte(stdout), &txs); err != nil {
		t.Fatalf("Output is not a JSON array: %v\n%s", err, stdout)
	}
	if len(txs) != 1 {
		t.Errorf("transactions = %d, want 1", len(txs))
	}

	header := mock.GetLastRequestHeader()
	if header.Get("Authorization") != "Bearer env" {
		t.Errorf("Authorization = %q, want Bearer env", header.Get("Authorization"))
	}
	if header.Get("jws") != "env-jws" {
		t.Errorf("jws = %q, want env-jws", header.Get("jws"))
	}
}

func TestTransactionsCommand_Failures(t *testing.T) {
	mock := testutil.NewMockBank()
	defer mock.Close()

	mock.SetPages(9, testutil.NewNotFoundPage())

	tests := []struct {
		name     string
		args     []string
		expected pagination.ErrorKind
	}{
		{
			name:     "unexpected response",
			args:     []string{"transactions", "--domain", mock.URL(), "--account", "9", "--from", "2024-01-01", "--authorization", "x"},
			expected: pagination.KindUnexpectedResponse,
		},
		{
			name:     "missing account",
			args:     []string{"transactions", "--domain", mock.URL(), "--from", "2024-01-01", "--authorization", "x"},
			expected: pagination.KindInvalidRequest,
		},
		{
			name:     "missing cutoff",
			args:     []string{"transactions", "--domain", mock.URL(), "--account", "9", "--authorization", "x"},
			expected: pagination.KindInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := runCLI(t, append(tt.args, "--log-level", "error")...)
			if err == nil {
				t.Fatal("Expected error but got nil")
			}
			if kind := pagination.KindOf(err); kind != tt.expected {
				t.Errorf("KindOf(err) = %q, want %q", kind, tt.expected)
			}
			if stdout != "" {
				t.Errorf("Expected no output on failure, got %q", stdout)
			}
			if !bytes.Contains([]byte(stderr), []byte("Transaction fetch failed")) {
				t.Errorf("Expected failure to be logged, got %q", stderr)
			}
		})
	}
}

func TestTransactionsCommand_InvalidTimeout(t *testing.T) {
	_, _, err := runCLI(t, "transactions", "--timeout", "0s", "--account", "1", "--from", "2024-01-01", "--log-level", "error")
	if err == nil {
		t.Fatal("Expected error for zero timeout")
	}
	if pagination.KindOf(err) != "" {
		t.Errorf("configuration errors should not be fetch errors, got %q", pagination.KindOf(err))
	}
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name: "fetch failure already logged",
			err: &pagination.FetchError{
				Op:   pagination.Operation,
				Code: pagination.CrashCode,
				Kind: pagination.KindUnexpectedResponse,
				Err:  pagination.ErrUnexpectedResponse,
			},
			expected: "",
		},
		{
			name:     "setup failure",
			err:      errors.New("create transport: timeout must be > 0 (got 0s)"),
			expected: "Error: create transport: timeout must be > 0 (got 0s)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			reportError(buf, tt.err)
			if buf.String() != tt.expected {
				t.Errorf("reportError() wrote %q, want %q", buf.String(), tt.expected)
			}
		})
	}
}
