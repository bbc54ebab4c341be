package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type cliRunner struct {
	t *testing.T
}

// run executes the escrow app in-process with the given keypair and decodes
// its JSON output into out.
func (r cliRunner) run(keypair string, out interface{}, args ...string) error {
	r.t.Helper()

	buf := &bytes.Buffer{}
	app := newApp()
	app.Writer = buf

	argv := append([]string{"escrow", "--keypair", keypair}, args...)
	if err := app.Run(argv); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(buf.Bytes(), out)
}

func (r cliRunner) mustRun(keypair string, out interface{}, args ...string) {
	r.t.Helper()
	require.NoError(r.t, r.run(keypair, out, args...))
}

type balanceOutput struct {
	Identity string             `json:"identity"`
	Lamports uint64             `json:"lamports"`
	Tokens   []tokenBalanceView `json:"tokens"`
}

func (b balanceOutput) amountOf(mint string) string {
	for _, t := range b.Tokens {
		if t.Mint == mint {
			return t.Amount
		}
	}
	return ""
}

func TestCLI(t *testing.T) {
	datadir := t.TempDir()
	t.Setenv("ESCROW_DATADIR", datadir)
	t.Setenv("ESCROW_DB_TYPE", "badger")
	t.Setenv("ESCROW_LOG_LEVEL", "2")

	r := cliRunner{t}
	makerKey := filepath.Join(datadir, "maker.json")
	takerKey := filepath.Join(datadir, "taker.json")

	var maker, taker map[string]string
	r.mustRun(makerKey, &maker, "keygen", "--outfile", makerKey)
	r.mustRun(takerKey, &taker, "keygen", "--outfile", takerKey)
	require.NotEqual(t, maker["identity"], taker["identity"])

	var addr map[string]string
	r.mustRun(makerKey, &addr, "address")
	require.Equal(t, maker["identity"], addr["identity"])

	r.mustRun(makerKey, nil, "airdrop", "2000000000")
	var sent map[string]interface{}
	r.mustRun(
		makerKey, &sent, "transfer", "1000000000", "--to", taker["identity"],
	)
	require.Equal(t, float64(1000000000), sent["lamports"])

	var mintA, mintB map[string]interface{}
	r.mustRun(makerKey, &mintA, "mint", "create", "--decimals", "6")
	r.mustRun(makerKey, &mintB, "mint", "create", "--decimals", "9")
	a, b := mintA["mint"].(string), mintB["mint"].(string)

	r.mustRun(makerKey, nil, "mint", "to", "--mint", a, "--amount", "1000")
	r.mustRun(
		makerKey, nil, "mint", "to", "--mint", b, "--amount", "500",
		"--owner", taker["identity"],
	)

	var opened map[string]interface{}
	r.mustRun(
		makerKey, &opened, "make", "--mint-a", a, "--mint-b", b,
		"--seed", "42", "--deposit", "1000", "--receive", "500",
	)
	escrowAddr := opened["escrow"].(string)

	var shown escrowView
	r.mustRun(makerKey, &shown, "escrow", "show", escrowAddr)
	require.Equal(t, maker["identity"], shown.Maker)
	require.Equal(t, uint64(42), shown.Seed)
	require.Equal(t, "1000.000000", shown.Deposit)

	var listed []escrowView
	r.mustRun(makerKey, &listed, "escrow", "list", "--maker", maker["identity"])
	require.Len(t, listed, 1)

	var settled settlementView
	// The taker refuses to pay a different amount than it expects.
	err := r.run(takerKey, nil, "take", "--escrow", escrowAddr, "--receive", "400")
	require.Error(t, err)

	r.mustRun(takerKey, &settled, "take", "--escrow", escrowAddr, "--receive", "500")
	require.Equal(t, "TAKE", settled.Type)
	require.Equal(t, taker["identity"], settled.Counterparty)
	require.Equal(t, uint64(500_000_000_000), settled.AmountPaid)
	require.Equal(t, uint64(1_000_000_000), settled.AmountReleased)

	err = r.run(takerKey, nil, "take", "--escrow", escrowAddr)
	require.Error(t, err)

	var takerBalance, makerBalance balanceOutput
	r.mustRun(takerKey, &takerBalance, "balance")
	r.mustRun(takerKey, &makerBalance, "balance", "--owner", maker["identity"])
	require.Equal(t, "1000.000000", takerBalance.amountOf(a))
	require.Equal(t, "0.000000000", takerBalance.amountOf(b))
	require.Equal(t, "500.000000000", makerBalance.amountOf(b))
	require.Equal(t, "0.000000", makerBalance.amountOf(a))

	var receipts []settlementView
	r.mustRun(makerKey, &receipts, "settlements", "--party", taker["identity"])
	require.Len(t, receipts, 1)
	require.Equal(t, settled.ID, receipts[0].ID)

	r.mustRun(makerKey, &listed, "escrow", "list")
	require.Empty(t, listed)
}

func TestCLIRefund(t *testing.T) {
	datadir := t.TempDir()
	t.Setenv("ESCROW_DATADIR", datadir)
	t.Setenv("ESCROW_DB_TYPE", "badger")
	t.Setenv("ESCROW_LOG_LEVEL", "2")

	r := cliRunner{t}
	key := filepath.Join(datadir, "id.json")

	r.mustRun(key, nil, "keygen")
	r.mustRun(key, nil, "airdrop", "1000000000")

	var mintA, mintB map[string]interface{}
	r.mustRun(key, &mintA, "mint", "create", "--decimals", "2")
	r.mustRun(key, &mintB, "mint", "create", "--decimals", "2")
	a, b := mintA["mint"].(string), mintB["mint"].(string)
	r.mustRun(key, nil, "mint", "to", "--mint", a, "--amount", "10.5")

	r.mustRun(
		key, nil, "make", "--mint-a", a, "--mint-b", b,
		"--seed", "7", "--deposit", "10.25", "--receive", "1",
	)

	var refunded settlementView
	r.mustRun(key, &refunded, "refund", "--mint-a", a, "--seed", "7")
	require.Equal(t, "REFUND", refunded.Type)
	require.Equal(t, uint64(1025), refunded.AmountReleased)

	var bal balanceOutput
	r.mustRun(key, &bal, "balance")
	require.Equal(t, "10.50", bal.amountOf(a))
}

func TestCLIInvalidUsage(t *testing.T) {
	datadir := t.TempDir()
	t.Setenv("ESCROW_DATADIR", datadir)
	t.Setenv("ESCROW_DB_TYPE", "inmemory")

	r := cliRunner{t}
	key := filepath.Join(datadir, "id.json")

	tests := []struct {
		name string
		args []string
	}{
		{"airdrop without amount", []string{"airdrop"}},
		{"airdrop invalid amount", []string{"airdrop", "ten"}},
		{"show without address", []string{"escrow", "show"}},
		{"address without keypair", []string{"address"}},
		{"make with bad mint", []string{
			"make", "--mint-a", "x", "--mint-b", "y", "--seed", "1",
			"--deposit", "1", "--receive", "1",
		}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := r.run(key, nil, tt.args...)
			require.Error(t, err, fmt.Sprintf("%v", tt.args))
		})
	}
}

func TestCLIWebhook(t *testing.T) {
	datadir := t.TempDir()
	t.Setenv("ESCROW_DATADIR", datadir)
	t.Setenv("ESCROW_DB_TYPE", "badger")
	t.Setenv("ESCROW_LOG_LEVEL", "2")

	var (
		lock     sync.Mutex
		payloads []string
	)
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			defer r.Body.Close()
			body, _ := io.ReadAll(r.Body)
			lock.Lock()
			payloads = append(payloads, string(body))
			lock.Unlock()
		},
	))
	t.Cleanup(server.Close)

	r := cliRunner{t}
	key := filepath.Join(datadir, "id.json")
	r.mustRun(key, nil, "keygen")
	r.mustRun(key, nil, "airdrop", "1000000000")

	var added map[string]string
	r.mustRun(
		key, &added, "webhook", "add", "--topic", "ESCROW_OPENED",
		"--endpoint", server.URL, "--secret", "s3cr3t",
	)
	require.NotEmpty(t, added["id"])

	err := r.run(
		key, nil, "webhook", "add", "--topic", "UNKNOWN", "--endpoint", server.URL,
	)
	require.Error(t, err)

	var generated map[string]string
	r.mustRun(
		key, &generated, "webhook", "add", "--topic", "ESCROW_TAKEN",
		"--endpoint", server.URL, "--random-secret",
	)
	require.Len(t, generated["secret"], secretLen)

	var hooks []webhookView
	r.mustRun(key, &hooks, "webhook", "list", "--topic", "ESCROW_OPENED")
	require.Len(t, hooks, 1)
	require.True(t, hooks[0].Secured)

	r.mustRun(key, &hooks, "webhook", "list")
	require.Len(t, hooks, 2)

	var mintA, mintB map[string]interface{}
	r.mustRun(key, &mintA, "mint", "create", "--decimals", "0")
	r.mustRun(key, &mintB, "mint", "create", "--decimals", "0")
	a, b := mintA["mint"].(string), mintB["mint"].(string)
	r.mustRun(key, nil, "mint", "to", "--mint", a, "--amount", "3")

	var opened map[string]interface{}
	r.mustRun(
		key, &opened, "make", "--mint-a", a, "--mint-b", b,
		"--seed", "1", "--deposit", "3", "--receive", "1",
	)

	lock.Lock()
	require.Len(t, payloads, 1)
	require.Contains(t, payloads[0], opened["escrow"].(string))
	lock.Unlock()

	r.mustRun(key, nil, "webhook", "remove", added["id"])
	r.mustRun(key, nil, "webhook", "remove", generated["id"])
	r.mustRun(key, &hooks, "webhook", "list")
	require.Empty(t, hooks)
}
