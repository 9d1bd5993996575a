package daemon

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutu-network/brew/internal/domain"
	"github.com/tutu-network/brew/internal/infra/sqlite"
)

func newTestDaemon(t *testing.T, cfg Config) (*Daemon, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	d, err := New(cfg, &out, nil)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d, &out
}

func TestRun_Dialogue(t *testing.T) {
	d, out := newTestDaemon(t, DefaultConfig())

	err := d.Run(context.Background(), strings.NewReader("buy 1\nremaining\nexit\nbuy 2\n"))
	require.NoError(t, err)

	assert.True(t, d.Machine().Terminated())
	assert.Equal(t, domain.Resources{Water: 150, Milk: 540, Beans: 104, Cups: 8, Money: 554}, d.Machine().Ledger())
	assert.True(t, strings.HasPrefix(out.String(), "Write action (buy, fill, take, remaining, exit):\n"))
	assert.Contains(t, out.String(), "I have enough resources, making you a coffee!\n")
	assert.Contains(t, out.String(), "150 of water\n")
}

func TestRun_InputExhausted(t *testing.T) {
	d, _ := newTestDaemon(t, DefaultConfig())
	require.NoError(t, d.Run(context.Background(), strings.NewReader("take")))
	assert.False(t, d.Machine().Terminated())
	assert.Equal(t, 0, d.Machine().Ledger().Money)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("tty gone") }

func TestRun_ReadError(t *testing.T) {
	d, _ := newTestDaemon(t, DefaultConfig())
	err := d.Run(context.Background(), failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tty gone")
}

func TestRun_Cancelled(t *testing.T) {
	d, _ := newTestDaemon(t, DefaultConfig())
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx, pr) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_ClosesReaderOnReturn(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"terminated", "exit\n"},
		{"cancelled", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDaemon(t, DefaultConfig())
			pr, pw := io.Pipe()
			defer pw.Close()

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- d.Run(ctx, pr) }()

			if tt.input != "" {
				_, err := io.WriteString(pw, tt.input)
				require.NoError(t, err)
			} else {
				cancel()
			}
			select {
			case <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("Run did not return")
			}
			cancel()

			_, err := pw.Write([]byte("buy\n"))
			assert.ErrorIs(t, err, io.ErrClosedPipe)
		})
	}
}

func TestRun_Journal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Journal.Enabled = true
	cfg.Journal.Dir = t.TempDir()

	d, _ := newTestDaemon(t, cfg)
	require.NoError(t, d.Run(context.Background(),
		strings.NewReader("buy 1 buy 2 buy 9 fill 100 50 10 5 take exit")))
	require.NoError(t, d.Close())

	db, err := sqlite.Open(cfg.Journal.Dir)
	require.NoError(t, err)
	defer db.Close()

	events, err := db.Events(d.SessionID())
	require.NoError(t, err)
	kinds := make([]domain.EventKind, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
	}
	assert.Equal(t, []domain.EventKind{
		domain.EventSale,
		domain.EventShortage,
		domain.EventRejected,
		domain.EventRefill,
		domain.EventPayout,
	}, kinds)
	assert.Equal(t, domain.ResourceWater, events[1].Resource)

	totals, err := db.SessionTotals(d.SessionID())
	require.NoError(t, err)
	assert.Equal(t, sqlite.Totals{Sales: 1, Revenue: 4, Shortages: 1, Refills: 1, PaidOut: 554}, totals)
}

func TestRun_MetricsServer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Addr = "127.0.0.1:0"

	d, _ := newTestDaemon(t, cfg)
	require.NotEmpty(t, d.MetricsAddr())

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() { done <- d.Run(context.Background(), pr) }()

	_, err := io.WriteString(pw, "buy 3\n")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + d.MetricsAddr() + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return strings.Contains(string(body), `brew_machine_sales_total{beverage="cappuccino"} 1`)
	}, 5*time.Second, 20*time.Millisecond)

	_, err = io.WriteString(pw, "exit\n")
	require.NoError(t, err)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after exit")
	}

	_, err = http.Get("http://" + d.MetricsAddr() + "/health")
	assert.Error(t, err, "metrics server should be shut down")
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Catalog = nil
	_, err := New(cfg, io.Discard, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestNew_BadMetricsAddr(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Addr = "not-an-address"
	_, err := New(cfg, io.Discard, nil)
	assert.Error(t, err)
}

func TestNew_UniqueSessions(t *testing.T) {
	a, _ := newTestDaemon(t, DefaultConfig())
	b, _ := newTestDaemon(t, DefaultConfig())
	assert.NotEqual(t, a.SessionID(), b.SessionID())
	assert.Empty(t, a.MetricsAddr())
}
