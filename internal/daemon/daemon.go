package daemon

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tutu-network/brew/internal/api"
	"github.com/tutu-network/brew/internal/app/machine"
	"github.com/tutu-network/brew/internal/domain"
	"github.com/tutu-network/brew/internal/infra/observability"
	"github.com/tutu-network/brew/internal/infra/sqlite"
)

const shutdownTimeout = 5 * time.Second

// Daemon is one coffee-machine session: an interpreter plus its optional
// journal and metrics endpoint.
type Daemon struct {
	cfg       Config
	sessionID string
	startedAt time.Time
	logger    *zap.Logger

	machine  *machine.Machine
	metrics  *observability.Metrics
	db       *sqlite.DB
	listener net.Listener
}

// New builds a session from cfg. Dialogue output goes to out. A nil logger
// disables logging. The metrics listener, when enabled, is bound here so
// address errors surface before the dialogue starts.
func New(cfg Config, out io.Writer, logger *zap.Logger) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Daemon{
		cfg:       cfg,
		sessionID: uuid.NewString(),
		startedAt: time.Now(),
	}
	d.logger = logger.With(zap.String("session", d.sessionID))

	ledger := cfg.Resources()
	sinks := domain.Sinks{observability.NewLogSink(d.logger)}

	if cfg.Journal.Enabled {
		db, err := sqlite.Open(cfg.JournalDir())
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		if err := db.StartSession(d.sessionID, ledger); err != nil {
			db.Close()
			return nil, err
		}
		d.db = db
		sinks = append(sinks, db.Journal(d.sessionID))
		d.logger.Debug("journal opened", zap.String("path", db.Path()))
	}

	if cfg.Metrics.Enabled {
		ln, err := net.Listen("tcp", cfg.Metrics.Addr)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("listen %s: %w", cfg.Metrics.Addr, err)
		}
		d.listener = ln
		d.metrics = observability.NewMetrics()
		d.metrics.SetStock(ledger)
		sinks = append(sinks, d.metrics)
	}

	d.machine = machine.New(domain.Catalog(cfg.Catalog), ledger, machine.Options{
		Out:    out,
		Sink:   sinks,
		Logger: d.logger,
	})
	return d, nil
}

// SessionID returns the session's UUID.
func (d *Daemon) SessionID() string { return d.sessionID }

// Machine returns the session's interpreter.
func (d *Daemon) Machine() *machine.Machine { return d.machine }

// MetricsAddr returns the bound metrics address, or "" when disabled.
func (d *Daemon) MetricsAddr() string {
	if d.listener == nil {
		return ""
	}
	return d.listener.Addr().String()
}

// Run feeds whitespace-separated tokens from in to the interpreter until it
// terminates, input ends, or ctx is cancelled. Cancellation is observed
// between tokens. The metrics server, if any, runs for the same span.
//
// If in is an io.Closer, Run closes it on return so the reader goroutine
// unblocks. Other readers keep that goroutine parked in Read until they
// return data or an error.
func (d *Daemon) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	if d.listener != nil {
		srv := &http.Server{
			Handler:           api.NewServer(d.metrics, d.sessionID, d.startedAt).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			d.logger.Info("metrics listening", zap.String("addr", d.MetricsAddr()))
			if err := srv.Serve(d.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
			defer stop()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		defer cancel()
		return d.loop(gctx, in)
	})

	err := g.Wait()
	d.logSummary()
	return err
}

func (d *Daemon) loop(ctx context.Context, in io.Reader) error {
	if c, ok := in.(io.Closer); ok {
		defer c.Close()
	}
	tokens := make(chan string)
	scanErr := make(chan error, 1)
	go scanTokens(in, tokens, scanErr, ctx.Done())

	d.machine.Start()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case tok, ok := <-tokens:
			if !ok {
				if err := <-scanErr; err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				d.logger.Debug("input exhausted")
				return nil
			}
			if d.machine.Accept(tok) {
				d.logger.Debug("machine terminated")
				return nil
			}
		}
	}
}

// scanTokens splits in on whitespace. It stops early when done is closed.
func scanTokens(in io.Reader, tokens chan<- string, errc chan<- error, done <-chan struct{}) {
	defer close(tokens)
	sc := bufio.NewScanner(in)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		select {
		case tokens <- sc.Text():
		case <-done:
			errc <- nil
			return
		}
	}
	errc <- sc.Err()
}

func (d *Daemon) logSummary() {
	if d.db == nil {
		return
	}
	t, err := d.db.SessionTotals(d.sessionID)
	if err != nil {
		d.logger.Warn("session totals", zap.Error(err))
		return
	}
	d.logger.Info("session closed",
		zap.Int("sales", t.Sales),
		zap.Int("revenue", t.Revenue),
		zap.Int("shortages", t.Shortages),
		zap.Int("refills", t.Refills),
		zap.Int("paid_out", t.PaidOut))
}

// Close releases the journal and any unused listener.
func (d *Daemon) Close() error {
	var errs []error
	if d.listener != nil {
		// Serve closes the listener itself; a second close is harmless.
		if err := d.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, err)
		}
	}
	if d.db != nil {
		if err := d.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	_ = d.logger.Sync()
	return errors.Join(errs...)
}
