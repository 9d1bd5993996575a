package observability

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tutu-network/brew/internal/domain"
)

// NewLogger builds a console zap logger at the given level ("debug", "info",
// "warn", "error"). A nil writer logs to stderr so the dialogue on stdout
// stays clean.
func NewLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	if w == nil {
		w = os.Stderr
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

// LogSink logs machine events. Ledger-changing events go out at info,
// everything else at debug.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wraps logger as a domain.EventSink.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Record implements domain.EventSink.
func (s *LogSink) Record(ev domain.Event) error {
	fields := []zap.Field{
		zap.String("kind", string(ev.Kind)),
		zap.Int("water", ev.Ledger.Water),
		zap.Int("milk", ev.Ledger.Milk),
		zap.Int("beans", ev.Ledger.Beans),
		zap.Int("cups", ev.Ledger.Cups),
		zap.Int("money", ev.Ledger.Money),
	}
	if ev.Beverage != "" {
		fields = append(fields, zap.String("beverage", ev.Beverage))
	}
	if ev.Resource != "" {
		fields = append(fields, zap.String("resource", string(ev.Resource)))
	}
	if ev.Command != "" {
		fields = append(fields, zap.String("command", ev.Command))
	}

	switch ev.Kind {
	case domain.EventSale, domain.EventPayout, domain.EventRefill:
		s.logger.Info("machine event", append(fields, zap.Int("amount", ev.Amount))...)
	case domain.EventShortage, domain.EventRejected:
		s.logger.Debug("purchase refused", append(fields, zap.Int("selection", ev.Selection))...)
	default:
		s.logger.Debug("machine event", fields...)
	}
	return nil
}
