// Package machine implements the coffee-machine command interpreter.
//
// The interpreter consumes one token of input at a time:
//  1. Next computes the follow-up state from the current state and the token
//  2. Transient states (brew, payout, report, apply fill) run their side
//     effect and fall through to Idle within the same call
//  3. The prompt of the resulting state is written to the output
//
// A Machine is not safe for concurrent use; callers feeding it from more
// than one goroutine must serialize calls to Accept.
package machine

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tutu-network/brew/internal/domain"
)

// Messages written by the interpreter.
const (
	MsgEnough       = "I have enough resources, making you a coffee!"
	MsgNoSuchDrink  = "Sorry, no such drink!"
	msgShortageFmt  = "Sorry, not enough %s!"
	msgPayoutFmt    = "I gave you $%d"
	promptWater     = "Write how many ml of water do you want to add:"
	promptMilk      = "Write how many ml of milk do you want to add:"
	promptBeans     = "Write how many grams of coffee beans do you want to add:"
	promptCups      = "Write how many disposable cups of coffee do you want to add:"
	reportHeader    = "The coffee machine has:"
	selectPromptFmt = "What do you want to buy? %s, back - to main menu"
)

// ShortageMessage is the line printed when res runs out.
func ShortageMessage(res domain.Resource) string {
	return fmt.Sprintf(msgShortageFmt, res)
}

// PayoutMessage is the line printed when the cash box is emptied.
func PayoutMessage(amount int) string {
	return fmt.Sprintf(msgPayoutFmt, amount)
}

// Options wires optional collaborators into a Machine.
type Options struct {
	Out    io.Writer        // dialogue output (default: io.Discard)
	Sink   domain.EventSink // receives every event (default: none)
	Logger *zap.Logger      // default: no-op
	Now    func() time.Time // event clock (default: time.Now)
}

// Machine is the command interpreter. It owns the ledger and the current
// interaction state for its whole lifetime.
type Machine struct {
	catalog domain.Catalog
	ledger  domain.Resources
	state   State

	out    io.Writer
	sink   domain.EventSink
	logger *zap.Logger
	now    func() time.Time
}

// New creates an interpreter in the Idle state. Call Start to print the
// first prompt.
func New(catalog domain.Catalog, ledger domain.Resources, opts Options) *Machine {
	m := &Machine{
		catalog: catalog,
		ledger:  ledger,
		state:   State{Kind: Idle},
		out:     opts.Out,
		sink:    opts.Sink,
		logger:  opts.Logger,
		now:     opts.Now,
	}
	if m.out == nil {
		m.out = io.Discard
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// Start writes the prompt of the current state.
func (m *Machine) Start() {
	m.prompt()
}

// Ledger returns a copy of the current ledger.
func (m *Machine) Ledger() domain.Resources { return m.ledger }

// State returns the current interaction state.
func (m *Machine) State() State { return m.state }

// Terminated reports whether exit has been accepted.
func (m *Machine) Terminated() bool { return m.state.Kind == Terminated }

// Accept consumes one line of input and returns true once the machine is
// terminated. After termination every call is a no-op returning true.
func (m *Machine) Accept(line string) bool {
	if m.state.Kind == Terminated {
		return true
	}

	prev := m.state
	if prev.Kind == Idle {
		m.emit(domain.Event{Kind: domain.EventCommand, Command: commandName(line)})
	}

	next := Next(prev, line)
	m.logger.Debug("transition",
		zap.Stringer("from", prev.Kind),
		zap.Stringer("to", next.Kind),
		zap.String("input", line))

	switch next.Kind {
	case PreparingDrink:
		m.brew(next.Selection)
	case ExtractingMoney:
		m.payout()
	case PrintingState:
		m.report()
	case ApplyingFill:
		m.refill(next.Delta)
	}
	if next.Kind.Transient() {
		next = Next(next, "")
	}

	m.state = next
	m.prompt()
	return next.Kind == Terminated
}

// brew attempts a purchase. The ledger changes only on success, in one step.
func (m *Machine) brew(index int) {
	bev, err := m.catalog.At(index)
	if err != nil {
		m.println(MsgNoSuchDrink)
		m.emit(domain.Event{Kind: domain.EventRejected, Selection: index + 1})
		return
	}

	if err := m.ledger.Check(bev); err != nil {
		var short *domain.ShortageError
		if errors.As(err, &short) {
			m.println(ShortageMessage(short.Resource))
			m.emit(domain.Event{
				Kind:      domain.EventShortage,
				Beverage:  bev.Name,
				Resource:  short.Resource,
				Selection: index + 1,
			})
		}
		return
	}

	m.println(MsgEnough)
	m.ledger = m.ledger.Serve(bev)
	m.emit(domain.Event{
		Kind:      domain.EventSale,
		Beverage:  bev.Name,
		Selection: index + 1,
		Amount:    bev.Price,
		Delta: domain.Resources{
			Water: -bev.Water,
			Milk:  -bev.Milk,
			Beans: -bev.Beans,
			Cups:  -domain.CupsPerBeverage,
			Money: bev.Price,
		},
	})
}

func (m *Machine) payout() {
	amount, after := m.ledger.Payout()
	m.ledger = after
	m.println(PayoutMessage(amount))
	m.emit(domain.Event{
		Kind:   domain.EventPayout,
		Amount: amount,
		Delta:  domain.Resources{Money: -amount},
	})
}

func (m *Machine) report() {
	m.println(Report(m.ledger))
	m.emit(domain.Event{Kind: domain.EventReport})
}

func (m *Machine) refill(delta domain.Resources) {
	m.ledger = m.ledger.Add(delta)
	m.emit(domain.Event{Kind: domain.EventRefill, Delta: delta})
}

// Report renders the five-line ledger report.
func Report(r domain.Resources) string {
	var b strings.Builder
	b.WriteString(reportHeader)
	fmt.Fprintf(&b, "\n%d of water", r.Water)
	fmt.Fprintf(&b, "\n%d of milk", r.Milk)
	fmt.Fprintf(&b, "\n%d of coffee beans", r.Beans)
	fmt.Fprintf(&b, "\n%d of disposable cups", r.Cups)
	fmt.Fprintf(&b, "\n%d of money", r.Money)
	return b.String()
}

// Prompt returns the text shown on entry to a state, or "" for states
// that print nothing.
func (m *Machine) Prompt(s State) string {
	switch s.Kind {
	case Idle:
		return "Write action (" + strings.Join(Commands(), ", ") + "):"
	case SelectingDrink:
		return fmt.Sprintf(selectPromptFmt, m.catalog.Menu())
	case FillingWater:
		return promptWater
	case FillingMilk:
		return promptMilk
	case FillingBeans:
		return promptBeans
	case FillingCups:
		return promptCups
	default:
		return ""
	}
}

func (m *Machine) prompt() {
	if p := m.Prompt(m.state); p != "" {
		m.println(p)
	}
}

func (m *Machine) println(s string) {
	fmt.Fprintln(m.out, s)
}

// emit stamps ev and hands it to the sink. Sink failures are logged only;
// they never affect the ledger.
func (m *Machine) emit(ev domain.Event) {
	if m.sink == nil {
		return
	}
	ev.Timestamp = m.now()
	ev.Ledger = m.ledger
	if err := m.sink.Record(ev); err != nil {
		m.logger.Warn("record event", zap.String("kind", string(ev.Kind)), zap.Error(err))
	}
}
