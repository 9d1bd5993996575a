package machine

import (
	"strconv"

	"github.com/tutu-network/brew/internal/domain"
)

// Kind tags the variant held by a State.
type Kind int

const (
	Idle Kind = iota
	SelectingDrink
	PreparingDrink
	ExtractingMoney
	PrintingState
	Terminated
	FillingWater
	FillingMilk
	FillingBeans
	FillingCups
	ApplyingFill
)

var kindNames = [...]string{
	Idle:            "idle",
	SelectingDrink:  "selecting_drink",
	PreparingDrink:  "preparing_drink",
	ExtractingMoney: "extracting_money",
	PrintingState:   "printing_state",
	Terminated:      "terminated",
	FillingWater:    "filling_water",
	FillingMilk:     "filling_milk",
	FillingBeans:    "filling_beans",
	FillingCups:     "filling_cups",
	ApplyingFill:    "applying_fill",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Transient reports whether a state resolves itself inside the same Accept
// call that entered it.
func (k Kind) Transient() bool {
	switch k {
	case PreparingDrink, ExtractingMoney, PrintingState, ApplyingFill:
		return true
	default:
		return false
	}
}

// State is the interpreter's position in its dialogue.
// Selection is set only for PreparingDrink (0-based catalog index, unchecked).
// Delta is set only for the fill kinds and carries the amounts entered so far.
type State struct {
	Kind      Kind
	Selection int
	Delta     domain.Resources
}

// Top-level commands understood at the main menu.
const (
	CmdBuy       = "buy"
	CmdFill      = "fill"
	CmdTake      = "take"
	CmdRemaining = "remaining"
	CmdExit      = "exit"
	CmdBack      = "back"

	cmdUnknown = "unknown"
)

// Commands lists the main-menu keywords in prompt order.
func Commands() []string {
	return []string{CmdBuy, CmdFill, CmdTake, CmdRemaining, CmdExit}
}

// Next computes the state that follows s on input. It is pure: side effects
// of transient states are applied by Machine.Accept.
func Next(s State, input string) State {
	switch s.Kind {
	case Idle:
		switch input {
		case CmdBuy:
			return State{Kind: SelectingDrink}
		case CmdFill:
			return State{Kind: FillingWater}
		case CmdTake:
			return State{Kind: ExtractingMoney}
		case CmdRemaining:
			return State{Kind: PrintingState}
		case CmdExit:
			return State{Kind: Terminated}
		default:
			return State{Kind: Idle}
		}

	case SelectingDrink:
		if input == CmdBack {
			return State{Kind: Idle}
		}
		n, err := parseInt(input)
		if err != nil || n == 0 {
			return State{Kind: Idle}
		}
		return State{Kind: PreparingDrink, Selection: n - 1}

	case FillingWater:
		return State{Kind: FillingMilk, Delta: domain.Resources{Water: amount(input)}}
	case FillingMilk:
		d := s.Delta
		d.Milk = amount(input)
		return State{Kind: FillingBeans, Delta: d}
	case FillingBeans:
		d := s.Delta
		d.Beans = amount(input)
		return State{Kind: FillingCups, Delta: d}
	case FillingCups:
		d := s.Delta
		d.Cups = amount(input)
		return State{Kind: ApplyingFill, Delta: d}

	case Terminated:
		return s

	default:
		// PreparingDrink, ExtractingMoney, PrintingState, ApplyingFill
		return State{Kind: Idle}
	}
}

// amount parses a fill quantity. Garbage reads as 0 and negatives clamp to 0.
func amount(input string) int {
	n, err := parseInt(input)
	if err != nil {
		return 0
	}
	return max(0, n)
}

// parseInt reads a 32-bit decimal integer. Anything wider is a parse error.
func parseInt(input string) (int, error) {
	n, err := strconv.ParseInt(input, 10, 32)
	return int(n), err
}

func commandName(input string) string {
	for _, c := range Commands() {
		if input == c {
			return c
		}
	}
	return cmdUnknown
}
