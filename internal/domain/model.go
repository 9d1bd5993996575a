// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of clean architecture. It depends on nothing.
package domain

import (
	"fmt"
	"strings"
)

// ─── Beverage Types ─────────────────────────────────────────────────────────

// Beverage is one drink the machine knows how to make.
// Every brew also consumes exactly one disposable cup.
type Beverage struct {
	Name  string `json:"name" toml:"name" yaml:"name"`
	Water int    `json:"water" toml:"water" yaml:"water"` // ml
	Milk  int    `json:"milk" toml:"milk" yaml:"milk"`    // ml
	Beans int    `json:"beans" toml:"beans" yaml:"beans"` // grams
	Price int    `json:"price" toml:"price" yaml:"price"`
}

// CupsPerBeverage is the number of disposable cups a single brew uses.
const CupsPerBeverage = 1

// Catalog is the ordered, immutable list of beverages on offer.
// Users select entries with 1-based numbers.
type Catalog []Beverage

// DefaultCatalog returns the factory beverage list.
func DefaultCatalog() Catalog {
	return Catalog{
		{Name: "espresso", Water: 250, Milk: 0, Beans: 16, Price: 4},
		{Name: "latte", Water: 350, Milk: 75, Beans: 20, Price: 7},
		{Name: "cappuccino", Water: 200, Milk: 100, Beans: 12, Price: 6},
	}
}

// At resolves a 0-based catalog index.
func (c Catalog) At(index int) (Beverage, error) {
	if index < 0 || index >= len(c) {
		return Beverage{}, fmt.Errorf("%w: selection %d of %d", ErrNoSuchBeverage, index+1, len(c))
	}
	return c[index], nil
}

// Menu renders the selection prompt, e.g. "1 - espresso, 2 - latte".
func (c Catalog) Menu() string {
	parts := make([]string, 0, len(c))
	for i, b := range c {
		parts = append(parts, fmt.Sprintf("%d - %s", i+1, b.Name))
	}
	return strings.Join(parts, ", ")
}

// ─── Ledger Types ───────────────────────────────────────────────────────────

// Resource names a consumable tracked by the ledger.
type Resource string

const (
	ResourceWater Resource = "water"
	ResourceMilk  Resource = "milk"
	ResourceBeans Resource = "coffee beans"
	ResourceCups  Resource = "disposable cups"
	ResourceMoney Resource = "money"
)

// Resources is the machine ledger: stock levels plus collected money.
// All operations are pure and return a new value.
type Resources struct {
	Water int `json:"water" toml:"water" yaml:"water"` // ml
	Milk  int `json:"milk" toml:"milk" yaml:"milk"`    // ml
	Beans int `json:"beans" toml:"beans" yaml:"beans"` // grams
	Cups  int `json:"cups" toml:"cups" yaml:"cups"`
	Money int `json:"money" toml:"money" yaml:"money"`
}

// DefaultResources returns the factory stock.
func DefaultResources() Resources {
	return Resources{Water: 400, Milk: 540, Beans: 120, Cups: 9, Money: 550}
}

// Add returns the component-wise sum of r and delta.
func (r Resources) Add(delta Resources) Resources {
	return Resources{
		Water: r.Water + delta.Water,
		Milk:  r.Milk + delta.Milk,
		Beans: r.Beans + delta.Beans,
		Cups:  r.Cups + delta.Cups,
		Money: r.Money + delta.Money,
	}
}

// Check reports whether r can cover b. Resources are checked in a fixed
// order (water, milk, coffee beans, cups) and the first shortfall wins.
func (r Resources) Check(b Beverage) error {
	checks := []struct {
		res        Resource
		have, need int
	}{
		{ResourceWater, r.Water, b.Water},
		{ResourceMilk, r.Milk, b.Milk},
		{ResourceBeans, r.Beans, b.Beans},
		{ResourceCups, r.Cups, CupsPerBeverage},
	}
	for _, c := range checks {
		if c.have < c.need {
			return &ShortageError{Resource: c.res, Have: c.have, Need: c.need}
		}
	}
	return nil
}

// Serve debits b's ingredients and one cup and credits its price.
// It does not check stock; call Check first.
func (r Resources) Serve(b Beverage) Resources {
	return Resources{
		Water: r.Water - b.Water,
		Milk:  r.Milk - b.Milk,
		Beans: r.Beans - b.Beans,
		Cups:  r.Cups - CupsPerBeverage,
		Money: r.Money + b.Price,
	}
}

// Payout empties the cash box and returns the amount handed out.
func (r Resources) Payout() (int, Resources) {
	amount := r.Money
	r.Money = 0
	return amount, r
}

// Level returns the ledger value for res.
func (r Resources) Level(res Resource) int {
	switch res {
	case ResourceWater:
		return r.Water
	case ResourceMilk:
		return r.Milk
	case ResourceBeans:
		return r.Beans
	case ResourceCups:
		return r.Cups
	case ResourceMoney:
		return r.Money
	default:
		return 0
	}
}

// AllResources lists ledger fields in report order.
func AllResources() []Resource {
	return []Resource{ResourceWater, ResourceMilk, ResourceBeans, ResourceCups, ResourceMoney}
}
