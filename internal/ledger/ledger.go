// Package ledger holds named numeric balances per account and moves them
// between accounts. It also owns the global turn counter.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/oklog/ulid/v2"
)

// Money is the only resource the game currently trades.
const Money = "money"

var (
	ErrUnknownAccount = errors.New("unknown account")
	ErrInvalidAmount  = errors.New("invalid trade amount")
	ErrDuplicate      = errors.New("account already exists")
)

// Account is one actor's wallet: resource name → balance.
type Account struct {
	Name     string
	balances map[string]float64
}

// Balance returns the current balance of a resource (0 if never touched).
func (a *Account) Balance(resource string) float64 {
	return a.balances[resource]
}

// Resources lists the resource names this account has ever held, sorted.
func (a *Account) Resources() []string {
	names := make([]string, 0, len(a.balances))
	for name := range a.balances {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Transfer is one journalled trade.
type Transfer struct {
	ID       string  `json:"id" db:"id"`
	Turn     int     `json:"turn" db:"turn"`
	From     string  `json:"from" db:"source"`
	To       string  `json:"to" db:"target"`
	Resource string  `json:"resource" db:"resource"`
	Amount   float64 `json:"amount" db:"amount"`
}

// Ledger stores every account and the trade journal.
type Ledger struct {
	accounts  map[string]*Account
	order     []string
	transfers []Transfer
	turnCount int
}

// New creates an empty ledger at turn 0.
func New() *Ledger {
	return &Ledger{accounts: make(map[string]*Account)}
}

// Open registers a new account with the given opening balances.
func (l *Ledger) Open(name string, opening map[string]float64) (*Account, error) {
	if _, ok := l.accounts[name]; ok {
		return nil, fmt.Errorf("open %q: %w", name, ErrDuplicate)
	}
	acct := &Account{Name: name, balances: make(map[string]float64, len(opening))}
	for res, amt := range opening {
		acct.balances[res] = amt
	}
	l.accounts[name] = acct
	l.order = append(l.order, name)
	return acct, nil
}

// Account looks up an account by name.
func (l *Ledger) Account(name string) (*Account, bool) {
	a, ok := l.accounts[name]
	return a, ok
}

// Accounts returns all accounts in the order they were opened.
func (l *Ledger) Accounts() []*Account {
	out := make([]*Account, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, l.accounts[name])
	}
	return out
}

// Balance returns an account's balance for a resource.
func (l *Ledger) Balance(name, resource string) (float64, error) {
	a, ok := l.accounts[name]
	if !ok {
		return 0, fmt.Errorf("balance %q: %w", name, ErrUnknownAccount)
	}
	return a.Balance(resource), nil
}

// Trade moves amount of resource from source to target. Sufficiency is not
// checked: the source may go negative, and insolvency is detected by whoever
// reads the balance afterwards. A trade between the same account is a
// journalled no-op.
func (l *Ledger) Trade(source, target, resource string, amount float64) (Transfer, error) {
	src, ok := l.accounts[source]
	if !ok {
		return Transfer{}, fmt.Errorf("trade from %q: %w", source, ErrUnknownAccount)
	}
	dst, ok := l.accounts[target]
	if !ok {
		return Transfer{}, fmt.Errorf("trade to %q: %w", target, ErrUnknownAccount)
	}
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Transfer{}, fmt.Errorf("trade %v %s: %w", amount, resource, ErrInvalidAmount)
	}
	if resource == "" {
		return Transfer{}, fmt.Errorf("trade without resource name: %w", ErrInvalidAmount)
	}

	src.balances[resource] -= amount
	dst.balances[resource] += amount

	t := Transfer{
		ID:       ulid.Make().String(),
		Turn:     l.turnCount,
		From:     source,
		To:       target,
		Resource: resource,
		Amount:   amount,
	}
	l.transfers = append(l.transfers, t)
	return t, nil
}

// Transfers returns a copy of the trade journal, oldest first.
func (l *Ledger) Transfers() []Transfer {
	out := make([]Transfer, len(l.transfers))
	copy(out, l.transfers)
	return out
}

// TurnCount is the number of completed turns.
func (l *Ledger) TurnCount() int {
	return l.turnCount
}

// CompleteTurn increments the turn counter and returns the new value.
func (l *Ledger) CompleteTurn() int {
	l.turnCount++
	return l.turnCount
}
