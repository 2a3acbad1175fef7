// Package currency tracks the player's coin balance.
package currency

import "errors"

// ErrInsufficientFunds is returned when a purchase costs more than the balance
var ErrInsufficientFunds = errors.New("insufficient funds")

// DefaultStartingCoins is the balance a new game starts with
const DefaultStartingCoins = 100

// Ledger is a non-negative coin balance
type Ledger struct {
	coins int
}

// NewLedger creates a ledger holding coins. Negative amounts start at zero.
func NewLedger(coins int) *Ledger {
	if coins < 0 {
		coins = 0
	}
	return &Ledger{coins: coins}
}

// Balance returns the current coin count
func (l *Ledger) Balance() int {
	return l.coins
}

// Add credits amount coins. Non-positive amounts are ignored.
func (l *Ledger) Add(amount int) {
	if amount > 0 {
		l.coins += amount
	}
}

// Remove debits amount coins, or returns false and leaves the balance
// unchanged when it cannot be afforded.
func (l *Ledger) Remove(amount int) bool {
	if amount < 0 || l.coins < amount {
		return false
	}
	l.coins -= amount
	return true
}

// CanAfford reports whether amount can be paid
func (l *Ledger) CanAfford(amount int) bool {
	return amount >= 0 && l.coins >= amount
}

// MaxAffordable returns how many units at price fit in the balance. A free
// item is limited only by the caller.
func (l *Ledger) MaxAffordable(price, limit int) int {
	if price <= 0 {
		return limit
	}
	n := l.coins / price
	if n > limit {
		return limit
	}
	return n
}

// Set replaces the balance, used when restoring a save
func (l *Ledger) Set(coins int) {
	if coins < 0 {
		coins = 0
	}
	l.coins = coins
}
