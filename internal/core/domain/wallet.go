package domain

import "time"

// Wallet holds a user's stored-value balance. Balance and FrozenAmount are
// kept in the smallest currency unit and must never go negative.
type Wallet struct {
	UserID       string    `json:"user_id"`
	Balance      int64     `json:"balance"`
	FrozenAmount int64     `json:"frozen_amount"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewWallet returns an empty wallet for the given user.
func NewWallet(userID string) *Wallet {
	return &Wallet{
		UserID:    userID,
		UpdatedAt: time.Now().UTC(),
	}
}

// Total returns the full value held by the wallet, available plus frozen.
func (w *Wallet) Total() int64 {
	return w.Balance + w.FrozenAmount
}
