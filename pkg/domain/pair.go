package domain

import "strings"

// PairKey is the canonical, order-independent key for a pair of users.
// Low always holds the lexicographically smaller UUID string, so the key is
// identical regardless of which side of a mutual interest triggered formation.
// Storage layers enforce match uniqueness on this key.
type PairKey struct {
	Low  UserID
	High UserID
}

// NewPairKey builds the canonical key for two users. The inputs may arrive in
// either order.
func NewPairKey(a, b UserID) PairKey {
	if strings.Compare(a.String(), b.String()) <= 0 {
		return PairKey{Low: a, High: b}
	}
	return PairKey{Low: b, High: a}
}

// Contains reports whether the given user is one of the pair.
func (p PairKey) Contains(u UserID) bool {
	return p.Low == u || p.High == u
}

// Other returns the pair member that is not u. Callers must ensure u is part
// of the pair.
func (p PairKey) Other(u UserID) UserID {
	if p.Low == u {
		return p.High
	}
	return p.Low
}

// String renders the key as "low:high", suitable for cache keys and event
// partitioning.
func (p PairKey) String() string {
	return p.Low.String() + ":" + p.High.String()
}
