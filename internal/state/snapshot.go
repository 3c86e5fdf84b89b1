package state

import (
	"time"

	"github.com/five82/shelf/internal/catalog"
)

// Phase is the lifecycle position of a product query.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// Snapshot represents the latest query state available to the UI.
type Snapshot struct {
	Phase               Phase
	Products            []catalog.Product // nil while loading or after a failure
	Loading             bool
	Err                 string // empty unless the most recent fetch failed
	LastUpdated         time.Time
	ConsecutiveFailures int
}

// HasError reports whether the most recent fetch failed.
func (s Snapshot) HasError() bool {
	return s.Err != ""
}

// Settled reports whether a fetch has completed since the last reset.
func (s Snapshot) Settled() bool {
	return s.Phase == PhaseSuccess || s.Phase == PhaseError
}

func (s Snapshot) clone() Snapshot {
	dup := s
	dup.Products = cloneProducts(s.Products)
	return dup
}

func cloneProducts(items []catalog.Product) []catalog.Product {
	if items == nil {
		return nil
	}
	dup := make([]catalog.Product, len(items))
	copy(dup, items)
	return dup
}
