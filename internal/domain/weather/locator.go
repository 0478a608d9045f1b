package weather

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrLocationDenied is returned when the user refused to share a position.
	ErrLocationDenied = errors.New("location permission denied")
	// ErrLocationUnknown is returned when no position source is available.
	ErrLocationUnknown = errors.New("location unknown")
)

// Locator produces the caller's current position. Implementations must honor ctx.
type Locator interface {
	Locate(ctx context.Context) (Position, error)
}

// LocatorFunc adapts a function to the Locator interface.
type LocatorFunc func(ctx context.Context) (Position, error)

// Locate implements Locator.
func (f LocatorFunc) Locate(ctx context.Context) (Position, error) {
	return f(ctx)
}

// StaticLocator reports a fixed position, typically supplied by the client.
type StaticLocator struct {
	Coordinates Coordinates
	ObservedAt  time.Time
}

// Locate implements Locator.
func (l StaticLocator) Locate(context.Context) (Position, error) {
	observed := l.ObservedAt
	if observed.IsZero() {
		observed = time.Now().UTC()
	}
	return Position{Coordinates: l.Coordinates, ObservedAt: observed}, nil
}

// ChainLocator tries each locator in order and returns the first success.
type ChainLocator []Locator

// Locate implements Locator.
func (c ChainLocator) Locate(ctx context.Context) (Position, error) {
	lastErr := ErrLocationUnknown
	for _, loc := range c {
		if loc == nil {
			continue
		}
		pos, err := loc.Locate(ctx)
		if err == nil {
			return pos, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return Position{}, lastErr
}
