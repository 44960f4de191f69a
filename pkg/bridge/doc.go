// Package bridge connects other logging front ends to a log.Bus.
//
// SlogHandler lets code written against log/slog post into a bus and ZapCore
// does the same for go.uber.org/zap. Both map the front end's record onto a
// category, a level, an error and ordered properties, then call Post. Neither
// touches the bus beyond that.
//
//	bus := log.NewBus()
//	slog.SetDefault(slog.New(bridge.NewSlogHandler(bus, "app", nil)))
//	zlog := zap.New(bridge.NewZapCore(bus, nil)).Named("worker")
package bridge

import "github.com/pocketlog/pocketlog-go/pkg/log"

// Predicate decides at the front end whether an entry for category at level
// should be posted at all. A nil Predicate admits everything.
type Predicate func(category string, level log.Level) bool

func (p Predicate) allows(category string, level log.Level) bool {
	return p == nil || p(category, level)
}

// MinLevel returns a Predicate that admits entries at or above level in every
// category.
func MinLevel(level log.Level) Predicate {
	return func(_ string, l log.Level) bool {
		return l >= level
	}
}

// BeginOperation opens an operation named name in category that posts a start
// entry immediately, the way a front end scope would.
func BeginOperation(bus *log.Bus, category, name string) *log.Operation {
	if bus == nil {
		bus = log.Default()
	}
	return bus.OnEnterAndExit(log.WithCategory(category), log.WithName(name))
}
