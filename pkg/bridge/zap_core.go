package bridge

import (
	"maps"
	"slices"

	"go.uber.org/zap/zapcore"

	"github.com/pocketlog/pocketlog-go/pkg/log"
)

// ZapCore is a zapcore.Core that posts every entry to a bus. The zap logger
// name becomes the category.
type ZapCore struct {
	bus    *log.Bus
	pred   Predicate
	fields []zapcore.Field
}

// NewZapCore returns a core that posts to bus. A nil bus means log.Default().
func NewZapCore(bus *log.Bus, pred Predicate) *ZapCore {
	if bus == nil {
		bus = log.Default()
	}
	return &ZapCore{bus: bus, pred: pred}
}

// FromZapLevel maps a zap level onto log levels.
func FromZapLevel(l zapcore.Level) log.Level {
	switch {
	case l < zapcore.DebugLevel:
		return log.LevelTrace
	case l == zapcore.DebugLevel:
		return log.LevelDebug
	case l == zapcore.InfoLevel:
		return log.LevelInformation
	case l == zapcore.WarnLevel:
		return log.LevelWarning
	case l == zapcore.ErrorLevel:
		return log.LevelError
	default:
		return log.LevelCritical
	}
}

// Enabled implements zapcore.LevelEnabler. The predicate needs the logger
// name, so it is applied in Check instead.
func (c *ZapCore) Enabled(zapcore.Level) bool {
	return true
}

// With implements zapcore.Core.
func (c *ZapCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(c.fields[:len(c.fields):len(c.fields)], fields...)
	return &clone
}

// Check implements zapcore.Core.
func (c *ZapCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.pred.allows(ent.LoggerName, FromZapLevel(ent.Level)) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write implements zapcore.Core.
func (c *ZapCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	e := log.NewMessage(FromZapLevel(ent.Level), ent.Message).WithCategory(ent.LoggerName)
	addFields(e, c.fields)
	addFields(e, fields)
	c.bus.Post(e)
	return nil
}

// Sync implements zapcore.Core. Posting is synchronous, so there is nothing
// to flush.
func (c *ZapCore) Sync() error {
	return nil
}

// addFields encodes each field on its own so properties keep the field order.
// The first error field becomes the entry's error.
func addFields(e *log.Entry, fields []zapcore.Field) {
	for _, f := range fields {
		if f.Type == zapcore.ErrorType && e.Err() == nil {
			if err, ok := f.Interface.(error); ok {
				e.WithError(err)
				continue
			}
		}

		enc := zapcore.NewMapObjectEncoder()
		f.AddTo(enc)
		for _, k := range slices.Sorted(maps.Keys(enc.Fields)) {
			_ = e.AddProperty(k, enc.Fields[k])
		}
	}
}

// Compile-time interface satisfaction check.
var _ zapcore.Core = (*ZapCore)(nil)
