package log

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

// SubscriberFault describes a subscriber that panicked while handling an entry.
type SubscriberFault struct {
	// SubscriptionID identifies the failing subscription (see Subscription.ID).
	SubscriptionID uint64

	// Entry is the entry being delivered. Its message may be what panicked,
	// so handlers should not evaluate it.
	Entry *Entry

	// Value is the recovered panic value.
	Value any

	// Stack is the goroutine stack at the time of the panic.
	Stack []byte
}

// Error implements error.
func (f SubscriberFault) Error() string {
	return fmt.Sprintf("log subscriber %d panicked: %v", f.SubscriptionID, f.Value)
}

// Unwrap returns the panic value when it is an error.
func (f SubscriberFault) Unwrap() error {
	if err, ok := f.Value.(error); ok {
		return err
	}
	return nil
}

// FaultHandler receives subscriber faults. Handlers run on the posting
// goroutine and must not post to the bus they are attached to.
type FaultHandler func(SubscriberFault)

// FaultLogger returns a FaultHandler that reports faults to logger, allowing
// at most burst reports at once and limit reports per second after that.
// Faults over the limit are counted and the count is attached to the next
// report that gets through.
func FaultLogger(logger *zap.Logger, limit rate.Limit, burst int) FaultHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	limiter := rate.NewLimiter(limit, burst)
	var suppressed atomic.Uint64

	return func(f SubscriberFault) {
		if !limiter.Allow() {
			suppressed.Add(1)
			return
		}

		fields := []zap.Field{
			zap.Uint64("subscription_id", f.SubscriptionID),
			zap.Any("panic", f.Value),
		}
		if f.Entry != nil {
			fields = append(fields,
				zap.Stringer("level", f.Entry.Level()),
				zap.String("category", f.Entry.Category()),
			)
			if op := f.Entry.Operation(); op != nil {
				fields = append(fields, zap.String("operation_id", op.ID))
			}
		}
		if n := suppressed.Swap(0); n > 0 {
			fields = append(fields, zap.Uint64("suppressed", n))
		}
		if len(f.Stack) > 0 {
			fields = append(fields, zap.ByteString("stack", f.Stack))
		}

		logger.Error("log subscriber panicked", fields...)
	}
}

var defaultFaultHandler = sync.OnceValue(func() FaultHandler {
	return FaultLogger(newFallbackLogger(), rate.Every(time.Second), 10)
})

func newFallbackLogger() *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(os.Stderr),
		zapcore.ErrorLevel,
	)
	return zap.New(core).Named("pocketlog")
}
