// Package log provides an in-process structured logging bus with lazily
// rendered entries and scoped operation logging.
//
// Producers post entries to a Bus; every subscriber registered at that moment
// receives the entry synchronously, in registration order. Entries carry a
// message template that is only rendered when a subscriber asks for it, so
// posting to a bus with no interested subscribers is cheap.
//
// # Basic Usage
//
//	bus := log.NewBus()
//	sub, _ := bus.Attach(log.NewWriterSink(os.Stderr, log.WithMinLevel(log.LevelInformation)))
//	defer sub.Close()
//
//	logger := bus.Logger("billing")
//	logger.Info("charged {Customer} {Amount}", customer, amount)
//
// The package-level functions (Info, OnExit, ...) post to Default().
//
// # Operations
//
// An Operation groups a start entry, checkpoints and one end entry under a
// shared ID:
//
//	op := logger.ConfirmOnExit()
//	defer op.Close()
//	if err := charge(); err != nil {
//	    op.FailWith(err, "charge rejected")
//	    return err
//	}
//	op.Succeed("")
//
// The end entry records whether the operation succeeded, failed, or was left
// untracked. Format renders it with a marker:
//
//	▶️  start
//	⏺  checkpoint
//	⏹  end, untracked
//	⏹ -> ✔️  end, succeeded
//	⏹ -> ✖  end, failed
//
// # Sinks
//
// WriterSink prints formatted lines, SlogAdapter forwards to log/slog and
// FileLogger persists entries as CBOR Records (optionally zstd-compressed).
// Reader streams Records back with an optional Filter; the pocketlog CLI
// provides viewing, filtering, and export on top of it.
package log
