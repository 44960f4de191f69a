package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pocketlog/pocketlog-go/pkg/bridge"
	"github.com/pocketlog/pocketlog-go/pkg/log"
	"github.com/pocketlog/pocketlog-go/pkg/metrics"
)

// faultCategory is the category whose entries the injected subscriber panics on.
const faultCategory = "demo.faults"

var errCardDeclined = errors.New("card declined")

// DemoOptions configures the demo command.
type DemoOptions struct {
	Output      string
	Compress    bool
	MinLevel    string
	Metrics     bool
	InjectFault bool
	FaultRate   float64
	FaultBurst  int
}

// RunDemo wires a bus the way an application would, emits a set of sample
// entries and operations through it and writes the console sink output to w.
func RunDemo(opts DemoOptions, w io.Writer, diagLogger *zap.Logger) error {
	if diagLogger == nil {
		diagLogger = zap.NewNop()
	}
	minLevel, err := ParseLevelFlag(opts.MinLevel)
	if err != nil {
		return err
	}

	faults := log.FaultLogger(diagLogger.Named("faults"), rate.Limit(opts.FaultRate), opts.FaultBurst)
	var registry *prometheus.Registry
	var collector *metrics.Collector
	if opts.Metrics {
		registry = prometheus.NewRegistry()
		collector = metrics.New(registry)
		faults = collector.FaultHandler(faults)
	}
	bus := log.NewBus(log.WithFaultHandler(faults))

	var sinkOpts []log.WriterOption
	if minLevel != nil {
		sinkOpts = append(sinkOpts, log.WithMinLevel(*minLevel))
	}
	console, err := bus.Attach(log.NewWriterSink(w, sinkOpts...))
	if err != nil {
		return err
	}
	defer console.Close()

	if opts.Output != "" {
		var fileOpts []log.FileOption
		if opts.Compress {
			fileOpts = append(fileOpts, log.WithCompression())
		}
		fl, err := log.NewFileLogger(opts.Output, fileOpts...)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		defer fl.Close()

		sub, err := bus.Attach(fl)
		if err != nil {
			return err
		}
		defer sub.Close()
		diagLogger.Debug("recording demo entries", zap.String("path", opts.Output), zap.Bool("compress", opts.Compress))
	}

	if collector != nil {
		sub, err := bus.Attach(collector)
		if err != nil {
			return err
		}
		defer sub.Close()
	}

	if opts.InjectFault {
		sub, err := bus.Subscribe(func(e *log.Entry) {
			if e.Category() == faultCategory {
				panic("injected subscriber fault")
			}
		})
		if err != nil {
			return err
		}
		defer sub.Close()
	}

	runDemoScenario(bus)

	if registry != nil {
		if err := printMetrics(w, registry); err != nil {
			return err
		}
	}
	diagLogger.Info("demo finished", zap.Int("subscribers", bus.Len()))
	return nil
}

func runDemoScenario(bus *log.Bus) {
	orders := bus.Logger("demo.orders")
	orders.Info("processing {Count} orders for {Customer}", 3, "acme")

	importOrders(orders)
	chargeCard(orders)
	reserveStock(orders)
	refreshCache(bus.Logger("demo.cache"))

	handler := bridge.NewSlogHandler(bus, "demo.slog", nil)
	sl := slog.New(handler)
	sl.Info("request served", "path", "/orders", "status", 200)
	sl.With("component", "cache").WithGroup("stats").Warn("hit ratio low", "ratio", 0.42)

	zl := zap.New(bridge.NewZapCore(bus, bridge.MinLevel(log.LevelDebug))).Named("demo.zap")
	zl.Debug("pool ready", zap.Int("size", 4))
	zl.Error("upstream unavailable", zap.String("host", "billing.internal"), zap.Error(errCardDeclined))

	op := bridge.BeginOperation(bus, "demo.frontend", "RenderDashboard")
	op.Info("rendered {Widgets} widgets", 6)
	op.Close()

	faulty := bus.Logger(faultCategory)
	for i := range 3 {
		faulty.Warning("entry {Index} reaches a broken subscriber", i)
	}
}

// importOrders confirms its operation, so it ends as succeeded.
func importOrders(logger log.Logger) {
	op := logger.ConfirmOnExit()
	defer op.Close()

	for i := 1; i <= 3; i++ {
		op.Debug("imported order {Order}", fmt.Sprintf("A-%03d", i))
		time.Sleep(time.Millisecond)
	}
	op.Succeed("imported {Count} orders", 3)
}

// chargeCard fails with an error, so its end entry is posted at error level.
func chargeCard(logger log.Logger) {
	op := logger.OnEnterAndExit(log.RequireConfirm())
	defer op.Close()

	op.Info("charging {Amount}", "42.00 EUR")
	op.FailWith(errCardDeclined, "charge rejected")
}

// reserveStock never confirms, so Close ends it as failed.
func reserveStock(logger log.Logger) {
	op := logger.ConfirmOnExit()
	defer op.Close()

	op.Warning("warehouse {Warehouse} slow to respond", "north")
}

// refreshCache does not track success.
func refreshCache(logger log.Logger) {
	op := logger.OnExit()
	defer op.Close()

	op.Trace("evicted {Keys} keys", 12)
}

func printMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Metrics:")
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}

			var value string
			switch {
			case m.GetCounter() != nil:
				value = fmt.Sprintf("%g", m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				value = fmt.Sprintf("count=%d sum=%.3fs", m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum())
			default:
				continue
			}
			fmt.Fprintf(w, "  %s{%s} %s\n", mf.GetName(), strings.Join(labels, ","), value)
		}
	}
	return nil
}
