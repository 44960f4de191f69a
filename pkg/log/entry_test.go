package log

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

func TestEntryLazyArgsEvaluatedOnce(t *testing.T) {
	var calls atomic.Int32
	e := NewEntry(LevelInformation, "value {V}", Lazy(func() any {
		calls.Add(1)
		return 42
	}))

	if calls.Load() != 0 {
		t.Fatal("lazy argument evaluated at construction")
	}

	first := e.Evaluate()
	second := e.Evaluate()
	_ = e.Message()
	_ = e.String()

	if got := calls.Load(); got != 1 {
		t.Errorf("lazy argument called %d times, want 1", got)
	}
	if first.Message != "value 42" || second.Message != first.Message {
		t.Errorf("messages = %q, %q; want %q", first.Message, second.Message, "value 42")
	}
	if len(first.Properties) != 1 || first.Properties[0].Value != 42 {
		t.Errorf("properties = %v, want [V=42]", first.Properties)
	}
}

func TestEntryNotEvaluatedWithoutConsumer(t *testing.T) {
	var calls atomic.Int32
	bus := NewBus()
	sub, err := bus.Subscribe(func(e *Entry) {
		_ = e.Level()
		_ = e.Category()
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Close()

	bus.Post(NewEntry(LevelDebug, "{X}", Lazy(func() any {
		calls.Add(1)
		return "x"
	})))

	if got := calls.Load(); got != 0 {
		t.Errorf("lazy argument called %d times, want 0", got)
	}
}

func TestEntryConcurrentEvaluate(t *testing.T) {
	var calls atomic.Int32
	e := NewEntry(LevelInformation, "{A}", func() any {
		calls.Add(1)
		return "a"
	})

	var wg sync.WaitGroup
	results := make([]string, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = e.Evaluate().Message
		}(i)
	}
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("thunk called %d times, want 1", got)
	}
	for i, r := range results {
		if r != "a" {
			t.Errorf("result[%d] = %q, want %q", i, r, "a")
		}
	}
}

func TestEntryPanickingLazy(t *testing.T) {
	e := NewEntry(LevelWarning, "got {V}", Lazy(func() any {
		panic("boom")
	}))

	msg := e.Message()
	if !strings.Contains(msg, "!(PANIC=boom)") {
		t.Errorf("message = %q, want panic marker", msg)
	}
}

func TestEntryNilLazy(t *testing.T) {
	var fn Lazy
	e := NewEntry(LevelInformation, "{V}", fn)
	if got := e.Message(); got != "<nil>" {
		t.Errorf("message = %q, want %q", got, "<nil>")
	}
}

func TestEntryAddProperty(t *testing.T) {
	e := NewEntry(LevelInformation, "user {User}", "ada")
	if err := e.AddProperty("attempt", 3); err != nil {
		t.Fatalf("AddProperty: %v", err)
	}
	if err := e.AddProperty("lazy", Lazy(func() any { return "resolved" })); err != nil {
		t.Fatalf("AddProperty: %v", err)
	}

	ev := e.Evaluate()
	want := []Property{
		{Key: "User", Value: "ada"},
		{Key: "attempt", Value: 3},
		{Key: "lazy", Value: "resolved"},
	}
	if len(ev.Properties) != len(want) {
		t.Fatalf("properties = %v, want %v", ev.Properties, want)
	}
	for i := range want {
		if ev.Properties[i] != want[i] {
			t.Errorf("property[%d] = %v, want %v", i, ev.Properties[i], want[i])
		}
	}

	if err := e.AddProperty("late", true); !errors.Is(err, ErrEntryEvaluated) {
		t.Errorf("AddProperty after Evaluate: error = %v, want ErrEntryEvaluated", err)
	}
}

func TestNewMessageIsLiteral(t *testing.T) {
	e := NewMessage(LevelInformation, "map {key} stays")
	ev := e.Evaluate()
	if ev.Message != "map {key} stays" {
		t.Errorf("message = %q", ev.Message)
	}
	if len(ev.Properties) != 0 {
		t.Errorf("properties = %v, want none", ev.Properties)
	}
}

func TestEntryAccessors(t *testing.T) {
	cause := errors.New("disk full")
	e := NewEntry(LevelError, "write failed").WithCategory("storage").WithError(cause)

	if e.Level() != LevelError {
		t.Errorf("Level = %v", e.Level())
	}
	if e.Category() != "storage" {
		t.Errorf("Category = %q", e.Category())
	}
	if !errors.Is(e.Err(), cause) {
		t.Errorf("Err = %v", e.Err())
	}
	if e.Operation() != nil {
		t.Error("Operation should be nil for a plain entry")
	}
	if e.Timestamp().IsZero() {
		t.Error("Timestamp not set")
	}
}

func TestOperationInfoIsCheckpoint(t *testing.T) {
	var nilInfo *OperationInfo
	if nilInfo.IsCheckpoint() {
		t.Error("nil info reported as checkpoint")
	}
	if (&OperationInfo{IsStart: true}).IsCheckpoint() {
		t.Error("start reported as checkpoint")
	}
	if (&OperationInfo{IsEnd: true}).IsCheckpoint() {
		t.Error("end reported as checkpoint")
	}
	if !(&OperationInfo{ID: "x"}).IsCheckpoint() {
		t.Error("intermediate entry not reported as checkpoint")
	}
}
