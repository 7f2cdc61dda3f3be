package config

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zapcore"

	"boardcode-go/errcode"
	"boardcode-go/rtos"
)

func withLookup(t *testing.T, fn func(string) ([]byte, bool)) {
	t.Helper()
	old := EmbeddedConfigLookup
	EmbeddedConfigLookup = fn
	t.Cleanup(func() { EmbeddedConfigLookup = old })
}

func TestLoadEmbedded(t *testing.T) {
	a, found, err := Load("STM32F4-Discovery")
	if err != nil || !found {
		t.Fatalf("Load = %v, %v", found, err)
	}
	want := App{LEDInstance: 3, BlinkPeriodMS: 250, HeartbeatPeriodMS: 2000, LogLevel: "debug"}
	if diff := cmp.Diff(want, a); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if a.Level() != zapcore.DebugLevel {
		t.Fatalf("level = %v", a.Level())
	}
}

func TestMissingKeysKeepDefaults(t *testing.T) {
	withLookup(t, func(string) ([]byte, bool) { return []byte("blink_period_ms: 100\n"), true })
	a, _, err := Load("any")
	if err != nil {
		t.Fatal(err)
	}
	want := Defaults()
	want.BlinkPeriodMS = 100
	if diff := cmp.Diff(want, a); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestMissingConfigFallsBackToDefaults(t *testing.T) {
	withLookup(t, func(string) ([]byte, bool) { return nil, false })
	a, found, err := Load("NUCLEO-L432KC")
	if err != nil || found {
		t.Fatalf("found = %v, err = %v", found, err)
	}
	if diff := cmp.Diff(Defaults(), a); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestBadConfigRejected(t *testing.T) {
	for name, raw := range map[string]string{
		"unknown key": "blink_rate: 3\n",
		"zero period": "blink_period_ms: 0\n",
		"bad level":   "log_level: loud\n",
		"negative":    "led_instance: -1\n",
	} {
		a, err := Parse([]byte(raw))
		if err == nil {
			t.Fatalf("%s: accepted", name)
		}
		if errcode.Of(err) != errcode.ConfigFailed && !errors.Is(err, errcode.InvalidParams) {
			t.Fatalf("%s: err = %v", name, err)
		}
		if a != Defaults() {
			t.Fatalf("%s: rejected config must yield defaults, got %+v", name, a)
		}
	}
}

func TestPublishIsRetained(t *testing.T) {
	h := rtos.NewHub(2)
	a := Defaults()
	a.BlinkPeriodMS = 42
	Publish(h, a)

	sub := h.Subscribe(TopicApp)
	select {
	case m := <-sub.C():
		got, ok := m.Payload.(App)
		if !ok || got.BlinkPeriodMS != 42 {
			t.Fatalf("payload = %#v", m.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("retained config not delivered")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	raw, err := Defaults().Marshal()
	if err != nil {
		t.Fatal(err)
	}
	a, err := Parse(raw)
	if err != nil || a != Defaults() {
		t.Fatalf("Parse(Marshal(defaults)) = %+v, %v", a, err)
	}
}
