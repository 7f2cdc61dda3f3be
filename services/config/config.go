// Package config resolves the application configuration embedded for a board
// and hands it to running tasks over the hub as a retained message.
package config

import (
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v2"

	"boardcode-go/errcode"
	"boardcode-go/rtos"
)

// TopicApp carries the current App value (retained).
const TopicApp = "config/app"

// App is the per-board application configuration.
type App struct {
	LEDInstance       int    `yaml:"led_instance"`
	BlinkPeriodMS     uint32 `yaml:"blink_period_ms"`
	ToggleMode        bool   `yaml:"toggle_mode"`
	HeartbeatPeriodMS uint32 `yaml:"heartbeat_period_ms"`
	LogLevel          string `yaml:"log_level"`
}

func Defaults() App {
	return App{
		LEDInstance:       0,
		BlinkPeriodMS:     500,
		ToggleMode:        true,
		HeartbeatPeriodMS: 1000,
		LogLevel:          "info",
	}
}

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(board string) ([]byte, bool) {
	b, ok := embeddedConfigs[board]
	return b, ok
}

// Parse decodes raw YAML over the defaults, so absent keys keep their
// default value.
func Parse(raw []byte) (App, error) {
	a := Defaults()
	if err := yaml.UnmarshalStrict(raw, &a); err != nil {
		return Defaults(), errcode.Wrap("config_parse", errcode.ConfigFailed, -1, err)
	}
	if err := a.Validate(); err != nil {
		return Defaults(), err
	}
	return a, nil
}

// Load returns the embedded configuration for board. A board without one
// gets Defaults() and found=false.
func Load(board string) (a App, found bool, err error) {
	raw, ok := EmbeddedConfigLookup(board)
	if !ok || len(raw) == 0 {
		return Defaults(), false, nil
	}
	a, err = Parse(raw)
	return a, true, err
}

func (a App) Validate() error {
	switch {
	case a.LEDInstance < 0:
		return &errcode.E{C: errcode.InvalidParams, Op: "config_validate", Status: -2, Msg: "led_instance < 0"}
	case a.BlinkPeriodMS == 0:
		return &errcode.E{C: errcode.InvalidParams, Op: "config_validate", Status: -2, Msg: "blink_period_ms is 0"}
	case a.HeartbeatPeriodMS == 0:
		return &errcode.E{C: errcode.InvalidParams, Op: "config_validate", Status: -2, Msg: "heartbeat_period_ms is 0"}
	}
	if _, err := zapcore.ParseLevel(a.LogLevel); err != nil {
		return errcode.Wrap("config_validate", errcode.InvalidParams, -2, err)
	}
	return nil
}

// Level is the zap level named by LogLevel, info if unparsable.
func (a App) Level() zapcore.Level {
	l, err := zapcore.ParseLevel(a.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return l
}

// Publish makes a the retained value of TopicApp.
func Publish(h *rtos.Hub, a App) { h.Publish(TopicApp, a, true) }

// Marshal renders a as YAML.
func (a App) Marshal() ([]byte, error) { return yaml.Marshal(a) }
