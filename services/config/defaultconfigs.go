package config

// Embedded configuration, keyed by board name.

const cfgNucleoL432KC = `
led_instance: 0
blink_period_ms: 500
toggle_mode: true
heartbeat_period_ms: 1000
log_level: info
`

// The Discovery board blinks the blue LED in on/off mode.
const cfgSTM32F4Discovery = `
led_instance: 3
blink_period_ms: 250
toggle_mode: false
heartbeat_period_ms: 2000
log_level: debug
`

var embeddedConfigs = map[string][]byte{
	"NUCLEO-L432KC":     []byte(cfgNucleoL432KC),
	"STM32F4-Discovery": []byte(cfgSTM32F4Discovery),
}
