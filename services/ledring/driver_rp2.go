//go:build rp2040 || rp2350

package ledring

import (
	"machine"

	"tinygo.org/x/drivers/ws2812"
)

// NewStrip configures a WS2812 chain on pin.
func NewStrip(pin machine.Pin) Strip {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	dev := ws2812.NewWS2812(pin)
	return &dev
}
