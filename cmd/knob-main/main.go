//go:build rp2040 || rp2350

package main

import (
	"context"
	"machine"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"smartknob-go/bus"
	"smartknob-go/components"
	"smartknob-go/config"
	"smartknob-go/protocol"
	"smartknob-go/services/display"
	"smartknob-go/services/heartbeat"
	"smartknob-go/services/ledring"
	"smartknob-go/services/motor"
	"smartknob-go/services/root"
	"smartknob-go/services/sensors"
	"smartknob-go/types"
)

const (
	serialBaud = 921600
	numLeds    = 24
)

// Board pinout (SmartKnob-style carrier on a Pico).
const (
	pinLedRing   = machine.GP15
	pinStrainADC = machine.GP26
	pinStrainEn  = machine.GP22
)

func main() {
	// Let the USB serial link settle before the first log lines.
	time.Sleep(2 * time.Second)
	println("[main] booting")

	ctx := context.Background()
	b := bus.NewBus(8)

	cfg := config.New(config.NewMemStore(), b.NewConnection("config"))
	if err := cfg.Load(); err != nil {
		println("[main] config load failed:", err.Error())
	}

	// Serial link, plaintext until the configurator switches it over.
	uart := uartx.UART0
	_ = uart.Configure(uartx.UARTConfig{BaudRate: serialBaud})
	plaintext := protocol.NewPlaintext(uart)

	// I2C sensor cluster.
	i2c := machine.I2C0
	_ = i2c.Configure(machine.I2CConfig{Frequency: 400_000})

	prox, err := sensors.NewProximityReader(i2c)
	if err != nil {
		println("[main] proximity init failed:", err.Error())
	}
	lux, err := sensors.NewLuxReader(i2c)
	if err != nil {
		println("[main] lux init failed:", err.Error())
	}
	strain := sensors.NewStrainReader(pinStrainADC, pinStrainEn)

	// The sinks close over the orchestrator, which is built last.
	var orchestrator *root.Task

	// TODO: swap SimDriver for the FOC driver once the TMC6300 port lands.
	motorTask := motor.New(motor.NewSimDriver(), cfg, func(s types.KnobState) {
		orchestrator.OfferKnobState(s)
	})

	sensorTask := sensors.New(sensors.Options{
		Proximity: prox,
		Lux:       lux,
		Strain:    strain,
		Config:    cfg,
		Sink: func(s types.SensorsSample) bool {
			return orchestrator.OfferSensors(s)
		},
	})

	apps := display.NewApps(func(c types.KnobConfig) {
		orchestrator.RequestMotorConfig(c)
	})
	disp := display.New(apps, nil)
	ring := ledring.New(ledring.NewStrip(pinLedRing), numLeds)

	manager := components.NewManager(func(c types.KnobConfig) {
		orchestrator.RequestMotorConfig(c)
	})

	orchestrator = root.New(root.Options{
		Config:              cfg,
		Motor:               motorTask,
		Display:             disp,
		LedRing:             ring,
		Sensors:             sensorTask,
		Components:          manager,
		Sender:              plaintext,
		Conn:                b.NewConnection("root"),
		AmbientLightSensing: lux != nil,
		NumLeds:             numLeds,
		OnProtocolSwitch: func() {
			println("[main] binary protocol requested, not compiled in")
		},
	})

	registry := protocol.NewRegistry()
	orchestrator.BindProtocol(registry)
	manager.Bind(registry)
	orchestrator.BindPlaintext(plaintext)

	go motorTask.Run(ctx)
	go sensorTask.Run(ctx)
	go ring.Run(ctx)
	go plaintext.Run(ctx)
	go orchestrator.Run(ctx)
	_ = heartbeat.New(cfg).Start(ctx, b.NewConnection("heartbeat"))

	select {}
}
