// Bench entry: runs the whole task set on host Go with a simulated motor,
// so the orchestration loop can be watched without hardware. The simulated
// knob sweeps back and forth; state lines land on stdout.
package main

import (
	"context"
	"io"
	"os"
	"time"

	"smartknob-go/bus"
	"smartknob-go/components"
	"smartknob-go/config"
	"smartknob-go/protocol"
	"smartknob-go/services/display"
	"smartknob-go/services/heartbeat"
	"smartknob-go/services/motor"
	"smartknob-go/services/root"
	"smartknob-go/services/sensors"
	"smartknob-go/types"
)

type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

var _ io.ReadWriter = stdio{}

func main() {
	println("boot")

	ctx := context.Background()
	b := bus.NewBus(8)

	cfg := config.New(config.NewMemStore(), b.NewConnection("config"))
	if err := cfg.Load(); err != nil {
		println("[main] config load failed:", err.Error())
	}

	plaintext := protocol.NewPlaintext(stdio{})

	var orchestrator *root.Task

	driver := motor.NewSimDriver()
	motorTask := motor.New(driver, cfg, func(s types.KnobState) {
		orchestrator.OfferKnobState(s)
	})

	sensorTask := sensors.New(sensors.Options{
		Config: cfg,
		Sink: func(s types.SensorsSample) bool {
			return orchestrator.OfferSensors(s)
		},
	})

	apps := display.NewApps(func(c types.KnobConfig) {
		orchestrator.RequestMotorConfig(c)
	})
	disp := display.New(apps, nil)

	manager := components.NewManager(func(c types.KnobConfig) {
		orchestrator.RequestMotorConfig(c)
	})

	orchestrator = root.New(root.Options{
		Config:     cfg,
		Motor:      motorTask,
		Display:    disp,
		Sensors:    sensorTask,
		Components: manager,
		Sender:     plaintext,
		Conn:       b.NewConnection("root"),
	})

	registry := protocol.NewRegistry()
	orchestrator.BindProtocol(registry)
	manager.Bind(registry)
	orchestrator.BindPlaintext(plaintext)

	driver.ApplyConfig(types.KnobConfig{
		ID:          "bench",
		MinPosition: 0,
		MaxPosition: 10,
		SnapPoint:   1.1,
	})

	go motorTask.Run(ctx)
	go sensorTask.Run(ctx)
	go plaintext.Run(ctx)
	go orchestrator.Run(ctx)
	_ = heartbeat.New(cfg).Start(ctx, b.NewConnection("heartbeat"))

	// Sweep the simulated knob so the loop has something to chew on.
	dir := int32(1)
	steps := 0
	tick := time.NewTicker(500 * time.Millisecond)
	defer tick.Stop()
	for range tick.C {
		driver.Turn(dir)
		steps++
		if steps%10 == 0 {
			dir = -dir
		}
	}
}
