// Package root hosts the firmware's orchestration loop: one cooperative
// task that sequences sensor ingestion, knob-state routing, the virtual
// button state machine, screen wake/dim hysteresis, LED effect selection,
// rate-limited state broadcasting and cross-task configuration handoff on a
// fixed ~10 ms cadence. All queue reads are non-blocking polls; single-slot
// mailboxes give every input "latest value wins" semantics.
package root

import (
	"context"
	"math"
	"time"

	"smartknob-go/bus"
	"smartknob-go/config"
	"smartknob-go/proto"
	"smartknob-go/protocol"
	"smartknob-go/types"
	"smartknob-go/x/timex"
)

const (
	tickPeriod        = 10 * time.Millisecond
	startupPollPeriod = 50 * time.Millisecond

	sensorQueueLen  = 100
	appSyncQueueLen = 2

	// Proximity counts as an engagement only on a nearby, confident
	// detection. Status 0 and 2 are the confident levels reported by the
	// ranging sensor.
	proximityConfidentStatus = 3
	proximityEngageRangeMM   = 200

	defaultBroadcastRateHz    = 10
	defaultPositionThreshold  = 0.1
	defaultNumLeds            = 24
	defaultCalibrationWeightG = 272
)

// -----------------------------------------------------------------------------
// Collaborator contracts
// -----------------------------------------------------------------------------

// MotorController is the motor task surface the root task drives.
type MotorController interface {
	RunCalibration()
	PlayHaptic(press, long bool)
	SetConfig(types.KnobConfig)
}

// InputSurface consumes knob samples and navigation events. Both the
// traditional app registry and a dynamic component implement it.
type InputSurface interface {
	Update(types.AppState) types.EntityStateUpdate
	HandleNavigationEvent(types.NavigationEvent)
}

// Display is the rendering collaborator (no drawing happens here).
type Display interface {
	SetBrightness(v uint16)
	Registry() InputSurface
	ActiveError() types.ErrorType
	EnableDemo()
}

// ComponentSource resolves the dynamic component surface for a config id.
// It reports false when no component is active or the id does not match.
type ComponentSource interface {
	ActiveSurface(configID string) (InputSurface, bool)
}

// SensorControl is the sensors-task control surface (the sample stream
// itself arrives through OfferSensors).
type SensorControl interface {
	StrainPowerUp()
	StrainPowerDown()
	FactoryStrainCalibration(weightGrams float32)
	WeightMeasurement()
}

// LedRing consumes one full effect replacement per tick.
type LedRing interface {
	SetEffect(types.EffectSettings)
}

// TopicAppState carries the aggregate state snapshot. Listeners subscribe
// with queue length 1 so they only ever observe the latest snapshot.
var TopicAppState = bus.T("root", "state")

// motorConfigRequest travels through the motor config mailbox.
type motorConfigRequest struct {
	Config     types.KnobConfig
	FromRemote bool
}

// -----------------------------------------------------------------------------
// Task
// -----------------------------------------------------------------------------

// Options configures a Task. Tasks are always constructed fully configured;
// there is no partial-init state.
type Options struct {
	Config     *config.Configuration
	Motor      MotorController
	Display    Display
	LedRing    LedRing         // optional
	Sensors    SensorControl
	Components ComponentSource // optional
	Sender     protocol.Sender
	Conn       *bus.Connection // state fan-out; optional in tests

	// AmbientLightSensing enables lux-tracked dimming. Without it the
	// screen holds max brightness.
	AmbientLightSensing bool

	// DimDecayDivisor tunes the per-tick brightness decay; 0 means the
	// stock divisor of 8.
	DimDecayDivisor uint16

	NumLeds int

	// OnProtocolSwitch is invoked when the plaintext protocol is asked to
	// hand the link over to the binary protocol. Optional.
	OnProtocolSwitch func()

	// NowMs overrides the clock; tests use it. Defaults to timex.NowMs.
	NowMs func() int64
}

// Task owns the aggregate application state and every channel endpoint.
// Other tasks only ever push into its mailboxes (OfferSensors,
// OfferKnobState, TriggerCalibration, the two notifiers) or subscribe to
// its bus topic; none of them reach into the state directly.
type Task struct {
	cfg        *config.Configuration
	motor      MotorController
	display    Display
	ledRing    LedRing
	sensors    SensorControl
	components ComponentSource
	sender     protocol.Sender
	conn       *bus.Connection

	calibrationTrigger chan struct{}
	sensorSamples      chan types.SensorsSample
	appSync            chan struct{} // reserved extension point, drained inert
	knobStates         chan types.KnobState
	stateRequests      chan struct{}

	motorNotifier    *Notifier[motorConfigRequest]
	osConfigNotifier *Notifier[types.OSMode]

	button   buttonDebouncer
	throttle broadcastThrottle

	app           types.AppState
	settings      types.Settings
	latestSensors types.SensorsSample
	latestState   types.KnobState
	latestConfig  types.KnobConfig

	subPositionSet bool
	subPosition    float32 // rounded to the smoothing grid

	pressCount       uint32
	remoteControlled bool

	pushedBrightness    uint16
	brightnessPushed    bool
	ambientLightSensing bool
	decayDivisor        uint16
	numLeds             int
	onProtocolSwitch    func()

	nowMs func() int64
}

// New builds the root task. It panics on missing required collaborators to
// catch wiring mistakes at start-up.
func New(opts Options) *Task {
	if opts.Config == nil || opts.Motor == nil || opts.Display == nil || opts.Sensors == nil || opts.Sender == nil {
		panic("root: missing required collaborator")
	}
	t := &Task{
		cfg:        opts.Config,
		motor:      opts.Motor,
		display:    opts.Display,
		ledRing:    opts.LedRing,
		sensors:    opts.Sensors,
		components: opts.Components,
		sender:     opts.Sender,
		conn:       opts.Conn,

		calibrationTrigger: make(chan struct{}, 1),
		sensorSamples:      make(chan types.SensorsSample, sensorQueueLen),
		appSync:            make(chan struct{}, appSyncQueueLen),
		knobStates:         make(chan types.KnobState, 1),
		stateRequests:      make(chan struct{}, 1),

		ambientLightSensing: opts.AmbientLightSensing,
		decayDivisor:        opts.DimDecayDivisor,
		numLeds:             opts.NumLeds,
		onProtocolSwitch:    opts.OnProtocolSwitch,
		nowMs:               opts.NowMs,
	}
	if t.decayDivisor == 0 {
		t.decayDivisor = defaultDecayDivisor
	}
	if t.numLeds <= 0 {
		t.numLeds = defaultNumLeds
	}
	if t.nowMs == nil {
		t.nowMs = timex.NowMs
	}

	t.motorNotifier = NewNotifier(func(req motorConfigRequest) {
		t.applyConfig(req.Config, req.FromRemote)
	})
	t.osConfigNotifier = NewNotifier(func(mode types.OSMode) {
		t.cfg.LoadOSConfiguration()
		osc := t.cfg.GetOSConfiguration()
		osc.Mode = mode
		t.cfg.SaveOSConfigurationInMemory(osc)
		println("[root] os mode set to", int(mode))
		if mode == types.OSModeRunning {
			t.display.EnableDemo()
		}
	})

	t.throttle = broadcastThrottle{
		enabled:   true,
		threshold: defaultPositionThreshold,
	}
	t.throttle.setRateHz(defaultBroadcastRateHz)

	return t
}

// -----------------------------------------------------------------------------
// Mailbox endpoints (the only way into the task)
// -----------------------------------------------------------------------------

// TriggerCalibration requests a motor calibration on the next tick.
// Non-blocking; duplicate pending triggers collapse.
func (t *Task) TriggerCalibration() {
	select {
	case t.calibrationTrigger <- struct{}{}:
	default:
	}
}

// OfferSensors enqueues one sensor sample. The queue is sized for bursts;
// when full the sample is dropped and false returned.
func (t *Task) OfferSensors(s types.SensorsSample) bool {
	select {
	case t.sensorSamples <- s:
		return true
	default:
		return false
	}
}

// OfferKnobState delivers a knob sample with single-slot overwrite
// semantics: only the newest sample survives until the next tick.
func (t *Task) OfferKnobState(s types.KnobState) {
	for {
		select {
		case t.knobStates <- s:
			return
		default:
			select {
			case <-t.knobStates:
			default:
			}
		}
	}
}

// RequestMotorConfig posts a new detent profile into the motor config
// mailbox. Producers (components, apps) may call it from any goroutine; the
// value is applied on the root task's timeline.
func (t *Task) RequestMotorConfig(cfg types.KnobConfig) {
	t.motorNotifier.RequestUpdate(motorConfigRequest{Config: cfg})
}

// OfferAppSync feeds the legacy sync channel. Reserved extension point;
// the payload-free token is drained inert.
func (t *Task) OfferAppSync() bool {
	select {
	case t.appSync <- struct{}{}:
		return true
	default:
		return false
	}
}

// RequestOSMode asks for an operating-mode change on the next tick.
func (t *Task) RequestOSMode(mode types.OSMode) {
	t.osConfigNotifier.RequestUpdate(mode)
}

// RequestState asks for one out-of-band state push on the next tick.
func (t *Task) RequestState() {
	select {
	case t.stateRequests <- struct{}{}:
	default:
	}
}

// EnableAutoBroadcast toggles unsolicited state pushes.
func (t *Task) EnableAutoBroadcast(enabled bool) {
	t.throttle.enabled = enabled
	println("[root] auto broadcast enabled:", enabled)
}

// SetMaxBroadcastRate caps the broadcast rate.
func (t *Task) SetMaxBroadcastRate(rateHz uint32) {
	t.throttle.setRateHz(rateHz)
}

// SetPositionChangeThreshold sets the sub-position delta that counts as a
// meaningful movement for broadcasting.
func (t *Task) SetPositionChangeThreshold(threshold float32) {
	t.throttle.threshold = threshold
}

// -----------------------------------------------------------------------------
// Protocol binding
// -----------------------------------------------------------------------------

// BindProtocol registers the inbound message handlers. Handlers run on the
// transport goroutine and only write to mailboxes or mutex-guarded
// collaborators.
func (t *Task) BindProtocol(reg *protocol.Registry) {
	reg.RegisterTagCallback(proto.TagSettings, func(m proto.ToSmartknob) {
		if m.Settings != nil {
			if err := t.cfg.SetSettings(*m.Settings); err != nil {
				println("[root] settings update failed:", err.Error())
			}
		}
	})
	reg.RegisterTagCallback(proto.TagConfig, func(m proto.ToSmartknob) {
		if m.Config != nil {
			t.motorNotifier.RequestUpdate(motorConfigRequest{Config: *m.Config, FromRemote: true})
		}
	})
	reg.RegisterTagCallback(proto.TagStrainCalibration, func(m proto.ToSmartknob) {
		if m.StrainCalibration != nil {
			t.sensors.FactoryStrainCalibration(m.StrainCalibration.CalibrationWeight)
		}
	})
	reg.RegisterTagCallback(proto.TagRequestState, func(proto.ToSmartknob) {
		t.RequestState()
	})
	reg.RegisterCommandCallback(proto.CommandMotorCalibrate, func() {
		t.motor.RunCalibration()
	})
	reg.RegisterCommandCallback(proto.CommandGetKnobInfo, func() {
		t.sendKnobInfo()
	})
}

// BindPlaintext registers the debug key handlers.
func (t *Task) BindPlaintext(p *protocol.Plaintext) {
	p.RegisterKeyHandler('c', func() { t.motor.RunCalibration() })
	p.RegisterKeyHandler('w', func() { t.sensors.WeightMeasurement() })
	p.RegisterKeyHandler('y', func() { t.sensors.FactoryStrainCalibration(defaultCalibrationWeightG) })
	switchToProtobuf := func() {
		if t.onProtocolSwitch != nil {
			t.onProtocolSwitch()
		}
	}
	p.RegisterKeyHandler('q', switchToProtobuf)
	// The configurator announces itself with a binary frame; its leading
	// zero byte switches the link.
	p.RegisterKeyHandler(0, switchToProtobuf)
}

// -----------------------------------------------------------------------------
// Run loop
// -----------------------------------------------------------------------------

// Run executes the orchestration loop until the context is cancelled. The
// only blocking phase is the startup wait for configuration; afterwards the
// fixed tick delay is the sole yield point.
func (t *Task) Run(ctx context.Context) {
	println("[root] starting")

	// Wait for a collaborator to finish loading configuration.
	for !t.cfg.IsLoaded() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(startupPollPeriod):
		}
	}

	t.settings = t.cfg.GetSettings()
	t.cfg.LoadOSConfiguration()

	// Serial-only builds go straight to the running mode.
	t.osConfigNotifier.RequestUpdate(types.OSModeRunning)

	t.motorNotifier.LoopTick()

	tick := time.NewTicker(tickPeriod)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("[root] stopping")
			return
		case <-tick.C:
			t.tick(t.nowMs())
		}
	}
}

// tick runs the fixed per-iteration phase sequence. Every queue read is a
// zero-wait poll; an empty poll skips its phase.
func (t *Task) tick(now int64) {
	// Settings are re-read each tick so protocol-side updates become
	// visible without any core-side caching beyond one iteration.
	t.settings = t.cfg.GetSettings()

	// 1. Calibration trigger.
	select {
	case <-t.calibrationTrigger:
		extendWake(&t.app.Screen, now, buttonWakeWindow(t.settings.Screen))
		t.motor.RunCalibration()
	default:
	}

	// 2. One sensor sample. The queue buffers bursts but only one item is
	// consumed per tick; sustained overruns lag rather than drop.
	select {
	case s := <-t.sensorSamples:
		t.latestSensors = s
		t.app.Proximity = s.Proximity
		if s.Proximity.RangeStatus < proximityConfidentStatus && s.Proximity.RangeMM < proximityEngageRangeMM {
			extendWake(&t.app.Screen, now, engagedTimeoutNonPhysicalMs)
		}
	default:
	}

	// 3. Legacy sync channel: drained, currently inert.
	select {
	case <-t.appSync:
	default:
	}

	// 4. Knob sample.
	select {
	case s := <-t.knobStates:
		t.ingestKnobState(now, s)
	default:
	}

	// 5. Config mailboxes and deferred state requests.
	t.motorNotifier.LoopTick()
	t.osConfigNotifier.LoopTick()
	select {
	case <-t.stateRequests:
		t.sendCurrentKnobState()
	default:
	}

	// 6. Hardware update: button state machine, display brightness, ring.
	t.updateHardware(now)

	// 7. Engagement timeout sweep.
	if t.app.Screen.HasBeenEngaged {
		if t.app.Screen.Brightness != t.settings.Screen.MaxBright {
			t.app.Screen.Brightness = t.settings.Screen.MaxBright
			t.sensors.StrainPowerUp()
		}
		if now > t.app.Screen.AwakeUntilMs {
			t.app.Screen.HasBeenEngaged = false
			t.sensors.StrainPowerDown()
		}
	}
}

// roundToThird is the smoothing filter on the sub position: electrical
// noise below a third of a unit must not register as engagement.
func roundToThird(v float32) float32 {
	return float32(math.Round(float64(v)*3) / 3)
}

func (t *Task) ingestKnobState(now int64, s types.KnobState) {
	rounded := roundToThird(s.SubPositionUnit)
	if t.subPositionSet && rounded != t.subPosition {
		extendWake(&t.app.Screen, now, motionWakeWindow(t.settings.Screen))
	}
	t.subPositionSet = true
	t.subPosition = rounded

	t.latestState = s
	t.app.Motor = s
	t.app.OSMode = t.cfg.GetOSConfiguration().Mode

	update := t.activeSurface(s.ConfigID).Update(t.app)

	if t.ambientLightSensing {
		trackAmbientBrightness(&t.app.Screen, t.settings.Screen, t.latestSensors.Illumination.LuxAdj, now, t.decayDivisor)
	} else {
		holdMaxBrightness(&t.app.Screen, t.settings.Screen)
	}

	if update.PlayHaptic {
		t.motor.PlayHaptic(true, false)
	}

	if t.throttle.shouldBroadcast(now, t.currentState()) {
		st := t.sendCurrentKnobState()
		t.throttle.markSent(now, st)
	}

	t.publish()
}

// activeSurface routes input: a dynamic component owns the knob only while
// its identifier matches the motor configuration driving the sample;
// otherwise the traditional app registry handles it.
func (t *Task) activeSurface(configID string) InputSurface {
	if t.components != nil {
		if s, ok := t.components.ActiveSurface(configID); ok {
			return s
		}
	}
	return t.display.Registry()
}

// updateHardware advances the virtual button state machine and pushes the
// display brightness and ring effect.
func (t *Task) updateHardware(now int64) {
	act, fired := t.button.step(t.latestSensors.Strain.VirtualButtonCode)
	if fired {
		if act.engage {
			extendWake(&t.app.Screen, now, buttonWakeWindow(t.settings.Screen))
		}
		if act.press {
			t.pressCount++
		}
		t.motor.PlayHaptic(act.hapticPress, act.hapticLong)
		if act.nav != types.NavigationNone {
			// An active error flow owns navigation until cleared.
			if t.display.ActiveError() == types.NoError {
				t.activeSurface(t.latestState.ConfigID).HandleNavigationEvent(act.nav)
			}
		}
	}

	if !t.brightnessPushed || t.app.Screen.Brightness != t.pushedBrightness {
		t.pushedBrightness = t.app.Screen.Brightness
		t.brightnessPushed = true
		t.display.SetBrightness(t.pushedBrightness)
	}

	if t.ledRing != nil {
		t.ledRing.SetEffect(effectForState(t.settings, t.app.Screen.Brightness, t.numLeds))
	}
}

// -----------------------------------------------------------------------------
// Outbound
// -----------------------------------------------------------------------------

// currentState is the latest sample with the live press nonce applied.
func (t *Task) currentState() types.KnobState {
	s := t.latestState
	s.PressNonce = t.pressCount
	return s
}

// sendCurrentKnobState pushes the current state out of band and returns
// what was sent.
func (t *Task) sendCurrentKnobState() types.KnobState {
	s := t.currentState()
	t.sender.SendState(s)
	return s
}

func (t *Task) sendKnobInfo() {
	knob := types.Knob{
		MacAddress: "00:00:00:00:00:00",
		IPAddress:  "0.0.0.0",
	}
	if pc := t.cfg.Get(); pc.Version != 0 {
		knob.PersistentConfig = &pc
	}
	settings := t.cfg.GetSettings()
	knob.Settings = &settings
	t.sender.SendKnobInfo(knob)
}

// publish fans the aggregate snapshot out to all bus listeners. Retained
// with queue length 1 on the subscriber side, a listener always reads the
// newest snapshot and never a backlog.
func (t *Task) publish() {
	if t.conn == nil {
		return
	}
	t.conn.Publish(t.conn.NewMessage(TopicAppState, t.app, true))
}

// applyConfig hands a new detent profile to the motor task.
func (t *Task) applyConfig(cfg types.KnobConfig, fromRemote bool) {
	t.remoteControlled = fromRemote
	t.latestConfig = cfg
	t.motor.SetConfig(cfg)
}
