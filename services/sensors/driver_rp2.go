//go:build rp2040 || rp2350

package sensors

import (
	"machine"

	"smartknob-go/errcode"
	"smartknob-go/types"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/bh1750"
	"tinygo.org/x/drivers/vl53l1x"
)

// Ranging cadence for the time-of-flight sensor, matched to the sampling
// loop so a fresh reading is usually available.
const (
	rangingBudgetUs  = 50000
	rangingPeriodMs  = 50
	rangingTimeoutMs = 500
)

type vl53Reader struct {
	dev vl53l1x.Device
}

// NewProximityReader brings up the VL53L1X in continuous ranging mode.
func NewProximityReader(bus drivers.I2C) (ProximityReader, error) {
	dev := vl53l1x.New(bus)
	if !dev.Configure(true) {
		return nil, errcode.ProximityInitFailed
	}
	dev.SetTimeout(rangingTimeoutMs)
	dev.SetMeasurementTimingBudget(rangingBudgetUs)
	dev.StartContinuous(rangingPeriodMs)
	return &vl53Reader{dev: dev}, nil
}

func (r *vl53Reader) ReadProximity() (types.ProximityState, error) {
	r.dev.Read(false)
	return types.ProximityState{
		RangeMM:     uint16(r.dev.Distance()),
		RangeStatus: uint8(r.dev.RangeStatus()),
	}, nil
}

type bh1750Reader struct {
	dev bh1750.Device
}

// NewLuxReader brings up the BH1750 in its default continuous mode.
func NewLuxReader(bus drivers.I2C) (LuxReader, error) {
	dev := bh1750.New(bus)
	dev.Configure()
	return &bh1750Reader{dev: dev}, nil
}

func (r *bh1750Reader) ReadLux() (float32, error) {
	// Illuminance reports milli-lux.
	return float32(r.dev.Illuminance()) / 1000, nil
}

type adcStrainReader struct {
	adc     machine.ADC
	enable  machine.Pin
	hasEn   bool
	powered bool
}

// NewStrainReader samples the strain amplifier output on an ADC pin.
// enable, when valid, gates the amplifier's power rail.
func NewStrainReader(adcPin machine.Pin, enable machine.Pin) StrainReader {
	machine.InitADC()
	adc := machine.ADC{Pin: adcPin}
	adc.Configure(machine.ADCConfig{})
	r := &adcStrainReader{adc: adc}
	if enable != machine.NoPin {
		enable.Configure(machine.PinConfig{Mode: machine.PinOutput})
		enable.Low()
		r.enable = enable
		r.hasEn = true
	}
	return r
}

func (r *adcStrainReader) ReadRaw() (int32, error) {
	if !r.powered {
		return 0, nil
	}
	return int32(r.adc.Get()), nil
}

func (r *adcStrainReader) PowerUp() {
	r.powered = true
	if r.hasEn {
		r.enable.High()
	}
}

func (r *adcStrainReader) PowerDown() {
	r.powered = false
	if r.hasEn {
		r.enable.Low()
	}
}
