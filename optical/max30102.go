package optical

import (
	"context"
	"errors"
	"fmt"

	"github.com/mklimuk/vitals"
)

// Register map (MAX30102 datasheet, table 1)
const (
	regIntStatus1 = 0x00
	regIntStatus2 = 0x01
	regIntEnable1 = 0x02
	regIntEnable2 = 0x03
	regFIFOWrPtr  = 0x04
	regOvfCounter = 0x05
	regFIFORdPtr  = 0x06
	regFIFOData   = 0x07
	regFIFOConfig = 0x08
	regModeConfig = 0x09
	regSpO2Config = 0x0A
	regLED1PA     = 0x0C
	regLED2PA     = 0x0D
	regPilotPA    = 0x10
	regMultiLED1  = 0x11
	regMultiLED2  = 0x12
	regTempInt    = 0x1F
	regTempFrac   = 0x20
	regTempConfig = 0x21
	regProxIntThr = 0x30
	regPartID     = 0xFF
)

const (
	max30102DefaultAddress = 0x57
	expectedPartID         = 0x15
)

// FIFODepth is the number of samples the hardware ring buffer can hold.
// Read and write pointers are 5-bit counters over this depth.
const FIFODepth = 32

// bytes per sample in SpO2 mode (two channels, 3 bytes each)
const sampleSize = 6

// sampleMask keeps the 18 significant ADC bits of a decoded channel.
const sampleMask = 0x03FFFF

// MODE_CONFIG bit layout
const (
	modeShutdownBit = 0x80
	modeResetBit    = 0x40
	modeMask        = 0x07
)

// OperationMode selects the LED channel configuration of the device.
type OperationMode byte

const (
	ModeHeartRate OperationMode = 0x02
	ModeSpO2      OperationMode = 0x03
	ModeMultiLED  OperationMode = 0x07
)

func (m OperationMode) String() string {
	switch m {
	case ModeHeartRate:
		return "heart-rate"
	case ModeSpO2:
		return "spo2"
	case ModeMultiLED:
		return "multi-led"
	default:
		return "unknown"
	}
}

// SamplingRate selects samples per second (SPO2_CONFIG bits 4:2).
type SamplingRate byte

const (
	Rate50 SamplingRate = iota
	Rate100
	Rate200
	Rate400
	Rate800
	Rate1000
	Rate1600
	Rate3200
)

// LEDPulseWidth selects the LED pulse duration and thereby the ADC
// resolution (SPO2_CONFIG bits 1:0).
type LEDPulseWidth byte

const (
	Width69us  LEDPulseWidth = 0x00 // 15-bit resolution
	Width118us LEDPulseWidth = 0x01 // 16-bit resolution
	Width215us LEDPulseWidth = 0x02 // 17-bit resolution
	Width411us LEDPulseWidth = 0x03 // 18-bit resolution
)

// ADCRange selects the photodiode full-scale range (SPO2_CONFIG bits 6:5).
type ADCRange byte

const (
	Range2048nA  ADCRange = 0x00 // LSB = 7.81 pA
	Range4096nA  ADCRange = 0x01 // LSB = 15.63 pA
	Range8192nA  ADCRange = 0x02 // LSB = 31.25 pA
	Range16384nA ADCRange = 0x03 // LSB = 62.5 pA
)

// SampleAveraging selects on-chip averaging of adjacent samples
// (FIFO_CONFIG bits 7:5).
type SampleAveraging byte

const (
	NoAveraging SampleAveraging = iota
	Average2
	Average4
	Average8
	Average16
	Average32
)

// InterruptSource identifies a single interrupt flag across the two
// enable/status register pairs.
type InterruptSource byte

const (
	InterruptFIFOAlmostFull   InterruptSource = 0x80 // INT_ENABLE_1 bit 7
	InterruptNewDataReady     InterruptSource = 0x40 // INT_ENABLE_1 bit 6
	InterruptALCOverflow      InterruptSource = 0x20 // INT_ENABLE_1 bit 5
	InterruptPowerReady       InterruptSource = 0x01 // INT_ENABLE_1 bit 0
	InterruptTemperatureReady InterruptSource = 0x02 // INT_ENABLE_2 bit 1
)

// register returns the enable register holding this source's bit.
func (s InterruptSource) register() byte {
	if s == InterruptTemperatureReady {
		return regIntEnable2
	}
	return regIntEnable1
}

// LEDSlot assigns an LED to a time slot in multi-LED mode.
type LEDSlot byte

const (
	SlotNone      LEDSlot = 0x00
	SlotLed1Red   LEDSlot = 0x01
	SlotLed2IR    LEDSlot = 0x02
	SlotLed3Green LEDSlot = 0x03 // MAX30101 only
	SlotPilotLed1 LEDSlot = 0x05
	SlotPilotLed2 LEDSlot = 0x06
	SlotPilotLed3 LEDSlot = 0x07 // MAX30101 only
)

// Sample is one decoded FIFO entry: the raw 18-bit optical counts of both
// channels.
type Sample struct {
	Red uint32
	IR  uint32
}

// MAX30102 represents a Maxim MAX30102 pulse-oximetry and heart-rate front
// end attached over I2C.
//
// The device keeps all operating state in its own registers; the driver
// caches nothing and re-reads the hardware on every query. Typical usage:
//
//	s := optical.NewMAX30102Default(bus)
//	if err := s.Initialize(ctx); err != nil { ... }
//	n, err := s.ReadFIFOBatch(ctx, samples)
type MAX30102 struct {
	transport vitals.I2CBus
	address   byte
}

// NewMAX30102 creates a driver bound to the given transport and address.
func NewMAX30102(trans vitals.I2CBus, address byte) *MAX30102 {
	return &MAX30102{transport: trans, address: address}
}

// NewMAX30102Default creates a driver on the default address 0x57.
func NewMAX30102Default(trans vitals.I2CBus) *MAX30102 {
	return NewMAX30102(trans, max30102DefaultAddress)
}

// VerifyIdentity reads the part ID register and checks it against the
// expected MAX30102 signature.
func (sensor *MAX30102) VerifyIdentity(ctx context.Context) error {
	id, err := sensor.readRegister(ctx, regPartID)
	if err != nil {
		return fmt.Errorf("max30102: could not read part ID: %w", err)
	}
	if id != expectedPartID {
		return fmt.Errorf("max30102: unexpected part ID %#x: %w", id, vitals.ErrNotDetected)
	}
	return nil
}

// Reset writes the reset bit to MODE_CONFIG. The bit is one-shot and
// self-clearing on the device.
func (sensor *MAX30102) Reset(ctx context.Context) error {
	err := sensor.writeRegister(ctx, regModeConfig, modeResetBit)
	if err != nil {
		return fmt.Errorf("max30102: could not reset: %w", err)
	}
	return nil
}

// Shutdown sets the shutdown bit in MODE_CONFIG, preserving the mode bits.
func (sensor *MAX30102) Shutdown(ctx context.Context) error {
	err := sensor.updateRegister(ctx, regModeConfig, modeShutdownBit, modeShutdownBit)
	if err != nil {
		return fmt.Errorf("max30102: could not shut down: %w", err)
	}
	return nil
}

// Wakeup clears the shutdown bit in MODE_CONFIG, preserving the mode bits.
func (sensor *MAX30102) Wakeup(ctx context.Context) error {
	err := sensor.updateRegister(ctx, regModeConfig, modeShutdownBit, 0x00)
	if err != nil {
		return fmt.Errorf("max30102: could not wake up: %w", err)
	}
	return nil
}

// SetOperationMode replaces the three mode bits of MODE_CONFIG, leaving
// shutdown and reset bits untouched.
func (sensor *MAX30102) SetOperationMode(ctx context.Context, mode OperationMode) error {
	err := sensor.updateRegister(ctx, regModeConfig, modeMask, byte(mode))
	if err != nil {
		return fmt.Errorf("max30102: could not set operation mode: %w", err)
	}
	return nil
}

// SetADCRange updates the ADC range field (SPO2_CONFIG bits 6:5). The
// three SPO2_CONFIG fields occupy disjoint bits, so range, rate and pulse
// width can be configured in any order.
func (sensor *MAX30102) SetADCRange(ctx context.Context, rng ADCRange) error {
	err := sensor.updateRegister(ctx, regSpO2Config, 0x60, byte(rng)<<5)
	if err != nil {
		return fmt.Errorf("max30102: could not set ADC range: %w", err)
	}
	return nil
}

// SetSamplingRate updates the sample rate field (SPO2_CONFIG bits 4:2).
func (sensor *MAX30102) SetSamplingRate(ctx context.Context, rate SamplingRate) error {
	err := sensor.updateRegister(ctx, regSpO2Config, 0x1C, byte(rate)<<2)
	if err != nil {
		return fmt.Errorf("max30102: could not set sampling rate: %w", err)
	}
	return nil
}

// SetPulseWidth updates the LED pulse width field (SPO2_CONFIG bits 1:0).
func (sensor *MAX30102) SetPulseWidth(ctx context.Context, width LEDPulseWidth) error {
	err := sensor.updateRegister(ctx, regSpO2Config, 0x03, byte(width))
	if err != nil {
		return fmt.Errorf("max30102: could not set pulse width: %w", err)
	}
	return nil
}

// SetSampleAveraging updates the averaging field (FIFO_CONFIG bits 7:5).
func (sensor *MAX30102) SetSampleAveraging(ctx context.Context, avg SampleAveraging) error {
	err := sensor.updateRegister(ctx, regFIFOConfig, 0xE0, byte(avg)<<5)
	if err != nil {
		return fmt.Errorf("max30102: could not set sample averaging: %w", err)
	}
	return nil
}

// EnableFIFORollover controls whether the FIFO overwrites the oldest
// sample when full (FIFO_CONFIG bit 4).
func (sensor *MAX30102) EnableFIFORollover(ctx context.Context, enable bool) error {
	var value byte
	if enable {
		value = 0x10
	}
	err := sensor.updateRegister(ctx, regFIFOConfig, 0x10, value)
	if err != nil {
		return fmt.Errorf("max30102: could not configure FIFO rollover: %w", err)
	}
	return nil
}

// SetFIFOAlmostFullThreshold sets the free-slot count at which the
// almost-full interrupt fires (FIFO_CONFIG bits 3:0). Values above 15 are
// rejected before any bus transaction.
func (sensor *MAX30102) SetFIFOAlmostFullThreshold(ctx context.Context, threshold byte) error {
	if threshold > 15 {
		return fmt.Errorf("max30102: almost-full threshold %d out of range [0,15]: %w", threshold, vitals.ErrConfig)
	}
	err := sensor.updateRegister(ctx, regFIFOConfig, 0x0F, threshold)
	if err != nil {
		return fmt.Errorf("max30102: could not set almost-full threshold: %w", err)
	}
	return nil
}

// SetLEDPulseAmplitude sets the drive current of LED 1 (red) or LED 2
// (IR). Any other index is rejected before any bus transaction.
func (sensor *MAX30102) SetLEDPulseAmplitude(ctx context.Context, led byte, amplitude byte) error {
	var register byte
	switch led {
	case 1:
		register = regLED1PA
	case 2:
		register = regLED2PA
	default:
		return fmt.Errorf("max30102: invalid LED index %d: %w", led, vitals.ErrConfig)
	}
	err := sensor.writeRegister(ctx, register, amplitude)
	if err != nil {
		return fmt.Errorf("max30102: could not set LED %d amplitude: %w", led, err)
	}
	return nil
}

// SetPilotLEDAmplitude sets the proximity-pilot drive current.
func (sensor *MAX30102) SetPilotLEDAmplitude(ctx context.Context, amplitude byte) error {
	err := sensor.writeRegister(ctx, regPilotPA, amplitude)
	if err != nil {
		return fmt.Errorf("max30102: could not set pilot LED amplitude: %w", err)
	}
	return nil
}

// EnableInterrupt sets the enable bit of a single interrupt source,
// preserving all other bits of its register.
func (sensor *MAX30102) EnableInterrupt(ctx context.Context, source InterruptSource) error {
	err := sensor.updateRegister(ctx, source.register(), byte(source), byte(source))
	if err != nil {
		return fmt.Errorf("max30102: could not enable interrupt %#x: %w", byte(source), err)
	}
	return nil
}

// DisableInterrupt clears the enable bit of a single interrupt source,
// preserving all other bits of its register.
func (sensor *MAX30102) DisableInterrupt(ctx context.Context, source InterruptSource) error {
	err := sensor.updateRegister(ctx, source.register(), byte(source), 0x00)
	if err != nil {
		return fmt.Errorf("max30102: could not disable interrupt %#x: %w", byte(source), err)
	}
	return nil
}

// ReadInterruptStatus returns both interrupt status registers. On the
// hardware the read clears any pending flags, so a caller polling several
// sources must evaluate all bits of one read.
func (sensor *MAX30102) ReadInterruptStatus(ctx context.Context) (byte, byte, error) {
	status1, err := sensor.readRegister(ctx, regIntStatus1)
	if err != nil {
		return 0, 0, fmt.Errorf("max30102: could not read interrupt status 1: %w", err)
	}
	status2, err := sensor.readRegister(ctx, regIntStatus2)
	if err != nil {
		return 0, 0, fmt.Errorf("max30102: could not read interrupt status 2: %w", err)
	}
	return status1, status2, nil
}

// GetAvailableSampleCount returns how many unread samples the FIFO holds.
// Both pointers are 5-bit counters maintained by the device; the count is
// (write - read) mod 32, which stays correct across pointer wraparound.
func (sensor *MAX30102) GetAvailableSampleCount(ctx context.Context) (byte, error) {
	wrPtr, err := sensor.readRegister(ctx, regFIFOWrPtr)
	if err != nil {
		return 0, fmt.Errorf("max30102: could not read FIFO write pointer: %w", err)
	}
	rdPtr, err := sensor.readRegister(ctx, regFIFORdPtr)
	if err != nil {
		return 0, fmt.Errorf("max30102: could not read FIFO read pointer: %w", err)
	}
	return fifoCount(wrPtr, rdPtr), nil
}

// ReadFIFOSample reads and decodes a single sample. It returns nil without
// error when the FIFO is empty; an empty FIFO is not a failure.
func (sensor *MAX30102) ReadFIFOSample(ctx context.Context) (*Sample, error) {
	available, err := sensor.GetAvailableSampleCount(ctx)
	if err != nil {
		return nil, err
	}
	if available == 0 {
		return nil, nil
	}
	buf := make([]byte, sampleSize)
	err = sensor.transport.WriteReadAddr(ctx, sensor.address, []byte{regFIFOData}, buf)
	if err != nil {
		return nil, fmt.Errorf("max30102: could not read FIFO data: %w", err)
	}
	sample := decodeSample(buf)
	return &sample, nil
}

// ReadFIFOBatch drains up to len(samples) entries from the FIFO with a
// single burst read and decodes them in order. It returns the number of
// samples decoded; zero when either the FIFO or the output slice is empty.
func (sensor *MAX30102) ReadFIFOBatch(ctx context.Context, samples []Sample) (int, error) {
	available, err := sensor.GetAvailableSampleCount(ctx)
	if err != nil {
		return 0, err
	}
	toRead := int(available)
	if len(samples) < toRead {
		toRead = len(samples)
	}
	if toRead == 0 {
		return 0, nil
	}
	bytesToRead := toRead * sampleSize
	if bytesToRead > FIFODepth*sampleSize {
		return 0, fmt.Errorf("max30102: batch of %d bytes exceeds FIFO capacity: %w", bytesToRead, vitals.ErrConfig)
	}
	buf := make([]byte, bytesToRead)
	err = sensor.transport.WriteReadAddr(ctx, sensor.address, []byte{regFIFOData}, buf)
	if err != nil {
		return 0, fmt.Errorf("max30102: could not read FIFO data: %w", err)
	}
	for i := 0; i < toRead; i++ {
		samples[i] = decodeSample(buf[i*sampleSize:])
	}
	return toRead, nil
}

// ClearFIFO zeroes the write pointer, the overflow counter and the read
// pointer. The three registers are independent, so write order does not
// matter.
func (sensor *MAX30102) ClearFIFO(ctx context.Context) error {
	for _, reg := range []byte{regFIFOWrPtr, regOvfCounter, regFIFORdPtr} {
		if err := sensor.writeRegister(ctx, reg, 0x00); err != nil {
			return fmt.Errorf("max30102: could not clear FIFO register %#x: %w", reg, err)
		}
	}
	return nil
}

// StartTemperatureMeasurement enables the temperature-ready interrupt and
// triggers a one-shot die temperature conversion. The result becomes
// available asynchronously; poll with ReadTemperature.
func (sensor *MAX30102) StartTemperatureMeasurement(ctx context.Context) error {
	if err := sensor.EnableInterrupt(ctx, InterruptTemperatureReady); err != nil {
		return err
	}
	err := sensor.writeRegister(ctx, regTempConfig, 0x01)
	if err != nil {
		return fmt.Errorf("max30102: could not trigger temperature measurement: %w", err)
	}
	return nil
}

// ReadTemperature polls the temperature-ready flag and, when set, returns
// the die temperature in Celsius. The second return value reports
// readiness; false with a nil error means the conversion is still running.
func (sensor *MAX30102) ReadTemperature(ctx context.Context) (float32, bool, error) {
	_, status2, err := sensor.ReadInterruptStatus(ctx)
	if err != nil {
		return 0, false, err
	}
	if status2&byte(InterruptTemperatureReady) == 0 {
		return 0, false, nil
	}
	integer, err := sensor.readRegister(ctx, regTempInt)
	if err != nil {
		return 0, false, fmt.Errorf("max30102: could not read temperature integer part: %w", err)
	}
	fraction, err := sensor.readRegister(ctx, regTempFrac)
	if err != nil {
		return 0, false, fmt.Errorf("max30102: could not read temperature fraction part: %w", err)
	}
	return convertTemperature(integer, fraction), true, nil
}

// SetMultiLEDSlots assigns LEDs to the four multi-LED time slots, two
// 3-bit assignments nibble-packed per register.
func (sensor *MAX30102) SetMultiLEDSlots(ctx context.Context, slot1, slot2, slot3, slot4 LEDSlot) error {
	err := sensor.writeRegister(ctx, regMultiLED1, byte(slot2)<<4|byte(slot1))
	if err != nil {
		return fmt.Errorf("max30102: could not configure LED slots 1/2: %w", err)
	}
	err = sensor.writeRegister(ctx, regMultiLED2, byte(slot4)<<4|byte(slot3))
	if err != nil {
		return fmt.Errorf("max30102: could not configure LED slots 3/4: %w", err)
	}
	return nil
}

// SetProximityThreshold sets the IR count above which the device leaves
// proximity mode and starts sampling.
func (sensor *MAX30102) SetProximityThreshold(ctx context.Context, threshold byte) error {
	err := sensor.writeRegister(ctx, regProxIntThr, threshold)
	if err != nil {
		return fmt.Errorf("max30102: could not set proximity threshold: %w", err)
	}
	return nil
}

// Initialize brings the device into a known-good SpO2 configuration:
// identity check, reset, FIFO clear, SpO2 mode, mid ADC range, 100 Hz
// sampling, maximum pulse width, 4x averaging, rollover on, almost-full
// threshold 15, both LEDs at a moderate drive, almost-full and new-data
// interrupts enabled. The sequence stops at the first failure; steps
// already applied are not rolled back.
func (sensor *MAX30102) Initialize(ctx context.Context) error {
	if err := sensor.VerifyIdentity(ctx); err != nil {
		return err
	}
	if err := sensor.Reset(ctx); err != nil {
		return err
	}
	if err := sensor.ClearFIFO(ctx); err != nil {
		return err
	}
	if err := sensor.SetOperationMode(ctx, ModeSpO2); err != nil {
		return err
	}
	if err := sensor.SetADCRange(ctx, Range4096nA); err != nil {
		return err
	}
	if err := sensor.SetSamplingRate(ctx, Rate100); err != nil {
		return err
	}
	if err := sensor.SetPulseWidth(ctx, Width411us); err != nil {
		return err
	}
	if err := sensor.SetSampleAveraging(ctx, Average4); err != nil {
		return err
	}
	if err := sensor.EnableFIFORollover(ctx, true); err != nil {
		return err
	}
	if err := sensor.SetFIFOAlmostFullThreshold(ctx, 15); err != nil {
		return err
	}
	if err := sensor.SetLEDPulseAmplitude(ctx, 1, 0x1F); err != nil {
		return err
	}
	if err := sensor.SetLEDPulseAmplitude(ctx, 2, 0x1F); err != nil {
		return err
	}
	if err := sensor.EnableInterrupt(ctx, InterruptFIFOAlmostFull); err != nil {
		return err
	}
	return sensor.EnableInterrupt(ctx, InterruptNewDataReady)
}

// InitializeHeartRateMode configures the device for IR-only heart-rate
// acquisition. The red LED stays off and only the almost-full interrupt is
// enabled.
func (sensor *MAX30102) InitializeHeartRateMode(ctx context.Context) error {
	if err := sensor.VerifyIdentity(ctx); err != nil {
		return err
	}
	if err := sensor.Reset(ctx); err != nil {
		return err
	}
	if err := sensor.ClearFIFO(ctx); err != nil {
		return err
	}
	if err := sensor.SetOperationMode(ctx, ModeHeartRate); err != nil {
		return err
	}
	if err := sensor.SetADCRange(ctx, Range4096nA); err != nil {
		return err
	}
	if err := sensor.SetSamplingRate(ctx, Rate100); err != nil {
		return err
	}
	if err := sensor.SetPulseWidth(ctx, Width411us); err != nil {
		return err
	}
	if err := sensor.SetSampleAveraging(ctx, Average4); err != nil {
		return err
	}
	if err := sensor.SetLEDPulseAmplitude(ctx, 2, 0x1F); err != nil {
		return err
	}
	return sensor.EnableInterrupt(ctx, InterruptFIFOAlmostFull)
}

// GetADCResolution maps the configured pulse width to the effective ADC
// resolution in bits.
func (sensor *MAX30102) GetADCResolution(ctx context.Context) (byte, error) {
	config, err := sensor.readRegister(ctx, regSpO2Config)
	if err != nil {
		return 0, fmt.Errorf("max30102: could not read SpO2 configuration: %w", err)
	}
	switch LEDPulseWidth(config & 0x03) {
	case Width69us:
		return 15, nil
	case Width118us:
		return 16, nil
	case Width215us:
		return 17, nil
	case Width411us:
		return 18, nil
	}
	return 0, fmt.Errorf("max30102: unmapped pulse width field: %w", vitals.ErrInvalidData)
}

// IsShutdown reports whether the shutdown bit of MODE_CONFIG is set.
func (sensor *MAX30102) IsShutdown(ctx context.Context) (bool, error) {
	config, err := sensor.readRegister(ctx, regModeConfig)
	if err != nil {
		return false, fmt.Errorf("max30102: could not read mode configuration: %w", err)
	}
	return config&modeShutdownBit != 0, nil
}

// GetOperationMode returns the configured operating mode.
func (sensor *MAX30102) GetOperationMode(ctx context.Context) (OperationMode, error) {
	config, err := sensor.readRegister(ctx, regModeConfig)
	if err != nil {
		return 0, fmt.Errorf("max30102: could not read mode configuration: %w", err)
	}
	mode := OperationMode(config & modeMask)
	switch mode {
	case ModeHeartRate, ModeSpO2, ModeMultiLED:
		return mode, nil
	}
	return 0, fmt.Errorf("max30102: unmapped mode bits %#x: %w", byte(mode), vitals.ErrInvalidData)
}

// ValidateConfiguration is a read-only diagnostic: the part must identify,
// must not be shut down, must report a valid mode and must show no FIFO
// overflow. It repairs nothing.
func (sensor *MAX30102) ValidateConfiguration(ctx context.Context) error {
	if err := sensor.VerifyIdentity(ctx); err != nil {
		return err
	}
	down, err := sensor.IsShutdown(ctx)
	if err != nil {
		return err
	}
	if down {
		return &vitals.SensorError{Sensor: "max30102", Msg: "sensor is in shutdown mode"}
	}
	if _, err := sensor.GetOperationMode(ctx); err != nil {
		return err
	}
	overflow, err := sensor.readRegister(ctx, regOvfCounter)
	if err != nil {
		return fmt.Errorf("max30102: could not read overflow counter: %w", err)
	}
	if overflow > 0 {
		return &vitals.SensorError{Sensor: "max30102", Msg: "FIFO overflow detected"}
	}
	return nil
}

// ForceReset resets the device and waits for it to come back, retrying
// the identity check up to 3 times. Only ErrNotDetected is tolerated
// between attempts; any other failure aborts immediately.
func (sensor *MAX30102) ForceReset(ctx context.Context) error {
	if err := sensor.Reset(ctx); err != nil {
		return err
	}
	err := vitals.Retry(ctx, 3, func(err error) bool {
		return errors.Is(err, vitals.ErrNotDetected)
	}, sensor.VerifyIdentity)
	if err == nil {
		return nil
	}
	if errors.Is(err, vitals.ErrNotDetected) {
		return &vitals.SensorError{Sensor: "max30102", Msg: "reset failed: sensor not responding"}
	}
	return err
}

func (sensor *MAX30102) readRegister(ctx context.Context, reg byte) (byte, error) {
	buf := make([]byte, 1)
	err := sensor.transport.WriteReadAddr(ctx, sensor.address, []byte{reg}, buf)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (sensor *MAX30102) writeRegister(ctx context.Context, reg, value byte) error {
	return sensor.transport.WriteToAddr(ctx, sensor.address, []byte{reg, value})
}

// updateRegister performs a read-modify-write: the bits selected by mask
// are replaced with value, everything else is preserved.
func (sensor *MAX30102) updateRegister(ctx context.Context, reg, mask, value byte) error {
	current, err := sensor.readRegister(ctx, reg)
	if err != nil {
		return err
	}
	return sensor.writeRegister(ctx, reg, current&^mask|value&mask)
}

// fifoCount computes (wr - rd) mod 32 on the 5-bit hardware pointers.
func fifoCount(wrPtr, rdPtr byte) byte {
	wr := wrPtr & 0x1F
	rd := rdPtr & 0x1F
	if wr >= rd {
		return wr - rd
	}
	return FIFODepth - rd + wr
}

// decodeSample unpacks one 6-byte FIFO entry: IR first, then red, each a
// big-endian 18-bit value masked to discard garbage high bits.
func decodeSample(buf []byte) Sample {
	ir := (uint32(buf[0])<<16 | uint32(buf[1])<<8 | uint32(buf[2])) & sampleMask
	red := (uint32(buf[3])<<16 | uint32(buf[4])<<8 | uint32(buf[5])) & sampleMask
	return Sample{Red: red, IR: ir}
}

// convertTemperature combines the signed integer register with the
// 1/16-degree fraction nibble.
func convertTemperature(integer, fraction byte) float32 {
	return float32(int8(integer)) + float32(fraction&0x0F)*0.0625
}
