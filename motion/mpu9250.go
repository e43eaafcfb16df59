package motion

import (
	"context"
	"fmt"

	"github.com/mklimuk/vitals"
)

// Register map (MPU-9250 register map rev. 1.6)
const (
	regSampleRateDiv = 0x19
	regConfig        = 0x1A
	regGyroConfig    = 0x1B
	regAccelConfig   = 0x1C
	regAccelXOutH    = 0x3B
	regTempOutH      = 0x41
	regGyroXOutH     = 0x43
	regPowerMgmt1    = 0x6B
	regWhoAmI        = 0x75
)

const whoAmIValue = 0x71

// PWR_MGMT_1 bit layout
const (
	powerSleepBit      = 0x40
	powerInternalClock = 0x01
)

const mpu9250DefaultAddress = 0x68

// AccelRange selects the accelerometer full-scale range.
type AccelRange byte

const (
	AccelRange2G  AccelRange = 0x00
	AccelRange4G  AccelRange = 0x08
	AccelRange8G  AccelRange = 0x10
	AccelRange16G AccelRange = 0x18
)

func (r AccelRange) fullScale() float32 {
	switch r {
	case AccelRange4G:
		return 4.0
	case AccelRange8G:
		return 8.0
	case AccelRange16G:
		return 16.0
	default:
		return 2.0
	}
}

// Calibration returns the conversion factor for this range. The sensor
// reports signed 16-bit samples, so one LSB is full-scale/32768.
func (r AccelRange) Calibration() Calibration {
	return Calibration{Scale: r.fullScale() / 32768.0}
}

// GyroRange selects the gyroscope full-scale range.
type GyroRange byte

const (
	GyroRange250Dps  GyroRange = 0x00
	GyroRange500Dps  GyroRange = 0x08
	GyroRange1000Dps GyroRange = 0x10
	GyroRange2000Dps GyroRange = 0x18
)

func (r GyroRange) fullScale() float32 {
	switch r {
	case GyroRange500Dps:
		return 500.0
	case GyroRange1000Dps:
		return 1000.0
	case GyroRange2000Dps:
		return 2000.0
	default:
		return 250.0
	}
}

// Calibration returns the conversion factor for this range in degrees per
// second per LSB.
func (r GyroRange) Calibration() Calibration {
	return Calibration{Scale: r.fullScale() / 32768.0}
}

// Calibration converts raw signed 16-bit readings into physical units.
// A zero-value Calibration scales everything to zero; it is only meaningful
// once derived from a configured range.
type Calibration struct {
	Scale float32
}

// DLPFConfig selects the digital low-pass filter bandwidth preset.
type DLPFConfig byte

const (
	Bandwidth260Hz DLPFConfig = 0x00
	Bandwidth184Hz DLPFConfig = 0x01
)

// MPU9250 represents an InvenSense MPU-9250 9-axis IMU attached over I2C.
//
// The supported construction path is Initialize, which verifies the part,
// wakes it and configures both ranges before handing the driver back, so
// converted reads are always backed by valid calibrations:
//
//	imu, err := motion.Initialize(ctx, bus, motion.AccelRange4G, motion.GyroRange500Dps)
//	accel, err := imu.ReadAcceleration(ctx)
//
// A driver built with NewMPU9250 alone holds zero calibrations until
// SetupAccelerometer/SetupGyroscope run; converted reads before that are
// zero-scaled and physically meaningless.
type MPU9250 struct {
	transport vitals.I2CBus
	address   byte
	accelCal  Calibration
	gyroCal   Calibration
}

type MPU9250Config struct {
	Address byte
}

type MPU9250ConfigOption func(*MPU9250Config)

func WithAddress(address byte) MPU9250ConfigOption {
	return func(c *MPU9250Config) {
		c.Address = address
	}
}

// NewMPU9250 creates an unconfigured driver bound to the given transport.
// The default address 0x68 (AD0 low) can be overridden with WithAddress.
func NewMPU9250(trans vitals.I2CBus, opts ...MPU9250ConfigOption) *MPU9250 {
	config := &MPU9250Config{
		Address: mpu9250DefaultAddress,
	}
	for _, opt := range opts {
		opt(config)
	}
	return &MPU9250{transport: trans, address: config.Address}
}

// Initialize builds a driver and runs the full startup sequence: identity
// check, power configuration, accelerometer range, gyroscope range. The
// sequence stops at the first failure; an already-written register is not
// rolled back and the caller should re-run the sequence.
func Initialize(ctx context.Context, trans vitals.I2CBus, accel AccelRange, gyro GyroRange, opts ...MPU9250ConfigOption) (*MPU9250, error) {
	sensor := NewMPU9250(trans, opts...)
	if err := sensor.VerifyIdentity(ctx); err != nil {
		return nil, err
	}
	if err := sensor.ConfigurePower(ctx); err != nil {
		return nil, err
	}
	if _, err := sensor.SetupAccelerometer(ctx, accel); err != nil {
		return nil, err
	}
	if _, err := sensor.SetupGyroscope(ctx, gyro); err != nil {
		return nil, err
	}
	return sensor, nil
}

// VerifyIdentity reads WHO_AM_I and checks it against the expected part ID.
func (sensor *MPU9250) VerifyIdentity(ctx context.Context) error {
	id, err := sensor.readRegister(ctx, regWhoAmI)
	if err != nil {
		return fmt.Errorf("mpu9250: could not read identity register: %w", err)
	}
	if id != whoAmIValue {
		return fmt.Errorf("mpu9250: unexpected part ID %#x: %w", id, vitals.ErrNotDetected)
	}
	return nil
}

// ConfigurePower wakes the device and selects the internal oscillator.
// This is a full overwrite of PWR_MGMT_1; any previously set power bits
// are deliberately clobbered.
func (sensor *MPU9250) ConfigurePower(ctx context.Context) error {
	err := sensor.writeRegister(ctx, regPowerMgmt1, powerInternalClock)
	if err != nil {
		return fmt.Errorf("mpu9250: could not configure power management: %w", err)
	}
	return nil
}

// SetupAccelerometer writes the range bits (ACCEL_CONFIG bits 4:3, other
// bits zeroed) and stores the derived calibration, which is also returned
// to the caller. Running this is a prerequisite for ReadAcceleration.
func (sensor *MPU9250) SetupAccelerometer(ctx context.Context, rng AccelRange) (Calibration, error) {
	err := sensor.writeRegister(ctx, regAccelConfig, byte(rng))
	if err != nil {
		return Calibration{}, fmt.Errorf("mpu9250: could not configure accelerometer range: %w", err)
	}
	sensor.accelCal = rng.Calibration()
	return sensor.accelCal, nil
}

// SetupGyroscope writes the range bits (GYRO_CONFIG bits 4:3, other bits
// zeroed) and stores the derived calibration, which is also returned to
// the caller. Running this is a prerequisite for ReadAngularVelocity.
func (sensor *MPU9250) SetupGyroscope(ctx context.Context, rng GyroRange) (Calibration, error) {
	err := sensor.writeRegister(ctx, regGyroConfig, byte(rng))
	if err != nil {
		return Calibration{}, fmt.Errorf("mpu9250: could not configure gyroscope range: %w", err)
	}
	sensor.gyroCal = rng.Calibration()
	return sensor.gyroCal, nil
}

// ReadAccelRaw burst-reads the six accelerometer output registers and
// returns the X, Y, Z axes as signed 16-bit values.
func (sensor *MPU9250) ReadAccelRaw(ctx context.Context) ([3]int16, error) {
	raw, err := sensor.readAxes(ctx, regAccelXOutH)
	if err != nil {
		return raw, fmt.Errorf("mpu9250: could not read accelerometer data: %w", err)
	}
	return raw, nil
}

// ReadGyroRaw burst-reads the six gyroscope output registers and returns
// the X, Y, Z axes as signed 16-bit values.
func (sensor *MPU9250) ReadGyroRaw(ctx context.Context) ([3]int16, error) {
	raw, err := sensor.readAxes(ctx, regGyroXOutH)
	if err != nil {
		return raw, fmt.Errorf("mpu9250: could not read gyroscope data: %w", err)
	}
	return raw, nil
}

// ReadTempRaw reads the two temperature output registers as one signed
// 16-bit value.
func (sensor *MPU9250) ReadTempRaw(ctx context.Context) (int16, error) {
	buf := make([]byte, 2)
	err := sensor.transport.WriteReadAddr(ctx, sensor.address, []byte{regTempOutH}, buf)
	if err != nil {
		return 0, fmt.Errorf("mpu9250: could not read temperature data: %w", err)
	}
	return int16(buf[0])<<8 | int16(buf[1]), nil
}

// ReadAcceleration returns the acceleration on all three axes in g units,
// converted with the accelerometer calibration.
func (sensor *MPU9250) ReadAcceleration(ctx context.Context) ([3]float32, error) {
	raw, err := sensor.ReadAccelRaw(ctx)
	if err != nil {
		return [3]float32{}, err
	}
	return convertAxes(raw, sensor.accelCal), nil
}

// ReadAngularVelocity returns the rotation rate on all three axes in
// degrees per second, converted with the gyroscope calibration.
func (sensor *MPU9250) ReadAngularVelocity(ctx context.Context) ([3]float32, error) {
	raw, err := sensor.ReadGyroRaw(ctx)
	if err != nil {
		return [3]float32{}, err
	}
	return convertAxes(raw, sensor.gyroCal), nil
}

// ReadTemperatureCelsius returns the die temperature. The conversion is a
// fixed factory calibration line and does not depend on any configured
// range.
func (sensor *MPU9250) ReadTemperatureCelsius(ctx context.Context) (float32, error) {
	raw, err := sensor.ReadTempRaw(ctx)
	if err != nil {
		return 0, err
	}
	return convertTemperature(raw), nil
}

// SetSampleRate writes the sample rate divider. The effective output rate
// is the internal base rate divided by divider+1; computing that is the
// caller's business.
func (sensor *MPU9250) SetSampleRate(ctx context.Context, divider byte) error {
	err := sensor.writeRegister(ctx, regSampleRateDiv, divider)
	if err != nil {
		return fmt.Errorf("mpu9250: could not set sample rate divider: %w", err)
	}
	return nil
}

// SetDLPFConfig selects one of the low-pass filter bandwidth presets.
func (sensor *MPU9250) SetDLPFConfig(ctx context.Context, config DLPFConfig) error {
	err := sensor.writeRegister(ctx, regConfig, byte(config))
	if err != nil {
		return fmt.Errorf("mpu9250: could not set filter bandwidth: %w", err)
	}
	return nil
}

// EnterSleepMode sets the sleep bit in PWR_MGMT_1, preserving every other
// bit of the register.
func (sensor *MPU9250) EnterSleepMode(ctx context.Context) error {
	current, err := sensor.readRegister(ctx, regPowerMgmt1)
	if err != nil {
		return fmt.Errorf("mpu9250: could not read power management register: %w", err)
	}
	err = sensor.writeRegister(ctx, regPowerMgmt1, current|powerSleepBit)
	if err != nil {
		return fmt.Errorf("mpu9250: could not enter sleep mode: %w", err)
	}
	return nil
}

// WakeUp clears the sleep bit in PWR_MGMT_1, preserving every other bit
// of the register (in particular the clock source selection).
func (sensor *MPU9250) WakeUp(ctx context.Context) error {
	current, err := sensor.readRegister(ctx, regPowerMgmt1)
	if err != nil {
		return fmt.Errorf("mpu9250: could not read power management register: %w", err)
	}
	err = sensor.writeRegister(ctx, regPowerMgmt1, current&^powerSleepBit)
	if err != nil {
		return fmt.Errorf("mpu9250: could not wake up: %w", err)
	}
	return nil
}

func (sensor *MPU9250) readAxes(ctx context.Context, startReg byte) ([3]int16, error) {
	var axes [3]int16
	buf := make([]byte, 6)
	err := sensor.transport.WriteReadAddr(ctx, sensor.address, []byte{startReg}, buf)
	if err != nil {
		return axes, err
	}
	// big-endian pairs, sign bit significant
	axes[0] = int16(buf[0])<<8 | int16(buf[1])
	axes[1] = int16(buf[2])<<8 | int16(buf[3])
	axes[2] = int16(buf[4])<<8 | int16(buf[5])
	return axes, nil
}

func (sensor *MPU9250) readRegister(ctx context.Context, reg byte) (byte, error) {
	buf := make([]byte, 1)
	err := sensor.transport.WriteReadAddr(ctx, sensor.address, []byte{reg}, buf)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (sensor *MPU9250) writeRegister(ctx context.Context, reg, value byte) error {
	return sensor.transport.WriteToAddr(ctx, sensor.address, []byte{reg, value})
}

func convertAxes(raw [3]int16, cal Calibration) [3]float32 {
	return [3]float32{
		float32(raw[0]) * cal.Scale,
		float32(raw[1]) * cal.Scale,
		float32(raw[2]) * cal.Scale,
	}
}

// Die temperature transfer function from the datasheet: raw/340 + 36.53.
func convertTemperature(raw int16) float32 {
	return float32(raw)/340.0 + 36.53
}
