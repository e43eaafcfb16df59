package motion

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mklimuk/vitals"
)

// MockI2CBus is a mock implementation of vitals.I2CBus using testify/mock
type MockI2CBus struct {
	mock.Mock
}

func (m *MockI2CBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	return args.Error(0)
}

func (m *MockI2CBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	if data, ok := args.Get(0).([]byte); ok && len(data) <= len(buffer) {
		copy(buffer, data)
	}
	return args.Error(1)
}

func (m *MockI2CBus) WriteReadAddr(ctx context.Context, address byte, out, in []byte) error {
	args := m.Called(ctx, address, out, in)
	if data, ok := args.Get(0).([]byte); ok && len(data) <= len(in) {
		copy(in, data)
	}
	return args.Error(1)
}

func (m *MockI2CBus) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func expectRegisterRead(bus *MockI2CBus, reg byte, value byte) *mock.Call {
	return bus.On("WriteReadAddr", mock.Anything, byte(mpu9250DefaultAddress), []byte{reg}, mock.Anything).
		Return([]byte{value}, nil).Once()
}

func expectRegisterWrite(bus *MockI2CBus, reg byte, value byte) *mock.Call {
	return bus.On("WriteToAddr", mock.Anything, byte(mpu9250DefaultAddress), []byte{reg, value}).
		Return(nil).Once()
}

func expectBurstRead(bus *MockI2CBus, reg byte, data []byte) *mock.Call {
	return bus.On("WriteReadAddr", mock.Anything, byte(mpu9250DefaultAddress), []byte{reg}, mock.Anything).
		Return(data, nil).Once()
}

func TestMPU9250_VerifyIdentity(t *testing.T) {
	t.Run("expected part ID", func(t *testing.T) {
		bus := new(MockI2CBus)
		expectRegisterRead(bus, regWhoAmI, whoAmIValue)
		sensor := NewMPU9250(bus)
		assert.NoError(t, sensor.VerifyIdentity(context.Background()))
		bus.AssertExpectations(t)
	})
	t.Run("unexpected part ID", func(t *testing.T) {
		bus := new(MockI2CBus)
		expectRegisterRead(bus, regWhoAmI, 0x68)
		sensor := NewMPU9250(bus)
		err := sensor.VerifyIdentity(context.Background())
		assert.ErrorIs(t, err, vitals.ErrNotDetected)
		bus.AssertExpectations(t)
	})
	t.Run("transport failure", func(t *testing.T) {
		bus := new(MockI2CBus)
		bus.On("WriteReadAddr", mock.Anything, byte(mpu9250DefaultAddress), []byte{regWhoAmI}, mock.Anything).
			Return(nil, errors.New("i2c read failed")).Once()
		sensor := NewMPU9250(bus)
		err := sensor.VerifyIdentity(context.Background())
		assert.ErrorContains(t, err, "i2c read failed")
		bus.AssertExpectations(t)
	})
}

func TestMPU9250_AccelCalibration(t *testing.T) {
	tests := []struct {
		rng    AccelRange
		config byte
		scale  float32
	}{
		{AccelRange2G, 0x00, 2.0 / 32768.0},
		{AccelRange4G, 0x08, 4.0 / 32768.0},
		{AccelRange8G, 0x10, 8.0 / 32768.0},
		{AccelRange16G, 0x18, 16.0 / 32768.0},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%#x", test.config), func(t *testing.T) {
			bus := new(MockI2CBus)
			expectRegisterWrite(bus, regAccelConfig, test.config)
			sensor := NewMPU9250(bus)
			cal, err := sensor.SetupAccelerometer(context.Background(), test.rng)
			assert.NoError(t, err)
			assert.Equal(t, test.scale, cal.Scale)

			// raw half-range reading converts to half the full scale
			expectBurstRead(bus, regAccelXOutH, []byte{0x40, 0x00, 0x40, 0x00, 0x40, 0x00})
			accel, err := sensor.ReadAcceleration(context.Background())
			assert.NoError(t, err)
			for axis := 0; axis < 3; axis++ {
				assert.Equal(t, test.rng.fullScale()/2, accel[axis])
			}
			bus.AssertExpectations(t)
		})
	}
}

func TestMPU9250_GyroCalibration(t *testing.T) {
	tests := []struct {
		rng    GyroRange
		config byte
		scale  float32
	}{
		{GyroRange250Dps, 0x00, 250.0 / 32768.0},
		{GyroRange500Dps, 0x08, 500.0 / 32768.0},
		{GyroRange1000Dps, 0x10, 1000.0 / 32768.0},
		{GyroRange2000Dps, 0x18, 2000.0 / 32768.0},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%#x", test.config), func(t *testing.T) {
			bus := new(MockI2CBus)
			expectRegisterWrite(bus, regGyroConfig, test.config)
			sensor := NewMPU9250(bus)
			cal, err := sensor.SetupGyroscope(context.Background(), test.rng)
			assert.NoError(t, err)
			assert.Equal(t, test.scale, cal.Scale)
			bus.AssertExpectations(t)
		})
	}
}

// Converted gyro reads must be backed by the gyro calibration only, even
// when the accelerometer is configured with a different range.
func TestMPU9250_ScaleIndependence(t *testing.T) {
	bus := new(MockI2CBus)
	expectRegisterWrite(bus, regAccelConfig, byte(AccelRange2G))
	expectRegisterWrite(bus, regGyroConfig, byte(GyroRange2000Dps))

	sensor := NewMPU9250(bus)
	_, err := sensor.SetupAccelerometer(context.Background(), AccelRange2G)
	assert.NoError(t, err)
	_, err = sensor.SetupGyroscope(context.Background(), GyroRange2000Dps)
	assert.NoError(t, err)

	expectBurstRead(bus, regGyroXOutH, []byte{0x40, 0x00, 0x40, 0x00, 0x40, 0x00})
	gyro, err := sensor.ReadAngularVelocity(context.Background())
	assert.NoError(t, err)
	for axis := 0; axis < 3; axis++ {
		assert.Equal(t, float32(1000.0), gyro[axis])
	}
	bus.AssertExpectations(t)
}

func TestMPU9250_ReadAccelRaw_SignedWidening(t *testing.T) {
	bus := new(MockI2CBus)
	expectBurstRead(bus, regAccelXOutH, []byte{0xFF, 0xFF, 0x80, 0x00, 0x7F, 0xFF})
	sensor := NewMPU9250(bus)
	raw, err := sensor.ReadAccelRaw(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, [3]int16{-1, -32768, 32767}, raw)
	bus.AssertExpectations(t)
}

func TestMPU9250_ConvertTemperature(t *testing.T) {
	tests := []struct {
		raw      int16
		expected float32
	}{
		{0, 36.53},
		{340, 37.53},
		{-340, 35.53},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%d", test.raw), func(t *testing.T) {
			assert.Equal(t, test.expected, convertTemperature(test.raw))
		})
	}
}

func TestMPU9250_ReadTemperatureCelsius(t *testing.T) {
	bus := new(MockI2CBus)
	bus.On("WriteReadAddr", mock.Anything, byte(mpu9250DefaultAddress), []byte{regTempOutH}, mock.Anything).
		Return([]byte{0x01, 0x54}, nil).Once() // raw 340
	sensor := NewMPU9250(bus)
	temp, err := sensor.ReadTemperatureCelsius(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, float32(37.53), temp)
	bus.AssertExpectations(t)
}

// Entering and leaving sleep must only ever touch bit 6 of PWR_MGMT_1.
func TestMPU9250_SleepWakeRoundTrip(t *testing.T) {
	bus := new(MockI2CBus)
	sensor := NewMPU9250(bus)

	expectRegisterRead(bus, regPowerMgmt1, 0x01)
	expectRegisterWrite(bus, regPowerMgmt1, 0x41)
	assert.NoError(t, sensor.EnterSleepMode(context.Background()))

	expectRegisterRead(bus, regPowerMgmt1, 0x41)
	expectRegisterWrite(bus, regPowerMgmt1, 0x01)
	assert.NoError(t, sensor.WakeUp(context.Background()))

	bus.AssertExpectations(t)
}

func TestMPU9250_Initialize(t *testing.T) {
	t.Run("full sequence", func(t *testing.T) {
		bus := new(MockI2CBus)
		expectRegisterRead(bus, regWhoAmI, whoAmIValue)
		expectRegisterWrite(bus, regPowerMgmt1, powerInternalClock)
		expectRegisterWrite(bus, regAccelConfig, byte(AccelRange4G))
		expectRegisterWrite(bus, regGyroConfig, byte(GyroRange500Dps))

		sensor, err := Initialize(context.Background(), bus, AccelRange4G, GyroRange500Dps)
		assert.NoError(t, err)
		assert.Equal(t, AccelRange4G.Calibration(), sensor.accelCal)
		assert.Equal(t, GyroRange500Dps.Calibration(), sensor.gyroCal)
		bus.AssertExpectations(t)
	})
	t.Run("short-circuits on identity mismatch", func(t *testing.T) {
		bus := new(MockI2CBus)
		expectRegisterRead(bus, regWhoAmI, 0x00)

		_, err := Initialize(context.Background(), bus, AccelRange2G, GyroRange250Dps)
		assert.ErrorIs(t, err, vitals.ErrNotDetected)
		// no configuration write may follow a failed identity check
		bus.AssertNotCalled(t, "WriteToAddr", mock.Anything, mock.Anything, mock.Anything)
		bus.AssertExpectations(t)
	})
}

func TestMPU9250_SetSampleRate(t *testing.T) {
	bus := new(MockI2CBus)
	expectRegisterWrite(bus, regSampleRateDiv, 0x07)
	sensor := NewMPU9250(bus)
	assert.NoError(t, sensor.SetSampleRate(context.Background(), 0x07))
	bus.AssertExpectations(t)
}

func TestMPU9250_SetDLPFConfig(t *testing.T) {
	bus := new(MockI2CBus)
	expectRegisterWrite(bus, regConfig, byte(Bandwidth184Hz))
	sensor := NewMPU9250(bus)
	assert.NoError(t, sensor.SetDLPFConfig(context.Background(), Bandwidth184Hz))
	bus.AssertExpectations(t)
}
