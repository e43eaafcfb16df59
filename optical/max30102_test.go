package optical

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
	return bus.On("WriteReadAddr", mock.Anything, byte(max30102DefaultAddress), []byte{reg}, mock.Anything).
		Return([]byte{value}, nil).Once()
}

func expectBurstRead(bus *MockI2CBus, reg byte, data []byte) *mock.Call {
	return bus.On("WriteReadAddr", mock.Anything, byte(max30102DefaultAddress), []byte{reg}, mock.Anything).
		Return(data, nil).Once()
}

func expectRegisterWrite(bus *MockI2CBus, reg byte, value byte) *mock.Call {
	return bus.On("WriteToAddr", mock.Anything, byte(max30102DefaultAddress), []byte{reg, value}).
		Return(nil).Once()
}

// fakeDevice emulates the register file of a powered device so that full
// initialization sequences can run against it.
type fakeDevice struct {
	regs map[byte]byte
	fifo []byte
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{regs: map[byte]byte{regPartID: expectedPartID}}
}

func (d *fakeDevice) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	if len(buffer) != 2 {
		return nil
	}
	reg, value := buffer[0], buffer[1]
	// the reset bit is one-shot and self-clearing
	if reg == regModeConfig && value&modeResetBit != 0 {
		d.regs[regModeConfig] = 0x00
		return nil
	}
	d.regs[reg] = value
	return nil
}

func (d *fakeDevice) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	return nil
}

func (d *fakeDevice) WriteReadAddr(ctx context.Context, address byte, out, in []byte) error {
	if out[0] == regFIFOData {
		copy(in, d.fifo)
		return nil
	}
	for i := range in {
		in[i] = d.regs[out[0]+byte(i)]
	}
	return nil
}

func (d *fakeDevice) Release(ctx context.Context) error {
	return nil
}

func TestMAX30102_VerifyIdentity(t *testing.T) {
	t.Run("expected part ID", func(t *testing.T) {
		bus := new(MockI2CBus)
		expectRegisterRead(bus, regPartID, expectedPartID)
		sensor := NewMAX30102Default(bus)
		assert.NoError(t, sensor.VerifyIdentity(context.Background()))
		bus.AssertExpectations(t)
	})
	t.Run("unexpected part ID", func(t *testing.T) {
		bus := new(MockI2CBus)
		expectRegisterRead(bus, regPartID, 0x11)
		sensor := NewMAX30102Default(bus)
		assert.ErrorIs(t, sensor.VerifyIdentity(context.Background()), vitals.ErrNotDetected)
		bus.AssertExpectations(t)
	})
}

func TestFIFOCount_Wraparound(t *testing.T) {
	tests := []struct {
		wr, rd   byte
		expected byte
	}{
		{3, 30, 5},
		{10, 2, 8},
		{7, 7, 0},
		{0, 31, 1},
		{31, 0, 31},
		// pointer registers may carry garbage above bit 4
		{0xE3, 0x1E, 5},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("wr%d_rd%d", test.wr, test.rd), func(t *testing.T) {
			assert.Equal(t, test.expected, fifoCount(test.wr, test.rd))
		})
	}
}

func TestMAX30102_GetAvailableSampleCount(t *testing.T) {
	bus := new(MockI2CBus)
	expectRegisterRead(bus, regFIFOWrPtr, 3)
	expectRegisterRead(bus, regFIFORdPtr, 30)
	sensor := NewMAX30102Default(bus)
	count, err := sensor.GetAvailableSampleCount(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, byte(5), count)
	bus.AssertExpectations(t)
}

func TestDecodeSample_18BitMask(t *testing.T) {
	sample := decodeSample([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	assert.Equal(t, uint32(0x3FFFF), sample.IR)
	assert.Equal(t, uint32(0x3FFFF), sample.Red)

	// IR channel comes first on the wire
	sample = decodeSample([]byte{0x00, 0x12, 0x34, 0x01, 0x00, 0x02})
	assert.Equal(t, uint32(0x1234), sample.IR)
	assert.Equal(t, uint32(0x10002), sample.Red)
}

func TestMAX30102_ReadFIFOSample(t *testing.T) {
	t.Run("empty FIFO is not an error", func(t *testing.T) {
		bus := new(MockI2CBus)
		expectRegisterRead(bus, regFIFOWrPtr, 12)
		expectRegisterRead(bus, regFIFORdPtr, 12)
		sensor := NewMAX30102Default(bus)
		sample, err := sensor.ReadFIFOSample(context.Background())
		assert.NoError(t, err)
		assert.Nil(t, sample)
		bus.AssertExpectations(t)
	})
	t.Run("single burst decode", func(t *testing.T) {
		bus := new(MockI2CBus)
		expectRegisterRead(bus, regFIFOWrPtr, 2)
		expectRegisterRead(bus, regFIFORdPtr, 1)
		expectBurstRead(bus, regFIFOData, []byte{0x01, 0x02, 0x03, 0x00, 0x04, 0x05})
		sensor := NewMAX30102Default(bus)
		sample, err := sensor.ReadFIFOSample(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, &Sample{IR: 0x10203, Red: 0x0405}, sample)
		bus.AssertExpectations(t)
	})
}

func TestMAX30102_ReadFIFOBatch(t *testing.T) {
	makeFIFO := func(n int) []byte {
		buf := make([]byte, n*sampleSize)
		for i := 0; i < n; i++ {
			buf[i*sampleSize+2] = byte(i + 1) // IR low byte
			buf[i*sampleSize+5] = byte(i + 1) // red low byte
		}
		return buf
	}

	t.Run("bounded by available samples", func(t *testing.T) {
		bus := new(MockI2CBus)
		expectRegisterRead(bus, regFIFOWrPtr, 5)
		expectRegisterRead(bus, regFIFORdPtr, 0)
		expectBurstRead(bus, regFIFOData, makeFIFO(5))

		sensor := NewMAX30102Default(bus)
		samples := make([]Sample, 40)
		n, err := sensor.ReadFIFOBatch(context.Background(), samples)
		assert.NoError(t, err)
		assert.Equal(t, 5, n)
		for i := 0; i < n; i++ {
			assert.Equal(t, uint32(i+1), samples[i].IR)
			assert.Equal(t, uint32(i+1), samples[i].Red)
		}
		bus.AssertExpectations(t)
	})

	t.Run("bounded by output slots", func(t *testing.T) {
		bus := new(MockI2CBus)
		expectRegisterRead(bus, regFIFOWrPtr, 10)
		expectRegisterRead(bus, regFIFORdPtr, 0)
		expectBurstRead(bus, regFIFOData, makeFIFO(2))

		sensor := NewMAX30102Default(bus)
		samples := make([]Sample, 2)
		n, err := sensor.ReadFIFOBatch(context.Background(), samples)
		assert.NoError(t, err)
		assert.Equal(t, 2, n)
		bus.AssertExpectations(t)
	})

	t.Run("empty output slice reads nothing", func(t *testing.T) {
		bus := new(MockI2CBus)
		expectRegisterRead(bus, regFIFOWrPtr, 10)
		expectRegisterRead(bus, regFIFORdPtr, 0)

		sensor := NewMAX30102Default(bus)
		n, err := sensor.ReadFIFOBatch(context.Background(), nil)
		assert.NoError(t, err)
		assert.Equal(t, 0, n)
		bus.AssertExpectations(t)
	})
}

func TestMAX30102_SetFIFOAlmostFullThreshold(t *testing.T) {
	t.Run("out of range fails before any bus write", func(t *testing.T) {
		bus := new(MockI2CBus)
		sensor := NewMAX30102Default(bus)
		err := sensor.SetFIFOAlmostFullThreshold(context.Background(), 16)
		assert.ErrorIs(t, err, vitals.ErrConfig)
		bus.AssertNotCalled(t, "WriteToAddr", mock.Anything, mock.Anything, mock.Anything)
		bus.AssertNotCalled(t, "WriteReadAddr", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
	t.Run("merges into preserved high nibble", func(t *testing.T) {
		bus := new(MockI2CBus)
		expectRegisterRead(bus, regFIFOConfig, 0x50)
		expectRegisterWrite(bus, regFIFOConfig, 0x5F)
		sensor := NewMAX30102Default(bus)
		assert.NoError(t, sensor.SetFIFOAlmostFullThreshold(context.Background(), 15))
		bus.AssertExpectations(t)
	})
}

func TestMAX30102_SetLEDPulseAmplitude(t *testing.T) {
	t.Run("invalid LED index", func(t *testing.T) {
		bus := new(MockI2CBus)
		sensor := NewMAX30102Default(bus)
		err := sensor.SetLEDPulseAmplitude(context.Background(), 3, 0x1F)
		assert.ErrorIs(t, err, vitals.ErrConfig)
		bus.AssertNotCalled(t, "WriteToAddr", mock.Anything, mock.Anything, mock.Anything)
	})
	t.Run("red and IR registers", func(t *testing.T) {
		bus := new(MockI2CBus)
		expectRegisterWrite(bus, regLED1PA, 0x24)
		expectRegisterWrite(bus, regLED2PA, 0x1F)
		sensor := NewMAX30102Default(bus)
		assert.NoError(t, sensor.SetLEDPulseAmplitude(context.Background(), 1, 0x24))
		assert.NoError(t, sensor.SetLEDPulseAmplitude(context.Background(), 2, 0x1F))
		bus.AssertExpectations(t)
	})
}

// Wakeup must clear only the shutdown bit and keep the configured mode.
func TestMAX30102_ShutdownWakeup(t *testing.T) {
	bus := new(MockI2CBus)
	sensor := NewMAX30102Default(bus)

	expectRegisterRead(bus, regModeConfig, byte(ModeSpO2))
	expectRegisterWrite(bus, regModeConfig, 0x80|byte(ModeSpO2))
	assert.NoError(t, sensor.Shutdown(context.Background()))

	expectRegisterRead(bus, regModeConfig, 0x80|byte(ModeSpO2))
	expectRegisterWrite(bus, regModeConfig, byte(ModeSpO2))
	assert.NoError(t, sensor.Wakeup(context.Background()))

	bus.AssertExpectations(t)
}

func TestMAX30102_SetOperationMode_PreservesOtherBits(t *testing.T) {
	bus := new(MockI2CBus)
	expectRegisterRead(bus, regModeConfig, 0x80|byte(ModeHeartRate))
	expectRegisterWrite(bus, regModeConfig, 0x80|byte(ModeMultiLED))
	sensor := NewMAX30102Default(bus)
	assert.NoError(t, sensor.SetOperationMode(context.Background(), ModeMultiLED))
	bus.AssertExpectations(t)
}

func TestMAX30102_SpO2ConfigFields(t *testing.T) {
	tests := []struct {
		name     string
		current  byte
		op       func(context.Context, *MAX30102) error
		expected byte
	}{
		{
			name:     "ADC range touches bits 6:5 only",
			current:  0x1F,
			op:       func(ctx context.Context, s *MAX30102) error { return s.SetADCRange(ctx, Range16384nA) },
			expected: 0x7F,
		},
		{
			name:     "sampling rate touches bits 4:2 only",
			current:  0x63,
			op:       func(ctx context.Context, s *MAX30102) error { return s.SetSamplingRate(ctx, Rate1000) },
			expected: 0x77,
		},
		{
			name:     "pulse width touches bits 1:0 only",
			current:  0x7C,
			op:       func(ctx context.Context, s *MAX30102) error { return s.SetPulseWidth(ctx, Width411us) },
			expected: 0x7F,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			bus := new(MockI2CBus)
			expectRegisterRead(bus, regSpO2Config, test.current)
			expectRegisterWrite(bus, regSpO2Config, test.expected)
			sensor := NewMAX30102Default(bus)
			assert.NoError(t, test.op(context.Background(), sensor))
			bus.AssertExpectations(t)
		})
	}
}

func TestMAX30102_InterruptEnableDisable(t *testing.T) {
	t.Run("enable sets single bit in enable 1", func(t *testing.T) {
		bus := new(MockI2CBus)
		expectRegisterRead(bus, regIntEnable1, 0x40)
		expectRegisterWrite(bus, regIntEnable1, 0xC0)
		sensor := NewMAX30102Default(bus)
		assert.NoError(t, sensor.EnableInterrupt(context.Background(), InterruptFIFOAlmostFull))
		bus.AssertExpectations(t)
	})
	t.Run("temperature ready lives in enable 2", func(t *testing.T) {
		bus := new(MockI2CBus)
		expectRegisterRead(bus, regIntEnable2, 0x00)
		expectRegisterWrite(bus, regIntEnable2, 0x02)
		sensor := NewMAX30102Default(bus)
		assert.NoError(t, sensor.EnableInterrupt(context.Background(), InterruptTemperatureReady))
		bus.AssertExpectations(t)
	})
	t.Run("disable clears single bit", func(t *testing.T) {
		bus := new(MockI2CBus)
		expectRegisterRead(bus, regIntEnable1, 0xC0)
		expectRegisterWrite(bus, regIntEnable1, 0x80)
		sensor := NewMAX30102Default(bus)
		assert.NoError(t, sensor.DisableInterrupt(context.Background(), InterruptNewDataReady))
		bus.AssertExpectations(t)
	})
}

func TestMAX30102_ReadTemperature(t *testing.T) {
	t.Run("not ready is not an error", func(t *testing.T) {
		bus := new(MockI2CBus)
		expectRegisterRead(bus, regIntStatus1, 0x00)
		expectRegisterRead(bus, regIntStatus2, 0x00)
		sensor := NewMAX30102Default(bus)
		_, ready, err := sensor.ReadTemperature(context.Background())
		assert.NoError(t, err)
		assert.False(t, ready)
		bus.AssertExpectations(t)
	})
	t.Run("positive reading", func(t *testing.T) {
		bus := new(MockI2CBus)
		expectRegisterRead(bus, regIntStatus1, 0x00)
		expectRegisterRead(bus, regIntStatus2, 0x02)
		expectRegisterRead(bus, regTempInt, 23)
		expectRegisterRead(bus, regTempFrac, 0x04)
		sensor := NewMAX30102Default(bus)
		temp, ready, err := sensor.ReadTemperature(context.Background())
		assert.NoError(t, err)
		assert.True(t, ready)
		assert.Equal(t, float32(23.25), temp)
		bus.AssertExpectations(t)
	})
	t.Run("negative reading uses signed integer part", func(t *testing.T) {
		bus := new(MockI2CBus)
		expectRegisterRead(bus, regIntStatus1, 0x00)
		expectRegisterRead(bus, regIntStatus2, 0x02)
		expectRegisterRead(bus, regTempInt, 0xFF) // -1
		expectRegisterRead(bus, regTempFrac, 0x08)
		sensor := NewMAX30102Default(bus)
		temp, ready, err := sensor.ReadTemperature(context.Background())
		assert.NoError(t, err)
		assert.True(t, ready)
		assert.Equal(t, float32(-0.5), temp)
		bus.AssertExpectations(t)
	})
}

func TestMAX30102_StartTemperatureMeasurement(t *testing.T) {
	bus := new(MockI2CBus)
	expectRegisterRead(bus, regIntEnable2, 0x00)
	expectRegisterWrite(bus, regIntEnable2, 0x02)
	expectRegisterWrite(bus, regTempConfig, 0x01)
	sensor := NewMAX30102Default(bus)
	assert.NoError(t, sensor.StartTemperatureMeasurement(context.Background()))
	bus.AssertExpectations(t)
}

func TestMAX30102_SetMultiLEDSlots(t *testing.T) {
	bus := new(MockI2CBus)
	expectRegisterWrite(bus, regMultiLED1, byte(SlotLed2IR)<<4|byte(SlotLed1Red))
	expectRegisterWrite(bus, regMultiLED2, byte(SlotPilotLed1)<<4|byte(SlotNone))
	sensor := NewMAX30102Default(bus)
	err := sensor.SetMultiLEDSlots(context.Background(), SlotLed1Red, SlotLed2IR, SlotNone, SlotPilotLed1)
	assert.NoError(t, err)
	bus.AssertExpectations(t)
}

func TestMAX30102_GetADCResolution(t *testing.T) {
	tests := []struct {
		config   byte
		expected byte
	}{
		{0x00, 15},
		{0x01, 16},
		{0x02, 17},
		{0x27, 18},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%#x", test.config), func(t *testing.T) {
			bus := new(MockI2CBus)
			expectRegisterRead(bus, regSpO2Config, test.config)
			sensor := NewMAX30102Default(bus)
			bits, err := sensor.GetADCResolution(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, test.expected, bits)
			bus.AssertExpectations(t)
		})
	}
}

func TestMAX30102_GetOperationMode(t *testing.T) {
	t.Run("mapped modes", func(t *testing.T) {
		for _, mode := range []OperationMode{ModeHeartRate, ModeSpO2, ModeMultiLED} {
			bus := new(MockI2CBus)
			expectRegisterRead(bus, regModeConfig, byte(mode))
			sensor := NewMAX30102Default(bus)
			got, err := sensor.GetOperationMode(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, mode, got)
			bus.AssertExpectations(t)
		}
	})
	t.Run("unmapped bits", func(t *testing.T) {
		bus := new(MockI2CBus)
		expectRegisterRead(bus, regModeConfig, 0x05)
		sensor := NewMAX30102Default(bus)
		_, err := sensor.GetOperationMode(context.Background())
		assert.ErrorIs(t, err, vitals.ErrInvalidData)
		bus.AssertExpectations(t)
	})
}

func TestMAX30102_ValidateConfiguration(t *testing.T) {
	t.Run("healthy device", func(t *testing.T) {
		dev := newFakeDevice()
		dev.regs[regModeConfig] = byte(ModeSpO2)
		sensor := NewMAX30102Default(dev)
		assert.NoError(t, sensor.ValidateConfiguration(context.Background()))
	})
	t.Run("shutdown detected", func(t *testing.T) {
		dev := newFakeDevice()
		dev.regs[regModeConfig] = modeShutdownBit | byte(ModeSpO2)
		sensor := NewMAX30102Default(dev)
		err := sensor.ValidateConfiguration(context.Background())
		var serr *vitals.SensorError
		assert.ErrorAs(t, err, &serr)
		assert.Contains(t, serr.Msg, "shutdown")
	})
	t.Run("FIFO overflow detected", func(t *testing.T) {
		dev := newFakeDevice()
		dev.regs[regModeConfig] = byte(ModeHeartRate)
		dev.regs[regOvfCounter] = 3
		sensor := NewMAX30102Default(dev)
		err := sensor.ValidateConfiguration(context.Background())
		var serr *vitals.SensorError
		assert.ErrorAs(t, err, &serr)
		assert.Contains(t, serr.Msg, "overflow")
	})
}

func TestMAX30102_ForceReset(t *testing.T) {
	t.Run("recovers within retry budget", func(t *testing.T) {
		bus := new(MockI2CBus)
		expectRegisterWrite(bus, regModeConfig, modeResetBit)
		expectRegisterRead(bus, regPartID, 0x00)
		expectRegisterRead(bus, regPartID, 0x00)
		expectRegisterRead(bus, regPartID, expectedPartID)
		sensor := NewMAX30102Default(bus)
		assert.NoError(t, sensor.ForceReset(context.Background()))
		bus.AssertExpectations(t)
	})
	t.Run("exhausted retries report a diagnostic", func(t *testing.T) {
		bus := new(MockI2CBus)
		expectRegisterWrite(bus, regModeConfig, modeResetBit)
		bus.On("WriteReadAddr", mock.Anything, byte(max30102DefaultAddress), []byte{regPartID}, mock.Anything).
			Return([]byte{0x00}, nil).Times(3)
		sensor := NewMAX30102Default(bus)
		err := sensor.ForceReset(context.Background())
		var serr *vitals.SensorError
		assert.ErrorAs(t, err, &serr)
		assert.Contains(t, serr.Msg, "not responding")
		bus.AssertExpectations(t)
	})
	t.Run("transport failure aborts immediately", func(t *testing.T) {
		bus := new(MockI2CBus)
		expectRegisterWrite(bus, regModeConfig, modeResetBit)
		bus.On("WriteReadAddr", mock.Anything, byte(max30102DefaultAddress), []byte{regPartID}, mock.Anything).
			Return(nil, errors.New("i2c read failed")).Once()
		sensor := NewMAX30102Default(bus)
		err := sensor.ForceReset(context.Background())
		assert.ErrorContains(t, err, "i2c read failed")
		bus.AssertExpectations(t)
	})
}

func TestMAX30102_Initialize(t *testing.T) {
	dev := newFakeDevice()
	sensor := NewMAX30102Default(dev)
	assert.NoError(t, sensor.Initialize(context.Background()))

	// SpO2 mode, no shutdown
	assert.Equal(t, byte(ModeSpO2), dev.regs[regModeConfig])
	// ADC range 4096nA, 100 Hz, 411us pulse width
	assert.Equal(t, byte(0x01)<<5|byte(Rate100)<<2|byte(Width411us), dev.regs[regSpO2Config])
	// 4x averaging, rollover, threshold 15
	assert.Equal(t, byte(Average4)<<5|0x10|0x0F, dev.regs[regFIFOConfig])
	assert.Equal(t, byte(0x1F), dev.regs[regLED1PA])
	assert.Equal(t, byte(0x1F), dev.regs[regLED2PA])
	// almost-full and new-data interrupts
	assert.Equal(t, byte(0xC0), dev.regs[regIntEnable1])
	// FIFO pointers cleared
	assert.Equal(t, byte(0), dev.regs[regFIFOWrPtr])
	assert.Equal(t, byte(0), dev.regs[regFIFORdPtr])
	assert.Equal(t, byte(0), dev.regs[regOvfCounter])
}

func TestMAX30102_InitializeHeartRateMode(t *testing.T) {
	dev := newFakeDevice()
	sensor := NewMAX30102Default(dev)
	assert.NoError(t, sensor.InitializeHeartRateMode(context.Background()))

	assert.Equal(t, byte(ModeHeartRate), dev.regs[regModeConfig])
	// red LED stays off in heart-rate mode
	assert.Equal(t, byte(0), dev.regs[regLED1PA])
	assert.Equal(t, byte(0x1F), dev.regs[regLED2PA])
	// only the almost-full interrupt
	assert.Equal(t, byte(0x80), dev.regs[regIntEnable1])
}

func TestMAX30102_Initialize_ShortCircuitsOnIdentity(t *testing.T) {
	bus := new(MockI2CBus)
	expectRegisterRead(bus, regPartID, 0x00)
	sensor := NewMAX30102Default(bus)
	assert.ErrorIs(t, sensor.Initialize(context.Background()), vitals.ErrNotDetected)
	bus.AssertNotCalled(t, "WriteToAddr", mock.Anything, mock.Anything, mock.Anything)
	bus.AssertExpectations(t)
}

func TestConvertTemperature(t *testing.T) {
	tests := []struct {
		integer  byte
		fraction byte
		expected float32
	}{
		{0x00, 0x00, 0.0},
		{0x17, 0x04, 23.25},
		{0xFF, 0x08, -0.5},
		// garbage above the fraction nibble is ignored
		{0x14, 0xF1, 20.0625},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%#x_%#x", test.integer, test.fraction), func(t *testing.T) {
			assert.Equal(t, test.expected, convertTemperature(test.integer, test.fraction))
		})
	}
}
