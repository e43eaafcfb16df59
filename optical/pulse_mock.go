package optical

import (
	"context"
)

// PulseBehaviorFunc defines the function signature for pulse oximeter behavior.
// It returns the next optical sample or an error; a nil sample with a nil
// error means the FIFO is currently empty.
type PulseBehaviorFunc func(ctx context.Context) (*Sample, error)

// MockPulseSource is a mock implementation of a pulse-oximetry sample source
// that uses a behavior function to produce results without requiring any
// hardware. It can stand in for a MAX30102 wherever only the FIFO stream is
// consumed.
type MockPulseSource struct {
	behavior PulseBehaviorFunc
}

// NewMockPulseSource creates a new mock sample source with the given behavior
// function. The behavior function is called whenever ReadFIFOSample is
// invoked.
//
// Example usage:
//
//	// Static value
//	source := NewMockPulseSource(func(ctx context.Context) (*optical.Sample, error) {
//		return &optical.Sample{Red: 80000, IR: 95000}, nil
//	})
//
//	// Synthetic waveform
//	n := 0
//	source := NewMockPulseSource(func(ctx context.Context) (*optical.Sample, error) {
//		n++
//		v := uint32(90000 + 5000*math.Sin(float64(n)/10))
//		return &optical.Sample{Red: v, IR: v + 12000}, nil
//	})
//
//	// Error simulation
//	source := NewMockPulseSource(func(ctx context.Context) (*optical.Sample, error) {
//		return nil, fmt.Errorf("sensor malfunction")
//	})
func NewMockPulseSource(behavior PulseBehaviorFunc) *MockPulseSource {
	return &MockPulseSource{
		behavior: behavior,
	}
}

// ReadFIFOSample returns the next sample by calling the behavior function.
func (m *MockPulseSource) ReadFIFOSample(ctx context.Context) (*Sample, error) {
	return m.behavior(ctx)
}

// ReadFIFOBatch fills samples by calling the behavior function repeatedly.
// It stops early when the behavior reports an empty FIFO and returns the
// number of samples produced.
func (m *MockPulseSource) ReadFIFOBatch(ctx context.Context, samples []Sample) (int, error) {
	for i := range samples {
		sample, err := m.behavior(ctx)
		if err != nil {
			return i, err
		}
		if sample == nil {
			return i, nil
		}
		samples[i] = *sample
	}
	return len(samples), nil
}
