package motion

import (
	"context"
)

// MotionBehaviorFunc defines the function signature for inertial sensor
// behavior. It returns acceleration in g and angular velocity in deg/s, or
// an error.
type MotionBehaviorFunc func(ctx context.Context) ([3]float32, [3]float32, error)

// MockMotionSensor is a mock implementation of an inertial sensor that uses
// a behavior function to produce results without requiring any hardware.
// It can stand in for an MPU9250 wherever only the converted readings are
// consumed.
type MockMotionSensor struct {
	behavior MotionBehaviorFunc
}

// NewMockMotionSensor creates a new mock inertial sensor with the given
// behavior function. The behavior function is called whenever
// ReadAcceleration or ReadAngularVelocity is invoked.
//
// Example usage:
//
//	// Device at rest
//	sensor := NewMockMotionSensor(func(ctx context.Context) ([3]float32, [3]float32, error) {
//		return [3]float32{0, 0, 1}, [3]float32{0, 0, 0}, nil
//	})
//
//	// Error simulation
//	sensor := NewMockMotionSensor(func(ctx context.Context) ([3]float32, [3]float32, error) {
//		return [3]float32{}, [3]float32{}, fmt.Errorf("sensor malfunction")
//	})
func NewMockMotionSensor(behavior MotionBehaviorFunc) *MockMotionSensor {
	return &MockMotionSensor{
		behavior: behavior,
	}
}

// ReadAcceleration returns the acceleration vector by calling the behavior
// function.
func (m *MockMotionSensor) ReadAcceleration(ctx context.Context) ([3]float32, error) {
	accel, _, err := m.behavior(ctx)
	return accel, err
}

// ReadAngularVelocity returns the angular velocity vector by calling the
// behavior function.
func (m *MockMotionSensor) ReadAngularVelocity(ctx context.Context) ([3]float32, error) {
	_, gyro, err := m.behavior(ctx)
	return gyro, err
}
