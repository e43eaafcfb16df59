package motion

import (
	"context"
	"fmt"
	"testing"
)

func TestMockMotionSensor_StaticValue(t *testing.T) {
	// Device at rest: 1 g on the Z axis, no rotation
	sensor := NewMockMotionSensor(func(ctx context.Context) ([3]float32, [3]float32, error) {
		return [3]float32{0, 0, 1}, [3]float32{0, 0, 0}, nil
	})

	ctx := context.Background()
	accel, err := sensor.ReadAcceleration(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if accel != [3]float32{0, 0, 1} {
		t.Errorf("expected [0 0 1], got %v", accel)
	}

	gyro, err := sensor.ReadAngularVelocity(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gyro != [3]float32{0, 0, 0} {
		t.Errorf("expected [0 0 0], got %v", gyro)
	}
}

func TestMockMotionSensor_DynamicBehavior(t *testing.T) {
	callCount := 0

	// Simulate a slow rotation picking up speed
	sensor := NewMockMotionSensor(func(ctx context.Context) ([3]float32, [3]float32, error) {
		callCount++
		return [3]float32{0, 0, 1}, [3]float32{float32(callCount) * 10, 0, 0}, nil
	})

	ctx := context.Background()

	gyro1, err := sensor.ReadAngularVelocity(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gyro1[0] != 10 {
		t.Errorf("first call: expected 10 deg/s, got %v", gyro1[0])
	}

	gyro2, err := sensor.ReadAngularVelocity(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gyro2[0] != 20 {
		t.Errorf("second call: expected 20 deg/s, got %v", gyro2[0])
	}
}

func TestMockMotionSensor_ErrorHandling(t *testing.T) {
	sensor := NewMockMotionSensor(func(ctx context.Context) ([3]float32, [3]float32, error) {
		return [3]float32{}, [3]float32{}, fmt.Errorf("sensor malfunction")
	})

	ctx := context.Background()
	_, err := sensor.ReadAcceleration(ctx)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != "sensor malfunction" {
		t.Errorf("unexpected error message: %v", err)
	}
}
