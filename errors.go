package vitals

import (
	"errors"
	"fmt"
)

// Common error conditions shared by all register-level drivers.
var (
	// ErrNotDetected is returned when the identity register of a device does
	// not contain the expected part ID (wrong device, wrong address or the
	// sensor is not powered).
	ErrNotDetected = errors.New("sensor not detected at address")
	// ErrInvalidData is returned when a register read yields a value outside
	// the set of codes the datasheet defines.
	ErrInvalidData = errors.New("invalid data received from sensor")
	// ErrConfig is returned when a caller-supplied parameter is out of range.
	// It is reported before any bus transaction is issued.
	ErrConfig = errors.New("invalid configuration")
)

// SensorError is a descriptive, sensor-specific diagnostic produced by
// composite checks (shutdown detected, FIFO overflow, reset retries
// exhausted). It carries the sensor name so errors from different drivers
// sharing one bus remain distinguishable.
type SensorError struct {
	Sensor string
	Msg    string
}

func (e *SensorError) Error() string {
	return fmt.Sprintf("%s: %s", e.Sensor, e.Msg)
}
