package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/vitals"
	"github.com/mklimuk/vitals/adapter"
	"github.com/mklimuk/vitals/gobotadapter"
	"github.com/mklimuk/vitals/i2c"
	"github.com/mklimuk/vitals/motion"
)

// Profile collects the per-host defaults (bus selection, slave addresses,
// measurement ranges) so they don't have to be repeated on every invocation.
type Profile struct {
	Bus struct {
		Adapter string `yaml:"adapter"`
		Device  string `yaml:"device"`
		Number  int    `yaml:"number"`
	} `yaml:"bus"`
	IMU struct {
		Address    byte   `yaml:"address"`
		AccelRange string `yaml:"accel_range"`
		GyroRange  string `yaml:"gyro_range"`
	} `yaml:"imu"`
	Pulse struct {
		Address      byte   `yaml:"address"`
		Mode         string `yaml:"mode"`
		LEDAmplitude byte   `yaml:"led_amplitude"`
	} `yaml:"pulse"`
}

var profile Profile

func loadProfile(path string) error {
	profile.Bus.Adapter = "mcp2221"
	profile.Bus.Device = ""
	profile.IMU.AccelRange = "2g"
	profile.IMU.GyroRange = "250"
	profile.Pulse.Mode = "spo2"
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read profile %s: %w", path, err)
	}
	err = yaml.Unmarshal(raw, &profile)
	if err != nil {
		return fmt.Errorf("could not parse profile %s: %w", path, err)
	}
	return nil
}

// openBus builds the transport selected by the profile, optionally
// overridden by the command's adapter flag. The returned closer releases
// platform resources and is safe to defer.
func openBus(c *cli.Context) (vitals.I2CBus, func(), error) {
	name := profile.Bus.Adapter
	if c.IsSet("adapter") {
		name = c.String("adapter")
	}
	switch name {
	case "mcp2221":
		return adapter.NewMCP2221(), func() {}, nil
	case "periph":
		bus, err := i2c.NewGenericBus(profile.Bus.Device)
		if err != nil {
			return nil, nil, err
		}
		return bus, func() { _ = bus.Close() }, nil
	case "nanopi":
		npi := nanopi.NewNeoAdaptor()
		err := npi.I2cBusAdaptor.Connect()
		if err != nil {
			return nil, nil, fmt.Errorf("adaptor connect error: %w", err)
		}
		bus := gobotadapter.NewBus(npi, profile.Bus.Number)
		return bus, func() {
			_ = bus.Release(c.Context)
			_ = npi.I2cBusAdaptor.Finalize()
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown adapter %s", name)
}

func accelRange(name string) (motion.AccelRange, error) {
	switch name {
	case "2g":
		return motion.AccelRange2G, nil
	case "4g":
		return motion.AccelRange4G, nil
	case "8g":
		return motion.AccelRange8G, nil
	case "16g":
		return motion.AccelRange16G, nil
	}
	return 0, fmt.Errorf("unknown accelerometer range %s", name)
}

func gyroRange(name string) (motion.GyroRange, error) {
	switch name {
	case "250":
		return motion.GyroRange250Dps, nil
	case "500":
		return motion.GyroRange500Dps, nil
	case "1000":
		return motion.GyroRange1000Dps, nil
	case "2000":
		return motion.GyroRange2000Dps, nil
	}
	return 0, fmt.Errorf("unknown gyroscope range %s", name)
}
