package main

import (
	"context"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/vitals/cmd/vitals/console"
	"github.com/mklimuk/vitals/motion"
)

var imuCmd = cli.Command{
	Name:  "imu",
	Usage: "MPU-9250 inertial measurement unit",
	Subcommands: cli.Commands{
		&imuInitCmd,
		&imuReadCmd,
		&imuTempCmd,
		&imuSleepCmd,
		&imuWakeCmd,
		&imuRateCmd,
	},
}

var adapterFlag = cli.StringFlag{
	Name:    "adapter",
	Aliases: []string{"a"},
	Usage:   "bus adapter (mcp2221, periph, nanopi)",
}

func imuOptions() []motion.MPU9250ConfigOption {
	if profile.IMU.Address != 0 {
		return []motion.MPU9250ConfigOption{motion.WithAddress(profile.IMU.Address)}
	}
	return nil
}

func imuRanges(c *cli.Context) (motion.AccelRange, motion.GyroRange, string, string, error) {
	accelName := profile.IMU.AccelRange
	if c.IsSet("accel-range") {
		accelName = c.String("accel-range")
	}
	gyroName := profile.IMU.GyroRange
	if c.IsSet("gyro-range") {
		gyroName = c.String("gyro-range")
	}
	accel, err := accelRange(accelName)
	if err != nil {
		return 0, 0, "", "", err
	}
	gyro, err := gyroRange(gyroName)
	if err != nil {
		return 0, 0, "", "", err
	}
	return accel, gyro, accelName, gyroName, nil
}

var imuInitCmd = cli.Command{
	Name:  "init",
	Usage: "verify, wake and configure the IMU",
	Flags: []cli.Flag{
		&adapterFlag,
		&cli.StringFlag{Name: "accel-range", Usage: "2g, 4g, 8g or 16g"},
		&cli.StringFlag{Name: "gyro-range", Usage: "250, 500, 1000 or 2000 (deg/s)"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
	},
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		bus, closeBus, err := openBus(c)
		if err != nil {
			return console.Exit(1, "bus error: %s", console.Red(err))
		}
		defer closeBus()
		accel, gyro, accelName, gyroName, err := imuRanges(c)
		if err != nil {
			return console.Exit(1, "range error: %s", console.Red(err))
		}
		_, err = motion.Initialize(ctx, bus, accel, gyro, imuOptions()...)
		if err != nil {
			return console.Exit(1, "error initializing MPU9250: %s", console.Red(err))
		}
		console.PInfof(console.PictoCompass, "IMU configured (%s, %s deg/s)", console.Green(accelName), console.Green(gyroName))
		return nil
	},
}

var imuReadCmd = cli.Command{
	Name:  "read",
	Usage: "read acceleration and angular velocity",
	Flags: []cli.Flag{
		&adapterFlag,
		&cli.StringFlag{Name: "accel-range", Usage: "2g, 4g, 8g or 16g"},
		&cli.StringFlag{Name: "gyro-range", Usage: "250, 500, 1000 or 2000 (deg/s)"},
		&cli.BoolFlag{Name: "raw", Usage: "print raw register counts"},
		&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 1, Usage: "number of readings"},
		&cli.DurationFlag{Name: "interval", Value: 500 * time.Millisecond},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
	},
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		bus, closeBus, err := openBus(c)
		if err != nil {
			return console.Exit(1, "bus error: %s", console.Red(err))
		}
		defer closeBus()
		accel, gyro, _, _, err := imuRanges(c)
		if err != nil {
			return console.Exit(1, "range error: %s", console.Red(err))
		}
		imu, err := motion.Initialize(ctx, bus, accel, gyro, imuOptions()...)
		if err != nil {
			return console.Exit(1, "error initializing MPU9250: %s", console.Red(err))
		}
		for i := 0; i < c.Int("count"); i++ {
			if i > 0 {
				time.Sleep(c.Duration("interval"))
			}
			if c.Bool("raw") {
				a, err := imu.ReadAccelRaw(ctx)
				if err != nil {
					return console.Exit(1, "accelerometer read error: %s", console.Red(err))
				}
				g, err := imu.ReadGyroRaw(ctx)
				if err != nil {
					return console.Exit(1, "gyroscope read error: %s", console.Red(err))
				}
				console.Printf("accel: %6d %6d %6d  gyro: %6d %6d %6d\n", a[0], a[1], a[2], g[0], g[1], g[2])
				continue
			}
			a, err := imu.ReadAcceleration(ctx)
			if err != nil {
				return console.Exit(1, "accelerometer read error: %s", console.Red(err))
			}
			g, err := imu.ReadAngularVelocity(ctx)
			if err != nil {
				return console.Exit(1, "gyroscope read error: %s", console.Red(err))
			}
			console.Printf("accel [g]: %8.4f %8.4f %8.4f  gyro [deg/s]: %9.3f %9.3f %9.3f\n", a[0], a[1], a[2], g[0], g[1], g[2])
		}
		return nil
	},
}

var imuTempCmd = cli.Command{
	Name:  "temp",
	Usage: "read the die temperature",
	Flags: []cli.Flag{
		&adapterFlag,
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
	},
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		bus, closeBus, err := openBus(c)
		if err != nil {
			return console.Exit(1, "bus error: %s", console.Red(err))
		}
		defer closeBus()
		imu := motion.NewMPU9250(bus, imuOptions()...)
		temp, err := imu.ReadTemperatureCelsius(ctx)
		if err != nil {
			return console.Exit(1, "temperature read error: %s", console.Red(err))
		}
		console.PInfof(console.PictoThermometer, "die temperature: %s°C", console.White(strconv.FormatFloat(float64(temp), 'f', 2, 32)))
		return nil
	},
}

var imuSleepCmd = cli.Command{
	Name:  "sleep",
	Usage: "put the IMU into low-power sleep",
	Flags: []cli.Flag{
		&adapterFlag,
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
	},
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		bus, closeBus, err := openBus(c)
		if err != nil {
			return console.Exit(1, "bus error: %s", console.Red(err))
		}
		defer closeBus()
		imu := motion.NewMPU9250(bus, imuOptions()...)
		err = imu.EnterSleepMode(ctx)
		if err != nil {
			return console.Exit(1, "sleep error: %s", console.Red(err))
		}
		console.Info("IMU sleeping")
		return nil
	},
}

var imuWakeCmd = cli.Command{
	Name:  "wake",
	Usage: "wake the IMU from sleep",
	Flags: []cli.Flag{
		&adapterFlag,
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
	},
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		bus, closeBus, err := openBus(c)
		if err != nil {
			return console.Exit(1, "bus error: %s", console.Red(err))
		}
		defer closeBus()
		imu := motion.NewMPU9250(bus, imuOptions()...)
		err = imu.WakeUp(ctx)
		if err != nil {
			return console.Exit(1, "wake error: %s", console.Red(err))
		}
		console.Info("IMU awake")
		return nil
	},
}

var imuRateCmd = cli.Command{
	Name:      "rate",
	Usage:     "set the sample rate divider",
	ArgsUsage: "<divider 0-255>",
	Flags: []cli.Flag{
		&adapterFlag,
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
	},
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		divider, err := strconv.ParseUint(c.Args().First(), 10, 8)
		if err != nil {
			return console.Exit(1, "invalid divider %s", console.Red(c.Args().First()))
		}
		bus, closeBus, err := openBus(c)
		if err != nil {
			return console.Exit(1, "bus error: %s", console.Red(err))
		}
		defer closeBus()
		imu := motion.NewMPU9250(bus, imuOptions()...)
		err = imu.SetSampleRate(ctx, byte(divider))
		if err != nil {
			return console.Exit(1, "sample rate error: %s", console.Red(err))
		}
		console.Infof("sample rate divider set to %d", divider)
		return nil
	},
}
