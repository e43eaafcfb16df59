package main

import (
	"context"
	"math"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/vitals/adapter"
	"github.com/mklimuk/vitals/cmd/vitals/console"
	"github.com/mklimuk/vitals/optical"
)

var pulseCmd = cli.Command{
	Name:  "pulse",
	Usage: "MAX30102 pulse oximeter",
	Subcommands: cli.Commands{
		&pulseInitCmd,
		&pulseReadCmd,
		&pulseTempCmd,
		&pulseStatusCmd,
		&pulseResetCmd,
		&pulseIntPinCmd,
	},
}

func pulseSensor(c *cli.Context) (*optical.MAX30102, func(), error) {
	bus, closeBus, err := openBus(c)
	if err != nil {
		return nil, nil, err
	}
	if profile.Pulse.Address != 0 {
		return optical.NewMAX30102(bus, profile.Pulse.Address), closeBus, nil
	}
	return optical.NewMAX30102Default(bus), closeBus, nil
}

var pulseInitCmd = cli.Command{
	Name:  "init",
	Usage: "verify, reset and configure the pulse oximeter",
	Flags: []cli.Flag{
		&adapterFlag,
		&cli.StringFlag{Name: "mode", Usage: "spo2 or hr"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
	},
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		sensor, closeBus, err := pulseSensor(c)
		if err != nil {
			return console.Exit(1, "bus error: %s", console.Red(err))
		}
		defer closeBus()
		mode := profile.Pulse.Mode
		if c.IsSet("mode") {
			mode = c.String("mode")
		}
		switch mode {
		case "spo2":
			err = sensor.Initialize(ctx)
		case "hr":
			err = sensor.InitializeHeartRateMode(ctx)
		default:
			return console.Exit(1, "unknown mode %s", console.Red(mode))
		}
		if err != nil {
			return console.Exit(1, "error initializing MAX30102: %s", console.Red(err))
		}
		if amp := profile.Pulse.LEDAmplitude; amp != 0 {
			if err := sensor.SetLEDPulseAmplitude(ctx, 1, amp); err != nil {
				return console.Exit(1, "LED amplitude error: %s", console.Red(err))
			}
			if err := sensor.SetLEDPulseAmplitude(ctx, 2, amp); err != nil {
				return console.Exit(1, "LED amplitude error: %s", console.Red(err))
			}
		}
		console.PInfof(console.PictoHeart, "pulse oximeter configured in %s mode", console.Green(mode))
		return nil
	},
}

// sampleSource is satisfied by both the MAX30102 driver and the behavior
// mock, so reads can run without hardware attached.
type sampleSource interface {
	ReadFIFOBatch(ctx context.Context, samples []optical.Sample) (int, error)
}

func syntheticPulse() *optical.MockPulseSource {
	n := 0
	return optical.NewMockPulseSource(func(ctx context.Context) (*optical.Sample, error) {
		n++
		base := 90000 + 5000*math.Sin(float64(n)/10)
		return &optical.Sample{Red: uint32(base), IR: uint32(base + 12000)}, nil
	})
}

var pulseReadCmd = cli.Command{
	Name:  "read",
	Usage: "drain optical samples from the FIFO",
	Flags: []cli.Flag{
		&adapterFlag,
		&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 32, Usage: "number of samples to collect"},
		&cli.DurationFlag{Name: "interval", Value: 100 * time.Millisecond, Usage: "poll interval while the FIFO is empty"},
		&cli.BoolFlag{Name: "simulate", Usage: "use a synthetic waveform instead of hardware"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
	},
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		var source sampleSource
		if c.Bool("simulate") {
			source = syntheticPulse()
		} else {
			sensor, closeBus, err := pulseSensor(c)
			if err != nil {
				return console.Exit(1, "bus error: %s", console.Red(err))
			}
			defer closeBus()
			source = sensor
		}
		remaining := c.Int("count")
		samples := make([]optical.Sample, optical.FIFODepth)
		for remaining > 0 {
			batch := samples
			if remaining < len(batch) {
				batch = samples[:remaining]
			}
			n, err := source.ReadFIFOBatch(ctx, batch)
			if err != nil {
				return console.Exit(1, "FIFO read error: %s", console.Red(err))
			}
			if n == 0 {
				time.Sleep(c.Duration("interval"))
				continue
			}
			for _, sample := range batch[:n] {
				console.Printf("red: %6d  ir: %6d\n", sample.Red, sample.IR)
			}
			remaining -= n
		}
		return nil
	},
}

var pulseTempCmd = cli.Command{
	Name:  "temp",
	Usage: "trigger and read a die temperature conversion",
	Flags: []cli.Flag{
		&adapterFlag,
		&cli.DurationFlag{Name: "timeout", Value: 2 * time.Second},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
	},
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		sensor, closeBus, err := pulseSensor(c)
		if err != nil {
			return console.Exit(1, "bus error: %s", console.Red(err))
		}
		defer closeBus()
		err = sensor.StartTemperatureMeasurement(ctx)
		if err != nil {
			return console.Exit(1, "could not trigger measurement: %s", console.Red(err))
		}
		deadline := time.Now().Add(c.Duration("timeout"))
		for {
			temp, ready, err := sensor.ReadTemperature(ctx)
			if err != nil {
				return console.Exit(1, "temperature read error: %s", console.Red(err))
			}
			if ready {
				console.PInfof(console.PictoThermometer, "die temperature: %.4f°C", temp)
				return nil
			}
			if time.Now().After(deadline) {
				return console.Exit(1, "temperature conversion timed out")
			}
			time.Sleep(50 * time.Millisecond)
		}
	},
}

type pulseStatus struct {
	Mode          string `yaml:"mode"`
	Shutdown      bool   `yaml:"shutdown"`
	ADCResolution byte   `yaml:"adc_resolution_bits"`
	Available     byte   `yaml:"samples_available"`
}

var pulseStatusCmd = cli.Command{
	Name:  "status",
	Usage: "report the device configuration",
	Flags: []cli.Flag{
		&adapterFlag,
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
	},
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		sensor, closeBus, err := pulseSensor(c)
		if err != nil {
			return console.Exit(1, "bus error: %s", console.Red(err))
		}
		defer closeBus()
		if err := sensor.ValidateConfiguration(ctx); err != nil {
			console.Warnf("configuration check: %s", err)
		}
		var status pulseStatus
		mode, err := sensor.GetOperationMode(ctx)
		if err != nil {
			return console.Exit(1, "status read error: %s", console.Red(err))
		}
		status.Mode = mode.String()
		status.Shutdown, err = sensor.IsShutdown(ctx)
		if err != nil {
			return console.Exit(1, "status read error: %s", console.Red(err))
		}
		status.ADCResolution, err = sensor.GetADCResolution(ctx)
		if err != nil {
			return console.Exit(1, "status read error: %s", console.Red(err))
		}
		status.Available, err = sensor.GetAvailableSampleCount(ctx)
		if err != nil {
			return console.Exit(1, "status read error: %s", console.Red(err))
		}
		enc := yaml.NewEncoder(os.Stdout)
		err = enc.Encode(status)
		if err != nil {
			return console.Exit(1, "encoding error: %s", console.Red(err))
		}
		return nil
	},
}

var pulseResetCmd = cli.Command{
	Name:  "reset",
	Usage: "reset the device and wait for it to come back",
	Flags: []cli.Flag{
		&adapterFlag,
		&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "do not ask for confirmation"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
	},
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		if !c.Bool("yes") && !console.Confirm("reset the pulse oximeter? all configuration will be lost") {
			console.Info("aborted")
			return nil
		}
		sensor, closeBus, err := pulseSensor(c)
		if err != nil {
			return console.Exit(1, "bus error: %s", console.Red(err))
		}
		defer closeBus()
		err = sensor.ForceReset(ctx)
		if err != nil {
			return console.Exit(1, "reset error: %s", console.Red(err))
		}
		console.PInfof(console.PictoFinish, "device reset, part responding")
		return nil
	},
}

var pulseIntPinCmd = cli.Command{
	Name:  "int-pin",
	Usage: "poll the INT line wired to an MCP2221 GP pin",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "pin", Value: 1, Usage: "GP pin the INT line is wired to"},
		&cli.BoolFlag{Name: "configure", Usage: "switch the pin to GPIO input first"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
	},
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		a := adapter.NewMCP2221()
		pin := c.Int("pin")
		if c.Bool("configure") {
			if err := a.ConfigureInterruptPin(ctx, pin); err != nil {
				return console.Exit(1, "pin configuration error: %s", console.Red(err))
			}
		}
		level, err := a.ReadInterruptPin(ctx, pin)
		if err != nil {
			return console.Exit(1, "pin read error: %s", console.Red(err))
		}
		// the INT line is open-drain active-low
		if level {
			console.Printf("INT line: %s (no interrupt pending)\n", console.Green("high"))
		} else {
			console.Printf("INT line: %s (interrupt pending)\n", console.Yellow("low"))
		}
		return nil
	},
}
