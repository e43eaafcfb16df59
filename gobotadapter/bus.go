package gobotadapter

import (
	"context"
	"fmt"
	"sync"

	"gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/mklimuk/vitals"
)

var _ vitals.I2CBus = &Bus{}

// Bus adapts a gobot i2c.Connector (any supported platform adaptor, like
// nanopi.NewNeoAdaptor or raspi.NewAdaptor) to the transport contract of the
// sensor drivers. A generic gobot driver is opened lazily per slave address
// and kept for the lifetime of the bus.
type Bus struct {
	mx        sync.Mutex
	connector i2c.Connector
	busNr     int
	devices   map[byte]*i2c.GenericDriver
}

func NewBus(connector i2c.Connector, busNr int) *Bus {
	return &Bus{
		connector: connector,
		busNr:     busNr,
		devices:   make(map[byte]*i2c.GenericDriver),
	}
}

func (b *Bus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	dev, err := b.device(address)
	if err != nil {
		return err
	}
	err = dev.Write(buffer)
	if err != nil {
		return fmt.Errorf("could not write to %x: %w", address, err)
	}
	return nil
}

func (b *Bus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	dev, err := b.device(address)
	if err != nil {
		return err
	}
	err = dev.Read(buffer)
	if err != nil {
		return fmt.Errorf("could not read from %x: %w", address, err)
	}
	return nil
}

// WriteReadAddr issues a register read. A single-byte out buffer maps onto
// gobot's block read, which uses a repeated start on platforms that support
// it; longer preambles fall back to separate write and read transactions.
func (b *Bus) WriteReadAddr(ctx context.Context, address byte, out, in []byte) error {
	dev, err := b.device(address)
	if err != nil {
		return err
	}
	if len(out) == 1 {
		err = dev.ReadBlockData(out[0], in)
		if err != nil {
			return fmt.Errorf("could not read register %#x of %x: %w", out[0], address, err)
		}
		return nil
	}
	err = dev.Write(out)
	if err != nil {
		return fmt.Errorf("could not write to %x: %w", address, err)
	}
	err = dev.Read(in)
	if err != nil {
		return fmt.Errorf("could not read from %x: %w", address, err)
	}
	return nil
}

func (b *Bus) Release(ctx context.Context) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	var firstErr error
	for address, dev := range b.devices {
		if err := dev.Halt(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("could not halt device %x: %w", address, err)
		}
		delete(b.devices, address)
	}
	return firstErr
}

func (b *Bus) device(address byte) (*i2c.GenericDriver, error) {
	b.mx.Lock()
	defer b.mx.Unlock()
	if dev, ok := b.devices[address]; ok {
		return dev, nil
	}
	dev := i2c.NewGenericDriver(b.connector, fmt.Sprintf("i2c-%#x", address), int(address), func(c i2c.Config) {
		c.SetBus(b.busNr)
	})
	err := dev.Start()
	if err != nil {
		return nil, fmt.Errorf("could not start device %x: %w", address, err)
	}
	b.devices[address] = dev
	return dev, nil
}
