package adapter

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/karalabe/hid"

	"github.com/mklimuk/vitals"
	"github.com/mklimuk/vitals/cmd/vitals/console"
)

const VendorID = 0x04D8
const ProductID = 0x00DD

// MCP2221 HID command codes used by this adapter
const (
	cmdStatusSetParams = 0x10
	cmdGetReadData     = 0x40
	cmdReadGPIO        = 0x51
	cmdWriteData       = 0x90
	cmdReadData        = 0x91
	cmdReadRepStart    = 0x93
	cmdWriteNoStop     = 0x94
	cmdSetSRAM         = 0xB1
)

var ErrCommandFailed = errors.New("command failed")

// MCP2221 drives a Microchip MCP2221/MCP2221A USB-to-I2C bridge over raw
// HID reports. Every bus transaction opens the device, exchanges 64-byte
// request/response frames and closes it again, so a single adapter value can
// be shared between drivers.
type MCP2221 struct {
	mx           sync.Mutex
	request      []byte
	response     []byte
	responseWait time.Duration
}

type MCP2221Status struct {
	I2CDataBufferCounter   int    `yaml:"i2c_data_buffer_counter"`
	I2CSpeedDivider        int    `yaml:"i2c_speed_divider"`
	I2CTimeout             int    `yaml:"i2c_timeout"`
	CurrentAddress         string `yaml:"current_address"`
	LastWriteRequestedSize uint16 `yaml:"last_write_requested_size"`
	LastWriteSentSize      uint16 `yaml:"last_write_sent_size"`
	ReadPending            int    `yaml:"read_pending"`
}

func NewMCP2221() *MCP2221 {
	return &MCP2221{
		request:      make([]byte, 64),
		response:     make([]byte, 64),
		responseWait: 50 * time.Millisecond,
	}
}

func (d *MCP2221) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdWriteData
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address << 1
	if len(buffer) > 0 {
		copy(d.request[4:], buffer)
	}
	err := d.send(ctx, true)
	if err != nil {
		return fmt.Errorf("write to %x failed: %w", address, err)
	}
	// write could not be performed
	if d.response[1] == 0x01 {
		console.Debug("adapter busy")
		return vitals.ErrBusBusy
	}
	return nil
}

func (d *MCP2221) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdReadData
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address<<1 + 1
	err := d.send(ctx, true)
	if err != nil {
		return fmt.Errorf("bus read from %x failed: %w", address, err)
	}
	err = d.fetchReadData(ctx, buffer)
	if err != nil {
		return fmt.Errorf("bus read from %x failed: %w", address, err)
	}
	return nil
}

// WriteReadAddr performs a register read as a single bus transaction: the
// out bytes are written without a stop condition, then the in buffer is
// filled through a repeated-start read. Between the two phases no other bus
// master can claim the slave.
func (d *MCP2221) WriteReadAddr(ctx context.Context, address byte, out, in []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdWriteNoStop
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(out)))
	d.request[3] = address << 1
	copy(d.request[4:], out)
	err := d.send(ctx, true)
	if err != nil {
		return fmt.Errorf("write phase to %x failed: %w", address, err)
	}
	if d.response[1] == 0x01 {
		console.Debug("adapter busy")
		return vitals.ErrBusBusy
	}
	d.resetBuffers()
	d.request[0] = cmdReadRepStart
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(in)))
	d.request[3] = address<<1 + 1
	err = d.send(ctx, true)
	if err != nil {
		return fmt.Errorf("read phase from %x failed: %w", address, err)
	}
	err = d.fetchReadData(ctx, in)
	if err != nil {
		return fmt.Errorf("read phase from %x failed: %w", address, err)
	}
	return nil
}

// fetchReadData drains the adapter's internal read buffer into buffer.
// Callers hold d.mx.
func (d *MCP2221) fetchReadData(ctx context.Context, buffer []byte) error {
	d.request[0] = cmdGetReadData
	resetBuffer(d.response)
	err := d.send(ctx, true)
	if err != nil {
		return fmt.Errorf("error getting read data from adapter: %w", err)
	}
	if d.response[1] == 0x41 {
		return fmt.Errorf("error reading the I2C slave data from the I2C engine")
	}
	if d.response[3] == 127 || int(d.response[3]) != len(buffer) {
		return fmt.Errorf("invalid data size byte; expected %d, got %d", len(buffer), d.response[3])
	}
	copy(buffer, d.response[4:])
	return nil
}

// ConfigureInterruptPin switches one of the four GP pins to GPIO input so it
// can observe a sensor's active-low INT line.
func (d *MCP2221) ConfigureInterruptPin(ctx context.Context, pin int) error {
	if pin < 0 || pin > 3 {
		return fmt.Errorf("invalid GP pin %d", pin)
	}
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdSetSRAM
	d.request[1] = 0x01
	// alter flag plus GPIO input mode for the selected pin, the other pins
	// keep their current designation
	for i := 0; i < 4; i++ {
		d.request[2+i] = 0x00
	}
	d.request[2+pin] = 0b00001000
	err := d.send(ctx, true)
	if err != nil {
		return fmt.Errorf("set GP parameters command write failed: %w", err)
	}
	if d.response[1] == 0x01 {
		return ErrCommandFailed
	}
	return nil
}

// ReadInterruptPin samples the level of a GP pin configured as input. The
// MAX30102 INT line is open-drain active-low, so false means an interrupt is
// pending.
func (d *MCP2221) ReadInterruptPin(ctx context.Context, pin int) (bool, error) {
	if pin < 0 || pin > 3 {
		return false, fmt.Errorf("invalid GP pin %d", pin)
	}
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdReadGPIO
	err := d.send(ctx, true)
	if err != nil {
		return false, fmt.Errorf("read GPIO values command write failed: %w", err)
	}
	if d.response[1] == 0x01 {
		return false, ErrCommandFailed
	}
	// pin values sit at even offsets starting at byte 2
	value := d.response[2+2*pin]
	if value == 0xEE {
		return false, fmt.Errorf("GP pin %d is not in GPIO mode", pin)
	}
	return value != 0, nil
}

func (d *MCP2221) Status(ctx context.Context) (*MCP2221Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdStatusSetParams
	err := d.send(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	return bufferToStatus(d.response), nil
}

func bufferToStatus(buffer []byte) *MCP2221Status {
	/*
		9: Lower byte (16-bit value) of the requested I2C transfer length
		10: Higher byte (16-bit value) of the requested I2C transfer length
		11:	Lower byte (16-bit value) of the already transferred (through I2C) number of bytes
		12:	Higher byte (16-bit value) of the already transferred (through I2C) number of bytes
		13:	Internal I2C data buffer counter
		14: Current I2C communication speed divider value
		15: Current I2C timeout value
		16:	Lower byte (16-bit value) of the I2C address being used
		17:	Higher byte (16-bit value) of the I2C address being used
	*/
	status := &MCP2221Status{
		I2CDataBufferCounter: int(buffer[13]),
		I2CSpeedDivider:      int(buffer[14]),
		I2CTimeout:           int(buffer[15]),
		ReadPending:          int(buffer[25]),
		CurrentAddress:       hex.EncodeToString(buffer[16:18]),
	}
	status.LastWriteRequestedSize = binary.LittleEndian.Uint16(buffer[9:11])
	status.LastWriteSentSize = binary.LittleEndian.Uint16(buffer[11:13])
	return status
}

func (d *MCP2221) Release(ctx context.Context) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	_, err := d.releaseBus(ctx)
	return err
}

func (d *MCP2221) ReleaseBus(ctx context.Context) (*MCP2221Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.releaseBus(ctx)
}

func (d *MCP2221) releaseBus(ctx context.Context) (*MCP2221Status, error) {
	d.resetBuffers()
	d.request[0] = cmdStatusSetParams
	d.request[2] = 0x10
	err := d.send(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	return bufferToStatus(d.response), nil
}

func (d *MCP2221) send(ctx context.Context, response bool, id ...int) error {
	devs := hid.Enumerate(VendorID, ProductID)
	if len(devs) > 1 && len(id) == 0 {
		return fmt.Errorf("ambiguous device identification")
	}
	if len(devs) == 0 {
		return fmt.Errorf("MCP2221 device not found")
	}
	var dev *hid.Device
	var err error
	if len(id) == 0 {
		dev, err = devs[0].Open()
		if err != nil {
			return fmt.Errorf("error opening device: %w", err)
		}
	} else {
		for d := range devs {
			if d == id[0] {
				dev, err = devs[0].Open()
				if err != nil {
					return fmt.Errorf("error opening device: %w", err)
				}
			}
		}
		if dev == nil {
			return fmt.Errorf("no device with id %d", id[0])
		}
	}
	defer func() {
		_ = dev.Close()
	}()
	verbose := console.IsVerbose(ctx)
	if verbose {
		console.Printf("sending message to adapter:\n%s\n", hex.Dump(d.request))
	}
	n, err := dev.Write(d.request)
	if err != nil {
		return fmt.Errorf("could not write request: %w", err)
	}
	if n != 64 {
		return fmt.Errorf("short write: %d", n)
	}
	if !response {
		return nil
	}
	time.Sleep(d.responseWait)
	console.Debug("reading response from adapter")
	n, err = dev.Read(d.response)
	if err != nil {
		return fmt.Errorf("could not read response: %w", err)
	}
	if n != 64 {
		return fmt.Errorf("short read: %d", n)
	}
	if verbose {
		console.Printf("read message from adapter:\n%s\n", hex.Dump(d.response))
	}
	return nil
}

func (d *MCP2221) resetBuffers() {
	resetBuffer(d.request)
	resetBuffer(d.response)
}

func resetBuffer(buf []byte) {
	for i := 0; i < len(buf)-1; i++ {
		buf[i] = 0x00
	}
}
