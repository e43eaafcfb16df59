package vitals

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

type BusReader interface {
	Read(ctx context.Context, buffer []byte) error
}

type BusWriter interface {
	Write(ctx context.Context, buffer []byte) error
}

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

// AddressableWriterReader performs a combined write-then-read transaction,
// the primitive behind register reads (write the register address, read its
// content without releasing the bus in between).
type AddressableWriterReader interface {
	WriteReadAddr(ctx context.Context, address byte, out, in []byte) error
}

type I2CBus interface {
	AddressableReader
	AddressableWriter
	AddressableWriterReader
}

type I2CDevice interface {
	BusReader
	BusWriter
}
