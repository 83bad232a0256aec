// services/hal/i2c.go
package hal

import (
	"fmt"
	"sync"

	"frchal-go/services/hal/native"

	"tinygo.org/x/drivers"
)

// I2C is an open controller I2C port. It satisfies drivers.I2C, so TinyGo
// sensor drivers can run on top of it.
type I2C struct {
	port int32

	mu     sync.Mutex // one transaction at a time
	closed bool
}

var _ drivers.I2C = (*I2C)(nil)

// OpenI2C opens port 0 (onboard) or 1 (MXP).
func OpenI2C(port int32) (*I2C, error) {
	if err := CheckChannel(DomainI2C, port); err != nil {
		return nil, err
	}
	if err := CallVoid("InitializeI2C", func(l native.Lib, status *int32) {
		l.InitializeI2C(port, status)
	}); err != nil {
		return nil, err
	}
	return &I2C{port: port}, nil
}

func (b *I2C) Port() int32 { return b.port }

// Tx writes w then reads into r with a repeated start. Either may be empty.
func (b *I2C) Tx(addr uint16, w, r []byte) error {
	const op = "TransactionI2C"
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return closedErr(op)
	}
	n, err := Call(op, func(l native.Lib, _ *int32) int32 {
		return l.TransactionI2C(b.port, int32(addr), w, r)
	})
	if err != nil {
		return err
	}
	if n < 0 {
		return Other(op, fmt.Errorf("i2c port %d: no ack from %#02x", b.port, addr))
	}
	return nil
}

func (b *I2C) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	if lib := current(); lib != nil {
		lib.CloseI2C(b.port)
	}
	return nil
}
