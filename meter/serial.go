package meter

import (
	"errors"
	"fmt"
	"time"

	"github.com/sigurn/crc8"
	"github.com/tarm/serial"
)

// Serial power meters push a fixed 6 byte frame per reading: a header byte,
// the measured power in milliwatts as a big-endian uint32, and a CRC-8 over
// the first five bytes.
const (
	frameHeader = 0xAA
	frameLen    = 6
)

var errBadFrameCRC = errors.New("bad frame crc")

var crcTable = crc8.MakeTable(crc8.Params{
	Poly:   0x31, // Polynomial 1 + x^4 + x^5 + x^8
	Init:   0xFF,
	RefIn:  false,
	RefOut: false,
	XorOut: 0x00,
})

// SerialMeter reads power frames from an external meter on a serial port.
type SerialMeter struct {
	port *serial.Port
}

// OpenSerialMeter opens the serial port the meter is attached to.
func OpenSerialMeter(device string, baud int) (*SerialMeter, error) {
	c := &serial.Config{Name: device, Baud: baud, ReadTimeout: time.Second * 5}
	port, err := serial.OpenPort(c)
	if err != nil {
		return nil, err
	}
	return &SerialMeter{port: port}, nil
}

// ReadPower reads the next frame from the meter and returns the power in
// watts. Bytes before the frame header are discarded to resync after a
// partial read.
func (m *SerialMeter) ReadPower() (float64, error) {
	frame := make([]byte, 0, frameLen)
	buf := make([]byte, 1)
	for len(frame) < frameLen {
		n, err := m.port.Read(buf)
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, errors.New("timeout waiting for meter frame")
		}
		if len(frame) == 0 && buf[0] != frameHeader {
			continue
		}
		frame = append(frame, buf[0])
	}
	return parseFrame(frame)
}

func (m *SerialMeter) Close() error {
	return m.port.Close()
}

func parseFrame(frame []byte) (float64, error) {
	if len(frame) != frameLen {
		return 0, fmt.Errorf("frame length: %d", len(frame))
	}
	if frame[0] != frameHeader {
		return 0, fmt.Errorf("bad frame header: 0x%X", frame[0])
	}
	if crc8.Checksum(frame[:frameLen-1], crcTable) != frame[frameLen-1] {
		return 0, errBadFrameCRC
	}
	milliwatts := uint32(frame[1])<<24 | uint32(frame[2])<<16 | uint32(frame[3])<<8 | uint32(frame[4])
	return float64(milliwatts) / 1000, nil
}
