// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package magellan drives Magellan / SpaceMouse Classic pucks over
// their RS-232 interface.
//
// The protocol is a 9600 8N2 byte stream of CR-terminated packets. A
// 'd' packet carries all six axes as four nibble-encoded characters
// each; a 'k' packet carries the button bits. Data characters use a
// 16-entry alphabet rather than plain hex because the unit pads every
// nibble to even parity.
package magellan

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/motion_controller/device"
)

const (
	axisPacket   = 'd'
	buttonPacket = 'k'
	packetEnd    = '\r'

	// axisFullScale is the count value the unit reports at full
	// deflection. Individual units vary a little; the calibrate tool
	// tightens the range per device.
	axisFullScale = 400
)

// nibbleChars maps a 4-bit value to its wire character.
var nibbleChars = [16]byte{'0', 'A', 'B', '3', 'D', '5', '6', 'G', 'H', '9', ':', 'K', '<', 'M', 'N', '?'}

// nibbleValue is the reverse of nibbleChars, -1 for characters that
// never appear in data.
var nibbleValue [256]int8

func init() {
	for i := range nibbleValue {
		nibbleValue[i] = -1
	}
	for v, c := range nibbleChars {
		nibbleValue[c] = int8(v)
	}
}

// Device is one serial puck. Poll drains packets the unit has sent
// since the last call; the decoded state is served by Read until the
// next Poll.
type Device struct {
	name    string
	port    io.ReadWriteCloser
	packets chan []byte
	readErr chan error

	axes [6]float64
	btn  [2]bool
}

// Open connects to a puck on the given serial port, wakes it up and
// zeroes the rest position. A background goroutine reads the byte
// stream and reassembles packets so Poll never blocks on the port.
func Open(portName string) (*Device, error) {
	options := serial.OpenOptions{
		PortName:        portName,
		BaudRate:        9600,
		DataBits:        8,
		StopBits:        2,
		ParityMode:      serial.PARITY_NONE,
		MinimumReadSize: 1,
	}

	port, err := serial.Open(options)
	if err != nil {
		return nil, fmt.Errorf("magellan: open %s: %w", portName, err)
	}

	d := &Device{
		name:    "Magellan SpaceMouse (" + portName + ")",
		port:    port,
		packets: make(chan []byte, 64),
		readErr: make(chan error, 1),
	}

	// Wake the unit, request the version banner, enable combined
	// translation+rotation reports, zero the rest position.
	for _, cmd := range []string{"", "vQ", "m3", "z"} {
		if _, err := port.Write([]byte(cmd + "\r")); err != nil {
			port.Close()
			return nil, fmt.Errorf("magellan: init %s: %w", portName, err)
		}
		time.Sleep(50 * time.Millisecond)
	}

	go d.readLoop()
	return d, nil
}

func (d *Device) Name() string { return d.name }

func (d *Device) Components() []string { return device.Required() }

// Close releases the serial port. The background reader exits on the
// next read.
func (d *Device) Close() error {
	return d.port.Close()
}

// readLoop reassembles CR-terminated packets from the byte stream and
// hands them to Poll through a channel. If the channel is full the
// oldest pending packet is dropped; a stale axis packet is worthless
// once a newer one exists.
func (d *Device) readLoop() {
	buf := make([]byte, 128)
	var acc []byte
	for {
		n, err := d.port.Read(buf)
		if n > 0 {
			acc = append(acc, buf[:n]...)
			for {
				i := bytes.IndexByte(acc, packetEnd)
				if i < 0 {
					break
				}
				pkt := make([]byte, i)
				copy(pkt, acc[:i])
				acc = append(acc[:0], acc[i+1:]...)
				select {
				case d.packets <- pkt:
				default:
					select {
					case <-d.packets:
					default:
					}
					d.packets <- pkt
				}
			}
		}
		if err != nil {
			d.readErr <- err
			return
		}
	}
}

// Poll applies every packet that arrived since the last call.
func (d *Device) Poll() error {
	for {
		select {
		case err := <-d.readErr:
			return fmt.Errorf("magellan: serial read: %w", err)
		case pkt := <-d.packets:
			d.decode(pkt)
		default:
			return nil
		}
	}
}

func (d *Device) Read(component string) (float64, error) {
	switch component {
	case device.ComponentX:
		return d.axes[0], nil
	case device.ComponentY:
		return d.axes[1], nil
	case device.ComponentZ:
		return d.axes[2], nil
	case device.ComponentRX:
		return d.axes[3], nil
	case device.ComponentRY:
		return d.axes[4], nil
	case device.ComponentRZ:
		return d.axes[5], nil
	case device.ComponentButton0:
		if d.btn[0] {
			return 1, nil
		}
		return 0, nil
	case device.ComponentButton1:
		if d.btn[1] {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("magellan: unknown component %q", component)
	}
}

// decode dispatches one packet by its type character. Version banners
// and echoes of the init commands fall through silently.
func (d *Device) decode(pkt []byte) {
	if len(pkt) == 0 {
		return
	}
	switch pkt[0] {
	case axisPacket:
		d.decodeAxes(pkt[1:])
	case buttonPacket:
		d.decodeButtons(pkt[1:])
	}
}

// decodeAxes parses the six axis words of a 'd' packet. A malformed
// packet (line noise, truncation) is discarded whole so one bad byte
// cannot skew a single axis.
func (d *Device) decodeAxes(data []byte) {
	if len(data) != 24 {
		return
	}
	var axes [6]float64
	for i := 0; i < 6; i++ {
		count, ok := decodeWord(data[i*4 : i*4+4])
		if !ok {
			return
		}
		axes[i] = float64(count) / axisFullScale
	}
	d.axes = axes
}

// decodeButtons parses the first character of a 'k' packet, which
// carries the two puck buttons in its low bits.
func (d *Device) decodeButtons(data []byte) {
	if len(data) < 1 {
		return
	}
	bits := nibbleValue[data[0]]
	if bits < 0 {
		return
	}
	d.btn[0] = bits&0x1 != 0
	d.btn[1] = bits&0x2 != 0
}

// decodeWord turns four nibble characters into a signed axis count.
// The wire value is the count offset by 32768.
func decodeWord(quad []byte) (int, bool) {
	w := 0
	for _, c := range quad {
		n := nibbleValue[c]
		if n < 0 {
			return 0, false
		}
		w = w<<4 | int(n)
	}
	return w - 32768, true
}
