/*
power-usage-detector - Detects active usage of an electrical device
Copyright (C) 2024, The Cacophony Project

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package meter reads power consumption from the supported meters. Readings
// are plain watts; logging them and running detection over them is the
// caller's job.
package meter

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

const (
	ina219Address = 0x40

	regConfig      = 0x00
	regBusVoltage  = 0x02
	regPower       = 0x03
	regCalibration = 0x05

	// 32V range, 320mV shunt range, 12 bit continuous conversion.
	ina219Config = 0x3C1F

	// Calibration for a 0.1 ohm shunt: current LSB 100uA, so the power
	// register reads in units of 2mW.
	ina219Calibration = 4096
	powerLSBWatts     = 0.002
)

// INA219 reads bus power from a TI INA219 monitor on the I2C bus.
type INA219 struct {
	dev *i2c.Dev
}

// NewINA219 connects to the INA219 and writes its configuration and shunt
// calibration.
func NewINA219(bus i2c.Bus) (*INA219, error) {
	ina := &INA219{dev: &i2c.Dev{Bus: bus, Addr: ina219Address}}
	if err := ina.writeRegister(regConfig, ina219Config); err != nil {
		return nil, fmt.Errorf("failed to configure INA219: %w", err)
	}
	if err := ina.writeRegister(regCalibration, ina219Calibration); err != nil {
		return nil, fmt.Errorf("failed to calibrate INA219: %w", err)
	}
	return ina, nil
}

// ReadPower returns the measured bus power in watts.
func (ina *INA219) ReadPower() (float64, error) {
	// The conversion ready flag lives in the bus voltage register.
	bus, err := ina.readRegister(regBusVoltage)
	if err != nil {
		return 0, err
	}
	if bus&0x0001 != 0 {
		return 0, fmt.Errorf("INA219 math overflow, check shunt calibration")
	}

	raw, err := ina.readRegister(regPower)
	if err != nil {
		return 0, err
	}
	return float64(raw) * powerLSBWatts, nil
}

// readRegister reads a 16 bit big-endian register from the INA219.
func (ina *INA219) readRegister(register byte) (uint16, error) {
	data := make([]byte, 2)
	if err := ina.dev.Tx([]byte{register}, data); err != nil {
		return 0, err
	}
	return uint16(data[0])<<8 | uint16(data[1]), nil
}

// writeRegister writes a 16 bit big-endian register on the INA219.
func (ina *INA219) writeRegister(register byte, value uint16) error {
	_, err := ina.dev.Write([]byte{register, byte(value >> 8), byte(value & 0xFF)})
	return err
}
