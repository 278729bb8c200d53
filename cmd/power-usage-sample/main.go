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

package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/TheCacophonyProject/power-usage-detector/meter"
	"github.com/TheCacophonyProject/power-usage-detector/powersignal"
	"github.com/TheCacophonyProject/power-usage-detector/usagedetect"
	arg "github.com/alexflint/go-arg"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

const (
	maxPowerReadings = 200000
	trimInterval     = 24 * time.Hour
)

var version = "No version provided"

var log = logrus.New()

type argSpec struct {
	Source     string  `arg:"--source" help:"power meter to read from (ina219 or serial)"`
	SerialPort string  `arg:"--serial-port" help:"serial device of the meter"`
	Baud       int     `arg:"--baud" help:"baud rate of the serial meter"`
	CSVFile    string  `arg:"-f,--csv" help:"CSV file to append power readings to"`
	SampleRate float64 `arg:"--sample-rate" help:"samples per second"`
	LogLevel   string  `arg:"-l, --log-level" default:"info" help:"Set the logging level (debug, info, warn, error)"`
}

func (argSpec) Version() string {
	return version
}

func procArgs() argSpec {
	args := argSpec{
		Source:     "ina219",
		SerialPort: "/dev/ttyUSB0",
		Baud:       115200,
		CSVFile:    "/var/log/power.csv",
		SampleRate: 10,
	}
	arg.MustParse(&args)
	return args
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
		log.Warn("Unknown log level, defaulting to info")
	}
}

type customFormatter struct{}

func (f *customFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return []byte(fmt.Sprintf("[%s] %s\n", strings.ToUpper(entry.Level.String()), entry.Message)), nil
}

// powerSource is any meter that can be polled for a power reading in watts.
type powerSource interface {
	ReadPower() (float64, error)
}

// sampler polls the meter, keeps the rolling CSV log up to date and holds
// the last reading for the D-Bus service.
type sampler struct {
	mu         sync.Mutex
	last       powersignal.Sample
	haveSample bool

	csvFile    string
	detectConf usagedetect.Config
}

func (s *sampler) record(sample powersignal.Sample) error {
	s.mu.Lock()
	s.last = sample
	s.haveSample = true
	s.mu.Unlock()
	return powersignal.Append(s.csvFile, sample)
}

func (s *sampler) lastSample() (powersignal.Sample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.haveSample
}

func main() {
	err := runMain()
	if err != nil {
		log.Fatal(err.Error())
	}
}

func runMain() error {
	log.SetFormatter(new(customFormatter))
	args := procArgs()
	setLogLevel(args.LogLevel)

	log.Info("Running version: ", version)

	source, err := openSource(args)
	if err != nil {
		return err
	}

	detectConf := usagedetect.DefaultConfig()
	detectConf.SampleRate = args.SampleRate
	if err := detectConf.Validate(); err != nil {
		return err
	}

	s := &sampler{
		csvFile:    args.CSVFile,
		detectConf: detectConf,
	}
	if err := startService(s); err != nil {
		return err
	}

	if err := powersignal.TrimFile(args.CSVFile, maxPowerReadings); err != nil {
		return err
	}
	lastTrimTime := time.Now()

	sampleInterval := time.Duration(float64(time.Second) / args.SampleRate)
	log.Infof("Sampling %s every %s", args.Source, sampleInterval)

	for {
		if time.Since(lastTrimTime) > trimInterval {
			if err := powersignal.TrimFile(args.CSVFile, maxPowerReadings); err != nil {
				return err
			}
			lastTrimTime = time.Now()
		}

		power, err := source.ReadPower()
		if err != nil {
			log.Errorf("Failed to read power: %v", err)
			time.Sleep(sampleInterval)
			continue
		}
		log.Debugf("Power: %.2fW", power)

		err = s.record(powersignal.Sample{Timestamp: time.Now(), Power: power})
		if err != nil {
			return err
		}

		time.Sleep(sampleInterval)
	}
}

func openSource(args argSpec) (powerSource, error) {
	switch args.Source {
	case "ina219":
		if _, err := host.Init(); err != nil {
			return nil, err
		}
		bus, err := i2creg.Open("")
		if err != nil {
			return nil, err
		}
		return meter.NewINA219(bus)
	case "serial":
		return meter.OpenSerialMeter(args.SerialPort, args.Baud)
	default:
		return nil, fmt.Errorf("unknown power source %q", args.Source)
	}
}
