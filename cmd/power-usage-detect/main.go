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
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TheCacophonyProject/event-reporter/v3/eventclient"
	"github.com/TheCacophonyProject/power-usage-detector/powersignal"
	"github.com/TheCacophonyProject/power-usage-detector/usagedetect"
	arg "github.com/alexflint/go-arg"
	"github.com/sirupsen/logrus"
)

const (
	defaultCSVFile    = "/var/log/power.csv"
	defaultConfigFile = "/etc/cacophony/power-usage.yaml"
)

var version = "No version provided"

var log = logrus.New()

type argSpec struct {
	CSVFile    string `arg:"-f,--csv" help:"CSV file with timestamped power readings"`
	ConfigFile string `arg:"-c,--config" help:"detection parameter file"`
	Report     bool   `arg:"--report" help:"report detected usage events through the event reporter"`
	LogLevel   string `arg:"-l, --log-level" default:"info" help:"Set the logging level (debug, info, warn, error)"`
}

func (argSpec) Version() string {
	return version
}

func procArgs() argSpec {
	args := argSpec{
		CSVFile:    defaultCSVFile,
		ConfigFile: defaultConfigFile,
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

	conf, err := ParseDetectorConfig(args.ConfigFile)
	if err != nil {
		return err
	}

	signal, err := powersignal.ReadCSVFile(args.CSVFile)
	if err != nil {
		return err
	}
	log.Infof("Read %d power readings from %s", len(signal), args.CSVFile)

	res, err := usagedetect.Detect(signal.Powers(), conf)
	events := []usagedetect.Event{}
	stillActiveSince := -1

	var unpaired *usagedetect.UnpairedEventError
	if errors.As(err, &unpaired) {
		// The log ends while the device is still running. Pair up what we
		// can and report the trailing start as still active.
		indices := unpaired.Indices
		for i := 0; i+1 < len(indices); i += 2 {
			events = append(events, usagedetect.Event{Start: indices[i], Stop: indices[i+1]})
		}
		stillActiveSince = indices[len(indices)-1]
	} else if err != nil {
		return err
	} else {
		events = res.Events
	}

	if len(events) == 0 && stillActiveSince == -1 {
		log.Info("No active usage events detected")
		return nil
	}

	log.Info("Active usage events:")
	for i, e := range events {
		fmt.Printf("%2d- Start: %s, Stop: %s\n", i+1,
			formatTimestamp(signal, e.Start), formatTimestamp(signal, e.Stop))
	}
	if stillActiveSince != -1 {
		log.Warnf("Device still active at the end of the signal, usage started at %s",
			formatTimestamp(signal, stillActiveSince))
	}

	if args.Report {
		if err := reportEvents(signal, events); err != nil {
			return err
		}
	}
	return nil
}

func formatTimestamp(signal powersignal.Signal, index int) string {
	return signal[index].Timestamp.Format("2006-01-02 15:04:05")
}

func reportEvents(signal powersignal.Signal, events []usagedetect.Event) error {
	for _, e := range events {
		start := signal[e.Start].Timestamp
		stop := signal[e.Stop].Timestamp
		log.Debugf("Reporting usage event %v to %v", start, stop)
		err := eventclient.AddEvent(eventclient.Event{
			Timestamp: start,
			Type:      "powerUsage",
			Details: map[string]interface{}{
				"start":           start.Format(time.RFC3339),
				"stop":            stop.Format(time.RFC3339),
				"durationSeconds": stop.Sub(start).Seconds(),
			},
		})
		if err != nil {
			return err
		}
	}
	log.Infof("Reported %d usage events", len(events))
	return nil
}
