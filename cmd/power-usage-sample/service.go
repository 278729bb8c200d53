package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/TheCacophonyProject/power-usage-detector/powersignal"
	"github.com/TheCacophonyProject/power-usage-detector/usagedetect"
	"github.com/godbus/dbus"
	"github.com/godbus/dbus/introspect"
)

const (
	dbusName = "org.cacophony.PowerUsage"
	dbusPath = "/org/cacophony/PowerUsage"
)

type service struct {
	sampler *sampler
}

func startService(s *sampler) error {
	conn, err := dbus.SystemBus()
	if err != nil {
		return err
	}
	reply, err := conn.RequestName(dbusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return err
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return errors.New("name already taken")
	}

	srv := &service{
		sampler: s,
	}
	conn.Export(srv, dbusPath, dbusName)
	conn.Export(genIntrospectable(srv), dbusPath, "org.freedesktop.DBus.Introspectable")
	return nil
}

func genIntrospectable(v interface{}) introspect.Introspectable {
	node := &introspect.Node{
		Interfaces: []introspect.Interface{{
			Name:    dbusName,
			Methods: introspect.Methods(v),
		}},
	}
	return introspect.NewIntrospectable(node)
}

// LastReading returns the most recent power reading as JSON.
func (s service) LastReading() (string, *dbus.Error) {
	sample, ok := s.sampler.lastSample()
	if !ok {
		return "", makeDbusError(".LastReadingError", errors.New("no readings yet"))
	}
	out, err := json.Marshal(map[string]interface{}{
		"timestamp": sample.Timestamp,
		"power":     sample.Power,
	})
	if err != nil {
		return "", makeDbusError(".LastReadingError", err)
	}
	return string(out), nil
}

// Detect runs usage detection over the accumulated power log and returns one
// "start, stop" timestamp line per usage event.
func (s service) Detect() ([]string, *dbus.Error) {
	signal, err := powersignal.ReadCSVFile(s.sampler.csvFile)
	if err != nil {
		return nil, makeDbusError(".DetectError", err)
	}
	res, err := usagedetect.Detect(signal.Powers(), s.sampler.detectConf)
	if err != nil {
		return nil, makeDbusError(".DetectError", err)
	}

	lines := make([]string, 0, len(res.Events))
	for _, e := range res.Events {
		lines = append(lines, fmt.Sprintf("%s, %s",
			signal[e.Start].Timestamp.Format("2006-01-02 15:04:05"),
			signal[e.Stop].Timestamp.Format("2006-01-02 15:04:05")))
	}
	return lines, nil
}

func makeDbusError(name string, err error) *dbus.Error {
	return &dbus.Error{
		Name: dbusName + name,
		Body: []interface{}{err.Error()},
	}
}
