package powersignal

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// timestampLayout matches the other CSV logs written on the device.
const timestampLayout = "2006-01-02 15:04:05"

// ReadCSVFile reads a power signal from a CSV file of
// "timestamp, power" rows.
func ReadCSVFile(path string) (Signal, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	signal, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return signal, nil
}

// ReadCSV reads "timestamp, power" rows. An optional header row is skipped.
// Timestamps are accepted in the device CSV layout or RFC3339.
func ReadCSV(r io.Reader) (Signal, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	signal := Signal{}
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row++
		if len(record) < 2 {
			return nil, fmt.Errorf("row %d: expected timestamp and power, got %d fields", row, len(record))
		}
		if row == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "timestamp") {
			continue
		}

		timestamp, err := parseTimestamp(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		power, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad power value %q", row, record[1])
		}
		signal = append(signal, Sample{Timestamp: timestamp, Power: power})
	}

	if err := signal.Validate(); err != nil {
		return nil, err
	}
	return signal, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(timestampLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("bad timestamp %q", s)
}

// Append adds one sample to the end of the CSV log, creating it if needed.
func Append(path string, sample Sample) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	line := fmt.Sprintf("%s, %.2f\n", sample.Timestamp.Format(timestampLayout), sample.Power)
	if _, err := file.WriteString(line); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// TrimFile keeps the last maxLines lines of the log so it doesn't grow
// without bound.
func TrimFile(path string, maxLines int) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) <= maxLines {
		return nil
	}
	lines = lines[len(lines)-maxLines:]

	tmpFile := filepath.Join(os.TempDir(), filepath.Base(path)+".tmp")
	if err := os.WriteFile(tmpFile, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		return err
	}
	return os.Rename(tmpFile, path)
}
