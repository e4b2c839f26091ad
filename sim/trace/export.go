package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CSV column headers for the exported logs.
var (
	transitionColumns = []string{"time", "pid", "old_state", "new_state"}
	memoryColumns     = []string{"time", "pid", "event", "partition", "used_kb", "free_kb", "total_kb", "occupancy"}
)

// WriteTransitionsCSV writes transition records as CSV with a header row.
func WriteTransitionsCSV(w io.Writer, records []TransitionRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(transitionColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i, r := range records {
		row := []string{
			strconv.FormatInt(r.Clock, 10),
			strconv.Itoa(r.PID),
			r.From,
			r.To,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteMemoryCSV writes memory records as CSV with a header row.
// Occupancy is rendered as semicolon-separated PIDs with "-" for free partitions.
func WriteMemoryCSV(w io.Writer, records []MemoryRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(memoryColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i, r := range records {
		row := []string{
			strconv.FormatInt(r.Clock, 10),
			strconv.Itoa(r.PID),
			string(r.Event),
			strconv.Itoa(r.Partition),
			strconv.FormatInt(r.UsedKB, 10),
			strconv.FormatInt(r.FreeKB, 10),
			strconv.FormatInt(r.TotalKB, 10),
			FormatOccupancy(r.Occupancy),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// FormatOccupancy renders an occupancy vector such as [3 -1 1] as "3;-;1".
func FormatOccupancy(occupancy []int) string {
	parts := make([]string, len(occupancy))
	for i, pid := range occupancy {
		if pid < 0 {
			parts[i] = "-"
			continue
		}
		parts[i] = strconv.Itoa(pid)
	}
	return strings.Join(parts, ";")
}

// ExportCSV writes the transition log and the memory log to two CSV files.
func ExportCSV(st *SimulationTrace, transitionsPath, memoryPath string) error {
	if err := writeFile(transitionsPath, func(w io.Writer) error {
		return WriteTransitionsCSV(w, st.Transitions)
	}); err != nil {
		return fmt.Errorf("exporting transitions: %w", err)
	}
	if err := writeFile(memoryPath, func(w io.Writer) error {
		return WriteMemoryCSV(w, st.Memory)
	}); err != nil {
		return fmt.Errorf("exporting memory log: %w", err)
	}
	return nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
