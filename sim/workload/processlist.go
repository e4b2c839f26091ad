package workload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/procsim/sim"
)

// ErrMalformedRecord is wrapped by every RecordError.
var ErrMalformedRecord = errors.New("malformed process record")

// RecordError reports one input line that could not become a process.
type RecordError struct {
	Line int
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RecordError) Unwrap() []error {
	return []error{ErrMalformedRecord, e.Err}
}

// Column names of a process list record, in file order. Priority is optional.
var processListColumns = []string{
	"id", "size", "arrival_time", "processing_time", "io_frequency", "io_duration", "priority",
}

const requiredColumns = 6

// ParseProcessList reads a process list, one record per line:
//
//	id, size, arrival_time, processing_time, io_frequency, io_duration[, priority]
//
// Blank lines and lines starting with '#' are ignored. A malformed record is
// skipped and reported as a *RecordError; parsing continues with the next line.
// The returned error joins every RecordError and is nil when all records parsed.
func ParseProcessList(r io.Reader) ([]sim.ProcessSpec, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var specs []sim.ProcessSpec
	var errs []error
	seen := make(map[int]int) // id -> line
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line := 0
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			errs = append(errs, &RecordError{Line: line, Err: err})
			if pe == nil {
				break // not a per-line syntax problem; the reader is unusable
			}
			continue
		}
		line, _ = reader.FieldPos(0)

		spec, err := parseRecord(row)
		if err == nil {
			if prev, dup := seen[spec.ID]; dup {
				err = fmt.Errorf("duplicate process id %d (first defined on line %d)", spec.ID, prev)
			}
		}
		if err != nil {
			logrus.Warnf("Skipping process record on line %d: %v", line, err)
			errs = append(errs, &RecordError{Line: line, Err: err})
			continue
		}
		seen[spec.ID] = line
		specs = append(specs, spec)
	}
	return specs, errors.Join(errs...)
}

// LoadProcessList opens path and parses it with ParseProcessList.
// A file that cannot be opened is returned as a plain error with no specs.
func LoadProcessList(path string) ([]sim.ProcessSpec, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening process list: %w", err)
	}
	defer func() { _ = file.Close() }()
	return ParseProcessList(file)
}

func parseRecord(row []string) (sim.ProcessSpec, error) {
	if len(row) < requiredColumns || len(row) > len(processListColumns) {
		return sim.ProcessSpec{}, fmt.Errorf("expected %d or %d fields, got %d", requiredColumns, len(processListColumns), len(row))
	}
	values := make([]int64, len(row))
	for i, field := range row {
		field = strings.TrimSpace(field)
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return sim.ProcessSpec{}, fmt.Errorf("field %s: %q is not an integer", processListColumns[i], field)
		}
		values[i] = v
	}
	spec := sim.ProcessSpec{
		ID:             int(values[0]),
		Size:           values[1],
		ArrivalTime:    values[2],
		ProcessingTime: values[3],
		IOFrequency:    values[4],
		IODuration:     values[5],
	}
	if len(values) > requiredColumns {
		spec.Priority = int(values[6])
	}
	if err := spec.Validate(); err != nil {
		return sim.ProcessSpec{}, err
	}
	return spec, nil
}
