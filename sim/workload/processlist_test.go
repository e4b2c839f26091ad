package workload

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/procsim/sim"
)

func TestParseProcessList_Valid(t *testing.T) {
	input := `# id, size, arrival, processing, io_freq, io_dur, priority
1, 10, 0, 30, 0, 0, 2

2,5,3,20,5,3
`
	specs, err := ParseProcessList(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []sim.ProcessSpec{
		{ID: 1, Size: 10, ArrivalTime: 0, ProcessingTime: 30, Priority: 2},
		{ID: 2, Size: 5, ArrivalTime: 3, ProcessingTime: 20, IOFrequency: 5, IODuration: 3},
	}, specs)
}

func TestParseProcessList_SkipsMalformedRecords(t *testing.T) {
	// GIVEN a list with a short row, a non-integer field, an invalid value and a duplicate id
	input := strings.Join([]string{
		"1,10,0,30,0,0",
		"2,10,0",
		"3,ten,0,30,0,0",
		"4,10,0,0,0,0",
		"1,8,5,10,0,0",
		"5,8,5,10,0,0,1",
	}, "\n")

	// WHEN parsed
	specs, err := ParseProcessList(strings.NewReader(input))

	// THEN good records survive and every bad line is reported
	require.Len(t, specs, 2)
	assert.Equal(t, 1, specs[0].ID)
	assert.Equal(t, 5, specs[1].ID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedRecord))
	msg := err.Error()
	assert.Contains(t, msg, "line 2: expected 6 or 7 fields, got 3")
	assert.Contains(t, msg, `line 3: field size: "ten" is not an integer`)
	assert.Contains(t, msg, "line 4: process 4: processing time must be positive")
	assert.Contains(t, msg, "line 5: duplicate process id 1 (first defined on line 1)")

	var recErr *RecordError
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, 2, recErr.Line)
}

func TestParseProcessList_TooManyFields(t *testing.T) {
	_, err := ParseProcessList(strings.NewReader("1,1,1,1,1,1,1,1\n"))
	assert.ErrorContains(t, err, "got 8")
}

func TestParseProcessList_Empty(t *testing.T) {
	specs, err := ParseProcessList(strings.NewReader("# nothing here\n\n"))
	assert.NoError(t, err)
	assert.Empty(t, specs)
}

func TestLoadProcessList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processes.txt")
	require.NoError(t, os.WriteFile(path, []byte("1,10,0,30,0,0,0\n"), 0644))

	specs, err := LoadProcessList(path)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, int64(30), specs[0].ProcessingTime)
}

func TestLoadProcessList_MissingFile(t *testing.T) {
	_, err := LoadProcessList(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMalformedRecord))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseProcessList_RejectsNegativeID(t *testing.T) {
	// GIVEN an ID that would collide with the free-partition marker
	specs, err := ParseProcessList(strings.NewReader("-1, 30, 0, 10, 0, 0\n2, 30, 0, 10, 0, 0\n"))

	// THEN only the valid record survives and the bad line is reported
	require.Len(t, specs, 1)
	assert.Equal(t, 2, specs[0].ID)
	assert.True(t, errors.Is(err, ErrMalformedRecord))
	assert.ErrorContains(t, err, "line 1: process id must be non-negative, got -1")
}
