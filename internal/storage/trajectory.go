package storage

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/dopri/internal/dynamo"
)

// WriteTrajectory writes one "t, y0, y1, ..." line per point.
func WriteTrajectory(w io.Writer, times []float64, states []dynamo.State) error {
	if len(times) != len(states) {
		return fmt.Errorf("storage: %d times for %d states", len(times), len(states))
	}

	bw := bufio.NewWriter(w)
	for i, y := range states {
		bw.WriteString(formatFloat(times[i]))
		for _, v := range y {
			bw.WriteString(", ")
			bw.WriteString(formatFloat(v))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ReadTrajectory parses the format written by WriteTrajectory.
func ReadTrajectory(r io.Reader) ([]float64, []dynamo.State, error) {
	var times []float64
	var states []dynamo.State

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Split(text, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		vals, err := parseRow(fields)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}
		times = append(times, vals[0])
		states = append(states, dynamo.State(vals[1:]))
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	return times, states, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
