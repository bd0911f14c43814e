package event

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Header is the required first row of every event log.
var Header = []string{"timestamp", "type", "x", "y", "button_or_key", "pressed"}

// Record renders an event as one CSV record in Header column order.
// Timestamps carry a fixed three decimals; the pressed column holds the
// literal True/False for click and keyboard rows and stays empty for move
// and scroll rows.
func Record(ev Event) []string {
	pressed := ""
	switch ev.Kind {
	case MouseClick, Keyboard:
		if ev.Pressed {
			pressed = "True"
		} else {
			pressed = "False"
		}
	}
	return []string{
		strconv.FormatFloat(ev.Timestamp, 'f', 3, 64),
		ev.Kind.String(),
		strconv.Itoa(ev.X),
		strconv.Itoa(ev.Y),
		ev.Token,
		pressed,
	}
}

// ReadLog reads a complete event log, header row included, in file order.
// Any malformed row aborts the whole read with an error wrapping
// ErrCorruptRecord.
func ReadLog(r io.Reader) ([]Event, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: missing header", ErrCorruptRecord)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	for i, col := range Header {
		if header[i] != col {
			return nil, fmt.Errorf("%w: unexpected header %q", ErrCorruptRecord, header)
		}
	}

	var events []Event
	row := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrCorruptRecord, row, err)
		}
		ev, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrCorruptRecord, row, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// ReadLogFile reads the event log at path.
func ReadLogFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLog(f)
}

func parseRecord(rec []string) (Event, error) {
	var ev Event

	ts, err := strconv.ParseFloat(rec[0], 64)
	if err != nil {
		return ev, fmt.Errorf("bad timestamp %q", rec[0])
	}
	if ts < 0 {
		return ev, fmt.Errorf("negative timestamp %q", rec[0])
	}

	kind, err := ParseKind(rec[1])
	if err != nil {
		return ev, err
	}

	x, err := strconv.Atoi(rec[2])
	if err != nil {
		return ev, fmt.Errorf("bad x %q", rec[2])
	}
	y, err := strconv.Atoi(rec[3])
	if err != nil {
		return ev, fmt.Errorf("bad y %q", rec[3])
	}

	ev = Event{Timestamp: ts, Kind: kind, X: x, Y: y, Token: rec[4]}

	// Pressed is load-bearing for click and keyboard rows only; move and
	// scroll rows leave the column empty and the reader ignores whatever
	// is there.
	switch kind {
	case MouseClick, Keyboard:
		if ev.Token == "" {
			return ev, fmt.Errorf("missing token on %s row", kind)
		}
		switch rec[5] {
		case "True":
			ev.Pressed = true
		case "False":
			ev.Pressed = false
		default:
			return ev, fmt.Errorf("bad pressed value %q", rec[5])
		}
	}
	return ev, nil
}
