package sheets

import (
	"context"
	"errors"
)

type valuesCall struct {
	op    string
	rng   string
	rows  [][]string
	sheet string
}

// fakeValues returns canned ranges and records writes.
type fakeValues struct {
	ranges map[string][][]string
	calls  []valuesCall
	getErr error
	putErr error
}

func newFakeValues() *fakeValues {
	return &fakeValues{ranges: make(map[string][][]string)}
}

func (f *fakeValues) Get(_ context.Context, spreadsheetID, a1Range string) ([][]string, error) {
	f.calls = append(f.calls, valuesCall{op: "get", rng: a1Range, sheet: spreadsheetID})
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.ranges[a1Range], nil
}

func (f *fakeValues) Append(_ context.Context, spreadsheetID, a1Range string, rows [][]string) error {
	f.calls = append(f.calls, valuesCall{op: "append", rng: a1Range, rows: rows, sheet: spreadsheetID})
	return f.putErr
}

func (f *fakeValues) Update(_ context.Context, spreadsheetID, a1Range string, rows [][]string) error {
	f.calls = append(f.calls, valuesCall{op: "update", rng: a1Range, rows: rows, sheet: spreadsheetID})
	return f.putErr
}

func (f *fakeValues) writes() []valuesCall {
	var out []valuesCall
	for _, c := range f.calls {
		if c.op != "get" {
			out = append(out, c)
		}
	}
	return out
}

var errSheetsDown = errors.New("sheets down")
