package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/kbmatrix/pkg/errors"
	"github.com/matzehuels/kbmatrix/pkg/record"
)

// Line is one record of a JSON Lines file.
type Line struct {
	Number int        // 1-based line number in the source
	Raw    []byte     // compacted JSON object, without newline
	Key    record.Key // parsed "matrix" pair
}

// ReadJSONL reads all of r and parses every line.
//
// ReadJSONL returns an ErrCodeSortParse error for the first line that is not
// valid JSON, is not an object, or lacks a "matrix" array of at least two elements.
// It does not close r.
func ReadJSONL(r io.Reader) ([]Line, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read input")
	}
	if len(data) == 0 {
		return nil, nil
	}

	rows := bytes.Split(bytes.TrimSuffix(data, []byte("\n")), []byte("\n"))
	lines := make([]Line, 0, len(rows))
	for i, row := range rows {
		l, err := parseLine(row)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeSortParse, err, "line %d", i+1)
		}
		l.Number = i + 1
		lines = append(lines, l)
	}
	return lines, nil
}

func parseLine(row []byte) (Line, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, row); err != nil {
		return Line{}, err
	}

	var obj struct {
		Matrix json.RawMessage `json:"matrix"`
	}
	if err := json.Unmarshal(buf.Bytes(), &obj); err != nil {
		return Line{}, err
	}
	if obj.Matrix == nil {
		return Line{}, fmt.Errorf("missing matrix")
	}

	key, err := record.ParseMatrixKey(obj.Matrix)
	if err != nil {
		return Line{}, err
	}
	return Line{Raw: buf.Bytes(), Key: key}, nil
}

// ImportJSONL reads and parses the JSON Lines file at path.
// A missing file is reported as ErrCodeMissingInputFile.
func ImportJSONL(path string) ([]Line, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeMissingInputFile, err, "input file not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSONL(f)
}
