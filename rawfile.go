// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.24
//

package gdrop

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RawFile is a vendor raw data file: two header lines followed by one line
// per drop.
type RawFile struct {
	Header1 []string // Tokens of the first header line
	Header2 []string // Tokens of the second header line
	Lines   []string // Data lines
}

// ReadRawFile reads a vendor raw file.
func ReadRawFile(r io.Reader) (*RawFile, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw file: %w", err)
	}
	if len(lines) < 2 {
		return nil, fmt.Errorf("raw file too short: %d lines", len(lines))
	}
	return &RawFile{
		Header1: strings.Fields(lines[0]),
		Header2: strings.Fields(lines[1]),
		Lines:   lines[2:],
	}, nil
}

// DropFile is a vendor drop data file: four header lines followed by one
// line per drop carrying the fringe readings.
type DropFile struct {
	Header4 []string // Tokens of the fourth header line
	Lines   []string // Data lines
}

// ReadDropFile reads a vendor drop file.
func ReadDropFile(r io.Reader) (*DropFile, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read drop file: %w", err)
	}
	if len(lines) < 4 {
		return nil, fmt.Errorf("drop file too short: %d lines", len(lines))
	}
	return &DropFile{
		Header4: strings.Fields(lines[3]),
		Lines:   lines[4:],
	}, nil
}

// DropRecord is one data line of a drop file: the set and drop indices
// followed by the raw fringe readings, still as text.
type DropRecord struct {
	Set     int
	Drop    int
	Fringes []string
}

// Records splits every data line into set index, drop index and fringe
// tokens. Lines with fewer than three fields are rejected.
func (d *DropFile) Records() ([]DropRecord, error) {
	recs := make([]DropRecord, 0, len(d.Lines))
	for i, l := range d.Lines {
		f := strings.Fields(l)
		if len(f) == 0 {
			continue
		}
		if len(f) < 3 {
			return nil, fmt.Errorf("drop line %d has %d fields, need at least 3", i+5, len(f))
		}
		set, err := strconv.Atoi(f[0])
		if err != nil {
			return nil, &ConfigError{Field: fmt.Sprintf("set index (line %d)", i+5), Value: f[0], Err: err}
		}
		drop, err := strconv.Atoi(f[1])
		if err != nil {
			return nil, &ConfigError{Field: fmt.Sprintf("drop index (line %d)", i+5), Value: f[1], Err: err}
		}
		recs = append(recs, DropRecord{Set: set, Drop: drop, Fringes: f[2:]})
	}
	return recs, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
