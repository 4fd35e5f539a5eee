// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.25
//

package gdrop

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// EstimWriter emits the per-drop estimation records as a ';'-separated CSV
// with the fixed column order {set, drop, m0, z0, z0-std, ..., f, f-std}.
// It owns the underlying file for the duration of a batch run; callers must
// Close it on every exit path.
type EstimWriter struct {
	f io.WriteCloser
	w *csv.Writer
}

// Rounding and unit conventions of the emitted record. The scale/precision
// pairs reproduce the instrument software output exactly:
//   - z0 [mm]: value *1e-6 at 4 decimals, std *1e-6 at 14 decimals
//   - v0 [mm/s]: value *1e-6 at 4 decimals, std *1e-6 at 15 decimals
//   - g0 [nm/s^2]: std at 3 decimals, value unscaled
//
// Remaining fields are written in shortest form.

// OpenEstim creates <dir>/<name>_estim.csv, truncating any previous run,
// and writes the header and unit lines.
func OpenEstim(dir, name string) (*EstimWriter, error) {
	f, err := os.Create(filepath.Join(dir, name+"_estim.csv"))
	if err != nil {
		return nil, fmt.Errorf("failed to create estim file: %w", err)
	}
	return NewEstimWriter(f)
}

// NewEstimWriter writes the header and unit lines and returns the writer.
func NewEstimWriter(f io.WriteCloser) (*EstimWriter, error) {
	w := csv.NewWriter(f)
	w.Comma = ';'
	header := []string{
		"Set", "Drop", "m0",
		"z0", "z0-std", "v0", "v0-std", "g0", "g0-std",
		"a", "a-std", "b", "b-std", "c", "c-std",
		"d", "d-std", "e", "e-std", "f", "f-std",
	}
	units := []string{
		"", "", "",
		"mm", "mm", "mm.s-1", "mm.s-1", "nm.s-2", "nm.s-2",
		"nm", "nm", "nm", "nm", "nm", "nm",
		"nm", "nm", "nm", "nm", "nm", "nm",
	}
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	if err := w.Write(units); err != nil {
		f.Close()
		return nil, err
	}
	return &EstimWriter{f: f, w: w}, nil
}

// WriteDrop emits one drop record from the free model solution.
func (e *EstimWriter) WriteDrop(set, drop int, sol *DropSol) error {
	return e.WriteResult(set, drop, sol.FreeFit.M02, sol.FreeFit.X.RawVector().Data, sol.FreeFit.StdX)
}

// WriteResult emits one record from a raw solution and deviation vector.
func (e *EstimWriter) WriteResult(set, drop int, m0 float64, x, std []float64) error {
	if len(x) != NFREE || len(std) != NFREE {
		return fmt.Errorf("invalid solution length: %d, %d", len(x), len(std))
	}
	rec := make([]string, 0, 3+2*NFREE)
	rec = append(rec, strconv.Itoa(set), strconv.Itoa(drop), short(m0))
	rec = append(rec,
		fixed(x[0]*1e-6, 4), fixed(std[0]*1e-6, 14),
		fixed(x[1]*1e-6, 4), fixed(std[1]*1e-6, 15),
		short(x[2]), fixed(std[2], 3),
	)
	for j := 3; j < NFREE; j++ {
		rec = append(rec, short(x[j]), short(std[j]))
	}
	if err := e.w.Write(rec); err != nil {
		return fmt.Errorf("failed to write estim record: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (e *EstimWriter) Close() error {
	e.w.Flush()
	if err := e.w.Error(); err != nil {
		e.f.Close()
		return err
	}
	return e.f.Close()
}

func fixed(v float64, dec int) string {
	return strconv.FormatFloat(v, 'f', dec, 64)
}

func short(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
