// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.12
//

package gdrop

import "fmt"

// ConfigError reports a missing or unparsable calibration value.
// The drop it belongs to is rejected; other drops keep processing.
type ConfigError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid calibration value for %q: %q", e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// UnderdeterminedError reports a fit range that leaves no degrees of freedom
// (rows - cols - 1 <= 0). The whole drop fails, no partial result is produced.
type UnderdeterminedError struct {
	Rows int
	Cols int
}

func (e *UnderdeterminedError) Error() string {
	return fmt.Sprintf("underdetermined fit: %d rows, %d unknowns", e.Rows, e.Cols)
}

// SingularError reports a rank-deficient coefficient matrix (A^T A not invertible).
type SingularError struct {
	Rows int
	Cols int
	Err  error
}

func (e *SingularError) Error() string {
	return fmt.Sprintf("singular coefficient matrix (%d x %d)", e.Rows, e.Cols)
}

func (e *SingularError) Unwrap() error {
	return e.Err
}
