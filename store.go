// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.25
//

package gdrop

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store persists per-drop results to a SQLite database. One Store serves a
// whole batch run; it is not safe for concurrent writers, so batch drivers
// funnel results through a single goroutine.
type Store struct {
	*sql.DB
}

// NewStore opens (or creates) the results database and clears results of
// any previous run, matching the instrument software behaviour.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS results (
			set_n          BIGINT,
			drop_n         BIGINT,
			accepted       BIGINT,
			ssres          DOUBLE,
			m0             DOUBLE,
			z0             DOUBLE,
			v0             DOUBLE,
			g0             DOUBLE,
			g0_grad        DOUBLE,
			eff_height     DOUBLE,
			eff_height_top DOUBLE,
			eff_z          DOUBLE,
			g_top          DOUBLE,
			g_top_cor      DOUBLE,
			timestamp      TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`DELETE FROM results`); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db}, nil
}

// RecordDrop inserts the result of one drop.
func (s *Store) RecordDrop(set, drop int, accepted bool, sol *DropSol) error {
	acc := 0
	if accepted {
		acc = 1
	}
	_, err := s.Exec(`
		INSERT INTO results (
			set_n, drop_n, accepted, ssres, m0,
			z0, v0, g0, g0_grad,
			eff_height, eff_height_top, eff_z, g_top, g_top_cor
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		set, drop, acc, sol.Ssres, sol.FreeFit.M02,
		sol.Z0, sol.V0, sol.G0, sol.G0Gr,
		sol.H, sol.Htop, sol.EffZ, sol.GTop, sol.GTopCor,
	)
	if err != nil {
		return fmt.Errorf("failed to record drop %d/%d: %w", set, drop, err)
	}
	return nil
}

// AcceptedGTopCor returns the corrected gravity values of the accepted
// drops of one set, in drop order.
func (s *Store) AcceptedGTopCor(set int) ([]float64, error) {
	rows, err := s.Query(
		`SELECT g_top_cor FROM results WHERE set_n = ? AND accepted = 1 ORDER BY drop_n`, set)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vals []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, rows.Err()
}

// Sets returns the distinct set indices present in the results table.
func (s *Store) Sets() ([]int, error) {
	rows, err := s.Query(`SELECT DISTINCT set_n FROM results ORDER BY set_n`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		sets = append(sets, v)
	}
	return sets, rows.Err()
}
