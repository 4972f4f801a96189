package repository

import (
	"context"
	"database/sql"
)

// ToggleOutcome tells the handler which of the three toggle branches ran,
// so it can pick the right status code and message.
type ToggleOutcome int

const (
	ToggleCreated ToggleOutcome = iota // no prior row: inserted
	ToggleUpdated                      // prior row with different value: updated
	ToggleRemoved                      // prior row with equal value: deleted
)

// toggleKeyedValue applies the toggle rule to a (user_id, movie_id) keyed
// table: absent inserts, an equal value deletes, a different value
// updates. It runs in a transaction so the read and the write see the
// same row; the unique (user_id, movie_id) index backs the single-row
// assumption.
func toggleKeyedValue[T comparable](ctx context.Context, db *sql.DB, table, column string, userID, movieID uint64, value T) (ToggleOutcome, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var current T
	err = tx.QueryRowContext(ctx,
		"SELECT "+column+" FROM "+table+" WHERE user_id=? AND movie_id=? LIMIT 1",
		userID, movieID).Scan(&current)

	var outcome ToggleOutcome
	switch {
	case err == sql.ErrNoRows:
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO "+table+" (user_id, movie_id, "+column+") VALUES (?,?,?)",
			userID, movieID, value); err != nil {
			if isConstraintErr(err) {
				return 0, ErrInvalidInput
			}
			return 0, err
		}
		outcome = ToggleCreated
	case err != nil:
		return 0, err
	case current == value:
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE user_id=? AND movie_id=?",
			userID, movieID); err != nil {
			return 0, err
		}
		outcome = ToggleRemoved
	default:
		if _, err := tx.ExecContext(ctx,
			"UPDATE "+table+" SET "+column+"=? WHERE user_id=? AND movie_id=?",
			value, userID, movieID); err != nil {
			if isConstraintErr(err) {
				return 0, ErrInvalidInput
			}
			return 0, err
		}
		outcome = ToggleUpdated
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return outcome, nil
}
