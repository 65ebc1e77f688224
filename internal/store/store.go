// Package store persists rooms, games, snapshots and the game event log in PostgreSQL.
package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrRoomNotFound      = errors.New("room not found")
	ErrPlayerNotInRoom   = errors.New("player not in room")
	ErrPasswordRequired  = errors.New("password is required")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrDisplayNameTaken  = errors.New("display name already taken in this room")
	ErrDisplayNameNeeded = errors.New("display_name is required")
	ErrRoomEmpty         = errors.New("room has no players")
	// ErrConflict means the snapshot moved on since it was read; the caller lost the race.
	ErrConflict = errors.New("snapshot version conflict")
)

const uniqueViolation = "23505"

// uuidToString converts pgtype.UUID to string.
func uuidToString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	id, err := uuid.FromBytes(u.Bytes[:])
	if err != nil {
		return ""
	}
	return id.String()
}

// stringToUUID converts string to pgtype.UUID.
func stringToUUID(s string) (pgtype.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: id, Valid: true}, nil
}

func timestamptzPtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
