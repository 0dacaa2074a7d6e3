package domain

import "errors"

var (
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidName     = errors.New("invalid name")
	ErrInvalidTitle    = errors.New("invalid title")
	ErrInvalidPosition = errors.New("invalid position")
	ErrInvalidColumnID = errors.New("invalid column id")
	ErrInvalidTimeSpan = errors.New("invalid time span")
	ErrInvalidBirthday = errors.New("invalid birthday")
	ErrItemNotMovable  = errors.New("item is not movable")
	ErrColumnLocked    = errors.New("column does not accept drops")
)
