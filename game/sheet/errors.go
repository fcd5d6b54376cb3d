package sheet

import "errors"

// Guarded mutator failures. REST handlers map these onto status codes;
// none of them leaves the sheet partially modified.
var (
	ErrNotEnoughXP       = errors.New("not enough XP")
	ErrSelectionRequired = errors.New("attribute selection required")
	ErrSlotConflict      = errors.New("equip slot conflict")
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("invalid state")
)
