package service

import "errors"

// ErrNoteNotFound covers both an absent note id and a note owned by another
// user. Keeping the two indistinguishable stops callers probing for the
// existence of other users' notes.
var ErrNoteNotFound = errors.New("note not found")
