// Package repository is the data-access layer. Every Folder and File
// operation takes the owner's user id and runs as a single statement
// conditioned on (id, user_id), so a record that exists but belongs to
// someone else is indistinguishable from one that does not exist.
package repository

import "errors"

// ErrNotFound is returned when a record is absent or not owned by the
// requesting user.
var ErrNotFound = errors.New("record not found")
