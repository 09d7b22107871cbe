package jobservice

import "errors"

// ErrHashCollision is returned when the computed job id already holds
// a record whose request parameters differ from the new request.
var ErrHashCollision = errors.New("jobservice: hash collision for computed job id")

// ErrCapacity is returned when the request store is full or the
// resource ledger cannot satisfy the reservation.
var ErrCapacity = errors.New("jobservice: insufficient capacity")

// ErrNotFound is returned by GetJob for an unknown or evicted id.
var ErrNotFound = errors.New("jobservice: job not found")
