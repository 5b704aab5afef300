package database

import "errors"

// ErrNotReady indicates the database could not be reached within the connect timeout.
var ErrNotReady = errors.New("database not ready")
