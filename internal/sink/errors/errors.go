package errors

import sterrors "errors"

var (
	ErrNoConfig       = sterrors.New("consolesink: no configuration line received")
	ErrConfigInvalid  = sterrors.New("consolesink: configuration line is not valid JSON")
	ErrNotEnvelope    = sterrors.New("consolesink: line is not an envelope")
	ErrOutputRequired = sterrors.New("consolesink: output writer is required")
	ErrInputRequired  = sterrors.New("consolesink: input reader is required")
	ErrConfigRequired = sterrors.New("consolesink: configuration is required")
	ErrLoggerRequired = sterrors.New("consolesink: logger is required")
	ErrSinkWrite      = sterrors.New("consolesink: output sink write failed")
)
