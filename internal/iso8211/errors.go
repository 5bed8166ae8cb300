package iso8211

import "github.com/pkg/errors"

// ErrTruncatedBuffer is fatal: the reader hit structurally unreadable
// bytes beyond any record boundary (e.g. fewer than a full leader's
// worth of bytes remaining).
var ErrTruncatedBuffer = errors.New("iso8211: truncated buffer")
