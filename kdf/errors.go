// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package kdf

import (
	"fmt"

	"github.com/cex-go/cex/cexerr"
)

// Errors returned by the kdf package. Each wraps the matching cexerr kind so
// callers can branch on either the specific or the general sentinel.
var (
	ErrNotInitialized = fmt.Errorf("kdf: %w", cexerr.ErrNotInitialized)
	ErrInvalidKey     = fmt.Errorf("kdf: %w", cexerr.ErrInvalidKey)
	ErrInvalidSalt    = fmt.Errorf("kdf: %w", cexerr.ErrInvalidSalt)
	ErrInvalidSize    = fmt.Errorf("kdf: %w", cexerr.ErrInvalidSize)
	ErrMaxExceeded    = fmt.Errorf("kdf: %w", cexerr.ErrMaxExceeded)
	ErrIllegalParam   = fmt.Errorf("kdf: %w", cexerr.ErrIllegalOperation)
)

// wrap joins a specific message with one of the sentinels above so
// errors.Is still matches while the message carries call-site detail.
func wrap(sentinel error, msg string) error {
	return fmt.Errorf("%s: %w", msg, sentinel)
}
