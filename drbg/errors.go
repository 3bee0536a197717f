// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package drbg

import (
	"fmt"

	"github.com/cex-go/cex/cexerr"
)

var (
	ErrInvalidKey       = fmt.Errorf("drbg: %w", cexerr.ErrInvalidKey)
	ErrInvalidSize      = fmt.Errorf("drbg: %w", cexerr.ErrInvalidSize)
	ErrNotInitialized   = fmt.Errorf("drbg: %w", cexerr.ErrNotInitialized)
	ErrMaxExceeded      = fmt.Errorf("drbg: %w", cexerr.ErrMaxExceeded)
	ErrIllegalOperation = fmt.Errorf("drbg: %w", cexerr.ErrIllegalOperation)
	ErrPoisoned         = fmt.Errorf("drbg: %w", cexerr.ErrPoisoned)
)
