// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package cipher

import (
	"fmt"

	"github.com/cex-go/cex/cexerr"
)

var (
	ErrInvalidKey   = fmt.Errorf("cipher: %w", cexerr.ErrInvalidKey)
	ErrInvalidSize  = fmt.Errorf("cipher: %w", cexerr.ErrInvalidSize)
	ErrIllegalParam = fmt.Errorf("cipher: %w", cexerr.ErrIllegalOperation)
)

func wrap(sentinel error, msg string) error {
	return fmt.Errorf("%s: %w", msg, sentinel)
}
