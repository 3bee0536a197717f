// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package provider supplies external entropy to the DRBG and KDF seeding
// paths as a Provider abstraction rather than hard-wiring crypto/rand at
// every call site.
package provider

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/cex-go/cex/cexerr"
)

// Provider is an external entropy source. Implementations must be safe
// for concurrent use.
type Provider interface {
	// Generate fills out with entropy, returning an error if the
	// underlying source is exhausted or unavailable.
	Generate(out []byte) error
}

type osProvider struct{}

func (osProvider) Generate(out []byte) error {
	if len(out) == 0 {
		return nil
	}
	if _, err := io.ReadFull(rand.Reader, out); err != nil {
		return fmt.Errorf("provider: %w: %v", cexerr.ErrProviderFailure, err)
	}
	return nil
}

// OS is the default entropy provider, backed by crypto/rand.
var OS Provider = osProvider{}
