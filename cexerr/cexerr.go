// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package cexerr defines the shared error taxonomy used across the
// keystream and keying packages (parallel, kdf, cipher, drbg, provider).
//
// Every exported sentinel here represents a *kind* of failure, not a concrete
// type. Packages wrap one of these with fmt.Errorf's %w verb so that callers
// can test with errors.Is regardless of which package raised it.
package cexerr

import "errors"

var (
	// ErrInvalidKey indicates a seed or key length outside the legal set for
	// the algorithm being initialized.
	ErrInvalidKey = errors.New("cex: invalid key")

	// ErrInvalidSalt indicates a salt shorter than the algorithm's minimum.
	ErrInvalidSalt = errors.New("cex: invalid salt")

	// ErrInvalidSize indicates an output buffer smaller than requested, or an
	// offset+length combination that overruns the buffer.
	ErrInvalidSize = errors.New("cex: invalid size")

	// ErrNotInitialized indicates a call made before Initialize, or after a
	// Reset that was not followed by a new Initialize.
	ErrNotInitialized = errors.New("cex: not initialized")

	// ErrMaxExceeded indicates a per-primitive output ceiling or reseed-request
	// ceiling has been reached.
	ErrMaxExceeded = errors.New("cex: maximum output or reseed count exceeded")

	// ErrIllegalOperation indicates a parameter that violates a design
	// constraint, such as an odd parallel degree.
	ErrIllegalOperation = errors.New("cex: illegal operation")

	// ErrProviderFailure indicates the entropy provider failed, or returned
	// fewer bytes than requested.
	ErrProviderFailure = errors.New("cex: entropy provider failure")

	// ErrPoisoned indicates internal state was corrupted by a prior worker
	// failure; the caller must Reset and Initialize before further use.
	ErrPoisoned = errors.New("cex: generator poisoned")
)
