// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package drbg implements the BCG/CMG counter-mode deterministic random
// bit generator over a pluggable cex/cipher.Block, plus a goroutine-based
// parallel CTR dispatcher.
package drbg

import (
	"github.com/cex-go/cex/cipher"
	"github.com/cex-go/cex/provider"
)

// Config follows the module's functional-option Config shape, generalized
// from a fixed AES-256 CTR generator to a pluggable block cipher and
// entropy provider.
type Config struct {
	// KeySize is the cipher key length in bytes passed to NewBlock.
	KeySize int

	// NewBlock constructs the block cipher backing the CTR core from a
	// key of KeySize bytes. Defaults to cex/cipher.NewAES. Used whenever
	// NewSecureBlock is nil, or InitializeKeyNonceInfo's info is absent.
	NewBlock func(key []byte) (cipher.Block, error)

	// NewSecureBlock optionally constructs an HX-variant block cipher
	// whose key schedule consumes the distribution-code style info
	// string (RHX's Secure schedule, e.g. cipher.NewRHXSecure). When
	// nil, info passed to InitializeKeyNonceInfo has no effect and
	// NewBlock alone builds the cipher, matching standard Rijndael/
	// Serpent's behavior of ignoring it entirely.
	NewSecureBlock func(key, info []byte) (cipher.Block, error)

	// Provider supplies entropy for Initialize and Derive. Reseeding
	// (automatic or via Derive) is disabled when nil.
	Provider provider.Provider

	// MaxBytesPerKey is the cumulative output threshold at which
	// Generate automatically triggers a Derive reseed; 0 disables
	// automatic reseeding (NeedsReseed/Derive remain available for
	// manual use).
	MaxBytesPerKey uint64

	// MaxReseedRequests bounds how many times Derive may run over this
	// generator's lifetime before Generate fails with ErrMaxExceeded,
	// mirroring CEX's BCG::MAX_RESEED ceiling (not itself reset by
	// reseeding; construct a new BCG for a fresh budget). 0 disables
	// the cap.
	MaxReseedRequests uint64

	// Personalization is optionally XOR-ed into the initial seed for
	// domain separation.
	Personalization []byte
}

const (
	defaultKeySize           = 32
	defaultMaxBytes          = 1 << 30
	defaultMaxReseedRequests = 1 << 16
)

// DefaultConfig returns production-safe defaults: AES-256 via
// cex/cipher.NewAES, OS entropy, and a 1 GiB per-key output budget.
func DefaultConfig() Config {
	return Config{
		KeySize: defaultKeySize,
		NewBlock: func(key []byte) (cipher.Block, error) {
			return cipher.NewAES(key)
		},
		Provider:          provider.OS,
		MaxBytesPerKey:    defaultMaxBytes,
		MaxReseedRequests: defaultMaxReseedRequests,
	}
}

// Option customizes a Config, following the same functional-option
// pattern used across this module.
type Option func(*Config)

func WithKeySize(n int) Option { return func(c *Config) { c.KeySize = n } }

func WithNewBlock(f func(key []byte) (cipher.Block, error)) Option {
	return func(c *Config) { c.NewBlock = f }
}

func WithNewSecureBlock(f func(key, info []byte) (cipher.Block, error)) Option {
	return func(c *Config) { c.NewSecureBlock = f }
}

func WithProvider(p provider.Provider) Option { return func(c *Config) { c.Provider = p } }

func WithMaxBytesPerKey(n uint64) Option { return func(c *Config) { c.MaxBytesPerKey = n } }

func WithMaxReseedRequests(n uint64) Option { return func(c *Config) { c.MaxReseedRequests = n } }

func WithPersonalization(p []byte) Option { return func(c *Config) { c.Personalization = p } }
