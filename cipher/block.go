// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package cipher

import (
	stdaes "crypto/aes"
)

const BlockSize = 16

// Block is the narrow single-block primitive the DRBG's CTR core is built
// on: a fixed 16-byte block cipher, key schedule already bound in at
// construction time.
type Block interface {
	BlockSize() int
	EncryptBlock(dst, src []byte)
	DecryptBlock(dst, src []byte)
}

// WideBlock is an optional capability a Block may implement to process
// several independent blocks per call; implementations that don't have a
// genuine SIMD path simply loop, which is exactly what this package's do,
// since Go has no portable intrinsic access to AVX/AVX2/AVX-512 lanes.
// The drbg package does not use it: its serial and parallel CTR paths
// encrypt one counter block per EncryptBlock call.
type WideBlock interface {
	Block
	Transform512(dst, src []byte)  // 4 blocks
	Transform1024(dst, src []byte) // 8 blocks
	Transform2048(dst, src []byte) // 16 blocks
}

// AES wraps crypto/aes for the standard 128/192/256-bit key, <=14-round
// cipher, and is the drbg package's default backing cipher. It is
// separate from RHX: NewRHXStandard runs its own first-party key schedule
// and round function for every key size it accepts, including 16/24/32.
type AES struct {
	block stdaes.Block
}

// NewAES constructs a standard AES block cipher. key must be 16, 24, or 32
// bytes.
func NewAES(key []byte) (*AES, error) {
	b, err := stdaes.NewCipher(key)
	if err != nil {
		return nil, wrap(ErrInvalidKey, err.Error())
	}
	return &AES{block: b}, nil
}

func (a *AES) BlockSize() int { return BlockSize }

func (a *AES) EncryptBlock(dst, src []byte) { a.block.Encrypt(dst, src) }

func (a *AES) DecryptBlock(dst, src []byte) { a.block.Decrypt(dst, src) }

func (a *AES) Transform512(dst, src []byte)  { transformN(a, dst, src, 4) }
func (a *AES) Transform1024(dst, src []byte) { transformN(a, dst, src, 8) }
func (a *AES) Transform2048(dst, src []byte) { transformN(a, dst, src, 16) }

func transformN(b Block, dst, src []byte, n int) {
	for i := 0; i < n; i++ {
		off := i * BlockSize
		b.EncryptBlock(dst[off:off+BlockSize], src[off:off+BlockSize])
	}
}
