// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package keyparams holds the symmetric key-parameter container and the
// stable enumerations naming block ciphers, extensions,
// digests, KDFs, MACs, DRBGs, providers, padding/cipher modes, stream
// ciphers) — small uint8-backed value types with a stable String().
package keyparams

import "fmt"

// KeyParams bundles a symmetric key with its optional nonce and info/
// distribution-code strings, the same triple RHX's secure schedule and
// BCG's Initialize variants both consume.
type KeyParams struct {
	Key   []byte
	Nonce []byte
	Info  []byte
}

// New constructs a KeyParams, copying each slice so the caller's buffers
// remain mutable without aliasing this container's state.
func New(key, nonce, info []byte) KeyParams {
	return KeyParams{
		Key:   append([]byte(nil), key...),
		Nonce: append([]byte(nil), nonce...),
		Info:  append([]byte(nil), info...),
	}
}

type BlockCipher uint8

const (
	BlockCipherRijndael BlockCipher = iota
	BlockCipherRHX
)

func (b BlockCipher) String() string {
	switch b {
	case BlockCipherRijndael:
		return "Rijndael"
	case BlockCipherRHX:
		return "RHX"
	default:
		return fmt.Sprintf("BlockCipher(%d)", uint8(b))
	}
}

type BlockCipherExtension uint8

const (
	ExtensionNone BlockCipherExtension = iota
	ExtensionHKDF256
	ExtensionHKDF512
	ExtensionSHAKE128
	ExtensionSHAKE256
	ExtensionSHAKE512
)

func (e BlockCipherExtension) String() string {
	switch e {
	case ExtensionNone:
		return "None"
	case ExtensionHKDF256:
		return "HKDF-SHA2-256"
	case ExtensionHKDF512:
		return "HKDF-SHA2-512"
	case ExtensionSHAKE128:
		return "SHAKE-128"
	case ExtensionSHAKE256:
		return "SHAKE-256"
	case ExtensionSHAKE512:
		return "SHAKE-512"
	default:
		return fmt.Sprintf("BlockCipherExtension(%d)", uint8(e))
	}
}

type Digest uint8

const (
	DigestNone Digest = iota
	DigestSHA2256
	DigestSHA2512
	DigestSHA3256
	DigestSHA3512
)

func (d Digest) String() string {
	switch d {
	case DigestNone:
		return "None"
	case DigestSHA2256:
		return "SHA2-256"
	case DigestSHA2512:
		return "SHA2-512"
	case DigestSHA3256:
		return "SHA3-256"
	case DigestSHA3512:
		return "SHA3-512"
	default:
		return fmt.Sprintf("Digest(%d)", uint8(d))
	}
}

// SHA2Digest narrows Digest to the SHA2 subset, named separately from
// the general Digests set, since several KDFs
// (PBKDF2, HKDF) are specified only over SHA-2.
type SHA2Digest uint8

const (
	SHA2Digest256 SHA2Digest = iota
	SHA2Digest512
)

func (d SHA2Digest) String() string {
	switch d {
	case SHA2Digest256:
		return "SHA2-256"
	case SHA2Digest512:
		return "SHA2-512"
	default:
		return fmt.Sprintf("SHA2Digest(%d)", uint8(d))
	}
}

type Kdf uint8

const (
	KdfNone Kdf = iota
	KdfKDF2256
	KdfKDF2512
	KdfHKDF256
	KdfHKDF512
	KdfPBKDF2
	KdfSCRYPT
)

func (k Kdf) String() string {
	switch k {
	case KdfNone:
		return "None"
	case KdfKDF2256:
		return "KDF2256"
	case KdfKDF2512:
		return "KDF2512"
	case KdfHKDF256:
		return "HKDF256"
	case KdfHKDF512:
		return "HKDF512"
	case KdfPBKDF2:
		return "PBKDF2"
	case KdfSCRYPT:
		return "SCRYPT"
	default:
		return fmt.Sprintf("Kdf(%d)", uint8(k))
	}
}

type Mac uint8

const (
	MacNone Mac = iota
	MacHMACSHA256
	MacHMACSHA512
)

func (m Mac) String() string {
	switch m {
	case MacNone:
		return "None"
	case MacHMACSHA256:
		return "HMAC-SHA2-256"
	case MacHMACSHA512:
		return "HMAC-SHA2-512"
	default:
		return fmt.Sprintf("Mac(%d)", uint8(m))
	}
}

type Drbg uint8

const (
	DrbgNone Drbg = iota
	DrbgBCG
	DrbgCMG
)

func (d Drbg) String() string {
	switch d {
	case DrbgNone:
		return "None"
	case DrbgBCG:
		return "BCG"
	case DrbgCMG:
		return "CMG"
	default:
		return fmt.Sprintf("Drbg(%d)", uint8(d))
	}
}

type ProviderType uint8

const (
	ProviderNone ProviderType = iota
	ProviderOS
)

func (p ProviderType) String() string {
	switch p {
	case ProviderNone:
		return "None"
	case ProviderOS:
		return "OS"
	default:
		return fmt.Sprintf("ProviderType(%d)", uint8(p))
	}
}

// PaddingMode and CipherMode are retained as named enumerations even
// though their stream/block wrapper implementations are out of scope: a
// caller selecting a BlockCipher still needs to name what
// mode it would run under for interop with systems that do implement
// the wrapper.
type PaddingMode uint8

const (
	PaddingNone PaddingMode = iota
	PaddingPKCS7
)

func (p PaddingMode) String() string {
	switch p {
	case PaddingNone:
		return "None"
	case PaddingPKCS7:
		return "PKCS7"
	default:
		return fmt.Sprintf("PaddingMode(%d)", uint8(p))
	}
}

type CipherMode uint8

const (
	CipherModeNone CipherMode = iota
	CipherModeCTR
)

func (c CipherMode) String() string {
	switch c {
	case CipherModeNone:
		return "None"
	case CipherModeCTR:
		return "CTR"
	default:
		return fmt.Sprintf("CipherMode(%d)", uint8(c))
	}
}

type StreamCipher uint8

const (
	StreamCipherNone StreamCipher = iota
	StreamCipherRHXCTR
)

func (s StreamCipher) String() string {
	switch s {
	case StreamCipherNone:
		return "None"
	case StreamCipherRHXCTR:
		return "RHX-CTR"
	default:
		return fmt.Sprintf("StreamCipher(%d)", uint8(s))
	}
}
