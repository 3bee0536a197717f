// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package drbg

import (
	"sync"
	"sync/atomic"

	"github.com/cex-go/cex/cipher"
	"github.com/cex-go/cex/digest"
	"github.com/cex-go/cex/kdf"
	"github.com/cex-go/cex/keyparams"
)

// state is the immutable cryptographic state swapped atomically on
// rekey/reseed, split between "state" (key + cipher) and the
// mutex-guarded evolving counter.
type state struct {
	block cipher.Block
	key   []byte
}

// BCG is the Block Cipher Generator CTR-mode DRBG: a block cipher's
// encryption of a monotonically incremented 16-byte counter vector,
// XOR-free (the keystream bytes are the output directly, there is no
// plaintext to XOR against).
type BCG struct {
	config Config

	state atomic.Pointer[state]

	vMu sync.Mutex
	v   [16]byte

	usage          uint64
	reseedRequests uint64
	poisoned       atomic.Bool
}

// New constructs a BCG in the unseeded state; call one of the Initialize
// variants before Generate.
func New(opts ...Option) *BCG {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &BCG{config: cfg}
}

// Initialize seeds the generator from entropy alone: KeySize bytes of key
// plus 16 bytes of initial counter, drawn from config.Provider.
func (g *BCG) Initialize() error {
	seed := make([]byte, g.config.KeySize+16)
	if err := g.config.Provider.Generate(seed); err != nil {
		return err
	}
	return g.initFromMaterial(seed[:g.config.KeySize], seed[g.config.KeySize:], nil)
}

// InitializeKeyNonce seeds the generator directly from a caller-supplied
// key and 16-byte nonce (the counter's initial value), with no additional
// entropy draw.
func (g *BCG) InitializeKeyNonce(key, nonce []byte) error {
	if len(key) != g.config.KeySize {
		return ErrInvalidKey
	}
	if len(nonce) != 16 {
		return ErrInvalidSize
	}
	return g.initFromMaterial(key, nonce, nil)
}

// InitializeKeyNonceInfo is InitializeKeyNonce plus a distribution-code
// style info string. info only has an effect when config.NewSecureBlock
// is set: it is passed to the HX-variant key schedule unchanged, the
// schedule itself truncating it to its DistributionCodeMax. Standard
// Rijndael/Serpent ignore info entirely, matching CEX's BCG::Initialize.
func (g *BCG) InitializeKeyNonceInfo(key, nonce, info []byte) error {
	if len(key) != g.config.KeySize {
		return ErrInvalidKey
	}
	if len(nonce) != 16 {
		return ErrInvalidSize
	}
	return g.initFromMaterial(key, nonce, info)
}

// InitializeFromParams is InitializeKeyNonceInfo taking its key, nonce,
// and info from a keyparams.KeyParams triple.
func (g *BCG) InitializeFromParams(p keyparams.KeyParams) error {
	return g.InitializeKeyNonceInfo(p.Key, p.Nonce, p.Info)
}

func (g *BCG) initFromMaterial(key, nonce, info []byte) error {
	k := append([]byte(nil), key...)
	if len(g.config.Personalization) > 0 {
		for i := range k {
			k[i] ^= g.config.Personalization[i%len(g.config.Personalization)]
		}
	}

	var block cipher.Block
	var err error
	if len(info) > 0 && g.config.NewSecureBlock != nil {
		block, err = g.config.NewSecureBlock(k, info)
	} else {
		block, err = g.config.NewBlock(k)
	}
	if err != nil {
		return err
	}

	var v [16]byte
	copy(v[:], nonce)

	g.state.Store(&state{block: block, key: k})
	g.vMu.Lock()
	g.v = v
	g.vMu.Unlock()
	atomic.StoreUint64(&g.usage, 0)
	g.poisoned.Store(false)
	return nil
}

// Generate fills out with the next len(out) keystream bytes. When
// config.MaxBytesPerKey is set and cumulative usage first reaches it,
// Generate fires an automatic Derive reseed after writing out; the bytes
// just produced are still valid keystream regardless of whether the
// reseed attempt itself succeeds. A reseed failure (e.g. the
// MaxReseedRequests ceiling) is reported back from this call.
func (g *BCG) Generate(out []byte) error {
	if g.poisoned.Load() {
		return ErrPoisoned
	}
	st := g.state.Load()
	if st == nil {
		return ErrNotInitialized
	}

	g.vMu.Lock()
	v := g.v
	fillBlocks(out, st.block, &v)
	g.v = v
	g.vMu.Unlock()

	usage := atomic.AddUint64(&g.usage, uint64(len(out)))

	if g.config.MaxBytesPerKey > 0 && g.config.Provider != nil &&
		usage >= g.config.MaxBytesPerKey && usage-uint64(len(out)) < g.config.MaxBytesPerKey {
		return g.Derive()
	}
	return nil
}

// GenerateBlock fills exactly one cipher-block-size chunk; a thin
// convenience wrapper over Generate for callers that want block-aligned
// semantics explicitly.
func (g *BCG) GenerateBlock(dst []byte) error {
	if len(dst) != cipher.BlockSize {
		return ErrInvalidSize
	}
	return g.Generate(dst)
}

// Read implements io.Reader over Generate.
func (g *BCG) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := g.Generate(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Usage returns the number of keystream bytes produced since the last
// Initialize/Derive call.
func (g *BCG) Usage() uint64 { return atomic.LoadUint64(&g.usage) }

// NeedsReseed reports whether Usage has reached config.MaxBytesPerKey.
func (g *BCG) NeedsReseed() bool {
	if g.config.MaxBytesPerKey == 0 {
		return false
	}
	return g.Usage() >= g.config.MaxBytesPerKey
}

// Derive reseeds the generator: a fresh 32-byte sample of this
// generator's own output is combined with config.Provider salt through
// KDF2-SHA256 to produce a new key+counter, regardless of which cipher
// backs the CTR core. The fixed 32-byte reseed shape resolves the
// BCG/CMG reseed-size question, and
// is lifted literally from CEX/BCG.cpp's Derive.
//
// Derive returns ErrIllegalOperation when config.Provider is nil.
//
// Derive counts against config.MaxReseedRequests, a lifetime ceiling on
// this BCG instance (not reset by reseeding itself); once exceeded,
// Derive keeps returning ErrMaxExceeded until a new BCG is constructed.
func (g *BCG) Derive() error {
	if g.config.Provider == nil {
		return ErrIllegalOperation
	}
	if g.config.MaxReseedRequests > 0 {
		if atomic.AddUint64(&g.reseedRequests, 1) > g.config.MaxReseedRequests {
			return ErrMaxExceeded
		}
	}

	sample := make([]byte, 32)
	if err := g.Generate(sample); err != nil {
		return err
	}
	salt := make([]byte, 32)
	if err := g.config.Provider.Generate(salt); err != nil {
		return err
	}

	d := kdf.NewKDF2(digest.NewSHA256)
	if err := d.Initialize(sample, salt, nil); err != nil {
		return err
	}
	material := make([]byte, g.config.KeySize+16)
	if err := d.Generate(material); err != nil {
		return err
	}

	return g.initFromMaterial(material[:g.config.KeySize], material[g.config.KeySize:], nil)
}

// Poison marks the generator unusable until it is initialized again; every
// Generate call in between returns ErrPoisoned. Used by the parallel dispatcher when
// a worker panics, so a half-completed fan-out can never be mistaken for
// a valid keystream by a caller that ignores the returned error.
func (g *BCG) Poison() { g.poisoned.Store(true) }

func (g *BCG) Poisoned() bool { return g.poisoned.Load() }

// fillBlocks encrypts the incrementing counter v into out, cipher-block
// at a time: direct write except for a partial tail block.
func fillBlocks(out []byte, block cipher.Block, v *[16]byte) {
	bs := block.BlockSize()
	n := len(out)
	offset := 0
	for ; offset+bs <= n; offset += bs {
		incV(v)
		block.EncryptBlock(out[offset:offset+bs], v[:])
	}
	if tail := n - offset; tail > 0 {
		tmp := make([]byte, bs)
		incV(v)
		block.EncryptBlock(tmp, v[:])
		copy(out[offset:], tmp[:tail])
	}
}

// incV advances the counter vector by one. Only the low 8 bytes (indices
// 8-15) participate in the ripple-carry increment; the high 8 bytes are
// the generator's fixed nonce half and never change after Initialize.
func incV(v *[16]byte) {
	for i := 15; i >= 8; i-- {
		v[i]++
		if v[i] != 0 {
			break
		}
	}
}
