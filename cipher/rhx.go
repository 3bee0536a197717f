// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package cipher

import (
	"encoding/binary"

	"github.com/cex-go/cex/digest"
	"github.com/cex-go/cex/kdf"
	"github.com/cex-go/cex/keyparams"
)

// ScheduleMode selects how RHX expands a key into its round-key array.
type ScheduleMode int

const (
	// ScheduleStandard is the classic Rijndael expansion (FIPS-197 §5.2),
	// generalized past Nk in {4,6,8} to Nk=16 so a 64-byte key still
	// produces a well-defined schedule.
	ScheduleStandard ScheduleMode = iota
	// ScheduleSecure fills the round-key array directly from a KDF's
	// output stream instead of the Rijndael expansion, binding the
	// schedule to the full key entropy for the larger key sizes.
	ScheduleSecure
)

// KdfType selects the key-derivation primitive backing ScheduleSecure.
type KdfType int

const (
	KdfHKDF256 KdfType = iota
	KdfHKDF512
	KdfSHAKE128
	KdfSHAKE256
	// KdfSHAKE512 has no standard meaning distinct from KdfSHAKE256 (NIST
	// defines only SHAKE128/SHAKE256); it is kept as a named option for
	// callers requesting CEX's naming convention and resolves to the
	// SHAKE256 permutation at its widest defined capacity. See DESIGN.md.
	KdfSHAKE512
)

const (
	sha256BlockSize = 64
	sha512BlockSize = 128
	shake128Rate    = 168
	shake256Rate    = 136
)

// distributionCodeMax bounds how much of the caller-supplied info/
// distribution code is absorbed into the secure schedule, sized to the
// underlying KDF primitive's natural block/rate so the code never spans
// more than one compression call's worth of material.
func distributionCodeMax(t KdfType) int {
	switch t {
	case KdfHKDF256:
		return sha256BlockSize
	case KdfHKDF512:
		return sha512BlockSize
	case KdfSHAKE128:
		return shake128Rate
	case KdfSHAKE256, KdfSHAKE512:
		return shake256Rate
	default:
		return sha256BlockSize
	}
}

// RHX is the extended AES block cipher: a normal Rijndael
// round function driven either by the standard key schedule (16/24/32/64
// byte keys, rounds = L/4+6) or a KDF-filled schedule for the larger
// "Secure" key sizes (32/64/128 byte keys, rounds = L/4+14, capped at 38).
type RHX struct {
	mode      ScheduleMode
	kdfType   KdfType
	rounds    int
	roundKeys []uint32 // 4*(rounds+1) big-endian words
	info      []byte
}

// NewRHXStandard builds an RHX cipher using the classic Rijndael key
// schedule. key must be 16, 24, 32, or 64 bytes.
func NewRHXStandard(key []byte) (*RHX, error) {
	l := len(key)
	if l != 16 && l != 24 && l != 32 && l != 64 {
		return nil, wrap(ErrInvalidKey, "rhx: standard schedule requires a 16/24/32/64-byte key")
	}
	rounds := l/4 + 6
	w := standardKeySchedule(key, rounds)
	return &RHX{mode: ScheduleStandard, rounds: rounds, roundKeys: w}, nil
}

// NewRHXSecure builds an RHX cipher whose round-key array is drawn from
// the named KDF's output stream seeded with key and an optional
// distribution code / info string. key must be 32, 64, or 128 bytes.
func NewRHXSecure(key []byte, kdfType KdfType, info []byte) (*RHX, error) {
	l := len(key)
	if l != 32 && l != 64 && l != 128 {
		return nil, wrap(ErrInvalidKey, "rhx: secure schedule requires a 32/64/128-byte key")
	}
	rounds := l/4 + 14
	if rounds > 38 {
		rounds = 38
	}

	if max := distributionCodeMax(kdfType); len(info) > max {
		info = info[:max]
	}

	w, err := secureKeySchedule(key, rounds, kdfType, info)
	if err != nil {
		return nil, err
	}
	return &RHX{mode: ScheduleSecure, kdfType: kdfType, rounds: rounds, roundKeys: w, info: info}, nil
}

// NewRHXSecureFromParams builds a Secure-schedule RHX cipher from a
// KeyParams triple, using its Info field as the distribution code. The
// Nonce field is not consumed by the key schedule itself; callers that
// need it for a CTR core pass it separately to that core's Initialize.
func NewRHXSecureFromParams(p keyparams.KeyParams, kdfType KdfType) (*RHX, error) {
	return NewRHXSecure(p.Key, kdfType, p.Info)
}

func (r *RHX) BlockSize() int { return BlockSize }

func (r *RHX) Rounds() int { return r.rounds }

func (r *RHX) EncryptBlock(dst, src []byte) {
	var state [16]byte
	copy(state[:], src)

	addRoundKey(state[:], r.roundKeys[0:4])
	for round := 1; round < r.rounds; round++ {
		subBytes(&state)
		shiftRows(&state)
		mixColumns(&state)
		addRoundKey(state[:], r.roundKeys[round*4:round*4+4])
	}
	subBytes(&state)
	shiftRows(&state)
	addRoundKey(state[:], r.roundKeys[r.rounds*4:r.rounds*4+4])

	copy(dst, state[:])
}

func (r *RHX) DecryptBlock(dst, src []byte) {
	var state [16]byte
	copy(state[:], src)

	addRoundKey(state[:], r.roundKeys[r.rounds*4:r.rounds*4+4])
	invShiftRows(&state)
	invSubBytes(&state)
	for round := r.rounds - 1; round > 0; round-- {
		addRoundKey(state[:], r.roundKeys[round*4:round*4+4])
		invMixColumns(&state)
		invShiftRows(&state)
		invSubBytes(&state)
	}
	addRoundKey(state[:], r.roundKeys[0:4])

	copy(dst, state[:])
}

func (r *RHX) Transform512(dst, src []byte)  { transformN(r, dst, src, 4) }
func (r *RHX) Transform1024(dst, src []byte) { transformN(r, dst, src, 8) }
func (r *RHX) Transform2048(dst, src []byte) { transformN(r, dst, src, 16) }

// standardKeySchedule generalizes FIPS-197's Rijndael key expansion past
// Nk in {4,6,8}: the "extra SubWord at i%Nk==4 when Nk>6" rule from the
// AES-256 schedule is applied uniformly for any Nk>6, which is how the
// 64-byte (Nk=16) standard path derives its 23 round keys.
func standardKeySchedule(key []byte, rounds int) []uint32 {
	nk := len(key) / 4
	nw := 4 * (rounds + 1)
	w := make([]uint32, nw)
	for i := 0; i < nk; i++ {
		w[i] = binary.BigEndian.Uint32(key[4*i:])
	}

	var rcon byte = 1
	for i := nk; i < nw; i++ {
		temp := w[i-1]
		switch {
		case i%nk == 0:
			temp = subWord(rotWord(temp)) ^ (uint32(rcon) << 24)
			rcon = xtime(rcon)
		case nk > 6 && i%nk == 4:
			temp = subWord(temp)
		}
		w[i] = w[i-nk] ^ temp
	}
	return w
}

// secureKeySchedule fills the round-key words directly from the named
// KDF's output stream over key and info, instead of deriving them via the
// Rijndael expansion.
func secureKeySchedule(key []byte, rounds int, kdfType KdfType, info []byte) ([]uint32, error) {
	nw := 4 * (rounds + 1)
	buf := make([]byte, nw*4)

	switch kdfType {
	case KdfHKDF256:
		h := kdf.NewHKDF(digest.NewSHA256)
		if err := h.Initialize(key, nil, info); err != nil {
			return nil, err
		}
		if err := h.Generate(buf); err != nil {
			return nil, err
		}
	case KdfHKDF512:
		h := kdf.NewHKDF(digest.NewSHA512)
		if err := h.Initialize(key, nil, info); err != nil {
			return nil, err
		}
		if err := h.Generate(buf); err != nil {
			return nil, err
		}
	case KdfSHAKE128:
		xof := digest.NewSHAKE128(len(buf))
		xof.Update(key)
		xof.Update(info)
		xof.Finalize(buf)
	case KdfSHAKE256, KdfSHAKE512:
		xof := digest.NewSHAKE256(len(buf))
		xof.Update(key)
		xof.Update(info)
		xof.Finalize(buf)
	default:
		return nil, wrap(ErrIllegalParam, "rhx: unknown secure schedule kdf type")
	}

	w := make([]uint32, nw)
	for i := range w {
		w[i] = binary.BigEndian.Uint32(buf[4*i:])
	}
	return w, nil
}

func subWord(w uint32) uint32 {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], w)
	for i := range b {
		b[i] = sbox[b[i]]
	}
	return binary.BigEndian.Uint32(b[:])
}

func rotWord(w uint32) uint32 { return w<<8 | w>>24 }

func addRoundKey(state []byte, rk []uint32) {
	for c := 0; c < 4; c++ {
		var kb [4]byte
		binary.BigEndian.PutUint32(kb[:], rk[c])
		for r := 0; r < 4; r++ {
			state[4*c+r] ^= kb[r]
		}
	}
}

func subBytes(s *[16]byte) {
	for i := range s {
		s[i] = sbox[s[i]]
	}
}

func invSubBytes(s *[16]byte) {
	for i := range s {
		s[i] = invSbox[s[i]]
	}
}

func shiftRows(s *[16]byte) {
	var t [16]byte
	copy(t[:], s[:])
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			s[4*c+r] = t[4*((c+r)%4)+r]
		}
	}
}

func invShiftRows(s *[16]byte) {
	var t [16]byte
	copy(t[:], s[:])
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			s[4*c+r] = t[4*((c-r+4)%4)+r]
		}
	}
}

func mixColumns(s *[16]byte) {
	for c := 0; c < 4; c++ {
		a0, a1, a2, a3 := s[4*c], s[4*c+1], s[4*c+2], s[4*c+3]
		s[4*c] = mul(2, a0) ^ mul(3, a1) ^ a2 ^ a3
		s[4*c+1] = a0 ^ mul(2, a1) ^ mul(3, a2) ^ a3
		s[4*c+2] = a0 ^ a1 ^ mul(2, a2) ^ mul(3, a3)
		s[4*c+3] = mul(3, a0) ^ a1 ^ a2 ^ mul(2, a3)
	}
}

func invMixColumns(s *[16]byte) {
	for c := 0; c < 4; c++ {
		a0, a1, a2, a3 := s[4*c], s[4*c+1], s[4*c+2], s[4*c+3]
		s[4*c] = mul(14, a0) ^ mul(11, a1) ^ mul(13, a2) ^ mul(9, a3)
		s[4*c+1] = mul(9, a0) ^ mul(14, a1) ^ mul(11, a2) ^ mul(13, a3)
		s[4*c+2] = mul(13, a0) ^ mul(9, a1) ^ mul(14, a2) ^ mul(11, a3)
		s[4*c+3] = mul(11, a0) ^ mul(13, a1) ^ mul(9, a2) ^ mul(14, a3)
	}
}
