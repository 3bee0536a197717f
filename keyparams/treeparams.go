// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package keyparams

import (
	"encoding/binary"
	"fmt"
)

// header layout, little-endian, offsets in bytes:
//
//	0  4  node offset
//	4  2  version (always 1)
//	6  8  output size
//	14 4  tree leaf size
//	18 1  tree depth
//	19 1  tree fanout
//	20 4  reserved
//	24 .. distribution code, DistributionCodeMax() bytes
const treeHeaderSize = 24

// KeccakParams is the serializable tree-hashing configuration consumed by
// a parallel Keccak/SHA3 tree mode: node offset and depth/fanout describe
// the caller's position in the tree, and DistributionCode carries a
// personalization string bounded by DistributionCodeMax.
type KeccakParams struct {
	NodeOffset      uint32
	TreeVersion     uint16
	OutputSize      uint64
	LeafSize        uint32
	TreeDepth       byte
	TreeFanout      byte
	Reserved        uint32
	DistributionCode []byte
}

// NewKeccakParams builds a sequential-mode configuration: outputSize is
// the digest length in bytes (32/64/128), leafSize is the digest's block
// size, and fanout is the number of parallel tree leaves (0 disables
// tree hashing).
func NewKeccakParams(outputSize uint64, leafSize uint32, fanout byte) KeccakParams {
	p := KeccakParams{
		TreeVersion: 1,
		OutputSize:  outputSize,
		LeafSize:    leafSize,
		TreeFanout:  fanout,
	}
	p.DistributionCode = make([]byte, p.DistributionCodeMax())
	return p
}

// DistributionCodeMax returns the maximum personalization-string length
// this output size allows: 112 bytes for a 32-byte digest, 48 otherwise.
func (p KeccakParams) DistributionCodeMax() int {
	if p.OutputSize == 32 {
		return 112
	}
	return 48
}

// HeaderSize returns the total serialized length: the fixed header plus
// DistributionCodeMax bytes of distribution code.
func (p KeccakParams) HeaderSize() int {
	return treeHeaderSize + p.DistributionCodeMax()
}

// ToBytes serializes the structure to its wire form.
func (p KeccakParams) ToBytes() []byte {
	max := p.DistributionCodeMax()
	out := make([]byte, treeHeaderSize+max)

	binary.LittleEndian.PutUint32(out[0:4], p.NodeOffset)
	binary.LittleEndian.PutUint16(out[4:6], p.TreeVersion)
	binary.LittleEndian.PutUint64(out[6:14], p.OutputSize)
	binary.LittleEndian.PutUint32(out[14:18], p.LeafSize)
	out[18] = p.TreeDepth
	out[19] = p.TreeFanout
	binary.LittleEndian.PutUint32(out[20:24], p.Reserved)
	copy(out[treeHeaderSize:], p.DistributionCode)

	return out
}

// ParseKeccakParams decodes a KeccakParams structure previously produced
// by ToBytes.
func ParseKeccakParams(b []byte) (KeccakParams, error) {
	if len(b) < treeHeaderSize {
		return KeccakParams{}, fmt.Errorf("keyparams: tree config buffer too short")
	}

	p := KeccakParams{
		NodeOffset:  binary.LittleEndian.Uint32(b[0:4]),
		TreeVersion: binary.LittleEndian.Uint16(b[4:6]),
		OutputSize:  binary.LittleEndian.Uint64(b[6:14]),
		LeafSize:    binary.LittleEndian.Uint32(b[14:18]),
		TreeDepth:   b[18],
		TreeFanout:  b[19],
		Reserved:    binary.LittleEndian.Uint32(b[20:24]),
	}
	max := p.DistributionCodeMax()
	if len(b) < treeHeaderSize+max {
		return KeccakParams{}, fmt.Errorf("keyparams: tree config buffer too short for distribution code")
	}
	p.DistributionCode = append([]byte(nil), b[treeHeaderSize:treeHeaderSize+max]...)

	return p, nil
}

// Clone returns a deep, independent copy.
func (p KeccakParams) Clone() KeccakParams {
	return KeccakParams{
		NodeOffset:      p.NodeOffset,
		TreeVersion:     p.TreeVersion,
		OutputSize:      p.OutputSize,
		LeafSize:        p.LeafSize,
		TreeDepth:       p.TreeDepth,
		TreeFanout:      p.TreeFanout,
		Reserved:        p.Reserved,
		DistributionCode: append([]byte(nil), p.DistributionCode...),
	}
}

// Equals reports whether two configurations serialize identically.
func (p KeccakParams) Equals(o KeccakParams) bool {
	a, b := p.ToBytes(), o.ToBytes()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SHA2Params is the SHA-2 family's tree-hashing configuration analog of
// KeccakParams. The underlying CEX header was not present in this
// module's retrieval pack, so the layout below mirrors KeccakParams'
// header shape (the family's common node-offset/leaf-size/fanout/depth
// tree-config fields) rather than a line-for-line port.
type SHA2Params struct {
	NodeOffset       uint32
	OutputSize       uint64
	LeafSize         uint32
	TreeDepth        byte
	TreeFanout       byte
	DistributionCode []byte
}

const sha2TreeHeaderSize = 18

// NewSHA2Params builds a sequential-mode configuration for a SHA-2
// variant with the given digest and block (leaf) sizes.
func NewSHA2Params(outputSize uint64, leafSize uint32, fanout byte) SHA2Params {
	return SHA2Params{
		OutputSize: outputSize,
		LeafSize:   leafSize,
		TreeFanout: fanout,
	}
}

// ToBytes serializes the structure to its wire form.
func (p SHA2Params) ToBytes() []byte {
	out := make([]byte, sha2TreeHeaderSize+len(p.DistributionCode))
	binary.LittleEndian.PutUint32(out[0:4], p.NodeOffset)
	binary.LittleEndian.PutUint64(out[4:12], p.OutputSize)
	binary.LittleEndian.PutUint32(out[12:16], p.LeafSize)
	out[16] = p.TreeDepth
	out[17] = p.TreeFanout
	copy(out[sha2TreeHeaderSize:], p.DistributionCode)
	return out
}

// ParseSHA2Params decodes an SHA2Params structure previously produced by
// ToBytes.
func ParseSHA2Params(b []byte) (SHA2Params, error) {
	if len(b) < sha2TreeHeaderSize {
		return SHA2Params{}, fmt.Errorf("keyparams: sha2 tree config buffer too short")
	}
	p := SHA2Params{
		NodeOffset: binary.LittleEndian.Uint32(b[0:4]),
		OutputSize: binary.LittleEndian.Uint64(b[4:12]),
		LeafSize:   binary.LittleEndian.Uint32(b[12:16]),
		TreeDepth:  b[16],
		TreeFanout: b[17],
	}
	p.DistributionCode = append([]byte(nil), b[sha2TreeHeaderSize:]...)
	return p, nil
}
