// Package fingerprint builds order-independent, hash-based summaries of a
// parsed geometry's cells and surfaces, stable across re-parses of
// unchanged input and tolerant of floating-point noise.
package fingerprint

import (
	"math"

	"github.com/giovanni-mariano/aleagit/pkg/geom"
)

// FNV-1a 64-bit constants. These exact values must match the original
// fingerprinting tool's choice byte for byte: a fingerprint computed by a
// different implementation with different constants is not comparable.
const (
	fnvOffset uint64 = 14695981039346656037
	fnvPrime  uint64 = 1099511628211
)

func fnvInit() uint64 { return fnvOffset }

func fnvFeedByte(h uint64, b byte) uint64 {
	h ^= uint64(b)
	h *= fnvPrime
	return h
}

func fnvFeed(h uint64, data []byte) uint64 {
	for _, b := range data {
		h = fnvFeedByte(h, b)
	}
	return h
}

func fnvInt(h uint64, v int64) uint64 {
	// Feed the little-endian byte representation, matching the original's
	// fnv_feed(h, &v, sizeof(v)) on a little-endian host.
	var buf [8]byte
	u := uint64(v)
	for i := 0; i < 8; i++ {
		buf[i] = byte(u)
		u >>= 8
	}
	return fnvFeed(h, buf[:])
}

func fnvUint64(h uint64, v uint64) uint64 {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v)
		v >>= 8
	}
	return fnvFeed(h, buf[:])
}

// fnvDouble discretizes v to roughly 1e-6 precision before hashing, so
// that floating-point noise introduced by re-parsing the same input
// doesn't change a fingerprint.
func fnvDouble(h uint64, v float64) uint64 {
	iv := int64(math.Round(v * 1e6))
	return fnvInt(h, iv)
}

// hashTree recursively hashes the CSG tree rooted at node. An
// geom.InvalidNode hashes to the FNV offset basis, matching an empty
// subtree consistently regardless of where it appears.
func hashTree(g geom.Geometry, node geom.NodeID) uint64 {
	if node == geom.InvalidNode {
		return fnvInit()
	}

	n := g.TreeNode(node)
	h := fnvInit()

	if n.IsLeaf {
		h = fnvInt(h, int64(n.SurfaceID))
		h = fnvInt(h, int64(n.Sense))
		return h
	}

	h = fnvInt(h, int64(n.Op))
	lh := hashTree(g, n.Left)
	rh := hashTree(g, n.Right)
	h = fnvUint64(h, lh)
	h = fnvUint64(h, rh)
	return h
}

// hashLattice hashes a cell's lattice tiling. A non-lattice cell
// (LatType == 0) hashes only the type tag, so all non-lattice cells share
// one lattice hash regardless of their other (meaningless) lattice
// fields.
func hashLattice(l geom.LatticeInfo) uint64 {
	h := fnvInit()
	h = fnvInt(h, int64(l.LatType))
	if l.LatType == 0 {
		return h
	}

	for _, d := range l.Dims {
		h = fnvInt(h, int64(d))
	}
	for i := 0; i < 3; i++ {
		h = fnvDouble(h, l.Pitch[i])
		h = fnvDouble(h, l.LowerLeft[i])
	}
	for _, f := range l.Fill {
		h = fnvInt(h, int64(f))
	}
	return h
}

// hashSurfaceData hashes a surface's primitive type tag followed by its
// coefficient slots, treating every slot as a double (including unused
// zero-padded slots) so that the hash is sensitive to any coefficient
// change regardless of which primitive type defines which slot.
func hashSurfaceData(primitiveType int, data geom.PrimitiveData) uint64 {
	h := fnvInit()
	h = fnvInt(h, int64(primitiveType))
	for _, d := range data {
		h = fnvDouble(h, d)
	}
	return h
}
