// Package candidate enumerates every string over a charset within a length
// range, in a fixed order: ascending length, then lexicographic by charset
// position within one length. With charset "ab" and lengths 1..2 the order
// is a, b, aa, ab, ba, bb.
//
// A Generator never yields the same candidate twice. Its Position is the
// number of candidates already yielded, so a run can be resumed exactly by
// creating a new Generator with NewGeneratorAt.
package candidate
