// Package fec implements the TETRA downlink channel codecs applied after
// burst synchronization and before MAC PDU dissection: descrambling, block
// deinterleaving, rate-2/3 depuncturing, the rate-1/4 Viterbi mother code
// and the Reed-Muller(30,14) block code used for AACH. Every codec here
// operates on bit.Bits; the length-checked decoders reject malformed input
// length (Deinterleave, Interleave, Depuncture, Puncture and
// Viterbi1_4Decode with an error, ReedMuller30_14Decode with ok=false),
// following the staged pipeline style used throughout this codebase's
// other block codes.
package fec

// BSCHScramblingCode is the fixed descrambling key used for the BKN1 block
// carrying BSCH on a synchronization burst (EN 300 392-2 §8.2.5.2): BSCH
// is always descrambled with the "no scrambling" default code, never the
// cell's derived scrambling code, so that a receiver can decode it before
// it knows the cell's identity.
const BSCHScramblingCode uint32 = 3
