// Package synth produces the deterministic fake payloads returned by catalog
// tools.
//
// Every field of a Payload except its timestamp is a pure function of the tool
// name and the caller's arguments. All hashing uses fixed-width uint32
// arithmetic so outputs match across platforms.
package synth
