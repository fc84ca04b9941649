// Package protocol owns the packet wire contract.
//
// Ownership boundary:
// - legacy: 4-byte count and identifier fields
// - codec: per-type Decode/Append/Probe/ExactLength and the record compiler
// - packet: 6-byte header framing, stream splitting, payload cursors
// - schema: layout expressions and header id registry for inspection
package protocol
