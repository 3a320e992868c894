// Package wire is the binary encoding of patch batches.
//
// A toolkit that lives in another process receives the same patches the
// in-process applicator would, serialized as one frame per batch:
//
//	┌──────────┬───────────────┬────────────────┬──────────────────┐
//	│ Version  │ Seq (uvarint) │ Count (uvarint)│ Patches...       │
//	│ (1 byte) │               │                │                  │
//	└──────────┴───────────────┴────────────────┴──────────────────┘
//
// Each patch starts with its op byte, the target tag byte and the target
// index as a signed varint, followed by the op's payload. Nodes are encoded
// recursively with their attributes in order. Attribute values carry a type
// byte so strings, numbers, booleans and raw data survive the trip.
//
// Callbacks cannot cross a process boundary. The encoder writes only their
// presence; the decoder binds each one through the CallbackFunc passed with
// WithCallbacks, so the receiving side can route events back.
//
// Decoding enforces allocation, collection and depth limits and never
// panics on malformed input.
package wire
