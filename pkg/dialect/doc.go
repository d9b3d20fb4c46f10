// Package dialect loads and indexes telemetry message definitions.
//
// A dialect is a set of message definitions described in declarative TOML
// documents. A primary document may include further documents by name; the
// caller supplies all document bytes up front, so this package performs no
// file or network I/O of its own.
//
// # Usage
//
// Load a schema and look up definitions:
//
//	schema, err := dialect.Load(primary, common)
//	if err != nil {
//	    return err
//	}
//	msg, ok := schema.MessageByID(0)
//
// For a long-lived pipeline, use a Registry so the schema can be swapped
// atomically at runtime:
//
//	reg := dialect.NewRegistry()
//	if _, err := reg.Load(primary); err != nil {
//	    return err
//	}
//	// decoders call reg.Schema() per frame, lock-free
//
// # Document format
//
// Each document lists messages and their fields in declaration order:
//
//	include = ["common"]
//
//	[[message]]
//	id = 0
//	name = "HEARTBEAT"
//
//	[[message.field]]
//	name = "type"
//	type = "uint8_t"
//
//	[[message.field]]
//	name = "custom_mode"
//	type = "uint32_t"
//
// Wire layout is derived from the declaration: non-extension fields are
// size-sorted (stable) and packed without padding, and the message's
// crc-extra checksum seed is derived from the resulting canonical layout. A
// document may pin an explicit crc_extra for dialects that ship precomputed
// seeds.
package dialect
