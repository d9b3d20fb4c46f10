// Package extract maps validated frames to named, typed field values.
//
// One generic decode routine interprets each message definition's
// offset/size/type tuples at runtime, so dialects unknown at build time
// decode without code generation. Array fields expand to indexed keys
// ("MESSAGE.field.0", "MESSAGE.field.1", ...).
package extract
