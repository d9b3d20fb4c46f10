package dialect

import "fmt"

// FieldType identifies the primitive wire type of a field element.
type FieldType int

const (
	TypeUint8 FieldType = iota
	TypeInt8
	TypeUint16
	TypeInt16
	TypeUint32
	TypeInt32
	TypeUint64
	TypeInt64
	TypeFloat
	TypeDouble
	TypeChar
)

// Size returns the element size in bytes.
func (t FieldType) Size() int {
	switch t {
	case TypeUint8, TypeInt8, TypeChar:
		return 1
	case TypeUint16, TypeInt16:
		return 2
	case TypeUint32, TypeInt32, TypeFloat:
		return 4
	case TypeUint64, TypeInt64, TypeDouble:
		return 8
	default:
		return 0
	}
}

// String returns the C-style type name as it appears in schema documents.
// This spelling participates in crc-extra derivation and must not change.
func (t FieldType) String() string {
	switch t {
	case TypeUint8:
		return "uint8_t"
	case TypeInt8:
		return "int8_t"
	case TypeUint16:
		return "uint16_t"
	case TypeInt16:
		return "int16_t"
	case TypeUint32:
		return "uint32_t"
	case TypeInt32:
		return "int32_t"
	case TypeUint64:
		return "uint64_t"
	case TypeInt64:
		return "int64_t"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeChar:
		return "char"
	default:
		return "unknown"
	}
}

// Field describes one field of a message as laid out on the wire.
type Field struct {
	// Name is the field identifier, unique within its message.
	Name string

	// Type is the element type.
	Type FieldType

	// Count is the number of elements; 1 for scalars, >1 for arrays.
	Count int

	// Offset is the byte offset within the payload, assigned in wire order.
	Offset int

	// Units is free-form physical unit metadata; not used in decoding.
	Units string

	// Extension marks fields appended after the original definition froze.
	// Extension fields keep declaration order at the end of the payload and
	// do not participate in crc-extra derivation.
	Extension bool
}

// ByteLen returns the total wire size of the field.
func (f Field) ByteLen() int {
	return f.Type.Size() * f.Count
}

// Message is one message definition with its wire layout resolved.
type Message struct {
	// ID is the numeric message identifier (24-bit on extended frames).
	ID uint32

	// Name is the message identifier, unique within a schema.
	Name string

	// Fields is the field list in wire order (size-sorted, extensions last).
	Fields []Field

	// Length is the declared payload length in bytes.
	Length int

	// CRCExtra is the checksum seed derived from the canonical field layout.
	CRCExtra byte
}

// Schema is the full set of loaded message definitions. It is immutable
// once built, so concurrent decoders may read it without locking.
type Schema struct {
	byID   map[uint32]*Message
	byName map[string]*Message
}

// MessageByID looks up a definition by numeric id.
func (s *Schema) MessageByID(id uint32) (*Message, bool) {
	m, ok := s.byID[id]
	return m, ok
}

// MessageByName looks up a definition by name.
func (s *Schema) MessageByName(name string) (*Message, bool) {
	m, ok := s.byName[name]
	return m, ok
}

// Len returns the number of loaded message definitions.
func (s *Schema) Len() int {
	return len(s.byID)
}

// FieldKey returns the store key for a scalar field: "MESSAGE.field".
func FieldKey(message, field string) string {
	return message + "." + field
}

// ElementKey returns the store key for one array element: "MESSAGE.field.3".
func ElementKey(message, field string, index int) string {
	return fmt.Sprintf("%s.%s.%d", message, field, index)
}
