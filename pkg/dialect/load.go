package dialect

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gl-labs/groundlink/pkg/x25"
)

// Load errors, checked with errors.Is. A failed load never disturbs a
// previously published schema.
var (
	// ErrMalformed is returned for structurally invalid schema documents.
	ErrMalformed = errors.New("dialect: malformed document")

	// ErrDuplicateID is returned when two messages share a numeric id.
	ErrDuplicateID = errors.New("dialect: duplicate message id")

	// ErrUnresolvedInclude is returned when a referenced include is not
	// among the supplied documents.
	ErrUnresolvedInclude = errors.New("dialect: unresolved include")
)

// maxMessageID is the largest id expressible in an extended frame header.
const maxMessageID = 1<<24 - 1

// Load parses the primary document plus any documents it includes
// (transitively) into a single Schema. Includes are resolved by name against
// the supplied set only. The returned Schema is fully built and immutable.
func Load(primary Document, includes ...Document) (*Schema, error) {
	byName := make(map[string]Document, len(includes))
	for _, d := range includes {
		byName[d.Name] = d
	}

	schema := &Schema{
		byID:   make(map[uint32]*Message),
		byName: make(map[string]*Message),
	}

	visited := map[string]bool{primary.Name: true}
	queue := []Document{primary}

	for len(queue) > 0 {
		doc := queue[0]
		queue = queue[1:]

		fd, err := parseDocument(doc)
		if err != nil {
			return nil, err
		}

		for _, inc := range fd.Include {
			if visited[inc] {
				continue
			}
			d, ok := byName[inc]
			if !ok {
				return nil, fmt.Errorf("%w: %q included by %q", ErrUnresolvedInclude, inc, doc.Name)
			}
			visited[inc] = true
			queue = append(queue, d)
		}

		for _, fm := range fd.Message {
			msg, err := buildMessage(fm, doc.Name)
			if err != nil {
				return nil, err
			}
			if prev, ok := schema.byID[msg.ID]; ok {
				return nil, fmt.Errorf("%w: id %d used by %q and %q", ErrDuplicateID, msg.ID, prev.Name, msg.Name)
			}
			if _, ok := schema.byName[msg.Name]; ok {
				return nil, fmt.Errorf("%w: document %q: message name %q already defined", ErrMalformed, doc.Name, msg.Name)
			}
			schema.byID[msg.ID] = msg
			schema.byName[msg.Name] = msg
		}
	}

	return schema, nil
}

func buildMessage(fm fileMessage, docName string) (*Message, error) {
	if fm.Name == "" {
		return nil, fmt.Errorf("%w: document %q: message with id %d has no name", ErrMalformed, docName, fm.ID)
	}
	if fm.ID < 0 || fm.ID > maxMessageID {
		return nil, fmt.Errorf("%w: document %q: message %q id %d out of range", ErrMalformed, docName, fm.Name, fm.ID)
	}
	if len(fm.Field) == 0 {
		return nil, fmt.Errorf("%w: document %q: message %q has no fields", ErrMalformed, docName, fm.Name)
	}

	fields := make([]Field, 0, len(fm.Field))
	seen := make(map[string]bool, len(fm.Field))
	for _, ff := range fm.Field {
		if ff.Name == "" {
			return nil, fmt.Errorf("%w: document %q: message %q has an unnamed field", ErrMalformed, docName, fm.Name)
		}
		if seen[ff.Name] {
			return nil, fmt.Errorf("%w: document %q: message %q: duplicate field %q", ErrMalformed, docName, fm.Name, ff.Name)
		}
		seen[ff.Name] = true

		t, count, err := parseTypeSpec(ff.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: document %q: message %q field %q: %v", ErrMalformed, docName, fm.Name, ff.Name, err)
		}
		fields = append(fields, Field{
			Name:      ff.Name,
			Type:      t,
			Count:     count,
			Units:     ff.Units,
			Extension: ff.Ext,
		})
	}

	orderWire(fields)

	msg := &Message{
		ID:     uint32(fm.ID),
		Name:   fm.Name,
		Fields: fields,
	}

	offset := 0
	for i := range msg.Fields {
		msg.Fields[i].Offset = offset
		offset += msg.Fields[i].ByteLen()
	}
	msg.Length = offset

	if fm.CRCExtra != nil {
		if *fm.CRCExtra < 0 || *fm.CRCExtra > 255 {
			return nil, fmt.Errorf("%w: document %q: message %q crc_extra %d out of range", ErrMalformed, docName, fm.Name, *fm.CRCExtra)
		}
		msg.CRCExtra = byte(*fm.CRCExtra)
	} else {
		msg.CRCExtra = deriveCRCExtra(msg)
	}

	return msg, nil
}

// orderWire arranges fields into wire order: non-extension fields sorted by
// element size descending (stable, so declaration order breaks ties),
// extension fields appended in declaration order.
func orderWire(fields []Field) {
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].Extension != fields[j].Extension {
			return !fields[i].Extension
		}
		if fields[i].Extension {
			return false
		}
		return fields[i].Type.Size() > fields[j].Type.Size()
	})
}

// deriveCRCExtra computes the checksum seed from the canonical field layout.
// The accumulation covers the message name and each non-extension field's
// type spelling, name, and array length, all in wire order. Senders and
// receivers derive the same seed only if their definitions agree exactly.
func deriveCRCExtra(m *Message) byte {
	a := x25.New()
	a.AccumulateBytes([]byte(m.Name + " "))
	for _, f := range m.Fields {
		if f.Extension {
			continue
		}
		a.AccumulateBytes([]byte(f.Type.String() + " " + f.Name + " "))
		if f.Count > 1 {
			a.Accumulate(byte(f.Count))
		}
	}
	sum := a.Sum16()
	return byte(sum&0xFF) ^ byte(sum>>8)
}
