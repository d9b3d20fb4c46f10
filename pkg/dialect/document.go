package dialect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Document is one schema document supplied by the caller. The core performs
// no file or network I/O; resolving a document name to bytes is the
// collaborator's responsibility.
type Document struct {
	// Name identifies the document for include resolution.
	Name string

	// Data is the raw TOML document.
	Data []byte
}

// fileDocument mirrors the TOML document structure.
type fileDocument struct {
	Include []string      `toml:"include"`
	Message []fileMessage `toml:"message"`
}

type fileMessage struct {
	ID       int64       `toml:"id"`
	Name     string      `toml:"name"`
	CRCExtra *int64      `toml:"crc_extra"`
	Field    []fileField `toml:"field"`
}

type fileField struct {
	Name  string `toml:"name"`
	Type  string `toml:"type"`
	Units string `toml:"units"`
	Ext   bool   `toml:"ext"`
}

func parseDocument(doc Document) (*fileDocument, error) {
	var fd fileDocument
	if err := toml.Unmarshal(doc.Data, &fd); err != nil {
		return nil, fmt.Errorf("%w: document %q: %v", ErrMalformed, doc.Name, err)
	}
	return &fd, nil
}

// parseTypeSpec splits a document type spec like "uint16_t[4]" into its
// element type and count.
func parseTypeSpec(spec string) (FieldType, int, error) {
	base := spec
	count := 1

	if i := strings.IndexByte(spec, '['); i >= 0 {
		if !strings.HasSuffix(spec, "]") {
			return 0, 0, fmt.Errorf("malformed array suffix in %q", spec)
		}
		n, err := strconv.Atoi(spec[i+1 : len(spec)-1])
		if err != nil || n < 1 || n > 255 {
			return 0, 0, fmt.Errorf("invalid array length in %q", spec)
		}
		base = spec[:i]
		count = n
	}

	t, err := parseBaseType(base)
	if err != nil {
		return 0, 0, err
	}
	return t, count, nil
}

func parseBaseType(name string) (FieldType, error) {
	switch name {
	case "uint8_t":
		return TypeUint8, nil
	case "int8_t":
		return TypeInt8, nil
	case "uint16_t":
		return TypeUint16, nil
	case "int16_t":
		return TypeInt16, nil
	case "uint32_t":
		return TypeUint32, nil
	case "int32_t":
		return TypeInt32, nil
	case "uint64_t":
		return TypeUint64, nil
	case "int64_t":
		return TypeInt64, nil
	case "float":
		return TypeFloat, nil
	case "double":
		return TypeDouble, nil
	case "char":
		return TypeChar, nil
	default:
		return 0, fmt.Errorf("unknown field type %q", name)
	}
}
