package param

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Keys that live next to the parameters in a JSON descriptor.
const (
	KeyBuildName = "build_name"
	KeyBuildDir  = "build_dir"
	KeySummary   = "summary"
)

// Bookkeeping holds the non-parameter fields of a JSON descriptor.
type Bookkeeping struct {
	BuildName string
	BuildDir  string
}

// ExportJSON writes a flat JSON object with every parameter of the set in
// schema order, followed by the bookkeeping keys and a summary object.
func ExportJSON(set Set, bk Bookkeeping, summary map[string]string) ([]byte, error) {
	if set.schema == nil {
		return nil, fmt.Errorf("cannot export a set without schema")
	}

	buf := new(bytes.Buffer)
	buf.WriteString("{\n")

	entries := make([]jsonEntry, 0, len(set.values)+3)
	for _, name := range set.schema.Names() {
		entries = append(entries, jsonEntry{name, set.values[name]})
	}

	entries = append(entries,
		jsonEntry{KeyBuildName, bk.BuildName},
		jsonEntry{KeyBuildDir, bk.BuildDir},
	)

	if summary == nil {
		summary = map[string]string{}
	}

	entries = append(entries, jsonEntry{KeySummary, summary})

	for i, e := range entries {
		k, err := json.Marshal(e.key)
		if err != nil {
			return nil, err
		}

		v, err := json.MarshalIndent(e.value, "    ", "    ")
		if err != nil {
			return nil, err
		}

		buf.WriteString("    ")
		buf.Write(k)
		buf.WriteString(": ")
		buf.Write(v)

		if i < len(entries)-1 {
			buf.WriteString(",")
		}

		buf.WriteString("\n")
	}

	buf.WriteString("}\n")

	return buf.Bytes(), nil
}

type jsonEntry struct {
	key   string
	value any
}

// ImportJSON reads a descriptor produced by ExportJSON. Every parameter of
// the schema must be present and no unknown key may appear. The returned raw
// values still need to go through Schema.Validate.
func ImportJSON(schema *Schema, data []byte) (map[string]any, Bookkeeping, error) {
	bk := Bookkeeping{}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	obj := map[string]any{}
	if err := dec.Decode(&obj); err != nil {
		return nil, bk, &MalformedImportError{Reason: "not a JSON object", Err: err}
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, bk, &MalformedImportError{Reason: "trailing data after the object"}
	}

	raw := make(map[string]any, len(obj))

	for k, v := range obj {
		switch k {
		case KeySummary:
			continue
		case KeyBuildName, KeyBuildDir:
			str, ok := v.(string)
			if !ok {
				return nil, bk, &MalformedImportError{
					Reason: fmt.Sprintf("key %q must be a string", k),
				}
			}

			if k == KeyBuildName {
				bk.BuildName = str
			} else {
				bk.BuildDir = str
			}
		default:
			if _, ok := schema.Lookup(k); !ok {
				return nil, bk, &MalformedImportError{
					Reason: fmt.Sprintf("unexpected key %q", k),
				}
			}

			raw[k] = v
		}
	}

	for _, name := range schema.Names() {
		if _, ok := raw[name]; !ok {
			return nil, bk, &MalformedImportError{
				Reason: fmt.Sprintf("missing key %q", name),
			}
		}
	}

	return raw, bk, nil
}
