package resource

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cast"

	"vetcare/internal/domain"
)

// Immutable lists the keys an update never applies.
var Immutable = []string{
	"id", "tenantId", "branchId", "clientId", "patientId", "ownerId",
	"createdAt", "updatedAt", "batches", "items",
}

// Sanitize keeps only declared fields of spec. Relation objects, owned
// sub-collections (notes, attachments, owner) and unknown keys are dropped.
// Object values are kept only for JSON fields.
func Sanitize(spec *Spec, in map[string]any) Record {
	out := make(Record, len(in))
	for k, v := range in {
		f, ok := spec.Field(k)
		if !ok {
			continue
		}
		if f.Kind != KindJSON {
			switch v.(type) {
			case map[string]any, []any:
				continue
			}
		}
		out[k] = v
	}
	return out
}

// ExtractNested pulls the nested child payloads spec allows to be written
// with the parent. Per-row foreign keys are removed; the parent insert
// establishes the relation.
func ExtractNested(spec *Spec, in map[string]any) map[string][]Record {
	nested := make(map[string][]Record)
	for _, c := range spec.Children {
		if !c.Nested {
			continue
		}
		raw, ok := in[c.Name].([]any)
		if !ok {
			continue
		}
		fkName := fieldNameForColumn(c.Spec, c.ForeignKey)
		rows := make([]Record, 0, len(raw))
		for _, item := range raw {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			row := Sanitize(c.Spec, m)
			delete(row, fkName)
			rows = append(rows, row)
		}
		nested[c.Name] = rows
	}
	return nested
}

// Encode converts the value of a JSON field to its column value.
func Encode(f Field, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch f.Kind {
	case KindNumber:
		n, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a number", domain.ErrValidation, f.Name)
		}
		return n, nil
	case KindInt:
		n, err := cast.ToInt64E(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrValidation, f.Name)
		}
		return n, nil
	case KindBool:
		b, err := cast.ToBoolE(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a boolean", domain.ErrValidation, f.Name)
		}
		return b, nil
	case KindTime:
		if t, ok := v.(time.Time); ok {
			return t, nil
		}
		s, err := cast.ToStringE(v)
		if err != nil || s == "" {
			return nil, nil
		}
		if t, ok := parseDate(s); ok {
			return t, nil
		}
		return nil, fmt.Errorf("%w: %s must be a date", domain.ErrValidation, f.Name)
	case KindJSON:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrValidation, f.Name, err)
		}
		return string(b), nil
	default:
		if t, ok := v.(time.Time); ok {
			return formatTime(t), nil
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a string", domain.ErrValidation, f.Name)
		}
		return s, nil
	}
}

// Decode converts a scanned row keyed by column to a Record keyed by JSON
// name. Hidden fields and undeclared columns are omitted.
func Decode(spec *Spec, row map[string]any) Record {
	out := make(Record, len(spec.Fields))
	for _, f := range spec.Fields {
		if f.Hidden {
			continue
		}
		v, ok := row[f.Column]
		if !ok {
			continue
		}
		out[f.Name] = decodeValue(f, v)
	}
	return out
}

func decodeValue(f Field, v any) any {
	if v == nil {
		return nil
	}
	switch f.Kind {
	case KindJSON:
		var raw []byte
		switch b := v.(type) {
		case []byte:
			raw = b
		case string:
			raw = []byte(b)
		default:
			return v
		}
		var out any
		if err := json.Unmarshal(raw, &out); err != nil {
			return string(raw)
		}
		return out
	case KindNumber:
		return cast.ToFloat64(v)
	case KindInt:
		return cast.ToInt64(v)
	case KindBool:
		return cast.ToBool(v)
	case KindText:
		if b, ok := v.([]byte); ok {
			return string(b)
		}
		return v
	default:
		return v
	}
}

func formatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339Nano)
}

func fieldNameForColumn(spec *Spec, column string) string {
	for _, f := range spec.Fields {
		if f.Column == column {
			return f.Name
		}
	}
	return column
}
