package chatgraph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/ohler55/ojg/oj"
	"github.com/xeipuuv/gojsonschema"
)

var (
	blankLines  = regexp.MustCompile(`\n\s*\n`)
	whitespaces = regexp.MustCompile(`\s+`)
)

// cleanedResponse is a model response after cleaning.
type cleanedResponse struct {
	text   string
	value  any
	isJSON bool
}

// cleanResponse normalizes a raw model response.
//
// JSON responses are re-serialized canonically. With repair set, a response
// that does not parse is repaired and parsed again before falling back to
// text. Text responses have blank-line runs collapsed, are trimmed, and have
// whitespace runs collapsed to a single space.
func cleanResponse(raw string, repair bool) cleanedResponse {
	if strings.TrimSpace(raw) == "" {
		return cleanedResponse{}
	}

	if r, ok := parseJSON(raw); ok {
		return r
	}

	if repair && looksLikeJSON(raw) {
		if fixed, err := jsonrepair.JSONRepair(raw); err == nil {
			if r, ok := parseJSON(fixed); ok {
				return r
			}
		}
	}

	text := blankLines.ReplaceAllString(raw, "\n")
	text = strings.TrimSpace(text)
	text = whitespaces.ReplaceAllString(text, " ")
	return cleanedResponse{text: text}
}

// parseJSON parses s and re-serializes it canonically. It fails when s is not
// JSON or holds a number no float64 can represent.
func parseJSON(s string) (cleanedResponse, bool) {
	v, err := oj.ParseString(s)
	if err != nil {
		return cleanedResponse{}, false
	}
	text, err := canonicalJSON(v)
	if err != nil {
		return cleanedResponse{}, false
	}
	return cleanedResponse{text: text, value: v, isJSON: true}, true
}

// canonicalJSON writes v as compact JSON with sorted keys and without
// escaping HTML characters. Floats keep a fraction or exponent so they parse
// back as floats, and json.Number values are written as bare literals.
func canonicalJSON(v any) (string, error) {
	literal, err := numberLiterals(v)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(literal); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// numberLiterals copies v with every float64 replaced by its json.Number
// literal.
func numberLiterals(v any) (any, error) {
	switch val := v.(type) {
	case float64:
		if math.IsInf(val, 0) || math.IsNaN(val) {
			return nil, fmt.Errorf("number out of range: %v", val)
		}
		lit := strconv.FormatFloat(val, 'g', -1, 64)
		if !strings.ContainsAny(lit, ".eE") {
			lit += ".0"
		}
		return json.Number(lit), nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			conv, err := numberLiterals(item)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			conv, err := numberLiterals(item)
			if err != nil {
				return nil, err
			}
			out[k] = conv
		}
		return out, nil
	}
	return v, nil
}

// looksLikeJSON reports whether s opens an object or array. Repair is only
// attempted on those, so plain prose is never turned into a JSON string.
func looksLikeJSON(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}

// validate returns "" when the response is usable, otherwise the reason it
// is not.
func (r cleanedResponse) validate(schema *gojsonschema.Schema) string {
	if r.text == "" {
		return "empty response"
	}
	if !r.isJSON {
		return ""
	}
	if !truthy(r.value) {
		return "empty JSON value " + r.text
	}
	if schema != nil {
		result, err := schema.Validate(gojsonschema.NewGoLoader(r.value))
		if err != nil {
			return "schema validation: " + err.Error()
		}
		if !result.Valid() {
			msgs := make([]string, 0, len(result.Errors()))
			for _, e := range result.Errors() {
				msgs = append(msgs, e.String())
			}
			return "schema mismatch: " + strings.Join(msgs, "; ")
		}
	}
	return ""
}

// truthy reports whether v counts as a present, non-empty value:
// nil, false, zero numbers, empty strings and empty collections do not.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int64:
		return val != 0
	case float64:
		return val != 0
	case int:
		return val != 0
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String, reflect.Chan:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return !rv.IsZero()
	}
	return true
}
