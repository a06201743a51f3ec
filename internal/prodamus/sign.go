package prodamus

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
)

// Sign computes the Prodamus HMAC-SHA256 hex signature of a field map.
// Matches the official Hmac.php/Hmac.js: every value is stringified, keys
// are deep-sorted, the map is serialized to compact JSON, forward slashes
// are escaped as \/, and the result is signed with the secret key.
//
// A top-level "signature" field is always stripped before signing.
func Sign(data map[string]any, secretKey string) string {
	payload := canonicalJSON(data)

	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the signature of data and compares it to the one the
// gateway supplied in the Sign header. Comparison is constant-time over the
// raw digest bytes; a malformed hex signature fails closed.
func Verify(data map[string]any, secretKey, signature string) bool {
	expected, err := hex.DecodeString(Sign(data, secretKey))
	if err != nil {
		return false
	}
	supplied, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, supplied)
}

// canonicalJSON serializes data in the exact byte form Prodamus signs.
func canonicalJSON(data map[string]any) []byte {
	clean := make(map[string]any, len(data))
	for k, v := range data {
		if k == "signature" {
			continue
		}
		clean[k] = v
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// canonicalize leaves only strings/maps/slices, so Encode cannot fail
	enc.Encode(canonicalize(clean))

	out := bytes.TrimRight(buf.Bytes(), "\n")
	// The gateway escapes forward slashes the PHP way. In JSON text a slash
	// can only occur inside a string, so a blind replace is safe.
	return bytes.ReplaceAll(out, []byte("/"), []byte(`\/`))
}

// canonicalize deep-sorts maps and stringifies every leaf. encoding/json
// emits map keys in sorted (codepoint) order, which is exactly the ordering
// the gateway expects.
func canonicalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		sorted := make(map[string]any, len(val))
		for k, item := range val {
			sorted[k] = canonicalize(item)
		}
		return sorted
	case []any:
		items := make([]any, len(val))
		for i, item := range val {
			if m, ok := item.(map[string]any); ok {
				items[i] = canonicalize(m)
			} else {
				items[i] = stringify(item)
			}
		}
		return items
	default:
		return stringify(v)
	}
}

// stringify converts a scalar to its string form the way JS String() does
// for JSON-decoded values: shortest decimal for numbers, true/false for
// booleans, empty string for null.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
