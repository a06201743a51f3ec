package prodamus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestSignVerifyRoundTrip(t *testing.T) {
	data := map[string]any{
		"order_id":       "M-1700000000000-abc123",
		"customer_email": "buyer@example.com",
		"sum":            1990,
		"products": []any{
			map[string]any{"name": "Марафон", "price": "1990", "quantity": "1"},
		},
	}

	sig := Sign(data, testSecret)
	require.Len(t, sig, 64)
	assert.Equal(t, strings.ToLower(sig), sig, "signature must be lowercase hex")
	assert.True(t, Verify(data, testSecret, sig))
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	data := map[string]any{"order_id": "M-1", "payment_status": "success"}
	sig := Sign(data, testSecret)

	for i := 0; i < len(sig); i++ {
		flipped := sig[:i] + flipHexChar(sig[i:i+1]) + sig[i+1:]
		assert.False(t, Verify(data, testSecret, flipped), "flipped char at %d must fail", i)
	}
}

func TestVerifyRejectsMalformedHex(t *testing.T) {
	data := map[string]any{"order_id": "M-1"}
	assert.False(t, Verify(data, testSecret, "not-hex-at-all"))
	assert.False(t, Verify(data, testSecret, ""))
	// right charset, wrong length
	assert.False(t, Verify(data, testSecret, "abcd"))
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	data := map[string]any{"order_id": "M-1"}
	sig := Sign(data, testSecret)
	assert.False(t, Verify(data, "other-key", sig))
}

func TestSignStripsSignatureField(t *testing.T) {
	clean := map[string]any{"a": "1", "b": "2"}
	withSig := map[string]any{"a": "1", "b": "2", "signature": "deadbeef"}

	assert.Equal(t, Sign(clean, testSecret), Sign(withSig, testSecret))
}

func TestCanonicalJSONSortsAndStringifies(t *testing.T) {
	data := map[string]any{
		"b":    2,
		"a":    true,
		"zero": nil,
		"n": map[string]any{
			"y": 1.5,
			"x": "v",
		},
		"items": []any{
			map[string]any{"price": 1990, "name": "X"},
			"plain",
			7,
		},
	}

	want := `{"a":"true","b":"2","items":[{"name":"X","price":"1990"},"plain","7"],"n":{"x":"v","y":"1.5"},"zero":""}`
	assert.Equal(t, want, string(canonicalJSON(data)))
}

func TestCanonicalJSONEscapesSlashes(t *testing.T) {
	withSlash := map[string]any{"a": "x/y"}
	assert.Equal(t, `{"a":"x\/y"}`, string(canonicalJSON(withSlash)))

	// A URL field differs from its slashless twin only in the escaped bytes,
	// and the two signatures must differ.
	assert.NotEqual(t, Sign(withSlash, testSecret), Sign(map[string]any{"a": "x_y"}, testSecret))

	url := map[string]any{"urlSuccess": "https://site.example/payment-success"}
	assert.Equal(t,
		`{"urlSuccess":"https:\/\/site.example\/payment-success"}`,
		string(canonicalJSON(url)))
}

func TestCanonicalJSONDoesNotEscapeHTML(t *testing.T) {
	// JS JSON.stringify leaves & < > alone; encoding/json must not turn
	// them into \u00xx escapes or the signature breaks.
	data := map[string]any{"customer_extra": "Имя: A&B <test>"}
	assert.Equal(t, `{"customer_extra":"Имя: A&B <test>"}`, string(canonicalJSON(data)))
}

func flipHexChar(s string) string {
	if s == "0" {
		return "1"
	}
	return "0"
}
