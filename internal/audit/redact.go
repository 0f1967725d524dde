package audit

import (
	"encoding/json"
	"strings"
)

const (
	redactedEmail   = "***@***"
	phoneMaskLength = 10
)

// RedactPayload returns a copy of a JSON payload with PII masked: phone
// numbers keep only their last 4 digits, emails are fully masked, and
// nested objects (customer blocks in particular) are walked recursively.
// Payloads that are not JSON objects are replaced wholesale rather than
// risk leaking something unrecognized.
func RedactPayload(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return json.RawMessage(`"[UNPARSEABLE]"`)
	}
	out, err := json.Marshal(redactMap(payload))
	if err != nil {
		return json.RawMessage(`"[UNPARSEABLE]"`)
	}
	return out
}

func redactMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = redactValue(k, v)
	}
	return out
}

func redactValue(key string, v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return redactMap(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = redactValue(key, item)
		}
		return out
	case string:
		switch {
		case isPhoneKey(key):
			return MaskPhone(val)
		case isEmailKey(key):
			return redactedEmail
		}
		return val
	default:
		return v
	}
}

func isPhoneKey(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "phone") || k == "mobile_number" || k == "mobilenumber"
}

func isEmailKey(key string) bool {
	return strings.Contains(strings.ToLower(key), "email")
}

// MaskPhone reduces a phone number to its last 4 digits, left-padded with
// '*' to 10 characters.
func MaskPhone(phone string) string {
	digits := make([]rune, 0, len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	last4 := string(digits)
	if len(digits) > 4 {
		last4 = string(digits[len(digits)-4:])
	}
	return strings.Repeat("*", phoneMaskLength-len(last4)) + last4
}
