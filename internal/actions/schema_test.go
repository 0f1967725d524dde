package actions

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayloadEmptyTreatedAsObject(t *testing.T) {
	var p leadPayload
	errBody := decodePayload(nil, &p)
	require.Nil(t, errBody)

	// Required-field checks still fire with proper paths.
	v := p.validate()
	require.NotNil(t, v)
	assert.ElementsMatch(t, []string{"name", "phone", "issueDescription"}, v.MissingFields)
}

func TestDecodePayloadWrongShape(t *testing.T) {
	var p leadPayload
	errBody := decodePayload(json.RawMessage(`["not","an","object"]`), &p)
	require.NotNil(t, errBody)
	assert.Equal(t, CodeValidationError, errBody.Code)
}

func TestBookingValidateCollectsNestedPaths(t *testing.T) {
	p := bookingPayload{FirstName: "Jane", LastName: "Doe", Phone: "6175551234"}
	v := p.validate()
	require.NotNil(t, v)
	assert.Contains(t, v.MissingFields, "address.street")
	assert.Contains(t, v.MissingFields, "address.zip")
	assert.Contains(t, v.MissingFields, "serviceType")
	assert.NotContains(t, v.MissingFields, "firstName")
}

func TestSelectDateValidateFormat(t *testing.T) {
	assert.Nil(t, selectDatePayload{Date: "2025-06-01"}.validate())
	assert.NotNil(t, selectDatePayload{Date: "06/01/2025"}.validate())
	assert.NotNil(t, selectDatePayload{}.validate())
}

func TestWhitespaceOnlyFieldsAreMissing(t *testing.T) {
	p := leadPayload{Name: "  ", Phone: "6175551234", IssueDescription: "x"}
	v := p.validate()
	require.NotNil(t, v)
	assert.Equal(t, []string{"name"}, v.MissingFields)
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		slot string
		want TimeWindow
	}{
		{"08:00 - 11:00", WindowMorning},
		{"09:00 - 12:00", WindowMorning},
		{"11:00 - 14:00", WindowMidday},
		{"14:00 - 17:00", WindowAfternoon},
		{"2:00 PM - 5:00 PM", WindowAfternoon},
		{"17:00 - 19:00", WindowEvening},
		{"5:00 PM - 7:00 PM", WindowEvening},
		{"anything else", WindowMorning},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bucketFor(tt.slot), tt.slot)
	}
}

func TestConfirmationNumber(t *testing.T) {
	assert.Equal(t, "2B3C4D5E", confirmationNumber("job_1a2b3c4d5e"))
	assert.Equal(t, "AB12", confirmationNumber("ab12"))
}
