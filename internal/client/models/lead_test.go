package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPhones(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want PhoneList
	}{
		{name: "two numbers with space", in: "9990001111, 9990002222", want: PhoneList{"9990001111", "9990002222"}},
		{name: "single number", in: "9990001111", want: PhoneList{"9990001111"}},
		{name: "empty parts dropped", in: " ,9990001111,, ", want: PhoneList{"9990001111"}},
		{name: "repeats dropped, order kept", in: "2,1,2,3", want: PhoneList{"2", "1", "3"}},
		{name: "empty string", in: "", want: PhoneList{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitPhones(tt.in))
		})
	}
}

func TestPhoneList_UnmarshalWireForms(t *testing.T) {
	tests := []struct {
		name string
		json string
		want PhoneList
	}{
		{name: "comma joined string", json: `{"mobileNumber":"9990001111, 9990002222"}`, want: PhoneList{"9990001111", "9990002222"}},
		{name: "array", json: `{"mobileNumber":[" 1 ","2"]}`, want: PhoneList{"1", "2"}},
		{name: "bare number", json: `{"mobileNumber":9990001111}`, want: PhoneList{"9990001111"}},
		{name: "null", json: `{"mobileNumber":null}`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l Lead
			require.NoError(t, json.Unmarshal([]byte(tt.json), &l))
			assert.Equal(t, tt.want, l.PhoneNumbers)
		})
	}
}

func TestPhoneList_UnmarshalRejectsObject(t *testing.T) {
	var l Lead
	require.Error(t, json.Unmarshal([]byte(`{"mobileNumber":{"a":1}}`), &l))
}

func TestPhoneList_MarshalsAsArray(t *testing.T) {
	b, err := json.Marshal(Lead{ID: "1", PhoneNumbers: PhoneList{"1", "2"}})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"mobileNumber":["1","2"]`)

	b, err = json.Marshal(Lead{ID: "2"})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"mobileNumber":[]`)
}

func TestPhoneList_PrimaryAndString(t *testing.T) {
	assert.Equal(t, "", PhoneList(nil).Primary())
	p := PhoneList{"1", "2"}
	assert.Equal(t, "1", p.Primary())
	assert.Equal(t, "1, 2", p.String())
}

func TestLead_Matches(t *testing.T) {
	l := Lead{Name: "Ravi Kumar", PhoneNumbers: PhoneList{"9990001111", "8880002222"}, AssignedTo: "Priya"}

	tests := []struct {
		q    string
		want bool
	}{
		{"", true},
		{"ravi", true},
		{"KUMAR", true},
		{"0002222", true},
		{"priya", true},
		{"  Ri  ", true},
		{"amit", false},
		{"7770", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, l.Matches(tt.q), "query %q", tt.q)
	}
}
