package valueobject

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	tests := []struct {
		name        string
		line1       string
		city        string
		postal      string
		country     string
		opts        []AddressOption
		wantErr     bool
		errContains string
	}{
		{name: "valid", line1: "12 Market St", city: "Springfield", postal: "12345", country: "US"},
		{name: "valid with options", line1: "12 Market St", city: "Springfield", postal: "ab1 2cd", country: "UK",
			opts: []AddressOption{WithLine2("Flat 3"), WithState("Kent")}},
		{name: "missing line1", line1: "  ", city: "Springfield", postal: "12345", country: "US", wantErr: true, errContains: "line1"},
		{name: "missing city", line1: "12 Market St", postal: "12345", country: "US", wantErr: true, errContains: "city"},
		{name: "missing postal code", line1: "12 Market St", city: "Springfield", country: "US", wantErr: true, errContains: "postal_code"},
		{name: "missing country", line1: "12 Market St", city: "Springfield", postal: "12345", wantErr: true, errContains: "country"},
		{name: "postal code too long", line1: "12 Market St", city: "Springfield", postal: strings.Repeat("9", 21), country: "US", wantErr: true, errContains: "20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := NewAddress(tt.line1, tt.city, tt.postal, tt.country, tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.False(t, addr.IsEmpty())
		})
	}
}

func TestAddress_NormalisesPostalCode(t *testing.T) {
	addr, err := NewAddress("1 High St", "London", " sw1a 1aa ", "UK")
	require.NoError(t, err)
	assert.Equal(t, "SW1A 1AA", addr.PostalCode())
}

func TestAddress_String(t *testing.T) {
	addr, err := NewAddress("12 Market St", "Springfield", "12345", "US", WithState("IL"))
	require.NoError(t, err)
	assert.Equal(t, "12 Market St, Springfield, IL, 12345, US", addr.String())
	assert.Equal(t, "", Address{}.String())
}

func TestAddress_JSON(t *testing.T) {
	addr, err := NewAddress("12 Market St", "Springfield", "12345", "US", WithLine2("Unit 4"))
	require.NoError(t, err)

	data, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"postal_code":"12345"`)

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, addr.Equals(decoded))

	var empty Address
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.True(t, empty.IsEmpty())

	var bad Address
	assert.Error(t, json.Unmarshal([]byte(`{"line1":"x","city":"y","country":"US"}`), &bad))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("jo.doe+shop@example.co.uk"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("a@b"))
	assert.Equal(t, "jo@example.com", NormalizeEmail("  Jo@Example.COM "))
}
