package valueobject

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopfront/backend/internal/domain/shared"
)

// Address is an immutable shipping address.
type Address struct {
	line1      string
	line2      string
	city       string
	state      string
	postalCode string
	country    string
}

// AddressOption configures optional address fields
type AddressOption func(*Address)

// WithLine2 sets the second address line
func WithLine2(line2 string) AddressOption {
	return func(a *Address) {
		a.line2 = strings.TrimSpace(line2)
	}
}

// WithState sets the state, province or region
func WithState(state string) AddressOption {
	return func(a *Address) {
		a.state = strings.TrimSpace(state)
	}
}

// NewAddress creates a validated Address. Line1, city, postal code and
// country are required.
func NewAddress(line1, city, postalCode, country string, opts ...AddressOption) (Address, error) {
	addr := Address{
		line1:      strings.TrimSpace(line1),
		city:       strings.TrimSpace(city),
		postalCode: strings.ToUpper(strings.TrimSpace(postalCode)),
		country:    strings.TrimSpace(country),
	}
	for _, opt := range opts {
		opt(&addr)
	}

	checks := []struct {
		field string
		value string
		max   int
		req   bool
	}{
		{"line1", addr.line1, 200, true},
		{"line2", addr.line2, 200, false},
		{"city", addr.city, 100, true},
		{"state", addr.state, 100, false},
		{"postal_code", addr.postalCode, 20, true},
		{"country", addr.country, 100, true},
	}
	for _, c := range checks {
		if c.req && c.value == "" {
			return Address{}, shared.NewDomainError("INVALID_ADDRESS", fmt.Sprintf("Address %s is required", c.field))
		}
		if len(c.value) > c.max {
			return Address{}, shared.NewDomainError("INVALID_ADDRESS", fmt.Sprintf("Address %s cannot exceed %d characters", c.field, c.max))
		}
	}

	return addr, nil
}

// Line1 returns the first address line
func (a Address) Line1() string { return a.line1 }

// Line2 returns the second address line
func (a Address) Line2() string { return a.line2 }

// City returns the city
func (a Address) City() string { return a.city }

// State returns the state or region
func (a Address) State() string { return a.state }

// PostalCode returns the postal code
func (a Address) PostalCode() string { return a.postalCode }

// Country returns the country
func (a Address) Country() string { return a.country }

// IsEmpty reports whether no address was set
func (a Address) IsEmpty() bool {
	return a.line1 == "" && a.city == "" && a.postalCode == "" && a.country == ""
}

// String formats the address on one line
func (a Address) String() string {
	if a.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, 6)
	for _, p := range []string{a.line1, a.line2, a.city, a.state, a.postalCode, a.country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a == other
}

type addressJSON struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Line1:      a.line1,
		Line2:      a.line2,
		City:       a.city,
		State:      a.state,
		PostalCode: a.postalCode,
		Country:    a.country,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Non-empty input goes through
// NewAddress so stored and bound addresses obey the same rules.
func (a *Address) UnmarshalJSON(data []byte) error {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Line1 == "" && v.City == "" && v.PostalCode == "" && v.Country == "" {
		*a = Address{}
		return nil
	}
	addr, err := NewAddress(v.Line1, v.City, v.PostalCode, v.Country, WithLine2(v.Line2), WithState(v.State))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
