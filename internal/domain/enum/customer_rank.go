package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// CustomerRank is a loyalty tier shown on customer records and receipts
type CustomerRank string

const (
	CustomerRankStandard CustomerRank = "standard"
	CustomerRankSilver   CustomerRank = "silver"
	CustomerRankGold     CustomerRank = "gold"
	CustomerRankPlatinum CustomerRank = "platinum"
	CustomerRankVIP      CustomerRank = "vip"
)

// CustomerRanks lists every rank from lowest to highest
var CustomerRanks = []CustomerRank{
	CustomerRankStandard,
	CustomerRankSilver,
	CustomerRankGold,
	CustomerRankPlatinum,
	CustomerRankVIP,
}

func (r CustomerRank) String() string {
	return string(r)
}

func (r CustomerRank) IsValid() bool {
	for _, known := range CustomerRanks {
		if r == known {
			return true
		}
	}
	return false
}

// ParseCustomerRank accepts any casing; an empty string means standard
func ParseCustomerRank(s string) (CustomerRank, error) {
	if s == "" {
		return CustomerRankStandard, nil
	}
	r := CustomerRank(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("invalid customer rank %q", s)
	}
	return r, nil
}

func (r *CustomerRank) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseCustomerRank(str)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r CustomerRank) Value() (driver.Value, error) {
	if r == "" {
		return string(CustomerRankStandard), nil
	}
	return string(r), nil
}

func (r *CustomerRank) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*r = CustomerRankStandard
	case string:
		*r = CustomerRank(v)
	case []byte:
		*r = CustomerRank(v)
	default:
		return fmt.Errorf("cannot scan %T into CustomerRank", value)
	}
	return nil
}
