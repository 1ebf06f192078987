package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DeliveryStatus represents whether the goods of a transaction have shipped
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
)

func (s DeliveryStatus) String() string {
	return string(s)
}

func (s DeliveryStatus) IsValid() bool {
	return s == DeliveryStatusPending || s == DeliveryStatusDelivered
}

// CanTransitionTo allows only pending -> delivered
func (s DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	return s == DeliveryStatusPending && next == DeliveryStatusDelivered
}

func (s *DeliveryStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed := DeliveryStatus(str)
	if !parsed.IsValid() {
		return fmt.Errorf("invalid delivery status %q", str)
	}
	*s = parsed
	return nil
}

func (s DeliveryStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *DeliveryStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = DeliveryStatusPending
	case string:
		*s = DeliveryStatus(v)
	case []byte:
		*s = DeliveryStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into DeliveryStatus", value)
	}
	return nil
}
