package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Document number prefixes
const (
	PrefixTransaction = "TRX"
	PrefixDelivery    = "DEL"
	PrefixRefund      = "RFD"
	PrefixInvoice     = "INV"
)

const dateStamp = "20060102"

// GenerateDocumentNo returns PREFIX-YYYYMMDD-XXXXXXXX with a random upper-case suffix
func GenerateDocumentNo(prefix string, at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return prefix + "-" + at.Format(dateStamp) + "-" + suffix
}

// DeliveryBatchNo formats the number for the next delivery batch of a
// transaction. The sequence is the count of batches already recorded for the
// same transaction plus one, so it is only unique per transaction.
func DeliveryBatchNo(at time.Time, existingBatches int64) string {
	return fmt.Sprintf("%s-%s-%03d", PrefixDelivery, at.Format(dateStamp), existingBatches+1)
}
