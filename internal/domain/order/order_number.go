package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultOrderNumberPrefix is used when no prefix is configured
const DefaultOrderNumberPrefix = "SF"

// GenerateOrderNumber returns a human-friendly order number such as
// SF-20260601-7F3A19C2. The suffix is random, uniqueness is enforced by
// the database.
func GenerateOrderNumber(prefix string, now time.Time) string {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = DefaultOrderNumberPrefix
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return prefix + "-" + now.UTC().Format("20060102") + "-" + suffix
}

// NormalizeOrderNumber trims and upper-cases an order number typed by a customer
func NormalizeOrderNumber(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}
