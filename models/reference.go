package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewReference generates a human-readable reference number such as
// "APT-9F2C41D8". Uniqueness is enforced by the column index.
func NewReference(prefix string) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return fmt.Sprintf("%s-%s", prefix, id[:8])
}
