package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateTransactionReference returns TXN_<unix millis>_<8 upper alphanumerics>.
func GenerateTransactionReference() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("TXN_%d_%s", time.Now().UnixMilli(), suffix)
}
