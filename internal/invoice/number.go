package invoice

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const hashLength = 32

func numberPrefix(invoiceDate time.Time) string {
	return fmt.Sprintf("INV-%d-", invoiceDate.Year())
}

// nextNumber increments the numeric suffix of latest, or starts the year at 00001.
func nextNumber(prefix, latest string) (string, error) {
	if latest == "" {
		return prefix + "00001", nil
	}

	seq, err := strconv.Atoi(strings.TrimPrefix(latest, prefix))
	if err != nil || !strings.HasPrefix(latest, prefix) {
		return "", fmt.Errorf("parsing invoice number %q", latest)
	}

	return fmt.Sprintf("%s%05d", prefix, seq+1), nil
}

// newHash returns an unguessable 32 hex character key for public invoice links.
func newHash(timesheetID uuid.UUID, at time.Time) string {
	sum := md5.Sum([]byte(timesheetID.String() + strconv.FormatInt(at.UnixNano(), 10) + uuid.NewString()))
	return hex.EncodeToString(sum[:])
}
