package store

import (
	"encoding/base64"
	"fmt"
	"time"
)

// History cursors encode the last-seen (checked_at, id) pair so paging can
// resume exactly where it stopped even while new records are being appended.
// The format is opaque to callers.

func encodeCursor(checkedAt time.Time, id uint) string {
	raw := fmt.Sprintf("%d:%d", checkedAt.UTC().UnixNano(), id)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(cursor string) (time.Time, uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)

	if err != nil {
		return time.Time{}, 0, ErrInvalidCursor
	}

	var nanos int64
	var id uint

	if _, err := fmt.Sscanf(string(raw), "%d:%d", &nanos, &id); err != nil {
		return time.Time{}, 0, ErrInvalidCursor
	}

	return time.Unix(0, nanos).UTC(), id, nil
}
