package review

import (
	"encoding/base64"
	"encoding/json"
)

// Cursor marks the last review of a page. Reviews are listed newest first,
// so the next page holds IDs below AfterID.
type Cursor struct {
	AfterID int64 `json:"after_id,omitempty"`
}

// EncodeCursor returns "" for the zero cursor.
func EncodeCursor(c Cursor) string {
	if c.AfterID == 0 {
		return ""
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(raw)
}

func DecodeCursor(s string) (Cursor, error) {
	if s == "" {
		return Cursor{}, nil
	}

	raw, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, err
	}

	var c Cursor
	err = json.Unmarshal(raw, &c)
	return c, err
}
