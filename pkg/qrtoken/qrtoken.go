package qrtoken

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// passCodePrefix is the legacy wire form stored on an approved pass.
const passCodePrefix = "QR_PASS_"

// Payload is the structure encoded into a pass QR image. The gate only
// needs the pass id; the remaining fields exist so a scanned code is
// human-attributable.
type Payload struct {
	PassID    int    `json:"pass_id"`
	Student   string `json:"student"`
	Date      string `json:"date"`
	Timestamp string `json:"timestamp"`
}

// PassCode returns the opaque token stored on a pass when it is approved.
func PassCode(passID int, issued time.Time) string {
	return fmt.Sprintf("%s%d_%d", passCodePrefix, passID, issued.UnixMilli())
}

// Encode serialises a payload into the base64 form carried by a QR image.
func Encode(p Payload) string {
	raw, _ := json.Marshal(p)
	return base64.StdEncoding.EncodeToString(raw)
}

// Decode parses a scanned QR string. Both the base64 JSON payload and the
// bare pass-code token are accepted, since older passes render the token
// directly.
func Decode(scanned string) (*Payload, error) {
	scanned = strings.TrimSpace(scanned)
	if scanned == "" {
		return nil, fmt.Errorf("empty qr payload")
	}

	if raw, err := base64.StdEncoding.DecodeString(scanned); err == nil {
		var p Payload
		if err := json.Unmarshal(raw, &p); err == nil && p.PassID > 0 {
			return &p, nil
		}
	}

	if strings.HasPrefix(scanned, passCodePrefix) {
		rest := strings.TrimPrefix(scanned, passCodePrefix)
		idPart, _, _ := strings.Cut(rest, "_")
		id, err := strconv.Atoi(idPart)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("malformed pass code %q", scanned)
		}
		return &Payload{PassID: id}, nil
	}

	return nil, fmt.Errorf("unrecognised qr payload")
}
