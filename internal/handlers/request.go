package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/BradenHooton/complaintbox/internal/services"
	pkghttp "github.com/BradenHooton/complaintbox/pkg/http"
)

var (
	errIDMissing = errors.New("complaint id missing")
	errIDInvalid = errors.New("complaint id invalid")
)

// parseComplaintID accepts a JSON integer or a string holding one. A numeric
// zero counts as absent, like an empty string.
func parseComplaintID(raw json.RawMessage) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, errIDMissing
	}

	var text string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, errIDInvalid
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return 0, errIDMissing
		}
	} else {
		text = string(raw)
	}

	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		// integral floats such as 5.0
		f, ferr := strconv.ParseFloat(text, 64)
		if raw[0] == '"' || ferr != nil || f != math.Trunc(f) || math.Abs(f) >= 1<<53 {
			return 0, errIDInvalid
		}
		id = int64(f)
	}

	if id == 0 && raw[0] != '"' {
		return 0, errIDMissing
	}
	return id, nil
}

// clientInfo extracts the caller's address and agent for audit records
func clientInfo(r *http.Request, ipConfig *pkghttp.IPConfig) services.ClientInfo {
	return services.ClientInfo{
		IPAddress: pkghttp.ExtractClientIP(r, ipConfig),
		UserAgent: r.UserAgent(),
	}
}
