package gateway

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/laokitchen/payflow/pkg/domain/payment"
)

// StatusPayload is the decoded result of a verify-status call.
type StatusPayload struct {
	Status     payment.Status
	Code       string
	Amount     float64
	Currency   string
	Recipient  string
	FinishedAt string
}

// successCode is an alternate success signal some gateway endpoints emit
// instead of a status field.
const successCode = "00"

// DecodeStatus decodes a verify-status response body. The upstream gateway
// is inconsistent across endpoints and the tolerance here is deliberate:
// the body may be a single object or an array (first element used); the
// status lives in either "transactionStatus" or "status"; a code of "00"
// counts as SUCCESS even when no recognizable status is present. Shapes
// that match none of those decode to StatusUnknown.
func DecodeStatus(data []byte) (*StatusPayload, error) {
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("decode status payload: %w", err)
	}

	if list, ok := decoded.([]any); ok {
		if len(list) == 0 {
			return &StatusPayload{Status: payment.StatusUnknown}, nil
		}
		decoded = list[0]
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return &StatusPayload{Status: payment.StatusUnknown}, nil
	}

	p := &StatusPayload{
		Code:       asString(obj["code"]),
		Currency:   asString(obj["currency"]),
		Recipient:  firstString(obj, "receiverName", "recipient"),
		FinishedAt: asString(obj["transactionFinishTime"]),
		Amount:     asFloat(obj["amount"]),
	}

	raw := firstString(obj, "transactionStatus", "status")
	p.Status = payment.ParseStatus(raw)
	if p.Status == payment.StatusUnknown && p.Code == successCode {
		p.Status = payment.StatusSuccess
	}
	return p, nil
}

func firstString(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := asString(obj[key]); s != "" {
			return s
		}
	}
	return ""
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}
