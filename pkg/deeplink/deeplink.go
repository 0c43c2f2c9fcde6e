// Package deeplink parses inbound OS URL events into structured commands.
// It is pure parsing: no I/O, no retained state.
package deeplink

import (
	"errors"
	"net/url"
	"strings"
)

// PathPay is the single recognized deep-link path. It carries the banking
// app's payment callback.
const PathPay = "pay"

// Query parameter names carried by a payment callback. Both are optional;
// the coordinator falls back to its tracked transaction id and current
// session token when they are absent.
const (
	ParamToken         = "token"
	ParamTransactionID = "transactionId"
)

// ErrNotApplicable is returned for URLs whose path is not recognized.
// Callers must ignore the event entirely; it is not a failure.
var ErrNotApplicable = errors.New("deep link not applicable")

// Link is the structured result of parsing one inbound URL.
type Link struct {
	Path   string
	Params map[string]string
}

// Parse strips the custom scheme, splits path from query and decodes the
// `&`-joined key=value pairs. Values are URI-decoded; pairs without `=`
// are dropped silently. All values stay strings; interpretation is the
// caller's job.
func Parse(raw string) (*Link, error) {
	rest := raw
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}

	path := rest
	query := ""
	if i := strings.Index(rest, "?"); i >= 0 {
		path = rest[:i]
		query = rest[i+1:]
	}
	path = strings.Trim(path, "/")

	if path != PathPay {
		return nil, ErrNotApplicable
	}

	params := make(map[string]string)
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			continue
		}
		if decoded, err := url.QueryUnescape(value); err == nil {
			value = decoded
		}
		params[key] = value
	}

	return &Link{Path: path, Params: params}, nil
}
