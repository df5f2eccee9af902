// Package reportkind names the two kinds of daily report users file and
// parses the kind from request parameters.
package reportkind

import (
	"errors"
	"strings"
)

// Kind is a report kind.
type Kind string

const (
	EOD  Kind = "eod"
	Memo Kind = "memo"
)

// Default is the kind used when a request does not name one.
const Default = EOD

// ErrInvalid is returned by Parse for values other than "eod" or "memo".
var ErrInvalid = errors.New("report type must be \"eod\" or \"memo\"")

// Parse converts a query parameter into a Kind. Blank input yields Default.
// Matching is case-insensitive and ignores surrounding whitespace.
func Parse(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Default, nil
	case string(EOD):
		return EOD, nil
	case string(Memo):
		return Memo, nil
	default:
		return "", ErrInvalid
	}
}

// Collection returns the MongoDB collection holding reports of this kind.
func (k Kind) Collection() string {
	if k == Memo {
		return "memo_reports"
	}
	return "eod_reports"
}

// All lists every kind.
func All() []Kind {
	return []Kind{EOD, Memo}
}

func (k Kind) String() string { return string(k) }
