// Package principal maps the identifier carried by a login session back to
// the account it names. Two disjoint account kinds exist, administrators
// and delivery partners, each with its own id space, so the identifier is
// a kind tag plus an id: "admin_7", "partner_42".
package principal

import (
	"errors"
	"strconv"
	"strings"
)

// Kind is the closed set of principal kinds.
type Kind int

const (
	KindAdmin Kind = iota + 1
	KindPartner
)

// Separator joins the kind tag and the id.
const Separator = "_"

var (
	ErrMalformedIdentifier = errors.New("malformed principal identifier")
	ErrUnknownKind         = errors.New("unknown principal kind")
)

var kindTags = map[Kind]string{
	KindAdmin:   "admin",
	KindPartner: "partner",
}

func (k Kind) String() string {
	if tag, ok := kindTags[k]; ok {
		return tag
	}
	return "unknown"
}

// Kinds lists every known kind.
func Kinds() []Kind {
	return []Kind{KindAdmin, KindPartner}
}

// ParseKind matches tag against the known kinds.
func ParseKind(tag string) (Kind, bool) {
	for k, t := range kindTags {
		if t == tag {
			return k, true
		}
	}
	return 0, false
}

// Identifier names one account of one kind.
type Identifier struct {
	Kind Kind
	ID   int64
}

func (i Identifier) String() string {
	return i.Kind.String() + Separator + strconv.FormatInt(i.ID, 10)
}

// Parse splits s on the first separator. The tag is checked before the
// remainder, so an unknown tag yields ErrUnknownKind whatever follows it.
// The remainder must be a non-empty run of ASCII digits that fits in an
// int64; anything else is ErrMalformedIdentifier.
func Parse(s string) (Identifier, error) {
	tag, rest, ok := strings.Cut(s, Separator)
	if !ok {
		return Identifier{}, ErrMalformedIdentifier
	}

	kind, ok := ParseKind(tag)
	if !ok {
		return Identifier{}, ErrUnknownKind
	}

	if !isDigits(rest) {
		return Identifier{}, ErrMalformedIdentifier
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return Identifier{}, ErrMalformedIdentifier
	}

	return Identifier{Kind: kind, ID: id}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
