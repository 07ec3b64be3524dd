// Package domain provides the caller-facing handle types used to address a passport.
package domain

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	dErrors "passport/pkg/domain-errors"
	"passport/pkg/validation"
)

// PassportID is the positive numeric identifier assigned by the identity registry.
type PassportID uint64

func (id PassportID) String() string { return strconv.FormatUint(uint64(id), 10) }

// IsZero reports whether the identifier is unset. The registry never issues 0.
func (id PassportID) IsZero() bool { return id == 0 }

// HandleKind distinguishes the two handle forms.
type HandleKind uint8

const (
	HandleIdentifier HandleKind = iota + 1
	HandleOwner
)

func (k HandleKind) String() string {
	switch k {
	case HandleIdentifier:
		return "identifier"
	case HandleOwner:
		return "owner"
	default:
		return "unknown"
	}
}

// Handle is a parsed, caller-supplied reference to a passport: either its
// numeric identifier or the owner's account address.
type Handle struct {
	kind  HandleKind
	id    PassportID
	owner common.Address
	raw   string
}

// ParseHandle classifies raw input. Purely numeric input is an identifier;
// anything else must be a syntactically valid address.
func ParseHandle(raw string) (Handle, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Handle{}, dErrors.New(dErrors.CodeInvalidHandle, "handle cannot be empty")
	}

	if isDigits(trimmed) {
		n, err := strconv.ParseUint(trimmed, 10, 64)
		if err != nil {
			return Handle{}, dErrors.Wrap(err, dErrors.CodeInvalidHandle, "identifier out of range")
		}
		if n == 0 {
			return Handle{}, dErrors.New(dErrors.CodeInvalidHandle, "identifier must be positive")
		}
		return Handle{kind: HandleIdentifier, id: PassportID(n), raw: trimmed}, nil
	}

	if !validation.IsEthAddress(trimmed) {
		return Handle{}, dErrors.New(dErrors.CodeInvalidHandle, "handle must be a numeric identifier or a 0x address")
	}
	return Handle{kind: HandleOwner, owner: common.HexToAddress(trimmed), raw: trimmed}, nil
}

// MustParseHandle is ParseHandle for tests and constants. Panics on invalid input.
func MustParseHandle(raw string) Handle {
	h, err := ParseHandle(raw)
	if err != nil {
		panic(err)
	}
	return h
}

// HandleForID builds an identifier handle without parsing.
func HandleForID(id PassportID) Handle {
	return Handle{kind: HandleIdentifier, id: id, raw: id.String()}
}

// HandleForOwner builds an owner handle without parsing.
func HandleForOwner(owner common.Address) Handle {
	return Handle{kind: HandleOwner, owner: owner, raw: owner.Hex()}
}

func (h Handle) Kind() HandleKind { return h.kind }

// ID returns the identifier and true for identifier handles.
func (h Handle) ID() (PassportID, bool) {
	return h.id, h.kind == HandleIdentifier
}

// Owner returns the address and true for owner handles.
func (h Handle) Owner() (common.Address, bool) {
	return h.owner, h.kind == HandleOwner
}

func (h Handle) String() string { return h.raw }

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
