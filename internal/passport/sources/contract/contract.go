// Package contract reads passport data from the ledger contracts through
// go-ethereum bound contracts.
//
// Every adapter classifies raw RPC and ABI failures into *sources.SourceError
// here, at the boundary. Reverts whose reason names a missing record become
// not_found; an address without code is contract_mismatch; output that does
// not decode is bad_data.
package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"passport/internal/passport/sources"
	"passport/internal/sentinel"
	id "passport/pkg/domain"
)

const opBind = "bind"

// Revert reasons that mean the record is absent rather than the call broken.
var notFoundReasons = []string{
	"does not exist",
	"not found",
	"no passport",
	"invalid passport",
	"nonexistent",
}

type contract struct {
	kind    sources.SourceKind
	address common.Address
	bound   *bind.BoundContract
}

func newContract(kind sources.SourceKind, address common.Address, parsed abi.ABI, caller bind.ContractCaller) *contract {
	return &contract{
		kind:    kind,
		address: address,
		bound:   bind.NewBoundContract(address, parsed, caller, nil, nil),
	}
}

// call performs a read-only call and hands back a decoder over the unpacked outputs.
func (c *contract) call(ctx context.Context, method string, args ...any) (*decoder, error) {
	var out []any
	if err := c.bound.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, classify(c.kind, method, err)
	}
	return &decoder{kind: c.kind, op: method, out: out}, nil
}

func (c *contract) notFound(op, msg string) error {
	return sources.NotFound(c.kind, op, msg)
}

// decoder pulls typed values out of unpacked call outputs. The first failure
// sticks and every later read returns the zero value.
type decoder struct {
	kind sources.SourceKind
	op   string
	out  []any
	err  error
}

func (d *decoder) Err() error { return d.err }

func (d *decoder) has(i int) bool { return i < len(d.out) }

func (d *decoder) fail(format string, args ...any) {
	if d.err == nil {
		d.err = sources.NewSourceError(sources.ErrorBadData, d.kind, d.op, fmt.Sprintf(format, args...), sentinel.ErrInvalidInput)
	}
}

func value[T any](d *decoder, i int) T {
	var zero T
	if d.err != nil {
		return zero
	}
	if !d.has(i) {
		d.fail("missing output %d", i)
		return zero
	}
	v, ok := d.out[i].(T)
	if !ok {
		d.fail("output %d has type %T, want %T", i, d.out[i], zero)
		return zero
	}
	return v
}

// convert copies a tuple output into a named struct whose fields follow the
// tuple's component order.
func convert[T any](d *decoder, i int) (v T) {
	if d.err != nil {
		return v
	}
	if !d.has(i) {
		d.fail("missing output %d", i)
		return v
	}
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v = zero
			d.fail("output %d: %v", i, r)
		}
	}()
	return *abi.ConvertType(d.out[i], new(T)).(*T)
}

func bigID(passportID id.PassportID) *big.Int {
	return new(big.Int).SetUint64(uint64(passportID))
}

func bigCount(n int) *big.Int {
	if n < 0 {
		n = 0
	}
	return big.NewInt(int64(n))
}

func classify(kind sources.SourceKind, op string, err error) error {
	if err == nil {
		return nil
	}
	var se *sources.SourceError
	if errors.As(err, &se) {
		return se
	}

	msg := strings.ToLower(err.Error())
	var netErr net.Error
	switch {
	case errors.Is(err, bind.ErrNoCode):
		return sources.NewSourceError(sources.ErrorContractMismatch, kind, op, "no contract code at endpoint", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return sources.NewSourceError(sources.ErrorTimeout, kind, op, "call abandoned", err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return sources.NewSourceError(sources.ErrorTimeout, kind, op, "rpc timed out", err)
	case strings.HasPrefix(msg, "abi:"):
		return sources.NewSourceError(sources.ErrorBadData, kind, op, "undecodable output", err)
	case isNotFoundRevert(msg):
		return sources.NewSourceError(sources.ErrorNotFound, kind, op, "record not found", err)
	case strings.Contains(msg, "revert"):
		return sources.NewSourceError(sources.ErrorSourceOutage, kind, op, "call reverted", err)
	default:
		return sources.NewSourceError(sources.ErrorSourceOutage, kind, op, "rpc failure", err)
	}
}

func isNotFoundRevert(msg string) bool {
	for _, reason := range notFoundReasons {
		if strings.Contains(msg, reason) {
			return true
		}
	}
	return false
}

// Binder binds ledger contracts by address. It implements session.Binder.
type Binder struct {
	backend bind.ContractCaller
}

// NewBinder creates a binder over any contract caller, typically an *ethclient.Client.
func NewBinder(backend bind.ContractCaller) *Binder {
	if backend == nil {
		panic("contract: backend is required")
	}
	return &Binder{backend: backend}
}

func (b *Binder) BindRegistry(ctx context.Context, endpoint string) (sources.IdentityRegistry, error) {
	c, err := b.bind(ctx, sources.KindRegistry, endpoint, registryABI)
	if err != nil {
		return nil, err
	}
	return &Registry{c: c}, nil
}

func (b *Binder) BindPlatforms(ctx context.Context, endpoint string) (sources.PlatformRegistry, error) {
	c, err := b.bind(ctx, sources.KindPlatforms, endpoint, platformsABI)
	if err != nil {
		return nil, err
	}
	return &Platforms{c: c}, nil
}

func (b *Binder) BindArchive(ctx context.Context, endpoint string) (sources.Archive, error) {
	c, err := b.bind(ctx, sources.KindArchive, endpoint, archiveABI)
	if err != nil {
		return nil, err
	}
	return &Archive{c: c}, nil
}

func (b *Binder) BindRewards(ctx context.Context, endpoint string) (sources.Rewards, error) {
	c, err := b.bind(ctx, sources.KindRewards, endpoint, rewardsABI)
	if err != nil {
		return nil, err
	}
	return &Rewards{c: c}, nil
}

func (b *Binder) BindLeaderboard(ctx context.Context, endpoint string) (sources.Leaderboard, error) {
	c, err := b.bind(ctx, sources.KindLeaderboard, endpoint, leaderboardABI)
	if err != nil {
		return nil, err
	}
	return &Leaderboard{c: c}, nil
}

// bind checks that the endpoint is an address holding code before wrapping it.
func (b *Binder) bind(ctx context.Context, kind sources.SourceKind, endpoint string, parsed abi.ABI) (*contract, error) {
	if !common.IsHexAddress(endpoint) {
		return nil, sources.NewSourceError(sources.ErrorBadData, kind, opBind,
			fmt.Sprintf("endpoint %q is not a contract address", endpoint), sentinel.ErrInvalidInput)
	}
	address := common.HexToAddress(endpoint)
	code, err := b.backend.CodeAt(ctx, address, nil)
	if err != nil {
		return nil, classify(kind, opBind, err)
	}
	if len(code) == 0 {
		return nil, sources.NewSourceError(sources.ErrorContractMismatch, kind, opBind,
			"no contract code at "+address.Hex(), bind.ErrNoCode)
	}
	return newContract(kind, address, parsed, b.backend), nil
}
