package contract

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// TimeoutCaller bounds every read on the wrapped backend. A context that
// already carries an earlier deadline keeps it.
type TimeoutCaller struct {
	backend bind.ContractCaller
	timeout time.Duration
}

var _ bind.ContractCaller = (*TimeoutCaller)(nil)

func NewTimeoutCaller(backend bind.ContractCaller, timeout time.Duration) *TimeoutCaller {
	if backend == nil {
		panic("contract: backend is required")
	}
	return &TimeoutCaller{backend: backend, timeout: timeout}
}

func (c *TimeoutCaller) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()
	return c.backend.CodeAt(ctx, account, blockNumber)
}

func (c *TimeoutCaller) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()
	return c.backend.CallContract(ctx, call, blockNumber)
}

func (c *TimeoutCaller) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}
