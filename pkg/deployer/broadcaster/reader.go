package broadcaster

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum-optimism/optimism/op-service/eth"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/lmittmann/w3"
	w3eth "github.com/lmittmann/w3/module/eth"
	"github.com/lmittmann/w3/w3types"
)

var (
	ownerFunc         = w3.MustNewFunc("owner()", "address")
	getProxyAdminFunc = w3.MustNewFunc("getProxyAdmin(address proxy)", "address")
)

// Reader performs the read-only chain queries the deployment needs.
type Reader struct {
	client *w3.Client
}

func NewReader(rpcClient *rpc.Client) *Reader {
	return &Reader{client: w3.NewClient(rpcClient)}
}

func (r *Reader) ChainID(ctx context.Context) (uint64, error) {
	var chainID uint64
	if err := r.client.CallCtx(ctx, w3eth.ChainID().Returns(&chainID)); err != nil {
		return 0, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return chainID, nil
}

func (r *Reader) Balance(ctx context.Context, addr common.Address) (eth.ETH, error) {
	var balance *big.Int
	if err := r.client.CallCtx(ctx, w3eth.Balance(addr, nil).Returns(&balance)); err != nil {
		return eth.ETH{}, fmt.Errorf("failed to get balance of %s: %w", addr, err)
	}
	return eth.WeiBig(balance), nil
}

// Owner reads owner() of an Ownable contract.
func (r *Reader) Owner(ctx context.Context, contract common.Address) (common.Address, error) {
	return r.callAddress(ctx, contract, ownerFunc)
}

// ProxyAdminOf asks a ProxyAdmin which admin the proxy reports.
func (r *Reader) ProxyAdminOf(ctx context.Context, proxyAdmin common.Address, proxy common.Address) (common.Address, error) {
	return r.callAddress(ctx, proxyAdmin, getProxyAdminFunc, proxy)
}

func (r *Reader) callAddress(ctx context.Context, to common.Address, fn *w3.Func, args ...any) (common.Address, error) {
	var raw []byte
	if err := r.client.CallCtx(
		ctx,
		w3eth.Call(&w3types.Message{
			To:   &to,
			Func: fn,
			Args: args,
		}, nil, nil).Returns(&raw),
	); err != nil {
		return common.Address{}, fmt.Errorf("failed to call %s on %s: %w", fn.Signature, to, err)
	}

	var out common.Address
	if err := fn.DecodeReturns(raw, &out); err != nil {
		return common.Address{}, fmt.Errorf("failed to decode %s result: %w", fn.Signature, err)
	}
	return out, nil
}
