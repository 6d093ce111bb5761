package client

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"cryptowatch/internal/app/port"
	"cryptowatch/internal/domain/entity"
	"cryptowatch/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

// EVMClient looks native coin balances up from an EVM JSON-RPC node with one batch of
// eth_getBalance calls per lookup.
type EVMClient struct {
	def            entity.ChainDefinition
	rpcCallTimeout time.Duration
	logger         *zap.Logger

	mu        sync.Mutex
	rpcClient *rpc.Client
}

// NewEVMClient creates an adapter for def. The node is dialled on first use.
func NewEVMClient(def entity.ChainDefinition, rpcCallTimeout time.Duration, logger *zap.Logger) *EVMClient {
	if def.Decimals == 0 {
		def.Decimals = 18
	}
	return &EVMClient{
		def:            def,
		rpcCallTimeout: rpcCallTimeout,
		logger:         logger.Named("EVMClient").With(zap.String("symbol", def.Symbol)),
	}
}

func (c *EVMClient) client(ctx context.Context) (*rpc.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rpcClient != nil {
		return c.rpcClient, nil
	}
	dialCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()
	cl, err := rpc.DialContext(dialCtx, c.def.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC %s: %w", c.def.Endpoint, err)
	}
	c.rpcClient = cl
	return cl, nil
}

// Lookup implements port.ChainAdapter. Malformed addresses are reported as not found
// without being sent to the node.
func (c *EVMClient) Lookup(ctx context.Context, addresses []string) ([]entity.AddressBalance, error) {
	out := make([]entity.AddressBalance, len(addresses))
	if len(addresses) == 0 {
		return out, nil
	}

	batch := make([]rpc.BatchElem, 0, len(addresses))
	positions := make([]int, 0, len(addresses))
	results := make([]*hexutil.Big, len(addresses))
	for i, addr := range addresses {
		out[i] = entity.NotFound()
		if !common.IsHexAddress(addr) {
			c.logger.Debug("Skipping malformed EVM address", zap.String("address", addr))
			continue
		}
		batch = append(batch, rpc.BatchElem{
			Method: "eth_getBalance",
			Args:   []interface{}{common.HexToAddress(addr), "latest"},
			Result: &results[i],
		})
		positions = append(positions, i)
	}
	if len(batch) == 0 {
		return out, nil
	}

	cl, err := c.client(ctx)
	if err != nil {
		c.logger.Error("Failed to create RPC client", zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %w", port.ErrProviderFailure, c.def.Symbol, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()
	if err := cl.BatchCallContext(callCtx, batch); err != nil {
		c.logger.Error("RPC batch call failed", zap.Int("batchSize", len(batch)), zap.Error(err))
		return nil, fmt.Errorf("%w: %s: RPC batch call failed: %w", port.ErrProviderFailure, c.def.Symbol, err)
	}

	for j, elem := range batch {
		i := positions[j]
		if elem.Error != nil {
			c.logger.Debug("eth_getBalance failed for address", zap.String("address", addresses[i]), zap.Error(elem.Error))
			continue
		}
		if results[i] == nil {
			continue
		}
		out[i] = entity.Balance(utils.ToDisplayUnit((*big.Int)(results[i]), c.def.Decimals))
	}
	return out, nil
}

// Close releases the underlying RPC connection.
func (c *EVMClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rpcClient != nil {
		c.rpcClient.Close()
		c.rpcClient = nil
	}
}
