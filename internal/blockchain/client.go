package blockchain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/Yolazega/web3-music-platform-new-sub000/internal/config"
	"github.com/Yolazega/web3-music-platform-new-sub000/pkg/apperr"
)

// Client wraps the RPC connection to the contest chain.
type Client struct {
	chainCfg *config.ChainConfig
	eth      *ethclient.Client
	chainID  *big.Int
}

func NewClient(ctx context.Context, chainCfg *config.ChainConfig) (*Client, error) {
	eth, err := ethclient.Dial(chainCfg.RPCURL)
	if err != nil {
		return nil, apperr.Chain(fmt.Sprintf("failed to connect to RPC endpoint %s", chainCfg.RPCURL), err)
	}

	chainID := big.NewInt(chainCfg.ChainID)
	if chainCfg.ChainID == 0 {
		chainID, err = eth.ChainID(ctx)
		if err != nil {
			eth.Close()
			return nil, apperr.Chain("failed to query chain id", err)
		}
	}

	return &Client{
		chainCfg: chainCfg,
		eth:      eth,
		chainID:  chainID,
	}, nil
}

func (c *Client) Close() {
	c.eth.Close()
}

func (c *Client) ChainID() *big.Int {
	return c.chainID
}

func (c *Client) Backend() *ethclient.Client {
	return c.eth
}
