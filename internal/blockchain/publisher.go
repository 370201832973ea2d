package blockchain

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sirupsen/logrus"

	"github.com/Yolazega/web3-music-platform-new-sub000/internal/config"
	"github.com/Yolazega/web3-music-platform-new-sub000/pkg/apperr"
	"github.com/Yolazega/web3-music-platform-new-sub000/pkg/logger"
)

// Batch holds the parallel arrays the registerTracks contract call expects,
// one element per track.
type Batch struct {
	Wallets   []common.Address
	Artists   []string
	Titles    []string
	Genres    []string
	VideoURLs []string
	CoverURLs []string
}

func (b *Batch) validate() error {
	n := len(b.Wallets)
	if n == 0 {
		return apperr.Validation("batch is empty")
	}
	if len(b.Artists) != n || len(b.Titles) != n || len(b.Genres) != n ||
		len(b.VideoURLs) != n || len(b.CoverURLs) != n {
		return apperr.Validation("batch arrays have mismatched lengths")
	}
	return nil
}

// backend is the slice of ethclient.Client the publisher needs; tests
// substitute their own.
type backend interface {
	bind.DeployBackend
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Publisher registers approved tracks on the contest contract and reads
// its genre allow-list. Resilience against flaky RPC nodes is the client
// library's concern; no retrying happens here.
type Publisher struct {
	backend  backend
	contract common.Address
	key      *ecdsa.PrivateKey
	from     common.Address
	chainID  *big.Int
	gasLimit uint64
}

func NewPublisher(client *Client, chainCfg *config.ChainConfig) (*Publisher, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(chainCfg.AdminKey, "0x"))
	if err != nil {
		return nil, apperr.Chain("invalid admin signing key", err)
	}

	return &Publisher{
		backend:  client.Backend(),
		contract: common.HexToAddress(chainCfg.ContractAddress),
		key:      key,
		from:     crypto.PubkeyToAddress(key.PublicKey),
		chainID:  client.ChainID(),
		gasLimit: chainCfg.GasLimit,
	}, nil
}

// RegisterBatch submits the batch, waits for the transaction to be mined,
// and decodes the TrackRegistered events from the receipt. Any failure from
// the chain client propagates as a ChainError.
func (p *Publisher) RegisterBatch(ctx context.Context, batch Batch) ([]Registration, error) {
	if err := batch.validate(); err != nil {
		return nil, err
	}

	data, err := contractABI.Pack("registerTracks",
		batch.Wallets, batch.Artists, batch.Titles,
		batch.Genres, batch.VideoURLs, batch.CoverURLs)
	if err != nil {
		return nil, apperr.Chain("failed to encode registerTracks call", err)
	}

	nonce, err := p.backend.PendingNonceAt(ctx, p.from)
	if err != nil {
		return nil, apperr.Chain("failed to fetch account nonce", err)
	}
	gasPrice, err := p.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, apperr.Chain("failed to fetch gas price", err)
	}

	tx := types.NewTransaction(nonce, p.contract, big.NewInt(0), p.gasLimit, gasPrice, data)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(p.chainID), p.key)
	if err != nil {
		return nil, apperr.Chain("failed to sign transaction", err)
	}

	if err := p.backend.SendTransaction(ctx, signed); err != nil {
		return nil, apperr.Chain("failed to send transaction", err)
	}

	logger.WithFields(logrus.Fields{
		"tx_hash":    signed.Hash().Hex(),
		"batch_size": len(batch.Wallets),
		"gas_limit":  p.gasLimit,
	}).Info("Submitted track registration batch")

	receipt, err := bind.WaitMined(ctx, p.backend, signed)
	if err != nil {
		return nil, apperr.Chain("failed waiting for transaction confirmation", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, apperr.Chain("track registration transaction reverted", nil)
	}

	registrations := make([]Registration, 0, len(batch.Wallets))
	for _, l := range receipt.Logs {
		if l.Address != p.contract || len(l.Topics) == 0 || l.Topics[0] != trackRegisteredTopic {
			continue
		}
		reg, err := ParseRegistration(*l)
		if err != nil {
			logger.WithError(err).Warn("Skipping undecodable TrackRegistered log")
			continue
		}
		registrations = append(registrations, *reg)
	}

	logger.WithFields(logrus.Fields{
		"tx_hash":       signed.Hash().Hex(),
		"registrations": len(registrations),
	}).Info("Track registration confirmed")

	return registrations, nil
}

// Genres reads the contract's genre allow-list.
func (p *Publisher) Genres(ctx context.Context) ([]string, error) {
	data, err := contractABI.Pack("getGenres")
	if err != nil {
		return nil, apperr.Chain("failed to encode getGenres call", err)
	}

	out, err := p.backend.CallContract(ctx, ethereum.CallMsg{To: &p.contract, Data: data}, nil)
	if err != nil {
		return nil, apperr.Chain("failed to read genre allow-list", err)
	}

	values, err := contractABI.Unpack("getGenres", out)
	if err != nil {
		return nil, apperr.Chain("failed to decode genre allow-list", err)
	}
	genres, ok := values[0].([]string)
	if !ok {
		return nil, apperr.Chain("unexpected genre allow-list shape", nil)
	}
	return genres, nil
}
