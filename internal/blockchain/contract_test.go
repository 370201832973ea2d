package blockchain

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registrationLog(t *testing.T, trackID int64, videoURL string) types.Log {
	t.Helper()
	data, err := contractABI.Events["TrackRegistered"].Inputs.Pack(big.NewInt(trackID), videoURL)
	require.NoError(t, err)
	return types.Log{
		Topics: []common.Hash{trackRegisteredTopic},
		Data:   data,
	}
}

func TestParseRegistration(t *testing.T) {
	log := registrationLog(t, 7, "https://gateway.pinata.cloud/ipfs/QmVideo")

	reg, err := ParseRegistration(log)
	require.NoError(t, err)
	assert.Equal(t, int64(7), reg.TrackID)
	assert.Equal(t, "https://gateway.pinata.cloud/ipfs/QmVideo", reg.VideoURL)
}

func TestParseRegistration_WrongTopic(t *testing.T) {
	log := registrationLog(t, 7, "url")
	log.Topics[0] = common.HexToHash("0xdeadbeef")

	_, err := ParseRegistration(log)
	require.Error(t, err)
}

func TestParseRegistration_TruncatedData(t *testing.T) {
	log := registrationLog(t, 7, "url")
	log.Data = log.Data[:8]

	_, err := ParseRegistration(log)
	require.Error(t, err)
}

func TestRegisterBatch_RejectsMismatchedArrays(t *testing.T) {
	p := &Publisher{}
	_, err := p.RegisterBatch(context.Background(), Batch{
		Wallets: []common.Address{{}},
		Artists: []string{"a", "b"},
	})
	require.Error(t, err)
}

func TestBatchValidate(t *testing.T) {
	wallet := common.HexToAddress("0xABCDEF0123456789abcdef0123456789ABCDEF01")

	valid := Batch{
		Wallets:   []common.Address{wallet},
		Artists:   []string{"DJ Test"},
		Titles:    []string{"T1"},
		Genres:    []string{"Pop"},
		VideoURLs: []string{"v"},
		CoverURLs: []string{"c"},
	}
	assert.NoError(t, valid.validate())

	empty := Batch{}
	assert.Error(t, empty.validate())

	mismatched := valid
	mismatched.Titles = []string{"T1", "T2"}
	assert.Error(t, mismatched.validate())
}
