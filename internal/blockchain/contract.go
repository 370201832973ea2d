package blockchain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Yolazega/web3-music-platform-new-sub000/pkg/apperr"
)

// Subset of the contest contract ABI this service touches: batch track
// registration, the registration event, and the genre allow-list.
const contractABIJSON = `[
  {"type":"function","name":"registerTracks","stateMutability":"nonpayable","inputs":[
    {"name":"wallets","type":"address[]"},
    {"name":"artists","type":"string[]"},
    {"name":"titles","type":"string[]"},
    {"name":"genres","type":"string[]"},
    {"name":"videoUrls","type":"string[]"},
    {"name":"coverUrls","type":"string[]"}],"outputs":[]},
  {"type":"function","name":"getGenres","stateMutability":"view","inputs":[],
    "outputs":[{"name":"","type":"string[]"}]},
  {"type":"event","name":"TrackRegistered","anonymous":false,"inputs":[
    {"name":"trackId","type":"uint256","indexed":false},
    {"name":"videoUrl","type":"string","indexed":false}]}
]`

var (
	contractABI          abi.ABI
	trackRegisteredTopic common.Hash
)

func init() {
	parsed, err := abi.JSON(strings.NewReader(contractABIJSON))
	if err != nil {
		panic("blockchain: invalid embedded contract ABI: " + err.Error())
	}
	contractABI = parsed
	trackRegisteredTopic = crypto.Keccak256Hash([]byte("TrackRegistered(uint256,string)"))
}

// Registration is one decoded TrackRegistered event. VideoURL is the
// correlation key back to the local track record.
type Registration struct {
	TrackID  int64
	VideoURL string
}

// ParseRegistration decodes a TrackRegistered log.
func ParseRegistration(log types.Log) (*Registration, error) {
	if len(log.Topics) == 0 || log.Topics[0] != trackRegisteredTopic {
		return nil, apperr.Chain("log is not a TrackRegistered event", nil)
	}

	values, err := contractABI.Unpack("TrackRegistered", log.Data)
	if err != nil {
		return nil, apperr.Chain("failed to decode TrackRegistered event", err)
	}
	if len(values) != 2 {
		return nil, apperr.Chain("unexpected TrackRegistered event shape", nil)
	}

	trackID, ok := values[0].(*big.Int)
	if !ok {
		return nil, apperr.Chain("unexpected trackId type in TrackRegistered event", nil)
	}
	videoURL, ok := values[1].(string)
	if !ok {
		return nil, apperr.Chain("unexpected videoUrl type in TrackRegistered event", nil)
	}

	return &Registration{TrackID: trackID.Int64(), VideoURL: videoURL}, nil
}
