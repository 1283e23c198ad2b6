package models

import "fmt"

// BlockchainID is the numeric id the vault assigns to a supported chain.
type BlockchainID uint32

const (
	Bitcoin         BlockchainID = 1
	Ethereum        BlockchainID = 100
	EthereumClassic BlockchainID = 101
	KovanTestnet    BlockchainID = 10002
	BitcoinTestnet  BlockchainID = 10003
	GoerliTestnet   BlockchainID = 10005
)

// Family groups blockchains sharing the same entry layout.
type Family int

const (
	// FamilyUnknown is assigned to entries on a chain missing from the
	// blockchain table. Such entries never match a family filter.
	FamilyUnknown Family = iota
	// FamilyEthereum entries hold a single account address.
	FamilyEthereum
	// FamilyBitcoin entries hold an account level extended public key.
	FamilyBitcoin
)

type blockchainInfo struct {
	name     string
	family   Family
	coinType uint32
}

// blockchains is the only place where chain ids are classified.
var blockchains = map[BlockchainID]blockchainInfo{
	Bitcoin:         {"bitcoin", FamilyBitcoin, 0},
	BitcoinTestnet:  {"bitcoin-testnet", FamilyBitcoin, 1},
	Ethereum:        {"ethereum", FamilyEthereum, 60},
	EthereumClassic: {"ethereum-classic", FamilyEthereum, 61},
	KovanTestnet:    {"kovan", FamilyEthereum, 1},
	GoerliTestnet:   {"goerli", FamilyEthereum, 1},
}

// IsKnownBlockchain reports whether id is listed in the blockchain table.
func IsKnownBlockchain(id BlockchainID) bool {
	_, ok := blockchains[id]
	return ok
}

// FamilyOf returns the family of the given chain, FamilyUnknown if the chain
// is not supported.
func FamilyOf(id BlockchainID) Family {
	return blockchains[id].family
}

// CoinType returns the BIP-44 coin type used for the chain.
func CoinType(id BlockchainID) (uint32, bool) {
	info, ok := blockchains[id]
	return info.coinType, ok
}

func (id BlockchainID) String() string {
	if info, ok := blockchains[id]; ok {
		return info.name
	}
	return fmt.Sprintf("blockchain(%d)", uint32(id))
}

func (f Family) String() string {
	switch f {
	case FamilyEthereum:
		return "ethereum"
	case FamilyBitcoin:
		return "bitcoin"
	default:
		return "unknown"
	}
}
