package counter

import "github.com/ethereum/go-ethereum/common"

// Storage slots of the counter implementations. Every version declares the
// count as its first and only field.
var (
	// CountSlot holds the uint256 count
	CountSlot = common.Hash{}
)
