package gsignercache

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	lru "github.com/hashicorp/golang-lru"
)

var (
	globalCache, _ = lru.New(40000)
)

type cachedSender struct {
	from   common.Address
	signer types.Signer
}

// CachedSigner recovers transaction senders through a shared LRU cache
// keyed by transaction hash.
type CachedSigner struct {
	types.Signer
	cache *lru.Cache
}

// Sender returns the cached sender of tx, recovering and caching it on a miss.
func (s CachedSigner) Sender(tx *types.Transaction) (common.Address, error) {
	if ic, ok := s.cache.Get(tx.Hash()); ok {
		c := ic.(cachedSender)
		if c.signer.Equal(s.Signer) {
			return c.from, nil
		}
	}
	from, err := s.Signer.Sender(tx)
	if err != nil {
		return common.Address{}, err
	}
	s.cache.Add(tx.Hash(), cachedSender{from: from, signer: s.Signer})
	return from, nil
}

// Wrap returns signer backed by the process-wide sender cache.
func Wrap(signer types.Signer) types.Signer {
	return CachedSigner{
		Signer: signer,
		cache:  globalCache,
	}
}
