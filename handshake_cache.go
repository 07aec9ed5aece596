package tls12

import (
	"sync"

	"github.com/conduitsec/tls12/pkg/protocol/handshake"
)

// handshakeCache records every handshake message sent and received, in
// order, so the Finished verify_data can be computed over the exact
// transcript both sides saw.
type handshakeCache struct {
	cache []*handshakeCacheItem
	mu    sync.Mutex
}

type handshakeCacheItem struct {
	typ      handshake.Type
	isClient bool
	data     []byte
}

type handshakeCachePullRule struct {
	typ      handshake.Type
	isClient bool
	optional bool
}

func newHandshakeCache() *handshakeCache {
	return &handshakeCache{}
}

func (h *handshakeCache) push(data []byte, typ handshake.Type, isClient bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.cache = append(h.cache, &handshakeCacheItem{
		data:     append([]byte{}, data...),
		typ:      typ,
		isClient: isClient,
	})
}

// pull returns the first cached message matching each rule, in rule
// order. Missing optional messages come back nil.
func (h *handshakeCache) pull(rules ...handshakeCachePullRule) []*handshakeCacheItem {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]*handshakeCacheItem, len(rules))
	for i, r := range rules {
		for _, c := range h.cache {
			if c.typ == r.typ && c.isClient == r.isClient {
				switch out[i] {
				case nil:
					out[i] = c
				default:
				}
			}
		}
	}

	return out
}

// fullPullMap pulls and parses the messages the rules name, but only if
// every non-optional one has arrived. A cached message that fails to
// parse is reported as an error: the stream never redelivers it, so
// waiting for a better copy would stall until the connect timeout.
func (h *handshakeCache) fullPullMap(keyExchangeAlgorithm KeyExchangeAlgorithm, rules ...handshakeCachePullRule) (map[handshake.Type]handshake.Message, bool, error) {
	ci := h.pull(rules...)

	out := map[handshake.Type]handshake.Message{}
	for i, r := range rules {
		t := r.typ
		switch {
		case ci[i] == nil && !r.optional:
			return nil, false, nil
		case ci[i] == nil && r.optional:
			continue
		}

		rawHandshake := &handshake.Handshake{
			KeyExchangeAlgorithm: keyExchangeAlgorithm,
		}
		if err := rawHandshake.Unmarshal(ci[i].data); err != nil {
			return nil, false, err
		}

		out[t] = rawHandshake.Message
	}

	return out, true, nil
}

// pullAndMerge calls pull and merges the results, ignoring messages that
// haven't arrived yet.
func (h *handshakeCache) pullAndMerge(rules ...handshakeCachePullRule) []byte {
	merged := []byte{}

	for _, p := range h.pull(rules...) {
		if p != nil {
			merged = append(merged, p.data...)
		}
	}
	return merged
}
