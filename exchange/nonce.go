package exchange

import (
	"sync"
	"time"
)

// nonceSource yields non-decreasing wall-clock-millisecond nonces for one
// adapter instance. Calls within the same millisecond bump the counter so
// a nonce is never reused.
type nonceSource struct {
	mu   sync.Mutex
	last int64
}

func (n *nonceSource) Next() int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	now := time.Now().UnixMilli()
	if now <= n.last {
		n.last++
	} else {
		n.last = now
	}
	return n.last
}
