package server

import (
	"sync"

	"github.com/shouni/thumbnail-architect/pkg/session"
)

// Hub は session.State の更新を WebSocket 購読者へ配信します。
type Hub struct {
	mu   sync.Mutex
	subs map[chan session.State]struct{}
	// last は配信済みの最大 Version です。
	last uint64
}

// NewHub は空の Hub を生成します。
func NewHub() *Hub {
	return &Hub{subs: make(map[chan session.State]struct{})}
}

// Publish は全購読者に State を送ります。受信が追いつかない購読者には古い値を捨てて最新だけを残します。
// 配信済みより Version の小さい State は遅れて届いた古い遷移なので捨てます。
// session.Observer として登録できます。
func (h *Hub) Publish(s session.State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s.Version < h.last {
		return
	}
	h.last = s.Version
	for ch := range h.subs {
		select {
		case ch <- s:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}

// Subscribe は購読用チャネルと解除関数を返します。
func (h *Hub) Subscribe() (<-chan session.State, func()) {
	ch := make(chan session.State, 1)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
		})
	}
}

// Len は現在の購読者数です。
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
