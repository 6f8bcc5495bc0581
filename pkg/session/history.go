package session

import "github.com/shouni/thumbnail-architect/pkg/domain"

// History は生成結果を新しい順に保持するプロセス内メモリのリストです。
// limit が 0 の場合は上限なしです。
type History struct {
	items []*domain.GeneratedArtifact
	limit int
}

func newHistory(limit int) *History {
	if limit < 0 {
		limit = 0
	}
	return &History{limit: limit}
}

// prepend は先頭に追加し、上限を超えた分は古いものから捨てます。
func (h *History) prepend(a *domain.GeneratedArtifact) {
	h.items = append([]*domain.GeneratedArtifact{a}, h.items...)
	if h.limit > 0 && len(h.items) > h.limit {
		clear(h.items[h.limit:])
		h.items = h.items[:h.limit]
	}
}

func (h *History) find(id string) (*domain.GeneratedArtifact, bool) {
	for _, a := range h.items {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// Len は保持件数を返します。
func (h *History) Len() int { return len(h.items) }

func (h *History) snapshot() []domain.GeneratedArtifact {
	out := make([]domain.GeneratedArtifact, len(h.items))
	for i, a := range h.items {
		out[i] = *a
	}
	return out
}
