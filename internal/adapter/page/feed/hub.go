package feed

import (
	"context"
	"sync"
)

// Hub holds the latest position-region text reported for each page and notifies
// subscribers when it changes. Notifications for one page are delivered one at a
// time, in publish order. A page is forgotten once its region is absent and
// nobody subscribes to it.
type Hub struct {
	mu    sync.Mutex
	pages map[string]*region
}

type region struct {
	text    string
	present bool
	nextID  int
	subs    map[int]func()

	// dispatch serializes callback delivery for this page.
	dispatch sync.Mutex
}

func NewHub() *Hub {
	return &Hub{pages: make(map[string]*region)}
}

func (h *Hub) page(pageID string) *region {
	r, ok := h.pages[pageID]
	if !ok {
		r = &region{subs: make(map[int]func())}
		h.pages[pageID] = r
	}
	return r
}

func (h *Hub) PositionText(_ context.Context, pageID string) (string, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.pages[pageID]
	if !ok {
		return "", false, nil
	}
	return r.text, r.present, nil
}

func (h *Hub) OnRegionChanged(pageID string, fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	r := h.page(pageID)
	id := r.nextID
	r.nextID++
	r.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(r.subs, id)
			h.pruneLocked(pageID, r)
		})
	}
}

// Publish records the region text for a page. It reports whether the text changed;
// unchanged text does not notify subscribers.
func (h *Hub) Publish(pageID, text string) bool {
	h.mu.Lock()
	r := h.page(pageID)
	changed := !r.present || r.text != text
	r.text = text
	r.present = true
	h.mu.Unlock()

	if changed {
		h.notify(r)
	}
	return changed
}

// Remove marks the page's region as absent, as when the host page navigates away
// from the map view.
func (h *Hub) Remove(pageID string) {
	h.mu.Lock()
	r, ok := h.pages[pageID]
	if !ok || !r.present {
		h.mu.Unlock()
		return
	}
	r.text = ""
	r.present = false
	pruned := h.pruneLocked(pageID, r)
	h.mu.Unlock()
	if !pruned {
		h.notify(r)
	}
}

func (h *Hub) pruneLocked(pageID string, r *region) bool {
	if r.present || len(r.subs) > 0 || h.pages[pageID] != r {
		return false
	}
	delete(h.pages, pageID)
	return true
}

// pageCount reports how many pages the hub currently holds state for.
func (h *Hub) pageCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pages)
}

func (h *Hub) notify(r *region) {
	r.dispatch.Lock()
	defer r.dispatch.Unlock()

	h.mu.Lock()
	fns := make([]func(), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (h *Hub) Subscribers(pageID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.pages[pageID]; ok {
		return len(r.subs)
	}
	return 0
}
