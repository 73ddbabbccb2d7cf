package slug

import (
	"container/list"
	"sync"

	"github.com/okian/matchday/internal/domain/model"
)

// Registry maps "<sport>/<slug>" to match ids and back.
//
// Registering a path already owned by another id moves the path to the new
// id (last registration wins) and drops the previous owner's reverse entry.
type Registry interface {
	Register(slug, id string, sport model.Sport)
	Resolve(sport model.Sport, slug string) (string, bool)
	ResolveReverse(id string) (string, bool)
	Size() int
}

type entry struct {
	id   string
	path string
}

// memoryRegistry keeps both directions under one lock.
// For bounded mode (maxSize > 0) the least recently registered id is evicted first.
type memoryRegistry struct {
	mu      sync.RWMutex
	forward map[string]string        // path -> id
	reverse map[string]*list.Element // id -> element holding *entry
	order   *list.List               // front = most recently registered
	maxSize int
}

// NewRegistry creates an in-memory registry.
func NewRegistry(opts ...Option) Registry {
	r := &memoryRegistry{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(r)
	}
	r.forward = make(map[string]string)
	r.reverse = make(map[string]*list.Element)
	r.order = list.New()
	return r
}

// Register records slug for id. Empty slugs or ids are ignored.
func (r *memoryRegistry) Register(slug, id string, sport model.Sport) {
	if slug == "" || id == "" {
		return
	}
	path := Path(sport, slug)

	r.mu.Lock()
	defer r.mu.Unlock()

	if el, ok := r.reverse[id]; ok {
		e := el.Value.(*entry)
		if e.path != path && r.forward[e.path] == id {
			delete(r.forward, e.path)
		}
		e.path = path
		r.order.MoveToFront(el)
	} else {
		if r.maxSize > 0 && r.order.Len() >= r.maxSize {
			r.evictOldest()
		}
		r.reverse[id] = r.order.PushFront(&entry{id: id, path: path})
	}

	if prev, ok := r.forward[path]; ok && prev != id {
		r.remove(prev)
	}
	r.forward[path] = id
}

// Resolve returns the id registered for slug in sport.
func (r *memoryRegistry) Resolve(sport model.Sport, slug string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.forward[Path(sport, slug)]
	return id, ok
}

// ResolveReverse returns the "<sport>/<slug>" path registered for id.
func (r *memoryRegistry) ResolveReverse(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	el, ok := r.reverse[id]
	if !ok {
		return "", false
	}
	return el.Value.(*entry).path, true
}

// Size returns the number of registered ids.
func (r *memoryRegistry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.order.Len()
}

// Must be called with r.mu held.
func (r *memoryRegistry) evictOldest() {
	if back := r.order.Back(); back != nil {
		e := back.Value.(*entry)
		if r.forward[e.path] == e.id {
			delete(r.forward, e.path)
		}
		r.order.Remove(back)
		delete(r.reverse, e.id)
	}
}

// remove drops id's reverse entry only. Must be called with r.mu held.
func (r *memoryRegistry) remove(id string) {
	if el, ok := r.reverse[id]; ok {
		r.order.Remove(el)
		delete(r.reverse, id)
	}
}
