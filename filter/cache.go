package filter

import (
	"container/list"
	"sync"
)

// lruCache maps expressions to compiled filters, dropping the least
// recently used entry once full
type lruCache struct {
	capacity int
	order    *list.List
	items    map[string]*list.Element
	mu       sync.Mutex
}

type cacheEntry struct {
	expression string
	filter     CompiledFilter
}

func newLRUCache(capacity int) *lruCache {
	return &lruCache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

func (c *lruCache) get(expression string) (CompiledFilter, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[expression]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).filter, true
}

func (c *lruCache) put(expression string, filter CompiledFilter) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[expression]; ok {
		elem.Value.(*cacheEntry).filter = filter
		c.order.MoveToFront(elem)
		return
	}

	c.items[expression] = c.order.PushFront(&cacheEntry{expression: expression, filter: filter})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).expression)
	}
}

func (c *lruCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.items)
	c.order.Init()
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}
