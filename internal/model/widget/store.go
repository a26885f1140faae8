package widget

// Store exposes widget retrieval for handlers and services.
type Store interface {
	List() []Widget
	FindByID(id string) (Widget, bool)
}

// MemoryStore implements Store over a fixed slice loaded at startup.
type MemoryStore struct {
	items []Widget
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied widgets.
func NewMemoryStore(items []Widget) *MemoryStore {
	return &MemoryStore{items: append([]Widget(nil), items...)}
}

// List returns the configured widgets in catalogue order.
func (s *MemoryStore) List() []Widget {
	return append([]Widget(nil), s.items...)
}

// FindByID looks up a widget by identifier.
func (s *MemoryStore) FindByID(id string) (Widget, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Widget{}, false
}
