package store

// Layered stacks a memory store over a disk store. Reads hit memory
// first and promote disk records; writes land in both so a re-run
// replaces every layer consistently.
type Layered struct {
	memory Store
	disk   Store
}

// NewLayered creates a layered store persisting under dir.
func NewLayered(dir string) *Layered {
	return &Layered{
		memory: NewMemory(),
		disk:   NewDisk(dir),
	}
}

// Get retrieves a record, checking memory first.
func (l *Layered) Get(key string) ([]byte, error) {
	if val, err := l.memory.Get(key); err == nil {
		return val, nil
	}

	val, err := l.disk.Get(key)
	if err != nil {
		return nil, err
	}
	_ = l.memory.Put(key, val)
	return val, nil
}

// Put stores a record in both layers.
func (l *Layered) Put(key string, value []byte) error {
	if err := l.disk.Put(key, value); err != nil {
		return err
	}
	return l.memory.Put(key, value)
}

// Exists reports whether either layer has the record.
func (l *Layered) Exists(key string) bool {
	return l.memory.Exists(key) || l.disk.Exists(key)
}

// Delete removes the record from both layers.
func (l *Layered) Delete(key string) error {
	_ = l.memory.Delete(key)
	return l.disk.Delete(key)
}
