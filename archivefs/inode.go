package archivefs

import (
	"sync"

	"github.com/dendrascience/dendra-hid/hid"
)

// inodeTable hands out one inode number per HID. The first HID seen gets 1,
// which FUSE expects for the root.
type inodeTable struct {
	mu   sync.Mutex
	last uint64
	ids  map[string]uint64
}

func newInodeTable() *inodeTable {
	return &inodeTable{ids: make(map[string]uint64)}
}

func (t *inodeTable) get(id hid.HID) uint64 {
	key := id.String()
	t.mu.Lock()
	defer t.mu.Unlock()
	if ino, ok := t.ids[key]; ok {
		return ino
	}
	t.last++
	t.ids[key] = t.last
	return t.last
}

func (t *inodeTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.ids)
}
