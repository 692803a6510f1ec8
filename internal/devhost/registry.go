package devhost

import "sync"

var (
	slotMu sync.Mutex
	slots  = make(map[string]*Host)
)

// Acquire returns the host registered under slot, constructing and starting
// one via factory on first use. The composition root uses this to enforce
// the one-host-per-process rule explicitly instead of through ambient
// globals.
func Acquire(slot string, factory func() *Host) *Host {
	slotMu.Lock()
	defer slotMu.Unlock()

	if h, ok := slots[slot]; ok {
		return h
	}
	h := factory()
	h.Start()
	slots[slot] = h
	return h
}

// Release stops and unregisters the host in slot, if any.
func Release(slot string) {
	slotMu.Lock()
	h := slots[slot]
	delete(slots, slot)
	slotMu.Unlock()

	if h != nil {
		h.Stop()
	}
}
