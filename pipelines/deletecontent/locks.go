package deletecontent

import "sync"

// processLocks hands out one mutex per process id and forgets it when nobody holds it
type processLocks struct {
	mu    sync.Mutex
	locks map[int]*processLock
}

type processLock struct {
	sync.Mutex
	holders int
}

func newProcessLocks() *processLocks {
	return &processLocks{locks: make(map[int]*processLock)}
}

// lock blocks until the process is free and returns the matching unlock
func (l *processLocks) lock(processID int) func() {
	l.mu.Lock()
	pl, ok := l.locks[processID]
	if !ok {
		pl = &processLock{}
		l.locks[processID] = pl
	}
	pl.holders++
	l.mu.Unlock()

	pl.Lock()
	return func() {
		pl.Unlock()
		l.mu.Lock()
		pl.holders--
		if pl.holders == 0 {
			delete(l.locks, processID)
		}
		l.mu.Unlock()
	}
}
