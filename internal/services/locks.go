package services

import "sync"

// courseWrites serializes every load-modify-save of a course row. Log roll-ups,
// progress changes and enrichment all write the whole row, so two of them running
// at once would drop one side's change. One server process owns the store.
var courseWrites sync.Mutex

// LockCourses holds the course write lock until the returned func is called. Code
// outside this package that rewrites a course must take it between its read and
// its write.
func LockCourses() (unlock func()) {
	courseWrites.Lock()
	return courseWrites.Unlock
}
