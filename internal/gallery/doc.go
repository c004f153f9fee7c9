package gallery

// Package gallery ties the fetcher and a store together: one background task
// per submitted URL (fetch, save, prepend to the in-memory list) plus startup
// rehydration. It owns the only shared mutable state, the record list, and
// reports changes through callbacks the UI binds to.
