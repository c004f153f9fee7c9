package store

// Package store persists decoded images into app-private storage and loads
// them back at startup. Three layouts are supported: timestamp-named JPEG
// files, the same files plus a path manifest kept in the preference store,
// and a single flat file of serialized records.
