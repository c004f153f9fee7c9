package model

// Package model defines domain data structures used across the app: saved
// image records, fetch tasks and their status enum. Structures are designed
// for direct binding in the UI and explicit state transitions.
