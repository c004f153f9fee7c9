package ui

// Package ui contains the Fyne-based user interface for the application.
// It wires the URL entry and download button to the gallery service and renders
// saved images as a list of cards. All UI strings are localized via Localization.
