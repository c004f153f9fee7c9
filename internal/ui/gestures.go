package ui

import (
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// GestureType represents different types of gestures
type GestureType int

const (
	GestureNone GestureType = iota
	GestureTap
	GestureSwipeLeft
	GestureSwipeRight
	GestureSwipeUp
	GestureSwipeDown
	GestureLongPress
)

// Gesture thresholds constants
const (
	DefaultSwipeThreshold    float32 = 50.0
	DefaultLongPressDuration         = 500 * time.Millisecond
)

// GestureHandler turns raw touch events into gestures
type GestureHandler struct {
	onGesture func(GestureType)

	// Touch tracking
	touchStartTime time.Time
	touchStartPos  fyne.Position

	// Gesture thresholds
	swipeThreshold    float32
	longPressDuration time.Duration
}

// NewGestureHandler creates a new gesture handler
func NewGestureHandler(onGesture func(GestureType)) *GestureHandler {
	return &GestureHandler{
		onGesture:         onGesture,
		swipeThreshold:    DefaultSwipeThreshold,
		longPressDuration: DefaultLongPressDuration,
	}
}

// TouchDown handles touch down events for gesture detection
func (gh *GestureHandler) TouchDown(event *mobile.TouchEvent) {
	gh.touchStartTime = time.Now()
	gh.touchStartPos = event.Position
}

// TouchUp handles touch up events for gesture detection
func (gh *GestureHandler) TouchUp(event *mobile.TouchEvent) {
	if gh.touchStartTime.IsZero() {
		return
	}
	gesture := gh.Classify(gh.touchStartPos, event.Position, time.Since(gh.touchStartTime))
	gh.touchStartTime = time.Time{}

	if gesture != GestureNone && gh.onGesture != nil {
		gh.onGesture(gesture)
	}
}

// TouchCancel handles touch cancel events
func (gh *GestureHandler) TouchCancel(event *mobile.TouchEvent) {
	gh.touchStartTime = time.Time{}
}

// Classify decides which gesture a touch from start to end lasting duration was.
// Movement beyond the swipe threshold wins over hold time.
func (gh *GestureHandler) Classify(start, end fyne.Position, duration time.Duration) GestureType {
	dx := end.X - start.X
	dy := end.Y - start.Y

	if dx*dx+dy*dy >= gh.swipeThreshold*gh.swipeThreshold {
		return swipeDirection(dx, dy)
	}
	if duration >= gh.longPressDuration {
		return GestureLongPress
	}
	return GestureTap
}

// swipeDirection determines the primary direction of a swipe
func swipeDirection(dx, dy float32) GestureType {
	absDx, absDy := dx, dy
	if absDx < 0 {
		absDx = -absDx
	}
	if absDy < 0 {
		absDy = -absDy
	}

	if absDx > absDy {
		if dx > 0 {
			return GestureSwipeRight
		}
		return GestureSwipeLeft
	}
	if dy > 0 {
		return GestureSwipeDown
	}
	return GestureSwipeUp
}

// PullToRefresh wraps content and calls refresh when the user swipes down on it.
// Refresh runs off the UI goroutine; further pulls are ignored until it returns.
type PullToRefresh struct {
	widget.BaseWidget

	content        fyne.CanvasObject
	gestureHandler *GestureHandler
	refreshFunc    func()
	refreshing     atomic.Bool
}

// NewPullToRefresh creates a new pull-to-refresh wrapper
func NewPullToRefresh(content fyne.CanvasObject, refreshFunc func()) *PullToRefresh {
	p := &PullToRefresh{
		content:     content,
		refreshFunc: refreshFunc,
	}
	p.gestureHandler = NewGestureHandler(p.handleGesture)
	p.ExtendBaseWidget(p)
	return p
}

// CreateRenderer implements fyne.Widget
func (p *PullToRefresh) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.content)
}

// IsRefreshing reports whether a refresh is in progress
func (p *PullToRefresh) IsRefreshing() bool {
	return p.refreshing.Load()
}

// handleGesture handles gestures for pull-to-refresh
func (p *PullToRefresh) handleGesture(gesture GestureType) {
	if gesture == GestureSwipeDown {
		p.triggerRefresh()
	}
}

// triggerRefresh triggers the refresh action
func (p *PullToRefresh) triggerRefresh() {
	if p.refreshFunc == nil || !p.refreshing.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer func() {
			time.Sleep(RefreshCooldown)
			p.refreshing.Store(false)
		}()
		p.refreshFunc()
	}()
}

// TouchDown handles touch down events
func (p *PullToRefresh) TouchDown(event *mobile.TouchEvent) {
	p.gestureHandler.TouchDown(event)
}

// TouchUp handles touch up events
func (p *PullToRefresh) TouchUp(event *mobile.TouchEvent) {
	p.gestureHandler.TouchUp(event)
}

// TouchCancel handles touch cancel events
func (p *PullToRefresh) TouchCancel(event *mobile.TouchEvent) {
	p.gestureHandler.TouchCancel(event)
}
