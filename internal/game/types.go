package game

import "image"

// Button is a clickable rectangle in screen coordinates.
type Button struct {
	Rect  image.Rectangle
	Label string
}

// Contains reports whether the point lies on the button.
func (b Button) Contains(x, y int) bool {
	return image.Pt(x, y).In(b.Rect)
}

// Message represents an on-screen message that fades over time.
type Message struct {
	Text     string
	TimeLeft float64 // Seconds remaining
	MaxTime  float64 // Initial duration
}
