// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Event types
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseWheel
	EventMouseButtonDown
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Repeat bool
	Width  int
	Height int
	X, Y   int     // cursor position of button events
	Button uint8   // sdl.BUTTON_LEFT etc.
	DX, DY int     // relative mouse motion
	Wheel  float32 // vertical wheel delta, positive away from the user
}

// Input collects the events of one frame and tracks held keys.
type Input struct {
	events []Event
	held   map[sdl.Scancode]bool

	mouseDX, mouseDY int
	wheel            float32
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		held:   make(map[sdl.Scancode]bool),
	}
}

// Update polls SDL events for this frame.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	i.mouseDX, i.mouseDY, i.wheel = 0, 0, 0

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			key := e.Keysym.Scancode
			if e.Type == sdl.KEYDOWN {
				i.held[key] = true
				i.events = append(i.events, Event{Type: EventKeyDown, Key: key, Repeat: e.Repeat != 0})
			} else if e.Type == sdl.KEYUP {
				delete(i.held, key)
				i.events = append(i.events, Event{Type: EventKeyUp, Key: key})
			}

		case *sdl.MouseMotionEvent:
			i.mouseDX += int(e.XRel)
			i.mouseDY += int(e.YRel)
			i.events = append(i.events, Event{Type: EventMouseMove, DX: int(e.XRel), DY: int(e.YRel)})

		case *sdl.MouseButtonEvent:
			if e.Type == sdl.MOUSEBUTTONDOWN {
				i.events = append(i.events, Event{
					Type:   EventMouseButtonDown,
					Button: e.Button,
					X:      int(e.X),
					Y:      int(e.Y),
				})
			}

		case *sdl.MouseWheelEvent:
			dy := float32(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				dy = -dy
			}
			i.wheel += dy
			i.events = append(i.events, Event{Type: EventMouseWheel, Wheel: dy})
		}
	}

	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a key went down this frame, ignoring auto-repeat.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode && !e.Repeat {
			return true
		}
	}
	return false
}

// IsKeyHeld reports whether a key is currently down.
func (i *Input) IsKeyHeld(scancode sdl.Scancode) bool {
	return i.held[scancode]
}

// MouseDelta returns the relative mouse motion of this frame.
func (i *Input) MouseDelta() (dx, dy int) {
	return i.mouseDX, i.mouseDY
}

// Wheel returns the accumulated wheel delta of this frame.
func (i *Input) Wheel() float32 {
	return i.wheel
}
