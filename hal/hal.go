// Package hal abstracts the pixel output the renderer draws into.
//
// On a real installation the framebuffer is pushed to an LED matrix panel;
// on a desktop it is presented in a window or consumed headless. The rest of
// the program only ever sees the interfaces defined here.
package hal

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// HAL is the only contact point between the renderer and the outside world.
type HAL interface {
	Display() Display
}
