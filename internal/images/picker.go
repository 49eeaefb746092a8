package images

import "fmt"

// Picker selects the image shown for a caption round. Implementations must be
// deterministic for a given room code and round so that a host reconnecting
// mid-round sees the same image as everyone else.
type Picker interface {
	RoundImage(roomCode string, round int) string
}

// Picsum serves seeded placeholder images from picsum.photos, keyed by room
// code and round number.
type Picsum struct {
	Width  int
	Height int
}

func NewPicsum() *Picsum {
	return &Picsum{Width: 800, Height: 600}
}

func (p *Picsum) RoundImage(roomCode string, round int) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s%d/%d/%d", roomCode, round, p.Width, p.Height)
}
