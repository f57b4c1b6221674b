package player

import (
	"github.com/asticode/go-astiav"
)

// Packet is one encoded access unit read from a StreamSource. The underlying
// astiav packet is reused between reads, so it must be released (Unref) right
// after it was fed to a decoder.
type Packet struct {
	*astiav.Packet
	StreamIndex int
}

func (p *Packet) Unref() {
	if p == nil || p.Packet == nil {
		return
	}
	p.Packet.Unref()
}
