package command

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/arsenal/internal/game/slots"
)

// Buffer holds slot command lines deferred while a configuration script is
// parsed. The same lines are replayed onto every slot set they apply to.
type Buffer struct {
	lines []string
}

// NewBuffer returns an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Record appends one command line.
func (b *Buffer) Record(line string) {
	b.lines = append(b.lines, line)
}

// Lines returns a copy of the recorded lines in order.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Len returns the number of recorded lines.
func (b *Buffer) Len() int {
	return len(b.lines)
}

// Clear discards every recorded line.
func (b *Buffer) Clear() {
	b.lines = nil
}

// Playback executes every recorded line against s without feedback.
//
// Postcondition: the buffer is unchanged.
func (b *Buffer) Playback(s *slots.Set) {
	d := NewPlayback(s)
	for _, line := range b.lines {
		if err := d.Execute(line); err != nil {
			s.Resolver().Logger.Warn("skipping recorded command", zap.String("line", line), zap.Error(err))
		}
	}
}
