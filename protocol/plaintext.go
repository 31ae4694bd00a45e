package protocol

import (
	"context"
	"io"
	"strconv"
	"sync"

	"smartknob-go/types"
)

// Plaintext is the debug/bring-up protocol: single-byte key commands in,
// human-readable state lines out. The configurator switches the link to the
// binary protocol by sending 0x00 (bound by the root task).
type Plaintext struct {
	mu       sync.Mutex
	port     io.ReadWriter
	handlers map[byte]func()
}

func NewPlaintext(port io.ReadWriter) *Plaintext {
	return &Plaintext{
		port:     port,
		handlers: map[byte]func(){},
	}
}

// RegisterKeyHandler binds a single-byte command. The last registration for
// a key wins.
func (p *Plaintext) RegisterKeyHandler(key byte, fn func()) {
	p.mu.Lock()
	p.handlers[key] = fn
	p.mu.Unlock()
}

// Run reads keys until the context is cancelled. Handlers run on this
// goroutine; they must only write to mailboxes.
func (p *Plaintext) Run(ctx context.Context) {
	buf := make([]byte, 1)
	for {
		if ctx.Err() != nil {
			return
		}
		n, err := p.port.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		p.mu.Lock()
		fn := p.handlers[buf[0]]
		p.mu.Unlock()
		if fn != nil {
			fn()
		}
	}
}

func (p *Plaintext) writeLine(b []byte) {
	b = append(b, '\r', '\n')
	p.mu.Lock()
	_, _ = p.port.Write(b)
	p.mu.Unlock()
}

// SendState prints one state line.
func (p *Plaintext) SendState(s types.KnobState) {
	b := make([]byte, 0, 96)
	b = append(b, "STATE pos="...)
	b = strconv.AppendInt(b, int64(s.CurrentPosition), 10)
	b = append(b, " sub="...)
	b = strconv.AppendFloat(b, float64(s.SubPositionUnit), 'f', 3, 32)
	b = append(b, " nonce="...)
	b = strconv.AppendUint(b, uint64(s.PressNonce), 10)
	b = append(b, " config="...)
	b = append(b, s.ConfigID...)
	p.writeLine(b)
}

// SendKnobInfo prints the identity blob.
func (p *Plaintext) SendKnobInfo(k types.Knob) {
	b := make([]byte, 0, 96)
	b = append(b, "KNOB mac="...)
	b = append(b, k.MacAddress...)
	b = append(b, " ip="...)
	b = append(b, k.IPAddress...)
	if k.PersistentConfig != nil {
		b = append(b, " config_version="...)
		b = strconv.AppendUint(b, uint64(k.PersistentConfig.Version), 10)
	}
	p.writeLine(b)
}

// Log prints a freeform line, prefixed so hosts can filter it.
func (p *Plaintext) Log(msg string) {
	b := make([]byte, 0, len(msg)+6)
	b = append(b, "LOG "...)
	b = append(b, msg...)
	p.writeLine(b)
}
