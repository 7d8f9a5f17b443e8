package layerblend

// Player starts and stops graph nodes. Implementations must treat Stop or
// Replay on an untracked node as benign.
type Player interface {
	IsPlaying(n NodeIndex) bool
	Replay(n NodeIndex)
	Repeat(n NodeIndex)
	Stop(n NodeIndex)
}

// PlayerOp identifies a call made on a Player.
type PlayerOp uint8

const (
	OpReplay PlayerOp = iota // Replay was called
	OpRepeat                 // Repeat was called
	OpStop                   // Stop was called
)

// String returns the lowercase name of the operation.
func (o PlayerOp) String() string {
	switch o {
	case OpReplay:
		return "replay"
	case OpRepeat:
		return "repeat"
	case OpStop:
		return "stop"
	default:
		return "unknown"
	}
}

// PlayerCall records one call made on a ClipPlayer.
type PlayerCall struct {
	Op   PlayerOp
	Node NodeIndex
}

type clipState struct {
	mode    PlayMode
	elapsed float32
}

// ClipPlayer is a reference Player that tracks which nodes are playing. A
// node started with Replay finishes after its clip length elapses in
// Advance; a node started with Repeat plays until stopped. Every call is
// appended to Calls.
type ClipPlayer struct {
	playing map[NodeIndex]*clipState
	lengths map[NodeIndex]float32

	// Calls is the ordered log of Replay, Repeat, and Stop calls.
	Calls []PlayerCall
}

// NewClipPlayer returns an idle player.
func NewClipPlayer() *ClipPlayer {
	return &ClipPlayer{
		playing: make(map[NodeIndex]*clipState),
		lengths: make(map[NodeIndex]float32),
	}
}

// SetClipLength sets how long a Replay of n lasts, in seconds. Nodes without
// a length never finish on their own.
func (p *ClipPlayer) SetClipLength(n NodeIndex, seconds float32) {
	p.lengths[n] = seconds
}

// IsPlaying implements Player.
func (p *ClipPlayer) IsPlaying(n NodeIndex) bool {
	_, ok := p.playing[n]
	return ok
}

// Replay implements Player.
func (p *ClipPlayer) Replay(n NodeIndex) {
	p.playing[n] = &clipState{mode: PlayReplay}
	p.Calls = append(p.Calls, PlayerCall{Op: OpReplay, Node: n})
}

// Repeat implements Player.
func (p *ClipPlayer) Repeat(n NodeIndex) {
	p.playing[n] = &clipState{mode: PlayRepeat}
	p.Calls = append(p.Calls, PlayerCall{Op: OpRepeat, Node: n})
}

// Stop implements Player.
func (p *ClipPlayer) Stop(n NodeIndex) {
	delete(p.playing, n)
	p.Calls = append(p.Calls, PlayerCall{Op: OpStop, Node: n})
}

// Advance moves every playing clip forward by dt seconds. Replayed clips
// whose length has elapsed stop playing without a Stop call.
func (p *ClipPlayer) Advance(dt float32) {
	for n, st := range p.playing {
		st.elapsed += dt
		if st.mode != PlayReplay {
			continue
		}
		if length, ok := p.lengths[n]; ok && st.elapsed >= length {
			delete(p.playing, n)
		}
	}
}

// Mode returns the play mode of n and whether it is playing.
func (p *ClipPlayer) Mode(n NodeIndex) (PlayMode, bool) {
	st, ok := p.playing[n]
	if !ok {
		return 0, false
	}
	return st.mode, true
}

// Count returns how many recorded calls match op and node.
func (p *ClipPlayer) Count(op PlayerOp, n NodeIndex) int {
	c := 0
	for _, call := range p.Calls {
		if call.Op == op && call.Node == n {
			c++
		}
	}
	return c
}

// ResetCalls clears the call log without touching playback state.
func (p *ClipPlayer) ResetCalls() {
	p.Calls = p.Calls[:0]
}
