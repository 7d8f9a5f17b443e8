package layerblend

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"
)

// defaultStepDT is the frame time used by tick steps that do not set dt.
const defaultStepDT = 1.0 / 60

// scriptStep is a single action in a script.
type scriptStep struct {
	Action   string  `yaml:"action"`
	Priority string  `yaml:"priority,omitempty"`
	Path     string  `yaml:"path,omitempty"`
	Mode     string  `yaml:"mode,omitempty"`
	X        float32 `yaml:"x,omitempty"`
	Y        float32 `yaml:"y,omitempty"`
	Z        float32 `yaml:"z,omitempty"`
	Yaw      float64 `yaml:"yaw,omitempty"` // degrees
	Frames   int     `yaml:"frames,omitempty"`
	DT       float32 `yaml:"dt,omitempty"`
}

// Script is a parsed sequence of steps that drives an Animator frame by
// frame: request and remove animations, change movement and facing, and
// advance ticks.
type Script struct {
	Steps []scriptStep `yaml:"steps"`
}

// LoadScript parses a YAML (or JSON) script. Move directions need not be
// unit length; a zero direction counts as no movement.
//
//	steps:
//	  - {action: request, priority: medium, path: walk, mode: repeat}
//	  - {action: move, x: 0, y: 0, z: -1}
//	  - {action: tick, frames: 2}
//	  - {action: remove, path: walk}
//	  - {action: tick}
func LoadScript(r io.Reader) (*Script, error) {
	var s Script
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("parse script: step %d: %w", i, err)
		}
	}
	return &s, nil
}

// ParseScript is LoadScript over a byte slice.
func ParseScript(data []byte) (*Script, error) {
	return LoadScript(bytes.NewReader(data))
}

func (st scriptStep) validate() error {
	switch st.Action {
	case "request":
		if st.Path == "" {
			return fmt.Errorf("request: missing path")
		}
		if _, err := ParsePriority(st.Priority); err != nil {
			return err
		}
		if _, err := ParsePlayMode(st.Mode); err != nil {
			return err
		}
	case "remove":
		if st.Path == "" {
			return fmt.Errorf("remove: missing path")
		}
		fallthrough
	case "clear":
		if st.Priority != "" {
			if _, err := ParsePriority(st.Priority); err != nil {
				return err
			}
		}
	case "move", "stop_moving", "turn", "tick":
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

// FrameReport describes one simulated frame.
type FrameReport struct {
	Frame   int
	Resolve bool // requests changed and the priority pass ran
	Stats   TickStats
	Calls   []PlayerCall
}

// ScriptRunner plays a Script against its own graph and ClipPlayer.
type ScriptRunner struct {
	steps  []scriptStep
	cursor int
	done   bool
	dt     float32

	anim     *Animator
	graph    *MapGraph
	player   *ClipPlayer
	requests RequestTable

	yaw      float64
	move     Vec3
	moving   bool
	frame    int
	resolved uint64
	primed   bool
}

// NewScriptRunner prepares script to run against reg. The graph holds every
// node reg references.
func NewScriptRunner(script *Script, reg Registry, opts ...AnimatorOption) *ScriptRunner {
	r := &ScriptRunner{
		steps:  script.Steps,
		dt:     defaultStepDT,
		graph:  NewMapGraphFor(reg),
		player: NewClipPlayer(),
	}
	r.anim = NewAnimator(reg, r.graph, r.player, opts...)
	return r
}

// SetFrameTime sets the frame time used by tick steps that do not set dt.
// Non-positive values are ignored.
func (r *ScriptRunner) SetFrameTime(dt float32) {
	if dt > 0 {
		r.dt = dt
	}
}

// Done reports whether every step has run.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Graph returns the graph the script writes to.
func (r *ScriptRunner) Graph() *MapGraph {
	return r.graph
}

// Player returns the player the script drives.
func (r *ScriptRunner) Player() *ClipPlayer {
	return r.player
}

// Run executes every remaining step, calling onFrame after each simulated
// frame.
func (r *ScriptRunner) Run(onFrame func(FrameReport)) {
	for !r.done {
		r.Step(onFrame)
	}
}

// Step executes the next step. Tick steps simulate their frames and call
// onFrame for each; onFrame may be nil.
func (r *ScriptRunner) Step(onFrame func(FrameReport)) {
	if r.done {
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}
	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "request":
		prio, _ := ParsePriority(st.Priority)
		mode, _ := ParsePlayMode(st.Mode)
		r.requests.Set(prio, Path(st.Path), mode)
	case "remove":
		if st.Priority == "" {
			r.requests.RemoveAll(Path(st.Path))
			break
		}
		prio, _ := ParsePriority(st.Priority)
		r.requests.Remove(prio, Path(st.Path))
	case "clear":
		if st.Priority == "" {
			r.requests.Reset()
			break
		}
		prio, _ := ParsePriority(st.Priority)
		r.requests.Clear(prio)
	case "move":
		r.move = Vec3{st.X, st.Y, st.Z}
		r.moving = true
	case "stop_moving":
		r.moving = false
	case "turn":
		r.yaw = st.Yaw * math.Pi / 180
	case "tick":
		frames := max(st.Frames, 1)
		dt := st.DT
		if dt <= 0 {
			dt = r.dt
		}
		for range frames {
			rep := r.tick(dt)
			if onFrame != nil {
				onFrame(rep)
			}
		}
	}

	if r.cursor >= len(r.steps) {
		r.done = true
	}
}

func (r *ScriptRunner) tick(dt float32) FrameReport {
	r.frame++
	rep := FrameReport{Frame: r.frame}
	orient := OrientationFromYaw(r.yaw)
	dirs := DirectionFunc(func() (Vec3, bool) {
		if !r.moving {
			return Vec3{}, false
		}
		return r.move.Normalize()
	})

	if !r.primed || r.requests.Version() != r.resolved {
		rep.Resolve = true
		rep.Stats = r.anim.Update(&r.requests, orient, dirs)
		r.resolved = r.requests.Version()
		r.primed = true
	} else {
		rep.Stats.Weighted = r.anim.UpdateBlend(r.requests.ActivePaths(), orient, dirs)
	}

	rep.Calls = append([]PlayerCall(nil), r.player.Calls...)
	r.player.ResetCalls()
	r.player.Advance(dt)
	r.anim.Advance(dt)
	return rep
}
