package graph

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/calyptra/synapse/pkg/cell"
	"github.com/calyptra/synapse/pkg/plasm"
)

// Recorder writes one dot frame per process call, so a run can be replayed
// as an animation. Frames land in Dir as frame-000001.dot and so on.
type Recorder struct {
	Dir string

	p     *plasm.Plasm
	mu    sync.Mutex
	frame int
}

// NewRecorder attaches a recorder to every cell of p. The directory is
// created on the first frame.
func NewRecorder(p *plasm.Plasm, dir string) *Recorder {
	r := &Recorder{Dir: dir, p: p}
	for _, c := range p.Cells() {
		c.OnProcess(func(*cell.Cell, cell.ReturnCode, error) {
			_ = r.Capture()
		})
	}
	return r
}

// Capture writes the next frame.
func (r *Recorder) Capture() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return err
	}
	r.frame++
	name := filepath.Join(r.Dir, fmt.Sprintf("frame-%06d.dot", r.frame))
	dot := GenerateDot(r.p, CaptureOverlay(r.p))
	return os.WriteFile(name, []byte(dot), 0o644)
}

// Frames returns the number of frames written so far.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame
}
