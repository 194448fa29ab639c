// Package player previews fetched media files through the system speaker.
// Only mp3 is decoded locally; everything else stays a download-only format.
package player

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
)

type Preview struct {
	mu       sync.Mutex
	ctrl     *beep.Ctrl
	streamer beep.StreamSeekCloser
	path     string
	started  bool
}

func NewPreview() *Preview {
	return &Preview{}
}

// CanPlay reports whether the file format is locally decodable.
func CanPlay(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".mp3")
}

// Play starts playback of a local file, replacing whatever was playing.
func (p *Preview) Play(path string) error {
	if !CanPlay(path) {
		return fmt.Errorf("unsupported preview format %q", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer != nil {
		speaker.Clear()
		p.streamer.Close()
	}
	if !p.started {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			streamer.Close()
			return err
		}
		p.started = true
	}

	p.streamer = streamer
	p.path = path
	p.ctrl = &beep.Ctrl{Streamer: streamer}
	speaker.Play(p.ctrl)
	return nil
}

// TogglePause flips pause state and reports whether playback is now paused.
func (p *Preview) TogglePause() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctrl == nil {
		return false
	}
	speaker.Lock()
	p.ctrl.Paused = !p.ctrl.Paused
	paused := p.ctrl.Paused
	speaker.Unlock()
	return paused
}

// Playing returns the path of the current file, empty when idle.
func (p *Preview) Playing() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.path
}

func (p *Preview) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer != nil {
		speaker.Clear()
		p.streamer.Close()
		p.streamer = nil
	}
	p.ctrl = nil
	p.path = ""
}
