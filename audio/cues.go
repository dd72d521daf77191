// Package audio plays the sound cues actors queue on the map during a tick.
package audio

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

const SampleRate = 44100

// CueDir is where cue sounds live inside the asset tree.
const CueDir = "sounds"

// Player resolves cue names to sounds/<cue>.wav, decodes each once and
// plays it. Cues without a sound file are logged once and ignored.
type Player struct {
	fsys    fs.FS
	volume  float64
	ctx     *audio.Context
	pcm     map[string][]byte
	missing map[string]bool
	active  []*audio.Player
	logger  *log.Logger
}

func NewPlayer(fsys fs.FS, volume float64) *Player {
	return &Player{
		fsys:    fsys,
		volume:  volume,
		pcm:     make(map[string][]byte),
		missing: make(map[string]bool),
		logger:  log.WithPrefix("audio"),
	}
}

func (p *Player) context() *audio.Context {
	if p.ctx == nil {
		if ctx := audio.CurrentContext(); ctx != nil {
			p.ctx = ctx
		} else {
			p.ctx = audio.NewContext(SampleRate)
		}
	}
	return p.ctx
}

// Play starts every distinct cue once. Cues queued several times in the same
// tick play a single time.
func (p *Player) Play(cues []string) {
	p.prune()
	for _, cue := range Distinct(cues) {
		data, err := p.Load(cue)
		if err != nil {
			if !p.missing[cue] {
				p.logger.Warn("cue unavailable", "cue", cue, "err", err)
				p.missing[cue] = true
			}
			continue
		}
		player := p.context().NewPlayerFromBytes(data)
		player.SetVolume(p.volume)
		player.Play()
		p.active = append(p.active, player)
	}
}

// Load returns the decoded PCM of cue, reading and caching it on first use.
func (p *Player) Load(cue string) ([]byte, error) {
	if data, ok := p.pcm[cue]; ok {
		return data, nil
	}
	file := path.Join(CueDir, cue+".wav")
	raw, err := fs.ReadFile(p.fsys, file)
	if err != nil {
		return nil, err
	}
	stream, err := wav.DecodeWithSampleRate(SampleRate, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode wav %q: %w", file, err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("decode wav %q: %w", file, err)
	}
	p.pcm[cue] = data
	return data, nil
}

// Forget drops cached sounds so the next Play rereads them.
func (p *Player) Forget() {
	p.pcm = make(map[string][]byte)
	p.missing = make(map[string]bool)
}

func (p *Player) prune() {
	kept := p.active[:0]
	for _, pl := range p.active {
		if pl.IsPlaying() {
			kept = append(kept, pl)
			continue
		}
		_ = pl.Close()
	}
	p.active = kept
}

// Distinct returns cues without repeats, in first-seen order.
func Distinct(cues []string) []string {
	seen := make(map[string]bool, len(cues))
	out := make([]string, 0, len(cues))
	for _, c := range cues {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
