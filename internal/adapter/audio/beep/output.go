// Package beep provides the real audio output, playing preview streams
// through the system speaker via gopxl/beep.
//
// Preview media is fetched over HTTP into memory (previews are ~30 seconds
// of MP3, small enough to hold whole), decoded, and handed to the speaker.
// Loading is asynchronous; readiness, natural end and failure are reported
// through the per-load callbacks, never by blocking the caller.
package beep

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/songifyapp/songify/internal/domain"
	"github.com/songifyapp/songify/internal/ports"
)

// outputSampleRate is the fixed speaker sample rate; sources at other rates
// are resampled.
const outputSampleRate = beep.SampleRate(44100)

// resampleQuality is the beep resampler quality setting.
const resampleQuality = 4

// fetchTimeout bounds one preview download.
const fetchTimeout = 30 * time.Second

// Output implements ports.AudioOutput on the system speaker.
//
// Each Load bumps an internal sequence number. The fetch goroutine and the
// speaker's end-of-stream callback both carry the sequence they were started
// under and abandon their work when a newer Load has superseded them, so a
// slow download can never resurrect a replaced source.
type Output struct {
	logger     *slog.Logger
	httpClient *http.Client

	mu          sync.Mutex
	initialized bool
	closed      bool
	loadSeq     uint64

	// current source, nil when nothing is loaded
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	level    float64

	// memo of the last fetched preview so repeat-replay skips the network
	lastURL  string
	lastData []byte
}

// NewOutput creates the speaker-backed audio output.
func NewOutput(logger *slog.Logger) *Output {
	return &Output{
		logger:     logger,
		httpClient: &http.Client{Timeout: fetchTimeout},
		level:      1.0,
	}
}

// Load replaces the active source with mediaURL. Fetch and decode run in a
// goroutine; exactly one of OnReady or OnError fires unless a newer Load
// supersedes this one first.
func (o *Output) Load(mediaURL string, callbacks ports.OutputCallbacks) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		fireErr(callbacks.OnError, domain.ErrOutputClosed)
		return
	}

	o.stopLocked()
	o.loadSeq++
	seq := o.loadSeq
	o.mu.Unlock()

	go o.loadAsync(seq, mediaURL, callbacks)
}

// loadAsync fetches, decodes and installs one source.
func (o *Output) loadAsync(seq uint64, mediaURL string, callbacks ports.OutputCallbacks) {
	data, err := o.fetch(seq, mediaURL)
	if err != nil {
		o.mu.Lock()
		stale := o.closed || seq != o.loadSeq
		o.mu.Unlock()
		if !stale {
			o.logger.Warn("preview fetch failed",
				slog.String("media_url", mediaURL),
				slog.Any("error", err))
			fireErr(callbacks.OnError, domain.NewOutputError("load", mediaURL, err))
		}
		return
	}

	streamer, format, err := mp3.Decode(nopCloser{bytes.NewReader(data)})
	if err != nil {
		o.mu.Lock()
		stale := o.closed || seq != o.loadSeq
		o.mu.Unlock()
		if !stale {
			fireErr(callbacks.OnError, domain.NewOutputError("decode", mediaURL, err))
		}
		return
	}

	o.mu.Lock()
	if o.closed || seq != o.loadSeq {
		// Superseded while fetching; drop silently.
		o.mu.Unlock()
		_ = streamer.Close()
		return
	}

	if !o.initialized {
		if err := speaker.Init(outputSampleRate, outputSampleRate.N(time.Second/10)); err != nil {
			o.mu.Unlock()
			_ = streamer.Close()
			fireErr(callbacks.OnError, domain.NewOutputError("init", mediaURL, err))
			return
		}
		o.initialized = true
	}

	o.streamer = streamer
	o.format = format
	o.lastURL = mediaURL
	o.lastData = data

	var playable beep.Streamer = streamer
	if format.SampleRate != outputSampleRate {
		playable = beep.Resample(resampleQuality, format.SampleRate, outputSampleRate, streamer)
	}

	// Queue the source on the speaker paused; Play unpauses it. The end
	// callback carries this load's sequence so a drained source that was
	// already replaced stays silent.
	o.ctrl = &beep.Ctrl{Streamer: playable, Paused: true}
	o.volume = &effects.Volume{Streamer: o.ctrl, Base: 2, Volume: volumeGain(o.level), Silent: o.level == 0}
	ended := callbacks.OnEnded
	o.mu.Unlock()

	speaker.Play(beep.Seq(o.volume, beep.Callback(func() {
		// Runs on the mixing goroutine under the speaker lock. Other
		// methods hold o.mu while taking that lock, so touching o.mu here
		// would invert the order and deadlock; hand off immediately.
		o.handleStreamEnded(seq, ended)
	})))

	fire(callbacks.OnReady)
}

// handleStreamEnded reports a drained source to the ended callback. It must
// stay lock-free on the calling goroutine: the staleness check and the
// callback both run on a fresh goroutine, so a caller holding the speaker
// lock is never blocked on o.mu.
func (o *Output) handleStreamEnded(seq uint64, ended func()) {
	go func() {
		o.mu.Lock()
		stale := o.closed || seq != o.loadSeq
		o.mu.Unlock()
		if !stale && ended != nil {
			ended()
		}
	}()
}

// fetch downloads the preview bytes, reusing the previous download when the
// same URL is loaded again (the repeat-replay path).
func (o *Output) fetch(seq uint64, mediaURL string) ([]byte, error) {
	o.mu.Lock()
	if o.lastURL == mediaURL && o.lastData != nil {
		data := o.lastData
		o.mu.Unlock()
		return data, nil
	}
	o.mu.Unlock()

	resp, err := o.httpClient.Get(mediaURL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// Play starts or resumes playback of the loaded source.
func (o *Output) Play() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.ctrl == nil {
		return domain.ErrNoMediaLoaded
	}

	speaker.Lock()
	o.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

// Pause pauses playback, preserving the position.
func (o *Output) Pause() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.ctrl == nil {
		return domain.ErrNoMediaLoaded
	}

	speaker.Lock()
	o.ctrl.Paused = true
	speaker.Unlock()
	return nil
}

// Stop halts playback and releases the loaded source.
func (o *Output) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	// Invalidate outstanding callbacks as well.
	o.loadSeq++
	o.stopLocked()
	return nil
}

// stopLocked releases the current source. Caller holds o.mu.
func (o *Output) stopLocked() {
	if o.ctrl != nil {
		// Remove the source from the mixer entirely; pausing it in place
		// would leave every superseded track streaming silence for the
		// rest of the session.
		speaker.Clear()
	}
	if o.streamer != nil {
		_ = o.streamer.Close()
		o.streamer = nil
	}
	o.ctrl = nil
	o.volume = nil
}

// Seek sets the playback position within the loaded source.
func (o *Output) Seek(position time.Duration) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.streamer == nil {
		return domain.ErrNoMediaLoaded
	}

	if position < 0 {
		position = 0
	}

	speaker.Lock()
	defer speaker.Unlock()

	sample := o.format.SampleRate.N(position)
	if total := o.streamer.Len(); sample > total {
		sample = total
	}
	if err := o.streamer.Seek(sample); err != nil {
		return domain.NewOutputError("seek", o.lastURL, err)
	}
	return nil
}

// SetVolume applies a volume level in [0, 1] to the output.
// The level maps onto an exponential gain curve; zero is hard silence.
func (o *Output) SetVolume(level float64) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.level = level
	if o.volume == nil {
		return nil
	}

	speaker.Lock()
	o.volume.Volume = volumeGain(level)
	o.volume.Silent = level == 0
	speaker.Unlock()
	return nil
}

// Position returns the current playback position, zero when nothing is loaded.
func (o *Output) Position() time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.streamer == nil {
		return 0
	}

	speaker.Lock()
	pos := o.streamer.Position()
	speaker.Unlock()
	return o.format.SampleRate.D(pos)
}

// Duration returns the loaded source's total length, zero when unknown.
func (o *Output) Duration() time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.streamer == nil {
		return 0
	}

	return o.format.SampleRate.D(o.streamer.Len())
}

// Close releases the output. No callbacks fire after Close returns.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil
	}
	o.closed = true
	o.loadSeq++
	o.stopLocked()
	o.lastData = nil
	return nil
}

// volumeGain maps a linear [0, 1] level onto beep's exponential volume
// scale, where 0 is unity gain and each -1 halves the power.
func volumeGain(level float64) float64 {
	if level <= 0 {
		return 0 // irrelevant, Silent is set
	}
	return math.Log2(level)
}

// fire invokes an optional niladic callback.
func fire(fn func()) {
	if fn != nil {
		fn()
	}
}

// fireErr invokes an optional error callback.
func fireErr(fn func(error), err error) {
	if fn != nil {
		fn(err)
	}
}

// nopCloser adapts a bytes.Reader to io.ReadCloser for the decoder.
type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }

// Verify that Output implements the AudioOutput interface
var _ ports.AudioOutput = (*Output)(nil)
