// Package cli implements the interactive command shell. It is the terminal
// front end over the player, playlist and search services: commands come in
// on stdin, playback state changes arrive over the event bus and are printed
// as they happen.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/songifyapp/songify/internal/app"
	"github.com/songifyapp/songify/internal/domain"
	"github.com/songifyapp/songify/internal/ports"
	"github.com/songifyapp/songify/internal/service"
)

// Shell is the interactive terminal front end.
type Shell struct {
	logger   *slog.Logger
	player   *service.PlayerService
	playlist *service.PlaylistService
	search   *service.SearchService
	bus      ports.EventBus

	in  io.Reader
	out io.Writer

	// results is the track list the last chart/search/playlist command
	// printed; play and save indexes refer into it.
	results []domain.Track

	subs []domain.SubscriptionID
}

// NewShell creates a shell over the application's services.
func NewShell(application *app.Application, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		logger:   application.Logger().With(slog.String("component", "shell")),
		player:   application.Player(),
		playlist: application.Playlist(),
		search:   application.Search(),
		bus:      application.EventBus(),
		in:       in,
		out:      out,
	}
}

// Run reads commands until EOF, the quit command, or context cancellation.
func (s *Shell) Run(ctx context.Context) error {
	s.subscribe()
	defer s.unsubscribe()

	fmt.Fprintln(s.out, "songify - type 'help' for commands")
	if last := s.search.LastQuery(); last != "" {
		fmt.Fprintf(s.out, "last search: %s\n", last)
	}

	// The reader goroutine blocks in Scan on stdin, which has no portable
	// cancellation; the done channel at least lets it exit once Run has
	// returned and nobody reads lines anymore.
	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	for {
		fmt.Fprint(s.out, "> ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := s.dispatch(ctx, line)
			if err != nil {
				fmt.Fprintf(s.out, "error: %v\n", err)
			}
			if quit {
				return nil
			}
		}
	}
}

// dispatch parses one command line. The returned bool requests shutdown.
func (s *Shell) dispatch(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()
	case "chart":
		return false, s.runChart(ctx)
	case "search", "s":
		return false, s.runSearch(ctx, strings.Join(args, " "))
	case "artists":
		return false, s.runArtists(ctx, strings.Join(args, " "))
	case "play", "p":
		return false, s.runPlay(args)
	case "pause", "resume":
		return false, s.player.TogglePlay()
	case "next", "n":
		return false, s.player.PlayNext()
	case "prev":
		return false, s.player.PlayPrevious()
	case "seek":
		return false, s.runSeek(args)
	case "vol", "volume":
		return false, s.runVolume(args)
	case "shuffle":
		fmt.Fprintf(s.out, "shuffle %s\n", onOff(s.player.ToggleShuffle()))
	case "repeat":
		fmt.Fprintf(s.out, "repeat %s\n", onOff(s.player.ToggleRepeat()))
	case "queue", "q":
		s.printTracks(s.player.Queue())
	case "save":
		return false, s.runSave(args)
	case "playlist", "pl":
		s.results = s.playlist.Tracks()
		s.printTracks(s.results)
	case "remove", "rm":
		return false, s.runRemove(args)
	case "clearlist":
		return false, s.playlist.Clear()
	case "status", "st":
		s.printStatus()
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
	return false, nil
}

func (s *Shell) runChart(ctx context.Context) error {
	chart, err := s.search.Chart(ctx)
	if err != nil {
		return err
	}
	s.results = chart.Tracks
	s.printTracks(s.results)
	return nil
}

func (s *Shell) runSearch(ctx context.Context, query string) error {
	tracks, err := s.search.SearchTracks(ctx, query)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		fmt.Fprintln(s.out, "no results")
		return nil
	}
	s.results = tracks
	s.printTracks(s.results)
	return nil
}

func (s *Shell) runArtists(ctx context.Context, query string) error {
	artists, err := s.search.SearchArtists(ctx, query)
	if err != nil {
		return err
	}
	if len(artists) == 0 {
		fmt.Fprintln(s.out, "no results")
		return nil
	}
	for i, artist := range artists {
		fmt.Fprintf(s.out, "%3d. %s\n", i+1, artist.Name)
	}
	return nil
}

func (s *Shell) runPlay(args []string) error {
	track, err := s.resultAt(args)
	if err != nil {
		return err
	}
	return s.player.Play(track)
}

func (s *Shell) runSave(args []string) error {
	track, err := s.resultAt(args)
	if err != nil {
		return err
	}
	if err := s.playlist.Add(track); err != nil {
		if errors.Is(err, domain.ErrDuplicateTrack) {
			fmt.Fprintf(s.out, "%s is already in the playlist\n", track.Title)
			return nil
		}
		return err
	}
	fmt.Fprintf(s.out, "saved %s\n", track.Title)
	return nil
}

func (s *Shell) runRemove(args []string) error {
	track, err := s.resultAt(args)
	if err != nil {
		return err
	}
	if err := s.playlist.Remove(track.MediaURL); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "removed %s\n", track.Title)
	return nil
}

func (s *Shell) runSeek(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: seek <seconds>")
	}
	seconds, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid position %q", args[0])
	}
	return s.player.Seek(time.Duration(seconds * float64(time.Second)))
}

func (s *Shell) runVolume(args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(s.out, "volume %.0f%%\n", s.player.State().Volume*100)
		return nil
	}
	level, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid volume %q", args[0])
	}
	if level > 1 {
		level /= 100 // Accept both 0-1 and percent
	}
	return s.player.SetVolume(level)
}

// resultAt resolves a 1-based index argument against the last printed list.
func (s *Shell) resultAt(args []string) (domain.Track, error) {
	if len(args) != 1 {
		return domain.Track{}, errors.New("usage: <command> <number>")
	}
	index, err := strconv.Atoi(args[0])
	if err != nil || index < 1 || index > len(s.results) {
		return domain.Track{}, fmt.Errorf("no result number %s (list tracks first)", args[0])
	}
	return s.results[index-1], nil
}

func (s *Shell) printTracks(tracks []domain.Track) {
	if len(tracks) == 0 {
		fmt.Fprintln(s.out, "(empty)")
		return
	}
	for i, track := range tracks {
		fmt.Fprintf(s.out, "%3d. %s - %s\n", i+1, track.Artist, track.Title)
	}
}

func (s *Shell) printStatus() {
	state := s.player.State()
	if state.CurrentTrack == nil {
		fmt.Fprintln(s.out, "nothing loaded")
		return
	}

	verb := "paused"
	if state.IsPlaying {
		verb = "playing"
	}
	fmt.Fprintf(s.out, "%s: %s - %s [%s/%s] vol %.0f%% shuffle %s repeat %s\n",
		verb, state.CurrentTrack.Artist, state.CurrentTrack.Title,
		domain.FormatDuration(state.Progress), domain.FormatDuration(state.Duration),
		state.Volume*100, onOff(state.Shuffle), onOff(state.Repeat))
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `commands:
  chart                 show top tracks
  search <query>        search tracks
  artists <query>       search artists
  play <n>              play result n (adds it to the queue)
  pause                 toggle play/pause
  next / prev           skip within the queue
  seek <seconds>        jump to a position
  vol [level]           show or set volume (0-1 or percent)
  shuffle / repeat      toggle playback modes
  queue                 show the play queue
  save <n>              add result n to the saved playlist
  playlist              show the saved playlist
  remove <n>            remove result n from the saved playlist
  clearlist             empty the saved playlist
  status                show playback state
  quit                  exit
`)
}

// subscribe wires playback events to terminal output.
func (s *Shell) subscribe() {
	s.subs = append(s.subs,
		s.bus.Subscribe(domain.EventTrackStarted, func(event domain.Event) {
			if e, ok := event.(domain.TrackStartedEvent); ok {
				fmt.Fprintf(s.out, "\n♪ now playing: %s - %s\n> ", e.Track.Artist, e.Track.Title)
			}
		}),
		s.bus.Subscribe(domain.EventTrackError, func(event domain.Event) {
			if e, ok := event.(domain.TrackErrorEvent); ok {
				fmt.Fprintf(s.out, "\nplayback error for %s: %v\n> ", e.Track.Title, e.Err)
			}
		}),
		s.bus.Subscribe(domain.EventTrackStopped, func(event domain.Event) {
			if _, ok := event.(domain.TrackStoppedEvent); ok {
				fmt.Fprint(s.out, "\nplayback finished\n> ")
			}
		}),
	)
}

func (s *Shell) unsubscribe() {
	for _, id := range s.subs {
		s.bus.Unsubscribe(id)
	}
	s.subs = nil
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}
