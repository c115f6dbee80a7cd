package filtergraph

import "fmt"

// MergeOptions describes a primary video combined with a narration track.
// Input 0 is the video, input 1 the narration.
type MergeOptions struct {
	Video string
	Audio string

	// VideoHasAudio is the probe result for the video; without a video audio
	// stream the narration becomes the only audio.
	VideoHasAudio bool

	Duration    float64
	Size        Size
	Mode        ResizeMode
	VideoVolume float64
	AudioVolume float64
}

// MergeAudio fits the video to the target frame and mixes or replaces its
// audio with the narration trimmed to Duration.
func MergeAudio(opts MergeOptions) (*Graph, error) {
	if err := opts.Size.validate(); err != nil {
		return nil, err
	}
	if err := validDuration(opts.Duration); err != nil {
		return nil, err
	}
	if !finite(opts.VideoVolume, opts.AudioVolume) {
		return nil, fmt.Errorf("%w: volume %v/%v", ErrInvalidOption, opts.VideoVolume, opts.AudioVolume)
	}
	fit, err := fitFilters(opts.Size, opts.Mode)
	if err != nil {
		return nil, err
	}

	b := NewBuilder(Input{Path: opts.Video}, Input{Path: opts.Audio})
	video := b.Add([]Pad{Source(0, Video)}, "v", fit...)

	narration := []Filter{volumeFilter(opts.AudioVolume), atrimFilter(opts.Duration), resetPTS("asetpts")}

	var audio Pad
	if opts.VideoHasAudio {
		base := b.Add([]Pad{Source(0, Audio)}, "va", volumeFilter(opts.VideoVolume))
		voice := b.Add([]Pad{Source(1, Audio)}, "aa", narration...)
		// The base track's own length decides where the mix ends.
		audio = b.Add([]Pad{base, voice}, "a", amixFilter(2))
	} else {
		audio = b.Add([]Pad{Source(1, Audio)}, "a", narration...)
	}

	return b.Build(video, audio)
}

// Loudness holds EBU R128 targets for the loudnorm filter.
type Loudness struct {
	Integrated float64
	TruePeak   float64
	Range      float64
}

// MusicOptions describes a video with a background music bed. Input 0 is the
// video, input 1 the music.
type MusicOptions struct {
	Video string
	Music string

	VideoHasAudio bool

	// Duration is the video length; the music is looped and cut to it.
	Duration    float64
	MusicVolume float64
	VideoVolume float64
	Loudness    Loudness
}

// BackgroundMusic normalizes and loops the music under the video's own audio.
// The video stream is mapped directly so it can be stream copied.
func BackgroundMusic(opts MusicOptions) (*Graph, error) {
	if err := validDuration(opts.Duration); err != nil {
		return nil, err
	}
	l := opts.Loudness
	if !finite(opts.MusicVolume, opts.VideoVolume, l.Integrated, l.TruePeak, l.Range) {
		return nil, fmt.Errorf("%w: non-finite volume or loudness target", ErrInvalidOption)
	}

	loudnorm := Filter{Name: "loudnorm", Args: []Arg{
		{Key: "I", Value: num(opts.Loudness.Integrated)},
		{Key: "TP", Value: num(opts.Loudness.TruePeak)},
		{Key: "LRA", Value: num(opts.Loudness.Range)},
	}}
	aloop := Filter{Name: "aloop", Args: []Arg{
		{Key: "loop", Value: "-1"},
		{Key: "size", Value: "2e+09"},
	}}

	b := NewBuilder(Input{Path: opts.Video}, Input{Path: opts.Music})
	music := b.Add([]Pad{Source(1, Audio)}, "ma",
		loudnorm, volumeFilter(opts.MusicVolume), aloop, atrimFilter(opts.Duration))

	var audio Pad
	if opts.VideoHasAudio {
		base := b.Add([]Pad{Source(0, Audio)}, "va", volumeFilter(opts.VideoVolume))
		audio = b.Add([]Pad{base, music}, "a", amixFilter(2, Arg{Key: "dropout_transition", Value: "2"}))
	} else {
		audio = b.Add([]Pad{music}, "a", Filter{Name: "anull"})
	}

	return b.Build(Source(0, Video), audio)
}
