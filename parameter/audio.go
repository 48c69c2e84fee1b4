package parameter

import "time"

// Audio
const (
	AudioSampleRate = 44100
	AudioBufferSize = AudioSampleRate / 20 // 50ms

	// AudioMaxTone bounds a single tone request
	AudioMaxTone = 2 * time.Second

	// SeekCueFrequency is the tone played when a loop reset begins
	SeekCueFrequency = 220.0
	SeekCueDuration  = 180 * time.Millisecond

	// AudioVolume is the linear gain applied to every tone
	AudioVolume = 0.25
)
