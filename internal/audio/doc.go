// Package audio provides cross-platform PCM playback using the oto/v3
// library, plus the ffmpeg-based decoder that turns recorded clips into
// playable PCM.
package audio
