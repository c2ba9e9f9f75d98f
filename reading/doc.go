// Package reading turns raw text into a token stream and tracks playback over it.
//
// Tokenize splits text on Unicode word boundaries and attaches trailing
// punctuation to each word as marks. Timing converts a token and a reading
// speed into a display delay. State owns a loaded document: the current
// position, the speed, and sentence-level navigation.
package reading
