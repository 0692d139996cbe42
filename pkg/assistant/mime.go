package assistant

import (
	"path/filepath"
	"strings"
)

var audioMIME = map[string]string{
	".webm": "audio/webm",
	".ogg":  "audio/ogg",
	".opus": "audio/ogg",
	".wav":  "audio/wav",
	".mp3":  "audio/mp3",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".flac": "audio/flac",
}

// AudioMIME guesses the MIME type from a file name, defaulting to webm
// which is what browser recorders produce.
func AudioMIME(fileName string) string {
	if m, ok := audioMIME[strings.ToLower(filepath.Ext(fileName))]; ok {
		return m
	}
	return "audio/webm"
}
