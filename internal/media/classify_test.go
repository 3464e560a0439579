package media

import (
	"testing"

	"github.com/matheus3301/wexport/internal/chat"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		filename string
		want     chat.MediaKind
	}{
		{"photo.jpg", chat.KindPhoto},
		{"photo.JPG", chat.KindPhoto},
		{"clip.mp4", chat.KindVideo},
		{"song.mp3", chat.KindAudio},
		{"note.opus", chat.KindVoice},
		{"contract.pdf", chat.KindDocument},
		{"contact.vcf", chat.KindDocument},
		// Mobile export prefixes, unknown extension.
		{"IMG-20250425-WA0051.bin", chat.KindPhoto},
		{"VID-20230822-WA0001.bin", chat.KindVideo},
		{"PTT-20230822-WA0002.bin", chat.KindVoice},
		// Desktop export type tokens.
		{"00000179-PHOTO-2025-04-24-16-21-11.dat", chat.KindPhoto},
		{"00000042-VIDEO-2025-04-24.dat", chat.KindVideo},
		{"00000007-STICKER-2025-04-24.dat", chat.KindPhoto},
		// Extension wins over the embedded token.
		{"00000179-PHOTO-2025-04-24.mp4", chat.KindVideo},
		{"mystery.xyz", chat.KindUnknown},
		{"noextension", chat.KindUnknown},
		{"", chat.KindUnknown},
	}
	for _, tt := range tests {
		if got := Classify(tt.filename); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
