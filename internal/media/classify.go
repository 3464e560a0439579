package media

import (
	"path/filepath"
	"strings"

	"github.com/matheus3301/wexport/internal/chat"
)

// extKinds maps known file extensions (lowercase, no dot) to a media kind.
var extKinds = map[string]chat.MediaKind{
	"jpg":  chat.KindPhoto,
	"jpeg": chat.KindPhoto,
	"png":  chat.KindPhoto,
	"gif":  chat.KindPhoto,
	"webp": chat.KindPhoto,
	"heic": chat.KindPhoto,

	"mp4":  chat.KindVideo,
	"mov":  chat.KindVideo,
	"avi":  chat.KindVideo,
	"mkv":  chat.KindVideo,
	"webm": chat.KindVideo,
	"3gp":  chat.KindVideo,

	"mp3": chat.KindAudio,
	"wav": chat.KindAudio,
	"ogg": chat.KindAudio,
	"m4a": chat.KindAudio,
	"aac": chat.KindAudio,

	// WhatsApp voice notes are exported as .opus.
	"opus": chat.KindVoice,

	"pdf":  chat.KindDocument,
	"doc":  chat.KindDocument,
	"docx": chat.KindDocument,
	"xls":  chat.KindDocument,
	"xlsx": chat.KindDocument,
	"ppt":  chat.KindDocument,
	"pptx": chat.KindDocument,
	"txt":  chat.KindDocument,
	"vcf":  chat.KindDocument,
}

// prefixKinds maps the mobile export filename prefixes to a kind.
var prefixKinds = []struct {
	prefix string
	kind   chat.MediaKind
}{
	{"IMG-", chat.KindPhoto},
	{"VID-", chat.KindVideo},
	{"AUD-", chat.KindAudio},
	{"PTT-", chat.KindVoice},
	{"DOC-", chat.KindDocument},
}

// keywordKinds maps type tokens embedded in desktop export filenames
// (00000179-PHOTO-2025-04-24-16-21-11.jpg) to a kind.
var keywordKinds = []struct {
	keyword string
	kind    chat.MediaKind
}{
	{"PHOTO", chat.KindPhoto},
	{"VIDEO", chat.KindVideo},
	{"VOICE", chat.KindVoice},
	{"AUDIO", chat.KindAudio},
	{"DOCUMENT", chat.KindDocument},
	{"STICKER", chat.KindPhoto},
}

// Classify maps a filename to a coarse media kind. It is a total function:
// any input, including the empty string, yields a kind. Classification
// quality only affects display richness, never message identity or merge.
func Classify(filename string) chat.MediaKind {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if kind, ok := extKinds[ext]; ok {
		return kind
	}

	base := filepath.Base(filename)
	for _, p := range prefixKinds {
		if strings.HasPrefix(base, p.prefix) {
			return p.kind
		}
	}
	upper := strings.ToUpper(base)
	for _, k := range keywordKinds {
		if strings.Contains(upper, k.keyword) {
			return k.kind
		}
	}

	return chat.KindUnknown
}
