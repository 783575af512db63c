package render

import (
	"image/color"

	"github.com/memesocial/mockchat/internal/domain"
)

// Theme is the WhatsApp skin palette for one dark-mode setting.
type Theme struct {
	StatusBar     color.RGBA
	StatusBarText color.RGBA
	AppBar        color.RGBA
	AppBarText    color.RGBA
	AppBarSub     color.RGBA
	Wallpaper     color.RGBA
	Doodle        color.RGBA
	BubbleOut     color.RGBA
	BubbleIn      color.RGBA
	TextPrimary   color.RGBA
	TextSecondary color.RGBA
	TickGray      color.RGBA
	TickBlue      color.RGBA
	SystemPill    color.RGBA
	SystemText    color.RGBA
	NoticePill    color.RGBA
	NoticeText    color.RGBA
	ReplyBar      color.RGBA
	ReplyBg       color.RGBA
	ReactionPill  color.RGBA
	InputBar      color.RGBA
	InputField    color.RGBA
	InputHint     color.RGBA
	AvatarFallbk  color.RGBA
}

func lightTheme() Theme {
	return Theme{
		StatusBar:     rgb(0x00, 0x80, 0x69),
		StatusBarText: rgb(0xff, 0xff, 0xff),
		AppBar:        rgb(0x00, 0x80, 0x69),
		AppBarText:    rgb(0xff, 0xff, 0xff),
		AppBarSub:     rgb(0xd9, 0xfd, 0xf2),
		Wallpaper:     rgb(0xe5, 0xdd, 0xd5),
		Doodle:        rgb(0xc8, 0xbf, 0xb6),
		BubbleOut:     rgb(0xd9, 0xfd, 0xd3),
		BubbleIn:      rgb(0xff, 0xff, 0xff),
		TextPrimary:   rgb(0x11, 0x1b, 0x21),
		TextSecondary: rgb(0x66, 0x77, 0x81),
		TickGray:      rgb(0x86, 0x96, 0xa0),
		TickBlue:      rgb(0x53, 0xbd, 0xeb),
		SystemPill:    rgb(0xff, 0xff, 0xff),
		SystemText:    rgb(0x54, 0x65, 0x6f),
		NoticePill:    rgb(0xff, 0xf3, 0xc7),
		NoticeText:    rgb(0x54, 0x65, 0x6f),
		ReplyBar:      rgb(0x00, 0xa8, 0x84),
		ReplyBg:       rgb(0xf0, 0xf0, 0xf0),
		ReactionPill:  rgb(0xff, 0xff, 0xff),
		InputBar:      rgb(0xf0, 0xf2, 0xf5),
		InputField:    rgb(0xff, 0xff, 0xff),
		InputHint:     rgb(0x8a, 0x9a, 0xa4),
		AvatarFallbk:  rgb(0xdf, 0xe5, 0xe7),
	}
}

func darkTheme() Theme {
	return Theme{
		StatusBar:     rgb(0x1f, 0x2c, 0x34),
		StatusBarText: rgb(0xe9, 0xed, 0xef),
		AppBar:        rgb(0x1f, 0x2c, 0x34),
		AppBarText:    rgb(0xe9, 0xed, 0xef),
		AppBarSub:     rgb(0x86, 0x96, 0xa0),
		Wallpaper:     rgb(0x0b, 0x14, 0x1a),
		Doodle:        rgb(0x1c, 0x27, 0x2e),
		BubbleOut:     rgb(0x00, 0x5c, 0x4b),
		BubbleIn:      rgb(0x20, 0x2c, 0x33),
		TextPrimary:   rgb(0xe9, 0xed, 0xef),
		TextSecondary: rgb(0x86, 0x96, 0xa0),
		TickGray:      rgb(0x86, 0x96, 0xa0),
		TickBlue:      rgb(0x53, 0xbd, 0xeb),
		SystemPill:    rgb(0x18, 0x24, 0x2b),
		SystemText:    rgb(0x86, 0x96, 0xa0),
		NoticePill:    rgb(0x18, 0x24, 0x2b),
		NoticeText:    rgb(0xff, 0xd2, 0x79),
		ReplyBar:      rgb(0x00, 0xa8, 0x84),
		ReplyBg:       rgb(0x1b, 0x25, 0x2c),
		ReactionPill:  rgb(0x26, 0x33, 0x3b),
		InputBar:      rgb(0x1f, 0x2c, 0x34),
		InputField:    rgb(0x2a, 0x39, 0x42),
		InputHint:     rgb(0x8a, 0x9a, 0xa4),
		AvatarFallbk:  rgb(0x2a, 0x39, 0x42),
	}
}

func themeFor(c *domain.ChatModel) Theme {
	if c.DarkMode {
		return darkTheme()
	}
	return lightTheme()
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// senderPalette colors group sender names when a participant carries no
// explicit color tag. Selection hashes the participant id so it is stable
// across composes.
var senderPalette = []color.RGBA{
	rgb(0xe5, 0x42, 0xa3),
	rgb(0x00, 0xa8, 0x84),
	rgb(0x53, 0xbd, 0xeb),
	rgb(0xff, 0x8f, 0x2c),
	rgb(0x9c, 0x6f, 0xe4),
	rgb(0xdf, 0x64, 0x5b),
}

func senderColor(p domain.Participant) color.RGBA {
	if c, ok := parseHexColor(p.ColorTag); ok {
		return c
	}
	h := uint32(2166136261)
	for i := 0; i < len(p.ID); i++ {
		h ^= uint32(p.ID[i])
		h *= 16777619
	}
	return senderPalette[h%uint32(len(senderPalette))]
}

// parseHexColor accepts "#rgb" and "#rrggbb".
func parseHexColor(s string) (color.RGBA, bool) {
	if len(s) == 0 || s[0] != '#' {
		return color.RGBA{}, false
	}
	hex := s[1:]
	nib := func(b byte) (uint8, bool) {
		switch {
		case b >= '0' && b <= '9':
			return b - '0', true
		case b >= 'a' && b <= 'f':
			return b - 'a' + 10, true
		case b >= 'A' && b <= 'F':
			return b - 'A' + 10, true
		}
		return 0, false
	}
	switch len(hex) {
	case 3:
		var v [3]uint8
		for i := 0; i < 3; i++ {
			n, ok := nib(hex[i])
			if !ok {
				return color.RGBA{}, false
			}
			v[i] = n<<4 | n
		}
		return color.RGBA{v[0], v[1], v[2], 255}, true
	case 6:
		var v [3]uint8
		for i := 0; i < 3; i++ {
			hi, ok1 := nib(hex[2*i])
			lo, ok2 := nib(hex[2*i+1])
			if !ok1 || !ok2 {
				return color.RGBA{}, false
			}
			v[i] = hi<<4 | lo
		}
		return color.RGBA{v[0], v[1], v[2], 255}, true
	}
	return color.RGBA{}, false
}

// chromeStrings are the localized fixed labels the skin renders. Unknown
// languages fall back to English.
type chromeStrings struct {
	Online        string
	LastSeen      string
	EncryptedNote string
	ReplyMissing  string
	TypeMessage   string
	Photo         string
}

var chromeByLang = map[string]chromeStrings{
	"en": {
		Online:        "online",
		LastSeen:      "last seen",
		EncryptedNote: "Messages and calls are end-to-end encrypted.",
		ReplyMissing:  "Original message unavailable",
		TypeMessage:   "Type a message",
		Photo:         "Photo",
	},
	"es": {
		Online:        "en linea",
		LastSeen:      "ult. vez",
		EncryptedNote: "Los mensajes y llamadas estan cifrados de extremo a extremo.",
		ReplyMissing:  "Mensaje original no disponible",
		TypeMessage:   "Escribe un mensaje",
		Photo:         "Foto",
	},
	"pt": {
		Online:        "online",
		LastSeen:      "visto por ultimo",
		EncryptedNote: "As mensagens e chamadas sao protegidas com criptografia.",
		ReplyMissing:  "Mensagem original indisponivel",
		TypeMessage:   "Mensagem",
		Photo:         "Foto",
	},
	"de": {
		Online:        "online",
		LastSeen:      "zuletzt online",
		EncryptedNote: "Nachrichten und Anrufe sind Ende-zu-Ende-verschluesselt.",
		ReplyMissing:  "Originalnachricht nicht verfuegbar",
		TypeMessage:   "Nachricht schreiben",
		Photo:         "Foto",
	},
}

func chromeFor(lang string) chromeStrings {
	if s, ok := chromeByLang[lang]; ok {
		return s
	}
	return chromeByLang["en"]
}
