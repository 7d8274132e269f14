// Package reply builds the text blocks and message lists sent back to the
// chat user.
package reply

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxTextRunes is the LINE limit for one text message.
const MaxTextRunes = 5000

type Kind int

const (
	KindText Kind = iota
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	}
	return "unknown"
}

// Message is one outgoing message: text, or an image with its preview.
type Message struct {
	Kind       Kind
	Text       string
	ImageURL   string
	PreviewURL string
}

func Text(s string) Message {
	return Message{Kind: KindText, Text: s}
}

// Image returns an image message. An empty preview reuses the original URL.
func Image(url, preview string) Message {
	if preview == "" {
		preview = url
	}
	return Message{Kind: KindImage, ImageURL: url, PreviewURL: preview}
}

// OrDefault returns def when s is blank.
func OrDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// Escape drops control characters other than newline and tab from
// provider-supplied text. Braces and other punctuation are kept as-is.
func Escape(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// Clip truncates s to max runes, ending with an ellipsis when cut.
func Clip(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}
