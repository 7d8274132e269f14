// Package command maps chat text onto bot commands and produces the reply
// messages for each of them.
package command

import "strings"

// Command is a canonical command name.
type Command string

const (
	Latest      Command = "/latest"
	Global      Command = "/global"
	Taiwan      Command = "/taiwan"
	Map         Command = "/map"
	Alert       Command = "/alert"
	Significant Command = "/significant"
	AI          Command = "/ai"
	Info        Command = "/info"
	Help        Command = "/help"
)

var aliases = map[string]Command{
	"1":      Latest,
	"2":      Global,
	"3":      Taiwan,
	"4":      Map,
	"5":      Alert,
	"6":      Significant,
	"7":      AI,
	"8":      Info,
	"9":      Help,
	"地震":     Global,
	"quake":  Global,
	"幫助":     Help,
	"台灣地震":   Taiwan,
	"臺灣地震":   Taiwan,
	"台灣地震畫圖": Map,
	"臺灣地震畫圖": Map,
	"地震預警":   Alert,
}

var canonical = map[Command]bool{
	Latest: true, Global: true, Taiwan: true, Map: true, Alert: true,
	Significant: true, AI: true, Info: true, Help: true,
}

// Parse resolves the first space-separated word of raw, case-insensitively,
// against the shortcut table or the canonical "/name" form. arg is the rest
// of the text, trimmed. ok is false when the text is not a command.
func Parse(raw string) (cmd Command, arg string, ok bool) {
	text := strings.TrimSpace(raw)
	key, rest, _ := strings.Cut(text, " ")
	key = strings.ToLower(key)

	if c, found := aliases[key]; found {
		return c, strings.TrimSpace(rest), true
	}
	if strings.HasPrefix(key, "/") && canonical[Command(key)] {
		return Command(key), strings.TrimSpace(rest), true
	}
	return "", "", false
}
