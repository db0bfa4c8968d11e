// Package i18n holds the message catalog for the character table's fixed
// labels and static messages, and resolves the language of a request.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LangParam is the query parameter used to select a language.
const LangParam = "lang"

// Message keys.
const (
	KeyTitle          = "title.characters"
	KeyLoading        = "state.loading"
	KeyError          = "state.error"
	KeyEmpty          = "state.empty"
	KeyColumnName     = "column.name"
	KeyColumnSpecies  = "column.species"
	KeyColumnOrigin   = "column.origin"
	KeyColumnLocation = "column.location"
)

var supported = []language.Tag{
	language.English,
	language.German,
}

var matcher = language.NewMatcher(supported)

var catalog = map[language.Tag]map[string]string{
	language.English: {
		KeyTitle:          "Characters",
		KeyLoading:        "Loading…",
		KeyError:          "Error retrieving data, please try again.",
		KeyEmpty:          "No data available, please try again.",
		KeyColumnName:     "Name",
		KeyColumnSpecies:  "Species",
		KeyColumnOrigin:   "Origin",
		KeyColumnLocation: "Location",
	},
	language.German: {
		KeyTitle:          "Charaktere",
		KeyLoading:        "Wird geladen…",
		KeyError:          "Fehler beim Abrufen der Daten, bitte erneut versuchen.",
		KeyEmpty:          "Keine Daten verfügbar, bitte erneut versuchen.",
		KeyColumnName:     "Name",
		KeyColumnSpecies:  "Spezies",
		KeyColumnOrigin:   "Herkunft",
		KeyColumnLocation: "Aufenthaltsort",
	},
}

func init() {
	for tag, messages := range catalog {
		for key, msg := range messages {
			if err := message.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
}

// Supported returns the supported language tags. The first is the default.
func Supported() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// Default returns the default language tag.
func Default() language.Tag {
	return supported[0]
}

// Printer returns a message printer for tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// Match returns the supported tag closest to the given tags.
func Match(tags ...language.Tag) language.Tag {
	if len(tags) == 0 {
		return Default()
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Default()
	}
	return supported[index]
}

// ResolveTag determines the language for a request: the lang query
// parameter first, then Accept-Language, then the default.
func ResolveTag(r *http.Request) language.Tag {
	if r == nil {
		return Default()
	}

	if value := strings.TrimSpace(r.URL.Query().Get(LangParam)); value != "" {
		if tag, err := language.Parse(value); err == nil {
			return Match(tag)
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			return Match(tags...)
		}
	}

	return Default()
}
