package viewmodel

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	msgAdministration = "Administration of %s"
	msgObservation    = "Observation of %s"
)

// SupportedLanguages lists the languages act descriptions are available in. The first is the fallback.
var SupportedLanguages = []language.Tag{language.English, language.French, language.Dutch}

var (
	messages        = newCatalog()
	languageMatcher = language.NewMatcher(SupportedLanguages)
)

func newCatalog() catalog.Catalog {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	translations := map[language.Tag]map[string]string{
		language.English: {
			msgAdministration: "Administration of %s",
			msgObservation:    "Observation of %s",
		},
		language.French: {
			msgAdministration: "Administration de %s",
			msgObservation:    "Observation de %s",
		},
		language.Dutch: {
			msgAdministration: "Toediening van %s",
			msgObservation:    "Observatie van %s",
		},
	}
	for tag, entries := range translations {
		for key, msg := range entries {
			if err := builder.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return builder
}

func newPrinter(lang string) *message.Printer {
	tag := language.English
	if parsed, err := language.Parse(lang); err == nil {
		_, index, _ := languageMatcher.Match(parsed)
		tag = SupportedLanguages[index]
	}
	return message.NewPrinter(tag, message.Catalog(messages))
}
