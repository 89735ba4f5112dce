package locale

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when the client reports no (valid) language preference.
const DefaultLanguage = "en"

// FromAcceptLanguage returns the two-letter base language of the highest-weighted tag in an Accept-Language header.
func FromAcceptLanguage(header string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}
	base, confidence := tags[0].Base()
	if confidence == language.No {
		return DefaultLanguage
	}
	// "und" and the "*" wildcard ("mul") name no language
	switch code := base.String(); code {
	case "und", "mul":
		return DefaultLanguage
	default:
		return code
	}
}

// FromRequest returns the UI language of the browser that sent the request.
func FromRequest(httpRequest *http.Request) string {
	return FromAcceptLanguage(httpRequest.Header.Get("Accept-Language"))
}

type contextKey struct{}

func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, contextKey{}, lang)
}

// Language returns the UI language carried by the context, or DefaultLanguage.
func Language(ctx context.Context) string {
	if lang, ok := ctx.Value(contextKey{}).(string); ok && lang != "" {
		return lang
	}
	return DefaultLanguage
}
