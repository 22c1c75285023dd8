package analysis

import (
	"errors"
	"net/url"
)

// Options maps provider feature names to values. It is built from the
// client's query parameters and forwarded verbatim as provider query
// parameters.
type Options map[string]string

// ErrSummarizeV1 is reported for summarize=v1, which the provider retired.
var ErrSummarizeV1 = errors.New("summarize=v1 is no longer supported; use summarize=v2 or summarize=true")

// booleanFeatures are enabled only when the query parameter literally
// equals "true"; any other value switches the feature off.
var booleanFeatures = []string{"topics", "sentiment", "intents"}

// BuildOptions maps client query parameters to provider analysis options.
// The language passes through verbatim (the provider is authoritative on
// language codes) and defaults to "en".
func BuildOptions(query url.Values) (Options, error) {
	opts := Options{"language": "en"}
	if lang := query.Get("language"); lang != "" {
		opts["language"] = lang
	}

	switch v := query.Get("summarize"); v {
	case "true", "v2":
		opts["summarize"] = v
	case "v1":
		return nil, ErrSummarizeV1
	}

	for _, feature := range booleanFeatures {
		if query.Get(feature) == "true" {
			opts[feature] = "true"
		}
	}

	return opts, nil
}

// Values renders the options as URL query parameters.
func (o Options) Values() url.Values {
	v := url.Values{}
	for name, value := range o {
		v.Set(name, value)
	}
	return v
}
