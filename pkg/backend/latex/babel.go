package latex

// babelNames maps ISO 639-1 document languages to babel option names.
// Unknown languages fall back to english.
var babelNames = map[string]string{
	"en": "english",
	"de": "ngerman",
	"fr": "french",
	"es": "spanish",
	"it": "italian",
	"nl": "dutch",
	"pt": "portuguese",
	"da": "danish",
	"sv": "swedish",
	"no": "norsk",
	"fi": "finnish",
	"pl": "polish",
	"cs": "czech",
	"ru": "russian",
}

func babelName(lang string) string {
	if name, ok := babelNames[lang]; ok {
		return name
	}
	return "english"
}
