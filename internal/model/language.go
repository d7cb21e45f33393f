package model

// Language is the enumerated language tag of a post.
type Language string

const (
	LangJavaScript Language = "javascript"
	LangPython     Language = "python"
	LangJava       Language = "java"
	LangPHP        Language = "php"
	LangHTML       Language = "html"
	LangCPP        Language = "cpp"
	LangCSharp     Language = "csharp"
	LangOther      Language = "other"
)

// extensions maps a language tag to the file extension used when a post's
// code is downloaded. Fixed table; anything unrecognized falls back to txt.
var extensions = map[Language]string{
	LangJavaScript: "js",
	LangPython:     "py",
	LangJava:       "java",
	LangPHP:        "php",
	LangHTML:       "html",
	LangCPP:        "cpp",
	LangCSharp:     "cs",
	LangOther:      "txt",
}

// Valid reports whether l is one of the enumerated language tags.
func (l Language) Valid() bool {
	_, ok := extensions[l]
	return ok
}

// Ext returns the download file extension for the language.
func (l Language) Ext() string {
	if ext, ok := extensions[l]; ok {
		return ext
	}
	return "txt"
}

// NormalizeLanguage maps arbitrary input to a valid language tag,
// defaulting to "other".
func NormalizeLanguage(s string) Language {
	l := Language(s)
	if l.Valid() {
		return l
	}
	return LangOther
}
