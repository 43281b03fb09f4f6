package domain

import "fmt"

// LanguagePair is a dash-joined source-target code, e.g. "id-en".
type LanguagePair string

const DefaultPair LanguagePair = "id-en"

// TranslationDirective is what a session sends upstream once per init:
// a source-language hint for the transcription model and the instruction
// string that forces transcribe-then-translate with strict JSON output.
// Immutable once computed.
type TranslationDirective struct {
	SourceLang   string
	Instructions string
}

type pairSpec struct {
	src     string // language tag for the transcription hint
	srcName string // language name used inside the instruction
	tgtName string // target name in its native script
}

var pairs = map[LanguagePair]pairSpec{
	"id-ja": {"id", "Indonesian", "日本語"},
	"ja-id": {"ja", "日本語", "Indonesian"},
	"id-en": {"id", "Indonesian", "English"},
	"en-id": {"en", "English", "Indonesian"},
	"id-ko": {"id", "Indonesian", "한국어"},
	"ko-id": {"ko", "한국어", "Indonesian"},
	"id-ar": {"id", "Indonesian", "العربية"},
	"ar-id": {"ar", "العربية", "Indonesian"},
	"id-de": {"id", "Indonesian", "Deutsch"},
	"de-id": {"de", "Deutsch", "Indonesian"},
	"id-fr": {"id", "Indonesian", "Français"},
	"fr-id": {"fr", "Français", "Indonesian"},
	"id-nl": {"id", "Indonesian", "Nederlands"},
	"nl-id": {"nl", "Nederlands", "Indonesian"},
	"id-ru": {"id", "Indonesian", "Русский"},
	"ru-id": {"ru", "Русский", "Indonesian"},
	"id-es": {"id", "Indonesian", "Español"},
	"es-id": {"es", "Español", "Indonesian"},
}

// DirectiveFor computes the directive for a requested pair and speaker name.
// Unrecognized pairs fall back to DefaultPair.
func DirectiveFor(pair LanguagePair, speaker string) TranslationDirective {
	p, ok := pairs[pair]
	if !ok {
		p = pairs[DefaultPair]
	}
	return TranslationDirective{
		SourceLang:   p.src,
		Instructions: instructionFor(p.srcName, p.tgtName, speaker),
	}
}

func instructionFor(src, tgt, speaker string) string {
	return fmt.Sprintf(
		"You are a real-time translator for %s. "+
			"First transcribe in %s. Then translate to %s only. "+
			"Respond EXACTLY one JSON: {\"src\":\"<%s transcript>\",\"tgt\":\"<%s translation>\"}. "+
			"If %s is 日本語, use Japanese script (かな/漢字), no romaji, no English.",
		speaker, src, tgt, src, tgt, tgt,
	)
}
