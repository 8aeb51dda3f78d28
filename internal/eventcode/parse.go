package eventcode

import (
	"slices"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// nativePrefix is the prefix used by the engine's C header.
const nativePrefix = "IJKMPET_"

// suggestThreshold is the minimum Jaro-Winkler similarity for Suggest.
const suggestThreshold = 0.8

var upper = cases.Upper(language.Und)

// All returns every published code in ascending numeric order.
func All() []EventCode {
	codes := make([]EventCode, 0, len(names))
	for code := range names {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// Names returns every symbolic name in ascending code order.
func Names() []string {
	codes := All()
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = names[c]
	}
	return out
}

// Parse resolves a symbolic name to its code. Matching ignores case,
// accepts '-' or ' ' in place of '_', and tolerates the native
// "IJKMPET_" prefix.
func Parse(name string) (EventCode, bool) {
	code, ok := byName[normalizeName(name)]
	return code, ok
}

// Suggest returns up to three known names close to name, best match first.
func Suggest(name string) []string {
	normalized := normalizeName(name)
	if normalized == "" {
		return nil
	}

	type scored struct {
		name  string
		score float32
	}
	var candidates []scored
	for _, known := range Names() {
		score := edlib.JaroWinklerSimilarity(normalized, known)
		if score >= suggestThreshold {
			candidates = append(candidates, scored{name: known, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	var out []string
	for i := 0; i < len(candidates) && i < 3; i++ {
		out = append(out, candidates[i].name)
	}
	return out
}

func normalizeName(name string) string {
	s := upper.String(strings.TrimSpace(name))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	return strings.TrimPrefix(s, nativePrefix)
}
