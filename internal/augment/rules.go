package augment

import (
	"math/rand/v2"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const slangProb = 0.5

var wordRE = regexp.MustCompile(`[\p{L}\p{N}]+(?:'\p{L}+)?`)

// matchCase carries the capitalization of src over to repl: all caps stays all caps and a
// leading capital stays a leading capital.
func matchCase(src, repl string) string {
	if utf8.RuneCountInString(src) > 1 && strings.ToUpper(src) == src && strings.ToLower(src) != src {
		return strings.ToUpper(repl)
	}
	first, _ := utf8.DecodeRuneInString(src)
	if unicode.IsUpper(first) {
		r, size := utf8.DecodeRuneInString(repl)
		return string(unicode.ToUpper(r)) + repl[size:]
	}
	return repl
}

// replaceWords replaces each word found in dict with probability prob. A dict entry with
// several alternatives picks one at random.
func replaceWords(rng *rand.Rand, s string, dict map[string][]string, prob float64) string {
	return wordRE.ReplaceAllStringFunc(s, func(w string) string {
		alts, ok := dict[strings.ToLower(w)]
		if !ok || len(alts) == 0 {
			return w
		}
		if prob < 1 && rng.Float64() >= prob {
			return w
		}
		return matchCase(w, alts[rng.IntN(len(alts))])
	})
}

type phraseRule struct {
	re   *regexp.Regexp
	repl string
}

// compilePhrases builds case-insensitive whole-word rules, longest phrase first.
func compilePhrases(pairs map[string]string) []phraseRule {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	rules := make([]phraseRule, len(keys))
	for i, k := range keys {
		rules[i] = phraseRule{re: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(k) + `\b`), repl: pairs[k]}
	}
	return rules
}

func applyPhrases(rng *rand.Rand, s string, rules []phraseRule, prob float64) string {
	for _, r := range rules {
		s = r.re.ReplaceAllStringFunc(s, func(m string) string {
			if prob < 1 && rng.Float64() >= prob {
				return m
			}
			return matchCase(m, r.repl)
		})
	}
	return s
}

// keyboardNeighbours maps a key to the keys around it on a QWERTY layout.
var keyboardNeighbours = map[rune]string{
	'q': "wa", 'w': "qesa", 'e': "wrds", 'r': "etfd", 't': "rygf", 'y': "tuhg", 'u': "yijh",
	'i': "uokj", 'o': "iplk", 'p': "ol", 'a': "qwsz", 's': "awedxz", 'd': "serfcx", 'f': "drtgvc",
	'g': "ftyhbv", 'h': "gyujnb", 'j': "huikmn", 'k': "jiolm", 'l': "kop", 'z': "asx",
	'x': "zsdc", 'c': "xdfv", 'v': "cfgb", 'b': "vghn", 'n': "bhjm", 'm': "njk",
}

// butterFingers swaps letters for a neighbouring key with probability prob.
func butterFingers(rng *rand.Rand, s string, prob float64) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		lower := unicode.ToLower(r)
		neigh, ok := keyboardNeighbours[lower]
		if ok && rng.Float64() < prob {
			n := rune(neigh[rng.IntN(len(neigh))])
			if unicode.IsUpper(r) {
				n = unicode.ToUpper(n)
			}
			b.WriteRune(n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// changeCase uppercases each letter with probability prob.
func changeCase(rng *rand.Rand, s string, prob float64) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) && rng.Float64() < prob {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

var leetMap = map[rune]rune{
	'a': '4', 'b': '8', 'e': '3', 'g': '9', 'i': '1', 'l': '1', 'o': '0', 's': '5', 't': '7', 'z': '2',
}

// leetLetters replaces a share ratio of the replaceable letters (at least one) with look-alike digits.
func leetLetters(rng *rand.Rand, s string, ratio float64) string {
	runes := []rune(s)
	var candidates []int
	for i, r := range runes {
		if _, ok := leetMap[unicode.ToLower(r)]; ok {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return s
	}
	n := max(1, int(ratio*float64(len(candidates))))
	for _, k := range rng.Perm(len(candidates))[:n] {
		i := candidates[k]
		runes[i] = leetMap[unicode.ToLower(runes[i])]
	}
	return string(runes)
}

// perturbWhitespace drops each space with probability remove and inserts a space after each
// character with probability add.
func perturbWhitespace(rng *rand.Rand, s string, remove, add float64) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/8)
	for _, r := range s {
		if r == ' ' && rng.Float64() < remove {
			continue
		}
		b.WriteRune(r)
		if rng.Float64() < add {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// swapHomophones replaces each word that has a close homophone with probability prob.
func swapHomophones(rng *rand.Rand, s string, prob float64) string {
	return replaceWords(rng, s, homophones, prob)
}

var contractionRE, contractionMap = compileContractions()

func compileContractions() (*regexp.Regexp, map[string]string) {
	m := make(map[string]string, 2*len(contractions))
	alts := make([]string, 0, 2*len(contractions))
	for long, short := range contractions {
		m[long] = short
		m[short] = long
		alts = append(alts, regexp.QuoteMeta(long), regexp.QuoteMeta(short))
	}
	sort.Slice(alts, func(i, j int) bool {
		if len(alts[i]) != len(alts[j]) {
			return len(alts[i]) > len(alts[j])
		}
		return alts[i] < alts[j]
	})
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(alts, "|") + `)\b`), m
}

// swapContractions contracts expanded forms and expands contractions in a single pass.
func swapContractions(s string) string {
	return contractionRE.ReplaceAllStringFunc(s, func(m string) string {
		repl, ok := contractionMap[strings.ToLower(m)]
		if !ok {
			return m
		}
		if strings.HasPrefix(repl, "i ") || strings.HasPrefix(repl, "i'") {
			return "I" + repl[1:]
		}
		return matchCase(m, repl)
	})
}

// abbreviateDates shortens weekday and month names.
func abbreviateDates(s string) string {
	return wordRE.ReplaceAllStringFunc(s, func(w string) string {
		if short, ok := dateAbbreviations[strings.ToLower(w)]; ok {
			return matchCase(w, short)
		}
		return w
	})
}
