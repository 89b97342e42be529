// Package slug derives URL-safe identifiers from display names. Assignment is
// done explicitly on the store's write path via ForCreate and ForUpdate rather
// than through persistence hooks.
package slug

import "strings"

// accentMap maps accented characters to their plain equivalents.
var accentMap = map[rune]rune{
	'á': 'a', 'à': 'a', 'ã': 'a', 'â': 'a', 'ä': 'a', 'å': 'a', 'ā': 'a',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e', 'ē': 'e',
	'í': 'i', 'ì': 'i', 'î': 'i', 'ï': 'i', 'ī': 'i',
	'ó': 'o', 'ò': 'o', 'õ': 'o', 'ô': 'o', 'ö': 'o', 'ø': 'o', 'ō': 'o',
	'ú': 'u', 'ù': 'u', 'û': 'u', 'ü': 'u', 'ū': 'u',
	'ç': 'c', 'ć': 'c', 'č': 'c',
	'ñ': 'n', 'ń': 'n',
	'ý': 'y', 'ÿ': 'y',
	'ß': 's',
	'Á': 'a', 'À': 'a', 'Ã': 'a', 'Â': 'a', 'Ä': 'a', 'Å': 'a', 'Ā': 'a',
	'É': 'e', 'È': 'e', 'Ê': 'e', 'Ë': 'e', 'Ē': 'e',
	'Í': 'i', 'Ì': 'i', 'Î': 'i', 'Ï': 'i', 'Ī': 'i',
	'Ó': 'o', 'Ò': 'o', 'Õ': 'o', 'Ô': 'o', 'Ö': 'o', 'Ø': 'o', 'Ō': 'o',
	'Ú': 'u', 'Ù': 'u', 'Û': 'u', 'Ü': 'u', 'Ū': 'u',
	'Ç': 'c', 'Ć': 'c', 'Č': 'c',
	'Ñ': 'n', 'Ń': 'n',
	'Ý': 'y', 'Ÿ': 'y',
}

// Make converts a display name into a slug: lowercase, accents transliterated,
// spaces turned into hyphens, everything else dropped, repeated hyphens
// collapsed and edges trimmed. An empty name yields an empty slug; no fallback
// identifier is generated and no uniqueness is enforced here.
func Make(name string) string {
	s := strings.ToLower(name)
	s = strings.Map(func(r rune) rune {
		if replacement, exists := accentMap[r]; exists {
			return replacement
		}
		return r
	}, s)

	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		if r == ' ' {
			return '-'
		}
		return -1
	}, s)

	s = strings.Trim(s, "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}

	return s
}

// ForCreate returns the slug to store for a new entity: the supplied slug if
// one was given, otherwise one derived from the name.
func ForCreate(name, supplied string) string {
	if supplied != "" {
		return supplied
	}
	return Make(name)
}

// ForUpdate returns the slug to store after an update. The slug is re-derived
// from the new name only when the name changed and the slug was not itself
// edited in the same update; a manually edited slug always wins. An empty
// newSlug counts as untouched.
func ForUpdate(oldName, newName, oldSlug, newSlug string) string {
	if newSlug != "" && newSlug != oldSlug {
		return newSlug
	}
	if newName != oldName {
		return Make(newName)
	}
	return oldSlug
}
