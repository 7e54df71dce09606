package walker

import (
	"unicode"

	"github.com/arkrow/rex/ast"
)

func matchesSpecial(kind ast.SpecialKind, text []rune, pos int) (consumed int, ok bool) {
	switch kind {
	case ast.SpecialAny:
		if pos >= len(text) {
			return 0, false
		}
		return 1, true
	case ast.SpecialStart:
		return 0, pos == 0
	case ast.SpecialEnd:
		return 0, pos == len(text)
	}
	if pos >= len(text) {
		return 0, false
	}
	r := text[pos]
	switch kind {
	case ast.SpecialDigit:
		return 1, unicode.IsDigit(r)
	case ast.SpecialNotDigit:
		return 1, !unicode.IsDigit(r)
	case ast.SpecialWord:
		return 1, isWordRune(r)
	case ast.SpecialNotWord:
		return 1, !isWordRune(r)
	case ast.SpecialSpace:
		return 1, unicode.IsSpace(r)
	case ast.SpecialNotSpace:
		return 1, !unicode.IsSpace(r)
	case ast.SpecialUpper:
		return 1, unicode.IsUpper(r)
	case ast.SpecialLower:
		return 1, unicode.IsLower(r)
	default:
		return 0, false
	}
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func matchesChars(chars []rune, text []rune, pos int) (consumed int, ok bool) {
	if pos+len(chars) > len(text) {
		return 0, false
	}
	for i, c := range chars {
		if text[pos+i] != c {
			return 0, false
		}
	}
	return len(chars), true
}
