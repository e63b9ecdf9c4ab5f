package estat

import (
	"fmt"
	"strings"
)

// Level identifies the geographic granularity of an area code.
type Level string

// Geographic levels recognized by the statistics API.
const (
	LevelPrefecture   Level = "prefecture"
	LevelMunicipality Level = "municipality"
)

const prefectureSuffix = "000"

// NormalizeAreaCode converts a caller-supplied area code into the fixed
// five-digit form the statistics API requires.
//
// Municipality codes are left-padded with zeros to five digits ("1310" →
// "01310"). Prefecture codes are left-padded to two digits and suffixed with
// "000" ("1" → "01000", "13" → "13000"): a bare prefecture selection maps to
// the all-municipalities aggregate code within that prefecture's range.
func NormalizeAreaCode(code string, level Level) (string, error) {
	if code == "" || strings.ContainsFunc(code, func(r rune) bool { return r < '0' || r > '9' }) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAreaCode, code)
	}

	switch level {
	case LevelMunicipality:
		if len(code) > 5 {
			return "", fmt.Errorf("%w: municipality code %q exceeds 5 digits", ErrInvalidAreaCode, code)
		}
		return pad(code, 5), nil
	case LevelPrefecture:
		if len(code) > 2 {
			return "", fmt.Errorf("%w: prefecture code %q exceeds 2 digits", ErrInvalidAreaCode, code)
		}
		return pad(code, 2) + prefectureSuffix, nil
	default:
		return "", fmt.Errorf("%w: unknown level %q", ErrInvalidAreaCode, level)
	}
}

// InferLevel guesses the geographic level of a bare area code by length:
// two digits or fewer reads as a prefecture code, anything longer as a
// municipality code. This is a deliberate heuristic; callers that know the
// level should pass it explicitly instead.
func InferLevel(code string) Level {
	if len(code) <= 2 {
		return LevelPrefecture
	}
	return LevelMunicipality
}

func pad(code string, width int) string {
	for len(code) < width {
		code = "0" + code
	}
	return code
}
