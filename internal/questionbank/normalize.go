package questionbank

import (
	"strings"

	"sala-quiz-service/internal/domain"
)

// Raw is one question object as it appears in the source document. The kiosk
// question files were authored by several people over the years, so every
// field has accumulated synonyms (Spanish and English, strings and objects).
type Raw map[string]any

// Placeholders substituted when the source omits a field entirely.
const (
	placeholderText   = "Pregunta sin texto"
	placeholderOption = "(sin opciones)"
)

// Field synonym tables, evaluated left to right. First present key wins.
var (
	textFields       = []string{"text", "pregunta", "enunciado"}
	descFields       = []string{"desc", "descripcion", "description"}
	optionFields     = []string{"options", "opciones", "respuestas"}
	indexFields      = []string{"correctIndex", "correcta_index"}
	answerTextFields = []string{"correcta"}
	answerNumFields  = []string{"respuesta", "respuesta_correcta"}
	pointsFields     = []string{"points", "puntos"}
	roomTagFields    = []string{"sala", "sala_codigo"}
	optionTextKeys   = []string{"text", "texto", "label"}
	optionFlagKeys   = []string{"correcta", "esCorrecta", "correct"}
)

// correctResolvers resolve the correct-answer index, in priority order:
// explicit index field, boolean flag on an option object, literal text match,
// 1-based numeric answer. The first satisfied source wins.
var correctResolvers = []func(raw Raw, options []string, flagIdx int) (int, bool){
	func(raw Raw, _ []string, _ int) (int, bool) {
		n, ok := firstNumber(raw, indexFields)
		return int(n), ok
	},
	func(_ Raw, _ []string, flagIdx int) (int, bool) {
		return flagIdx, flagIdx >= 0
	},
	func(raw Raw, options []string, _ int) (int, bool) {
		want, ok := firstString(raw, answerTextFields)
		if !ok {
			return 0, false
		}
		for i, opt := range options {
			if strings.TrimSpace(opt) == strings.TrimSpace(want) {
				return i, true
			}
		}
		return 0, false
	},
	func(raw Raw, _ []string, _ int) (int, bool) {
		n, ok := firstNumber(raw, answerNumFields)
		return int(n) - 1, ok
	},
}

// Normalize maps a raw source item onto a uniform Question. It never fails:
// missing text gets a placeholder, missing options get a single placeholder
// option, and an unresolvable or out-of-range correct index is coerced to 0.
// The second return value is the item's room tag ("" when untagged).
func Normalize(raw Raw) (domain.Question, string) {
	text, ok := firstString(raw, textFields)
	if !ok || strings.TrimSpace(text) == "" {
		text = placeholderText
	}
	desc, _ := firstString(raw, descFields)
	roomTag, _ := firstString(raw, roomTagFields)

	options, flagIdx := resolveOptions(raw)

	idx, found := -1, false
	for _, resolve := range correctResolvers {
		if i, ok := resolve(raw, options, flagIdx); ok {
			idx, found = i, true
			break
		}
	}

	points := domain.DefaultPoints
	if n, ok := firstNumber(raw, pointsFields); ok && n > 0 {
		points = int(n)
	}

	if len(options) == 0 {
		options = []string{placeholderOption}
		idx, found = 0, true
	}
	if !found || idx < 0 || idx >= len(options) {
		idx = 0
	}

	return domain.Question{
		Text:         text,
		Description:  desc,
		Options:      options,
		CorrectIndex: idx,
		Points:       points,
	}, roomTag
}

// resolveOptions extracts option texts. Options may be plain strings or
// objects carrying their own text and a "this one is correct" flag; the
// returned flagIdx is the first flagged option, or -1.
func resolveOptions(raw Raw) ([]string, int) {
	v, ok := firstValue(raw, optionFields)
	if !ok {
		return nil, -1
	}
	items, ok := v.([]any)
	if !ok {
		return nil, -1
	}

	options := make([]string, 0, len(items))
	flagIdx := -1
	for i, item := range items {
		switch opt := item.(type) {
		case string:
			options = append(options, opt)
		case map[string]any:
			text, ok := firstString(Raw(opt), optionTextKeys)
			if !ok {
				text = placeholderOption
			}
			options = append(options, text)
			if flagIdx < 0 {
				for _, key := range optionFlagKeys {
					if b, ok := opt[key].(bool); ok && b {
						flagIdx = i
						break
					}
				}
			}
		default:
			options = append(options, placeholderOption)
		}
	}
	return options, flagIdx
}

func firstValue(raw Raw, keys []string) (any, bool) {
	for _, key := range keys {
		if v, ok := raw[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func firstString(raw Raw, keys []string) (string, bool) {
	for _, key := range keys {
		if s, ok := raw[key].(string); ok {
			return s, true
		}
	}
	return "", false
}

func firstNumber(raw Raw, keys []string) (float64, bool) {
	for _, key := range keys {
		switch n := raw[key].(type) {
		case float64:
			return n, true
		case int:
			return float64(n), true
		}
	}
	return 0, false
}
