package chatbot

import "strings"

// Glossary is a static lookup of medical-term definitions. Read-only after
// initialization; unknown terms are an expected outcome, never an error.
type Glossary map[string]string

// DefaultGlossary returns the built-in radiology knowledge base.
func DefaultGlossary() Glossary {
	return Glossary{
		"pneumonia":  "Pneumonia is a lung infection causing inflammation of air sacs. On X-ray it appears as opacity (white area) in the lung fields.",
		"fracture":   "A fracture is a break in bone continuity, visible on X-ray as a discontinuous line in the bone structure.",
		"bone":       "The bone model detects fractures, bone density changes, and structural abnormalities such as osteoporosis or tumours.",
		"lung":       "The lung model detects pneumonia, pleural effusion, pulmonary oedema, and nodules in chest X-rays.",
		"disease":    "The disease model performs generalised pathology pattern recognition across multiple organ systems from radiographic imaging.",
		"x-ray":      "X-rays use electromagnetic radiation to create images of internal structures, especially useful for bones and chest organs.",
		"xray":       "X-rays use electromagnetic radiation to create images of internal structures, especially useful for bones and chest organs.",
		"osteopenia": "Osteopenia is reduced bone mineral density, a precursor to osteoporosis, detectable on bone X-rays.",
		"effusion":   "Pleural effusion is fluid accumulation in the space around the lungs, appearing as haziness at lung bases on X-ray.",
	}
}

// Lookup resolves a term to its definition. Exact match first, then a
// contains match so "a pleural effusion" still resolves "effusion".
func (g Glossary) Lookup(term string) (string, bool) {
	term = strings.TrimSpace(strings.ToLower(term))
	if def, ok := g[term]; ok {
		return def, true
	}
	for kw, def := range g {
		if strings.Contains(term, kw) {
			return def, true
		}
	}
	return "", false
}
