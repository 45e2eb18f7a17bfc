package prompt

import (
	"fmt"

	domain "github.com/A-bd-1999/medical-agent/internal/domain/analysis"
)

// Per-exam-type focus appended to the radiology system prompt.
var examFocus = map[domain.ExamType]string{
	domain.ExamBone:    "Focus on fractures, bone density changes, and structural abnormalities such as osteoporosis or tumours.",
	domain.ExamLung:    "Focus on pneumonia, pleural effusion, pulmonary oedema, and nodules in the lung fields.",
	domain.ExamDisease: "Perform generalised pathology pattern recognition across all visible organ systems.",
}

// System returns the radiology analyst system prompt for an exam type.
func System(exam domain.ExamType) string {
	return fmt.Sprintf(`You are a radiology analysis assistant reviewing a medical X-ray image.
%s

Respond with a single JSON object and nothing else, using exactly these keys:
  "finding":    one concise sentence describing the most significant finding,
                or stating that none was detected
  "confidence": a number between 0 and 1
  "model_name": your model identifier
  "model_version": your model version

Never invent patient details. If the image is unreadable, say so in the
finding and use a confidence of 0.`, examFocus[exam])
}

// User returns the user message pointing at the uploaded image.
func User(imageRef string) string {
	return fmt.Sprintf("Analyse the X-ray image at %s and report your finding as JSON.", imageRef)
}
