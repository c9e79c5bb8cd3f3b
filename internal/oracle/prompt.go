package oracle

import (
	"strings"

	"github.com/pren-systems/pren-lite/constants"
	"github.com/pren-systems/pren-lite/internal/common"
)

// BuildStructuringPrompt composes the deterministic instruction template:
// document context, the exact JSON shape demanded, and the text verbatim.
// The template explicitly forbids prose and Markdown fences; the sanitizer
// still handles the model ignoring that.
func BuildStructuringPrompt(req StructureRequest) string {
	text := common.TruncateUTF8(req.Text, constants.MaxPromptChars)

	var b strings.Builder
	b.WriteString("Tu es un expert en analyse immobiliere et urbanisme.\n")
	b.WriteString("Analyse le texte suivant extrait d'un document municipal (")
	b.WriteString(req.DocType)
	b.WriteString(") pour la ville de ")
	b.WriteString(req.City)
	b.WriteString(".\n\n")
	b.WriteString("Extrais les signaux immobiliers sous forme de JSON structure.\n")
	b.WriteString("Reponds UNIQUEMENT avec du JSON valide, sans texte avant ou apres, sans markdown.\n\n")
	b.WriteString("Format attendu :\n")
	b.WriteString(`{
  "signals": [
    {
      "type": "` + strings.Join(constants.SignalTypeStrings(), "|") + `",
      "description": "description courte du signal en francais",
      "impact": "positive|negative|neutral",
      "confidence": 0.0,
      "location_hint": "quartier ou zone mentionne si disponible"
    }
  ],
  "summary": "resume en 1-2 phrases du document",
  "signal_count": 0
}`)
	b.WriteString("\n\nTexte a analyser :\n")
	b.WriteString(text)
	b.WriteString("\n")
	return b.String()
}
