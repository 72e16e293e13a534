package email

import "fmt"

const (
	subjectLeadAlertFmt    = "Nuevo lead caliente: %s (score %d)"
	subjectLeadFollowUpFmt = "Seguimiento pendiente: %s"
)

var subjectAssessmentResults = map[string]string{
	"es-MX": "Tus resultados de madurez digital",
	"en-US": "Your digital readiness results",
	"pt-BR": "Seus resultados de maturidade digital",
}

func leadAlertSubject(name string, score int, followUp bool) string {
	if followUp {
		return fmt.Sprintf(subjectLeadFollowUpFmt, name)
	}
	return fmt.Sprintf(subjectLeadAlertFmt, name, score)
}

func assessmentResultsSubject(locale string) string {
	if s, ok := subjectAssessmentResults[locale]; ok {
		return s
	}
	return subjectAssessmentResults["es-MX"]
}
