package triage

import "github.com/mayra0000/ETSChatbot/internal/session"

// Symptom categories. Keyword variants are Spanish, matched by plain
// substring containment against the lower-cased input.
const (
	CategoryPain      = "pain"
	CategoryDischarge = "discharge"
	CategoryLesions   = "lesions"
	CategoryItching   = "itching"
	CategorySystemic  = "systemic"
)

// categoryOrder fixes iteration order so output is deterministic.
var categoryOrder = []string{
	CategoryPain,
	CategoryDischarge,
	CategoryLesions,
	CategoryItching,
	CategorySystemic,
}

var categoryKeywords = map[string][]string{
	CategoryPain:      {"dolor", "duele", "arde", "ardor", "quema", "molestia al orinar"},
	CategoryDischarge: {"secreción", "secrecion", "flujo", "supuración", "supuracion", "pus"},
	CategoryLesions:   {"ampolla", "llaga", "úlcera", "ulcera", "verruga", "herida", "grano"},
	CategoryItching:   {"picazón", "picazon", "comezón", "comezon", "escozor", "irritación", "irritacion"},
	CategorySystemic:  {"fiebre", "malestar", "fatiga", "ganglios", "escalofríos", "escalofrios", "náusea", "nausea"},
}

// Severity bands are checked independently; a text can accumulate the weight
// of more than one band.
var severityBands = []struct {
	weight   int
	keywords []string
}{
	{3, []string{"intenso", "insoportable", "sangrado", "sangre", "no puedo"}},
	{2, []string{"constante", "fuerte", "empeora", "varios días", "varios dias"}},
	{1, []string{"leve", "ligero", "ocasional", "a veces"}},
}

const (
	highScoreThreshold      = 3
	mediumScoreThreshold    = 2
	highCategoryThreshold   = 3
	mediumCategoryThreshold = 2

	maxRecommendations = 3
	maxConditions      = 3
)

var categoryRecommendations = map[string][]string{
	CategoryPain:      {"Consulta médica en las próximas 48 horas", "Evita la automedicación"},
	CategoryDischarge: {"Hazte una prueba de ETS en un centro de salud", "Evita relaciones sin protección hasta tener resultados"},
	CategoryLesions:   {"Consulta dermatológica o de salud sexual", "No manipules las lesiones"},
	CategoryItching:   {"Higiene suave, sin productos irritantes", "Hazte una prueba de ETS si persiste"},
	CategorySystemic:  {"Consulta médica general", "Monitorea la temperatura"},
}

var categoryConditions = map[string][]string{
	CategoryPain:      {"Clamidia", "Gonorrea"},
	CategoryDischarge: {"Clamidia", "Gonorrea", "Tricomoniasis"},
	CategoryLesions:   {"Herpes genital", "VPH", "Sífilis"},
	CategoryItching:   {"Candidiasis", "Tricomoniasis"},
	CategorySystemic:  {"Sífilis", "VIH agudo"},
}

const (
	fallbackRecommendation = "Busca evaluación médica para un diagnóstico preciso"
	fallbackCondition      = "Evaluación médica necesaria"
)

var assessmentMessages = map[session.RiskLevel]string{
	session.RiskHigh:   "🔴 Riesgo alto. Consulta médica urgente.",
	session.RiskMedium: "🟡 Riesgo moderado. Considera hacerte pruebas.",
	session.RiskLow:    "🟢 Riesgo bajo. Mantén hábitos seguros.",
}
