package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayra0000/ETSChatbot/internal/content"
	"github.com/mayra0000/ETSChatbot/internal/engine"
)

func renderOne(t *testing.T, d engine.Directive) tgbotapi.MessageConfig {
	t.Helper()
	r := NewRenderer(content.NewCatalog())
	out := r.Render(99, "Ana", d)
	require.Len(t, out, 1)
	msg, ok := out[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	return msg
}

func TestRenderWelcomeUsesName(t *testing.T) {
	msg := renderOne(t, engine.ShowMessage{TemplateID: engine.TplWelcome})
	assert.Contains(t, msg.Text, "Ana")
	assert.Contains(t, msg.Text, "edad")
}

func TestRenderAssessment(t *testing.T) {
	msg := renderOne(t, engine.ShowMessage{
		TemplateID: engine.TplAssessment,
		Params: map[string]any{
			"assessment":      "🟡 Riesgo moderado. Considera hacerte pruebas.",
			"recommendations": []string{"Consulta médica", "Prueba de ETS"},
			"conditions":      []string{"Clamidia", "Herpes genital"},
		},
	})
	assert.Contains(t, msg.Text, "Riesgo moderado")
	assert.Contains(t, msg.Text, "• Consulta médica")
	assert.Contains(t, msg.Text, "Clamidia, Herpes genital")

	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, "rate_1", *kb.InlineKeyboard[0][0].CallbackData)
}

func TestRenderInfoMenuListsDiseases(t *testing.T) {
	msg := renderOne(t, engine.ShowMenu{MenuID: engine.MenuInfo})
	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)

	catalog := content.NewCatalog()
	// One row per disease plus the back row.
	assert.Len(t, kb.InlineKeyboard, len(catalog.Diseases())+1)
	assert.Equal(t, "info_clamidia", *kb.InlineKeyboard[0][0].CallbackData)
}

func TestRenderMainMenuNotice(t *testing.T) {
	msg := renderOne(t, engine.ShowMenu{
		MenuID:  engine.MenuMain,
		Context: map[string]string{"notice": "unrecognized"},
	})
	assert.Contains(t, msg.Text, "No entendí")
}

func TestRenderClinicsByCity(t *testing.T) {
	msg := renderOne(t, engine.ShowMessage{
		TemplateID: engine.TplClinics,
		Params: map[string]any{
			"city": "Ciudad de México",
			"clinics": []content.Clinic{
				{Name: "Clínica Condesa", Address: "Av. Insurgentes Sur 136", Phone: "55-4114-4000"},
			},
		},
	})
	assert.Contains(t, msg.Text, "Ciudad de México")
	assert.Contains(t, msg.Text, "Clínica Condesa")
}

func TestRenderNoOpProducesNothing(t *testing.T) {
	r := NewRenderer(content.NewCatalog())
	assert.Empty(t, r.Render(99, "Ana", engine.NoOp{}))
}
