package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mayra0000/ETSChatbot/internal/content"
	"github.com/mayra0000/ETSChatbot/internal/engine"
)

// Renderer turns engine directives into Telegram messages. It owns every
// display string and keyboard layout.
type Renderer struct {
	catalog *content.Catalog
}

func NewRenderer(catalog *content.Catalog) *Renderer {
	return &Renderer{catalog: catalog}
}

// Render produces the Telegram messages for one directive. name is the
// user's first name, used only by the welcome template.
func (r *Renderer) Render(chatID int64, name string, d engine.Directive) []tgbotapi.Chattable {
	switch d := d.(type) {
	case engine.ShowMenu:
		return []tgbotapi.Chattable{r.renderMenu(chatID, d)}
	case engine.ShowMessage:
		return []tgbotapi.Chattable{r.renderMessage(chatID, name, d)}
	case engine.RequestLocation:
		msg := tgbotapi.NewMessage(chatID, "📍 Comparte tu ubicación para encontrar centros cercanos:")
		msg.ReplyMarkup = tgbotapi.ReplyKeyboardMarkup{
			Keyboard: [][]tgbotapi.KeyboardButton{
				{tgbotapi.NewKeyboardButtonLocation("📍 Compartir ubicación")},
			},
			ResizeKeyboard:  true,
			OneTimeKeyboard: true,
		}
		return []tgbotapi.Chattable{msg}
	case engine.NoOp:
		return nil
	}
	return nil
}

func (r *Renderer) renderMenu(chatID int64, d engine.ShowMenu) tgbotapi.Chattable {
	var text string
	var keyboard tgbotapi.InlineKeyboardMarkup

	switch d.MenuID {
	case engine.MenuMain:
		text = "🏥 Menú Principal"
		if d.Context["notice"] == "unrecognized" {
			text = "No entendí eso. Usa el menú para orientación:"
		}
		keyboard = r.mainMenuKeyboard()
	case engine.MenuInfo:
		text = "📚 Selecciona la ETS:"
		keyboard = r.infoKeyboard()
	case engine.MenuGender:
		text = "✅ Edad registrada.\n¿Cuál es tu género?"
		keyboard = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Masculino", engine.BtnGenderMale),
				tgbotapi.NewInlineKeyboardButtonData("Femenino", engine.BtnGenderFemale),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("No binario", engine.BtnGenderNonbinary),
				tgbotapi.NewInlineKeyboardButtonData("Otro", engine.BtnGenderOther),
			),
		)
	case engine.MenuAppointment:
		text = "📅 ¿Qué tipo de cita necesitas?"
		keyboard = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(engine.AppointmentTypes["general"], "appt_general"),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(engine.AppointmentTypes["test"], "appt_test"),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(engine.AppointmentTypes["urgent"], "appt_urgent"),
			),
		)
	case engine.MenuFeedback:
		text = "⭐ ¿Cómo calificarías la atención? (1 a 5)"
		row := make([]tgbotapi.InlineKeyboardButton, 0, 5)
		for i := 1; i <= 5; i++ {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d⭐", i), fmt.Sprintf("rate_%d", i)))
		}
		keyboard = tgbotapi.NewInlineKeyboardMarkup(row)
	default:
		text = "🏥 Menú Principal"
		keyboard = r.mainMenuKeyboard()
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	return msg
}

func (r *Renderer) renderMessage(chatID int64, name string, d engine.ShowMessage) tgbotapi.Chattable {
	var text string
	var keyboard *tgbotapi.InlineKeyboardMarkup

	switch d.TemplateID {
	case engine.TplWelcome:
		text = fmt.Sprintf(
			"🏥 ¡Hola %s! Bienvenido/a al asistente de salud sexual.\n\n"+
				"🔒 Privacidad garantizada\n"+
				"⚠️ No reemplaza consulta médica\n"+
				"🆘 En emergencias, llama a 911\n\n"+
				"Primero necesito conocer algunos datos para personalizar la experiencia.\n"+
				"¿Cuál es tu edad?", name)
	case engine.TplAskAge:
		text = "¿Cuál es tu edad? Ingresa un número entre 13 y 100."
	case engine.TplInvalidAge:
		text = "⚠️ Edad inválida. Ingresa un número entre 13 y 100."
	case engine.TplAskGenderOther:
		text = "Escribe tu género con tus propias palabras:"
	case engine.TplAskSymptoms:
		text = "✅ Datos registrados.\nAhora describe tus síntomas o preocupaciones con tus propias palabras:"
	case engine.TplEmptySymptoms:
		text = "⚠️ No recibí ningún síntoma. Describe lo que sientes:"
	case engine.TplAssessment:
		text = r.assessmentText(d.Params)
		kb := assessmentKeyboard()
		keyboard = &kb
	case engine.TplDiseaseInfo:
		text = fmt.Sprintf("📋 *%s*\nSíntomas: %s\nInfo: %s",
			paramString(d.Params, "name"),
			paramString(d.Params, "symptoms"),
			paramString(d.Params, "info"))
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("⬅️ Volver", engine.BtnInfo),
			),
		)
		keyboard = &kb
	case engine.TplClinics:
		text = r.clinicsText(d.Params)
		kb := backToMenuKeyboard()
		keyboard = &kb
	case engine.TplAppointmentNote:
		text = "📅 ¿Alguna preferencia de fecha u otro comentario para tu cita? Escríbelo a continuación:"
	case engine.TplAppointmentConfirmed:
		label := engine.AppointmentTypes[paramString(d.Params, "type")]
		text = fmt.Sprintf("✅ Solicitud de cita registrada: %s.", label)
		if note := paramString(d.Params, "note"); note != "" {
			text += fmt.Sprintf("\nComentario: %s", note)
		}
		text += "\nTe contactaremos para confirmar el horario."
		kb := backToMenuKeyboard()
		keyboard = &kb
	case engine.TplFeedbackThanks:
		text = "¡Gracias por tu feedback!"
		kb := backToMenuKeyboard()
		keyboard = &kb
	case engine.TplHelp:
		text = "ℹ️ Ayuda: Usa los menús para orientación sobre ETS y salud sexual. Comandos: /start, /ayuda, /emergencia, /cancelar."
		kb := r.mainMenuKeyboard()
		keyboard = &kb
	case engine.TplEmergency:
		text = fmt.Sprintf("🆘 Contacta servicios médicos si tienes síntomas graves. Emergencias: %s", paramString(d.Params, "number"))
		kb := r.mainMenuKeyboard()
		keyboard = &kb
	case engine.TplCancelled:
		text = "Conversación cancelada."
		kb := r.mainMenuKeyboard()
		keyboard = &kb
	case engine.TplNotFound:
		text = "No encontré esa información."
		kb := r.mainMenuKeyboard()
		keyboard = &kb
	case engine.TplProfile:
		text = fmt.Sprintf("👤 Tu perfil:\nEdad: %s\nGénero: %s\nÚltimo nivel de riesgo: %s",
			orDash(fmt.Sprint(d.Params["age"])),
			orDash(paramString(d.Params, "gender")),
			riskLabel(paramString(d.Params, "risk")))
		kb := backToMenuKeyboard()
		keyboard = &kb
	default:
		text = "Usa el menú para orientación."
		kb := r.mainMenuKeyboard()
		keyboard = &kb
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}
	return msg
}

func (r *Renderer) assessmentText(params map[string]any) string {
	var b strings.Builder
	b.WriteString("🔍 *Análisis de síntomas*\n\n")
	b.WriteString(paramString(params, "assessment"))
	b.WriteString("\n\n*Recomendaciones:*\n")
	for _, rec := range paramStrings(params, "recommendations") {
		fmt.Fprintf(&b, "• %s\n", rec)
	}
	b.WriteString("\n*Posibles condiciones:*\n")
	b.WriteString(strings.Join(paramStrings(params, "conditions"), ", "))
	return b.String()
}

func (r *Renderer) clinicsText(params map[string]any) string {
	var b strings.Builder
	if city := paramString(params, "city"); city != "" {
		fmt.Fprintf(&b, "🏥 Centros médicos en %s:\n", city)
		clinics, _ := params["clinics"].([]content.Clinic)
		for _, c := range clinics {
			fmt.Fprintf(&b, "%s - %s - %s\n", c.Name, c.Address, c.Phone)
		}
		return b.String()
	}
	b.WriteString("🏥 Centros médicos disponibles:\n")
	cities, _ := params["cities"].([]content.City)
	for _, city := range cities {
		fmt.Fprintf(&b, "\n*%s*\n", city.Name)
		for _, c := range city.Clinics {
			fmt.Fprintf(&b, "%s - %s - %s\n", c.Name, c.Address, c.Phone)
		}
	}
	return b.String()
}

func (r *Renderer) mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔍 Evaluación de síntomas", engine.BtnSymptoms),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Info ETS", engine.BtnInfo),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏥 Centros Médicos", engine.BtnCenters),
			tgbotapi.NewInlineKeyboardButtonData("📍 Cerca de mí", engine.BtnLocateClinics),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 Cita médica", engine.BtnAppointment),
			tgbotapi.NewInlineKeyboardButtonData("🆘 Emergencia", engine.BtnEmergency),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👤 Mi perfil", engine.BtnProfile),
		),
	)
}

func (r *Renderer) infoKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0)
	for _, d := range r.catalog.Diseases() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(d.Name, "info_"+d.Key),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Volver", engine.BtnMenu),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func assessmentKeyboard() tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, 5)
	for i := 1; i <= 5; i++ {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d⭐", i), fmt.Sprintf("rate_%d", i)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		row,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Menú", engine.BtnMenu),
		),
	)
}

func backToMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Menú", engine.BtnMenu),
		),
	)
}

func paramString(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return s
}

func paramStrings(params map[string]any, key string) []string {
	s, _ := params[key].([]string)
	return s
}

func orDash(s string) string {
	if s == "" || s == "0" || s == "<nil>" {
		return "—"
	}
	return s
}

func riskLabel(risk string) string {
	switch risk {
	case "high":
		return "alto"
	case "medium":
		return "moderado"
	case "low":
		return "bajo"
	}
	return "sin evaluar"
}
