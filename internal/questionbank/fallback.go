package questionbank

import "sala-quiz-service/internal/domain"

// FallbackRoom is the only room allowed to fall back to the built-in bank
// when the question source is unreachable; any other room aborts startup.
const FallbackRoom = "energia"

func fallbackPool() []domain.Question {
	return []domain.Question{
		{
			Text:         "¿Cuál es una fuente de energía renovable?",
			Description:  "Ejemplo de pregunta para la Sala Energía.",
			Options:      []string{"Petróleo", "Carbón", "Energía solar", "Gas natural"},
			CorrectIndex: 2,
			Points:       10,
		},
		{
			Text:         "¿Qué dispositivo convierte la luz del sol en electricidad?",
			Options:      []string{"Turbina de viento", "Panel solar", "Calentador de gas", "Motor de combustión"},
			CorrectIndex: 1,
			Points:       10,
		},
		{
			Text:         "¿Cuál de estos es un beneficio de la energía renovable?",
			Options:      []string{"Produce más contaminación", "Es casi inagotable", "Siempre es más cara", "Solo se usa de noche"},
			CorrectIndex: 1,
			Points:       10,
		},
		{
			Text:         "¿Qué tipo de energía aprovechamos con una turbina eólica?",
			Options:      []string{"Energía térmica", "Energía nuclear", "Energía del viento", "Energía química"},
			CorrectIndex: 2,
			Points:       10,
		},
		{
			Text:         "¿Cuál de estos aparatos consume MÁS energía en casa normalmente?",
			Options:      []string{"Televisor apagado", "Cargador desconectado", "Refrigerador", "Foco LED apagado"},
			CorrectIndex: 2,
			Points:       10,
		},
		{
			Text:         "¿Qué acción ayuda a ahorrar energía eléctrica?",
			Options:      []string{"Dejar luces encendidas", "Usar focos LED", "Abrir el refrigerador a cada rato", "Tener aparatos en standby todo el día"},
			CorrectIndex: 1,
			Points:       10,
		},
	}
}
