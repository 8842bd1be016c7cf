package gate

import (
	"strconv"

	"github.com/cjeanneret/GateGo/internal/hw/led"
)

// Status is what the panel and the indicator show.
type Status struct {
	Line1 string
	Line2 string
	Color led.Color
}

// Present derives the status shown for a state and angle.
func Present(s MotionState, position int) Status {
	st := Status{Line2: "Angulo: " + strconv.Itoa(position)}
	switch s {
	case Closing:
		st.Line1, st.Color = ">> Fechando >>", led.Red
	case Closed:
		st.Line1, st.Color = "Portao Fechado", led.Blue
	case Opening:
		st.Line1, st.Color = ">> Abrindo >>", led.Green
	case Stopped:
		st.Line1, st.Color = "|| Parado ||", led.Yellow
	case Opened:
		st.Line1, st.Color = "Portao Aberto", led.Cyan
	}
	return st
}

// StartupStatus is shown while peripherals are brought up.
func StartupStatus() Status {
	return Status{Line1: "GateGo", Line2: "Iniciando...", Color: led.Yellow}
}

// HaltStatus is shown when the radio could not be initialized.
func HaltStatus() Status {
	return Status{Line1: "ERRO FATAL:", Line2: "LoRa FALHOU!", Color: led.Red}
}
