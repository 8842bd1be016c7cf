package telemetry

import "github.com/cjeanneret/GateGo/internal/hw/led"

type nopActuator struct{}

func (nopActuator) SetAngle(int) error { return nil }

type nopIndicator struct{}

func (nopIndicator) SetColor(led.Color) error { return nil }

type nopDisplay struct{}

func (nopDisplay) Render(string, string) error { return nil }
