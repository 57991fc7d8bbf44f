package epdsim

import (
	"fmt"
	"math"

	"periph.io/x/conn/v3/physic"
)

// TemperatureSensor is satisfied by periph.io environmental sensors (physic.SenseEnv).
type TemperatureSensor interface {
	Sense(env *physic.Env) error
}

// SenseTemperature reads s and makes its temperature, rounded to the nearest degree,
// the panel temperature.
func (d *Dev) SenseTemperature(s TemperatureSensor) error {
	var env physic.Env
	if err := s.Sense(&env); err != nil {
		return fmt.Errorf("epdsim: failed to sense temperature: %w", err)
	}
	d.SetTemperature(toCelsius(env.Temperature))
	return nil
}

// toCelsius converts a periph.io temperature to whole degrees Celsius.
func toCelsius(t physic.Temperature) int {
	return int(math.Round(float64(t-physic.ZeroCelsius) / float64(physic.Celsius)))
}
