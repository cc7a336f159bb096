package droidservo

// Position is a servo angle and the pulse width that produces it.
type Position struct {
	Angle        int `json:"angle"`
	PulseWidthUS int `json:"pulse_width_us"`
}

// Maneuver holds the two end positions of one movement.
type Maneuver struct {
	Forward Position `json:"forward"`
	Reverse Position `json:"reverse"`
}

// Targets are the fixed servo positions the firmware moves between.
type Targets struct {
	Stop  Position `json:"stop"`
	Drive Maneuver `json:"drive"`
	Turn  Maneuver `json:"turn"`
	Dome  Maneuver `json:"dome"`
}

func (config *Tuning) position(angle int) Position {
	angle = max(config.Min, min(config.Max, angle))
	return Position{Angle: angle, PulseWidthUS: angleToPulseWidth(angle, servoDefaultMaxRotation)}
}

func (config *Tuning) maneuver(offset int) Maneuver {
	return Maneuver{
		Forward: config.position(config.Center + offset),
		Reverse: config.position(config.Center - offset),
	}
}

// Targets derives the stop position and the end positions of each maneuver.
// Angles are clamped to [Min, Max]; a validated tuning never needs clamping.
func (config *Tuning) Targets() Targets {
	return Targets{
		Stop:  config.position(config.Center),
		Drive: config.maneuver(config.Drive),
		Turn:  config.maneuver(config.Turn),
		Dome:  config.maneuver(config.Dome),
	}
}

// AngleForPulseWidth converts a measured pulse width back to an angle.
func AngleForPulseWidth(pulseWidthUS int) int {
	return pulseWidthToAngle(pulseWidthUS, servoDefaultMaxRotation)
}
