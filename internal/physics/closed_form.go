package physics

import (
	"math"

	"github.com/san-kum/dpend/internal/dynamo"
)

// ClosedForm returns the textbook accelerations for unit rods.
func ClosedForm() dynamo.Accelerations {
	return dynamo.Accelerations{Theta1: closedAlpha1, Theta2: closedAlpha2}
}

func closedAlpha1(theta1, theta2, omega1, omega2, m1, m2, g float64) float64 {
	delta := theta2 - theta1
	sinD, cosD := math.Sin(delta), math.Cos(delta)

	den := (m1 + m2) - m2*cosD*cosD
	return (m2*omega1*omega1*sinD*cosD +
		m2*g*math.Sin(theta2)*cosD +
		m2*omega2*omega2*sinD -
		(m1+m2)*g*math.Sin(theta1)) / den
}

func closedAlpha2(theta1, theta2, omega1, omega2, m1, m2, g float64) float64 {
	delta := theta2 - theta1
	sinD, cosD := math.Sin(delta), math.Cos(delta)

	den := (m1 + m2) - m2*cosD*cosD
	return (-m2*omega2*omega2*sinD*cosD +
		(m1+m2)*g*math.Sin(theta1)*cosD -
		(m1+m2)*omega1*omega1*sinD -
		(m1+m2)*g*math.Sin(theta2)) / den
}
