package growth

import "fmt"

const (
	lbPerKg = 2.20462
	cmPerIn = 2.54
)

// Display units accepted by the baby profile.
const (
	Kilograms   = "kg"
	Pounds      = "lb"
	Centimeters = "cm"
	Inches      = "in"
)

func KgToLb(kg float64) float64 { return kg * lbPerKg }
func LbToKg(lb float64) float64 { return lb / lbPerKg }
func CmToIn(cm float64) float64 { return cm / cmPerIn }
func InToCm(in float64) float64 { return in * cmPerIn }

// FormatWeight renders kg in the requested unit ("kg" or "lb").
func FormatWeight(kg float64, unit string) string {
	if unit == Pounds {
		return fmt.Sprintf("%.2flb", KgToLb(kg))
	}
	return fmt.Sprintf("%.2fkg", kg)
}

// FormatLength renders cm in the requested unit ("cm" or "in").
func FormatLength(cm float64, unit string) string {
	if unit == Inches {
		return fmt.Sprintf("%.1fin", CmToIn(cm))
	}
	return fmt.Sprintf("%.1fcm", cm)
}
