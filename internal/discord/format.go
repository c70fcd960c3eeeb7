package discord

import "strconv"

// formatAmount renders a rupee amount with thousands separators and two
// decimals, e.g. 1234567.5 -> "1,234,567.50".
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)

	sign := ""
	if s[0] == '-' {
		sign = "-"
		s = s[1:]
	}

	intPart := s[:len(s)-3]
	decPart := s[len(s)-3:]

	if len(intPart) <= 3 {
		return sign + intPart + decPart
	}

	var grouped []byte
	for i, c := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, c)
	}
	return sign + string(grouped) + decPart
}
