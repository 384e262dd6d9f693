package currency

import (
	"fmt"
	"math"
	"strings"
)

var symbols = map[string]string{
	"USD": "$",
	"AUD": "A$",
	"CAD": "C$",
	"SGD": "S$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "CN¥",
	"INR": "₹",
}

// Format renders a whole-unit price for chat text, e.g. "$1,219" or
// "IDR 1.500.000". Unknown codes are written as "1,219 CHF".
func Format(amount float64, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "IDR" {
		return FormatIDR(amount)
	}

	digits, negative := wholeUnits(amount)
	formatted := addThousandsSeparator(digits, ",")

	var result string
	if symbol, ok := symbols[code]; ok {
		result = symbol + formatted
	} else if code != "" {
		result = formatted + " " + code
	} else {
		result = formatted
	}

	if negative {
		result = "-" + result
	}
	return result
}

func FormatIDR(amount float64) string {
	digits, negative := wholeUnits(amount)
	formatted := addThousandsSeparator(digits, ".")

	result := "IDR " + formatted
	if negative {
		result = "-" + result
	}

	return result
}

func wholeUnits(amount float64) (string, bool) {
	rounded := math.Round(amount)

	negative := rounded < 0
	if negative {
		rounded = -rounded
	}

	return fmt.Sprintf("%.0f", rounded), negative
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	numSeps := (n - 1) / 3
	result := make([]byte, n+numSeps)

	j := len(result) - 1
	for i := n - 1; i >= 0; i-- {
		result[j] = s[i]
		j--

		pos := n - i
		if pos%3 == 0 && i > 0 {
			result[j] = sep[0]
			j--
		}
	}

	return string(result)
}
