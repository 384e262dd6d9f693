package models

import "strings"

type CabinClass string

const (
	CabinEconomy        CabinClass = "ECONOMY"
	CabinPremiumEconomy CabinClass = "PREMIUM_ECONOMY"
	CabinBusiness       CabinClass = "BUSINESS"
	CabinFirst          CabinClass = "FIRST"
)

// ParseCabinClass maps free-form cabin names ("premium economy",
// "Business class") onto the enum, defaulting to economy.
func ParseCabinClass(s string) CabinClass {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, " CLASS")
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)

	switch s {
	case "PREMIUM_ECONOMY", "PREMIUM":
		return CabinPremiumEconomy
	case "BUSINESS":
		return CabinBusiness
	case "FIRST":
		return CabinFirst
	default:
		return CabinEconomy
	}
}

// Label is the user-facing cabin name, e.g. "Premium Economy".
func (c CabinClass) Label() string {
	switch c {
	case CabinPremiumEconomy:
		return "Premium Economy"
	case CabinBusiness:
		return "Business"
	case CabinFirst:
		return "First"
	default:
		return "Economy"
	}
}

// SearchRequest is a fully specified flight search. Date holds the user's
// wording, ResolvedDate the absolute YYYY-MM-DD date.
type SearchRequest struct {
	Origin             string     `json:"origin"`
	Destination        string     `json:"destination"`
	Date               string     `json:"date"`
	ResolvedDate       string     `json:"resolvedDate,omitempty"`
	ReturnDate         string     `json:"returnDate,omitempty"`
	ResolvedReturnDate string     `json:"resolvedReturnDate,omitempty"`
	Adults             int        `json:"adults"`
	CabinClass         CabinClass `json:"cabinClass"`
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingMessage        ValidationError = "message is required"
	ErrMissingConversationID ValidationError = "conversation_id is required"
)
