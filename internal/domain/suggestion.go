package domain

// SuggestionKind discriminates how a personalized suggestion is dispatched.
type SuggestionKind string

const (
	// SuggestionBookRide sets the destination field when clicked.
	SuggestionBookRide SuggestionKind = "BOOK_RIDE"
	// SuggestionExplore hands a query to the external search view.
	SuggestionExplore SuggestionKind = "EXPLORE"
)

// Suggestion is a personalized shortcut shown only while the lifecycle is
// IDLE. Prefetch is best-effort: failures leave the list empty.
type Suggestion struct {
	Kind  SuggestionKind
	Title string
	// Destination is set for BOOK_RIDE suggestions.
	Destination string
	// Query is set for EXPLORE suggestions.
	Query string
}
