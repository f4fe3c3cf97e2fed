package errors_test

import (
	"fmt"

	"github.com/agentstation/cardmap/pkg/errors"
)

// Example demonstrates basic error creation and checking.
func Example() {
	err := &errors.NotFoundError{
		Resource: "collection",
		ID:       "cards",
	}

	if errors.IsNotFound(err) {
		fmt.Println("Collection not found")
	}

	// Output: Collection not found
}

// Example_duplicateIdentifier shows how load-time uniqueness failures surface.
func Example_duplicateIdentifier() {
	err := fmt.Errorf("indexing records: %w",
		errors.NewDuplicateIdentifierError("canadian_cards_extended.json", []string{"td-platinum-travel-visa"}))

	var dupErr *errors.DuplicateIdentifierError
	if errors.As(err, &dupErr) {
		fmt.Println(dupErr.Identifiers[0])
	}

	// Output: td-platinum-travel-visa
}

// Example_parseError shows parse error formatting.
func Example_parseError() {
	err := errors.NewParseError("json", "credit-cards-full.json", "unexpected end of JSON input", nil)
	fmt.Println(err)

	// Output: parse error in json file credit-cards-full.json: unexpected end of JSON input
}
