package constants_test

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/agentstation/cardmap/pkg/constants"
)

// Example demonstrates using constants for common operations
func Example() {
	dir, err := os.MkdirTemp("", "cardmap-example")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "cards.json")
	if err := os.WriteFile(file, []byte(`{"cards": []}`), constants.FilePermissions); err != nil {
		panic(err)
	}

	fmt.Printf("Created file with %o permissions\n", constants.FilePermissions)
	// Output:
	// Created file with 644 permissions
}

// Example_dateFormat demonstrates the verification stamp layout
func Example_dateFormat() {
	day := time.Date(2026, time.February, 14, 9, 30, 0, 0, time.UTC)
	fmt.Println(day.Format(constants.DateFormat))
	// Output: 2026-02-14
}
