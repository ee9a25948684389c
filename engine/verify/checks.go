package verify

import (
	"time"

	"github.com/compozy/demoutils/engine/demo"
)

// DefaultChecks returns the sample application's test suite
func DefaultChecks() []Check {
	return []Check{
		{"Default greeting works", func() bool {
			return demo.Greet("") == "Hello, World! Welcome to LocalStack CI/CD Workshop"
		}},
		{"Custom greeting works", func() bool {
			return demo.Greet("LocalStack") == "Hello, LocalStack! Welcome to LocalStack CI/CD Workshop"
		}},

		{"Addition works", func() bool { return demo.Add(2, 3) == 5 }},
		{"Addition with negatives works", func() bool { return demo.Add(-1, 1) == 0 }},

		{"Multiplication works", func() bool { return demo.Multiply(4, 5) == 20 }},
		{"Multiplication by zero works", func() bool { return demo.Multiply(0, 100) == 0 }},

		{"Even number detection works", func() bool { return demo.IsEven(2) }},
		{"Odd number detection works", func() bool { return !demo.IsEven(3) }},
		{"Zero is even", func() bool { return demo.IsEven(0) }},

		{"Date formatting works", func() bool {
			today := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
			return demo.FormatDate(today) == "2025-01-15"
		}},

		{"Random number is in range", func() bool {
			n, err := demo.RandomBetween(1, 5)
			return err == nil && n >= 1 && n <= 5
		}},
	}
}
