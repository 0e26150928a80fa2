// Package slug provides short, URL-safe random link identifiers backed
// by nanoid.
package slug

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet defines the character set used for generated slugs.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of characters in a generated slug. With a
// 62-character alphabet this gives ~8.4e17 possible slugs, so collision
// is treated as statistically negligible and inserts do not retry.
var Length = 10

// New returns a new random slug.
func New() (string, error) {
	s, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("slug: %w", err)
	}
	return s, nil
}
