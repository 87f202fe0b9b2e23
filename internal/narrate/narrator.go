// Package narrate writes the plain-language explanation and suggested
// corrections attached to a verification result.
package narrate

import (
	"context"

	"github.com/ppiankov/evidentia/internal/model"
)

// Narration is the prose attached to a verification result
type Narration struct {
	Explanation string
	Corrections string
}

// Narrator explains a scored verification result
type Narrator interface {
	// Name returns the narrator name
	Name() string

	// Narrate produces prose for res. Implementations must not modify res.
	Narrate(ctx context.Context, res *model.VerificationResult) (Narration, error)
}
