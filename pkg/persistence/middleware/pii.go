package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/tripplanner/pkg/domain"
	"github.com/aretw0/tripplanner/pkg/ports"
)

// Mask replaces every redacted match.
const Mask = "***"

// DefaultPIIPatterns catch e-mail addresses and phone-like digit runs.
var DefaultPIIPatterns = []string{
	`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`,
	`\+?\d[\d \-]{7,}\d`,
}

type piiRecorder struct {
	next     ports.InteractionRecorder
	patterns []*regexp.Regexp
}

// NewPIIMiddleware masks text matching any pattern in the free-form fields of
// an interaction before it reaches the recorder. Invalid patterns are an error.
func NewPIIMiddleware(patternStrings []string) (RecorderMiddleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		patterns[i] = re
	}
	return func(next ports.InteractionRecorder) ports.InteractionRecorder {
		return &piiRecorder{next: next, patterns: patterns}
	}, nil
}

func (r *piiRecorder) Record(ctx context.Context, i domain.Interaction) error {
	// i is a copy; the caller's value is untouched.
	i.City = r.mask(i.City)
	i.Interests = r.mask(i.Interests)
	i.Itinerary = r.mask(i.Itinerary)
	i.FunFact = r.mask(i.FunFact)
	return r.next.Record(ctx, i)
}

func (r *piiRecorder) mask(s string) string {
	for _, p := range r.patterns {
		s = p.ReplaceAllString(s, Mask)
	}
	return s
}
