package mood

import (
	"context"
	"log"

	"github.com/tunedial/station/internal/station"
)

// Assist suggests tags for free-text mood input. Implementations wrap a
// remote language-model service; the engine only depends on this
// interface.
type Assist interface {
	SuggestTags(ctx context.Context, freeText string) ([]string, error)
}

// Resolver turns mood text into tags, preferring the remote assist when
// one is configured and falling back to the local matcher when it is
// absent, errors, or returns nothing. Assist failures are logged, never
// surfaced to the caller.
type Resolver struct {
	assist  Assist // may be nil
	matcher *Matcher
}

// NewResolver creates a resolver. assist may be nil, in which case the
// local matcher always handles the request.
func NewResolver(assist Assist, matcher *Matcher) *Resolver {
	if matcher == nil {
		matcher = NewMatcher(nil)
	}
	return &Resolver{assist: assist, matcher: matcher}
}

// Tags resolves mood text into an ordered tag list capped at MaxTags.
func (r *Resolver) Tags(ctx context.Context, freeText string, knownTags []station.TagStat, catalog []station.Track) []string {
	if r.assist != nil {
		tags, err := r.assist.SuggestTags(ctx, freeText)
		if err != nil {
			log.Printf("mood assist failed, using local matcher: %v", err)
		} else if len(tags) > 0 {
			if len(tags) > MaxTags {
				tags = tags[:MaxTags]
			}
			return tags
		}
	}
	return r.matcher.Match(freeText, knownTags, catalog)
}
