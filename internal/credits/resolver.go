// Package credits resolves a search query to the composer and lyricist
// credits of the best matching catalog track.
package credits

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"credit-sync/internal/catalog"
	"credit-sync/internal/logging"
	"credit-sync/internal/model"
	"credit-sync/internal/roles"
)

// DefaultSearchLimit is the number of candidates requested per search.
const DefaultSearchLimit = 50

// ErrNoMatch is returned when a search yields no track.
var ErrNoMatch = errors.New("no catalog match")

// Catalog is the streaming catalog the resolver reads from.
type Catalog interface {
	Search(ctx context.Context, query string, limit int) ([]model.TrackMatch, error)
	Album(ctx context.Context, albumID string) (model.AlbumInfo, error)
	AlbumCredits(ctx context.Context, albumID string) (model.AlbumCredits, error)
}

// Resolver turns queries into Credits, caching album credits per run.
type Resolver struct {
	catalog     Catalog
	cache       *catalog.Cache
	searchLimit int
	logger      *logging.Logger
}

// NewResolver creates a resolver. A nil cache gets a fresh one.
func NewResolver(c Catalog, cache *catalog.Cache, searchLimit int, logger *logging.Logger) *Resolver {
	if cache == nil {
		cache = catalog.NewCache()
	}
	if searchLimit < 1 {
		searchLimit = DefaultSearchLimit
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Resolver{catalog: c, cache: cache, searchLimit: searchLimit, logger: logger}
}

// Resolve finds the first track for query and builds its credits.
func (r *Resolver) Resolve(ctx context.Context, query string) (model.Credits, error) {
	results, err := r.catalog.Search(ctx, query, r.searchLimit)
	if err != nil {
		return model.Credits{}, fmt.Errorf("search %q: %w", query, err)
	}
	if len(results) == 0 {
		return model.Credits{}, ErrNoMatch
	}

	first := results[0]
	match, err := model.NewTrackMatch(first.ArtistName, first.TrackName, first.AlbumName, first.AlbumID, first.AlbumYear)
	if err != nil {
		return model.Credits{}, err
	}

	// The label is only known when the album is fetched; a cache hit leaves it empty.
	var label string
	key := catalog.Key(match.ArtistName, match.AlbumName)
	albumCredits, hit, err := r.cache.GetOrFetch(key, func() (model.AlbumCredits, error) {
		info, err := r.catalog.Album(ctx, match.AlbumID)
		if err != nil {
			return nil, fmt.Errorf("fetch album %s: %w", match.AlbumID, err)
		}
		fetched, err := r.catalog.AlbumCredits(ctx, match.AlbumID)
		if err != nil {
			return nil, fmt.Errorf("fetch album credits %s: %w", match.AlbumID, err)
		}
		label = info.Copyright
		return fetched, nil
	})
	if err != nil {
		return model.Credits{}, err
	}
	if hit {
		r.logger.Debugf("Album credits cache hit: %s", key)
	}

	trackCredits, ok := albumCredits.Track(match.TrackName)
	if !ok {
		return model.Credits{}, fmt.Errorf("track %q not listed in credits of %q: %w", match.TrackName, key, model.ErrMalformed)
	}

	composers := newOrderedSet()
	lyricists := newOrderedSet()
	missing := newOrderedSet()
	for _, credit := range trackCredits.Credits {
		for _, contributor := range credit.Contributors {
			switch roles.Classify(credit.Role) {
			case roles.Composer:
				composers.add(contributor.Name)
			case roles.Lyricist:
				lyricists.add(contributor.Name)
			default:
				missing.add(credit.Role)
			}
		}
	}
	if composers.empty() {
		composers.add(match.ArtistName)
	}
	if lyricists.empty() {
		lyricists.add(match.ArtistName)
	}
	if !missing.empty() {
		r.logger.Debugf("Unclassified roles for %s - %s: %s", match.ArtistName, match.TrackName, missing.join())
	}

	out, err := model.NewCredits(
		match.ArtistName,
		match.TrackName,
		match.AlbumName,
		composers.join(),
		lyricists.join(),
		label,
		match.AlbumYear,
	)
	if err != nil {
		return model.Credits{}, err
	}
	out.UnclassifiedRoles = missing.items
	return out, nil
}

// Cache exposes the resolver's album credit cache.
func (r *Resolver) Cache() *catalog.Cache {
	return r.cache
}

type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func (s *orderedSet) empty() bool { return len(s.items) == 0 }

func (s *orderedSet) join() string { return strings.Join(s.items, ", ") }
