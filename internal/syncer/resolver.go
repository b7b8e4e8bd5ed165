package syncer

import (
	"context"
	"fmt"

	"github.com/Niarfe/scripts-r-us/internal/models"
)

// ResolveByName finds the single editable script called name.
//
// Index results are re-checked for an exact name match and revision 0.
// Zero matches is ErrNotFound and more than one is ErrAmbiguousName; it is
// up to the caller whether either is fatal.
func ResolveByName(ctx context.Context, remote Remote, name string) (models.RemoteScript, error) {
	candidates, err := remote.Index(ctx, name)
	if err != nil {
		return models.RemoteScript{}, fmt.Errorf("failed to search for %s: %w", name, err)
	}

	var matches []models.RemoteScript
	for _, s := range candidates {
		if s.IsHead() && s.Name == name {
			matches = append(matches, s)
		}
	}

	switch len(matches) {
	case 0:
		return models.RemoteScript{}, fmt.Errorf("no script named %s: %w", name, models.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return models.RemoteScript{}, fmt.Errorf("more than one script named %s: %w", name, models.ErrAmbiguousName)
	}
}
