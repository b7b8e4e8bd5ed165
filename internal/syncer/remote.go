package syncer

import (
	"context"

	"github.com/Niarfe/scripts-r-us/internal/models"
)

// Remote is the RightScript service as seen by the workflows.
type Remote interface {
	// Index lists scripts whose name matches name. The service may match
	// partially; an empty name lists everything.
	Index(ctx context.Context, name string) ([]models.RemoteScript, error)
	// Get fetches one script by id, including its source text.
	Get(ctx context.Context, id string) (*models.RemoteScript, error)
	UpdateSource(ctx context.Context, id, text string) error
	UpdateDescription(ctx context.Context, id, text string) error
	// PublicURL turns an API href into a link a person can open.
	PublicURL(href string) string
}
