package syncer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Niarfe/scripts-r-us/internal/fileset"
	"github.com/Niarfe/scripts-r-us/internal/logging"
	"github.com/Niarfe/scripts-r-us/internal/metadata"
	"github.com/Niarfe/scripts-r-us/internal/models"
	"github.com/Niarfe/scripts-r-us/internal/ui"
)

// StdoutTarget is the download target that means "write to Out".
const StdoutTarget = "-"

// Engine runs the sync workflows.
type Engine struct {
	remote Remote
	out    io.Writer
	logger *slog.Logger
}

// Options configures an Engine.
type Options struct {
	// Out receives user-facing output. Defaults to os.Stdout.
	Out io.Writer
	// Logger receives diagnostics. Defaults to logging.Default().
	Logger *slog.Logger
}

// New creates an Engine. remote may be nil for workflows that stay local.
func New(remote Remote, opts Options) *Engine {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	return &Engine{remote: remote, out: opts.Out, logger: opts.Logger}
}

// Listing is one row of the list workflow.
type Listing struct {
	Name string `json:"name"`
	Href string `json:"href"`
}

// List returns the editable scripts, optionally narrowed server-side by filter.
func (e *Engine) List(ctx context.Context, filter string) ([]Listing, error) {
	scripts, err := e.remote.Index(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list right scripts: %w", err)
	}

	heads := models.HeadRevisions(scripts)
	listings := make([]Listing, 0, len(heads))
	for _, s := range heads {
		listings = append(listings, Listing{Name: s.Name, Href: e.remote.PublicURL(s.Href)})
	}
	return listings, nil
}

// Skip records a file the upload workflow passed over.
type Skip struct {
	Path   string
	Reason error
}

// UploadResult summarizes an upload batch.
type UploadResult struct {
	Pushed  []string
	Skipped []Skip
}

// Upload pushes every resolved file to the script of the same name.
//
// Unless force is set, a batch with any file lacking metadata is rejected
// before the remote is contacted. Per-file failures to find a unique target
// are skipped; remote errors abort the batch.
func (e *Engine) Upload(ctx context.Context, paths []string, force bool) (*UploadResult, error) {
	files, err := fileset.Resolve(paths, e.logger)
	if err != nil {
		return nil, err
	}

	_, missing, err := fileset.Partition(files)
	if err != nil {
		return nil, err
	}

	if len(missing) > 0 {
		fmt.Fprintln(e.out, "The following files have no metadata: ")
		for _, f := range missing {
			fmt.Fprintln(e.out, f)
		}
		fmt.Fprintln(e.out)

		if !force {
			fmt.Fprintln(e.out, "Please run 'rightscript_sync set_metadata <file or directory>' to add metadata for files")
			fmt.Fprintln(e.out, "Or else pass the --force flag to upload anyways")
			return nil, fmt.Errorf("%d file(s) have no metadata: %w", len(missing), models.ErrMissingMetadata)
		}
		fmt.Fprintln(e.out, "Force flag is set, uploading all files anyways")
	}

	result := &UploadResult{}
	for _, file := range files {
		pushed, err := e.push(ctx, file)
		if err != nil {
			if errors.Is(err, models.ErrAmbiguousName) || errors.Is(err, models.ErrUnsupported) {
				e.logger.Debug("skipping file", logging.Path(file), logging.Err(err))
				result.Skipped = append(result.Skipped, Skip{Path: file, Reason: err})
				continue
			}
			return result, err
		}
		if pushed {
			result.Pushed = append(result.Pushed, file)
		}
	}

	e.logger.Info("upload finished", logging.Count(len(result.Pushed)), slog.Int("skipped", len(result.Skipped)))
	return result, nil
}

// push uploads a single file. Ambiguity and absence come back as
// ErrAmbiguousName and ErrUnsupported for the caller to skip.
func (e *Engine) push(ctx context.Context, file string) (bool, error) {
	block, ok, err := metadata.ReadBlock(file)
	if err != nil {
		return false, err
	}

	name, description := block.Name, block.Description
	if !ok || name == "" {
		name = DefaultName(file)
	}

	script, err := ResolveByName(ctx, e.remote, name)
	switch {
	case errors.Is(err, models.ErrAmbiguousName):
		e.logger.Warn("cannot upload, multiple right scripts match", logging.Script(name), logging.Path(file))
		fmt.Fprintln(e.out, ui.StatusWarning(fmt.Sprintf("Cannot upload %s, multiple rightscripts match", name)))
		return false, err
	case errors.Is(err, models.ErrNotFound):
		e.logger.Warn("no right script to update", logging.Script(name), logging.Path(file))
		fmt.Fprintln(e.out, ui.StatusSkipped("Creation of a new RightScript is not yet supported"))
		return false, fmt.Errorf("cannot create %s: %w", name, models.ErrUnsupported)
	case err != nil:
		return false, err
	}

	content, err := os.ReadFile(file)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", file, err)
	}

	fmt.Fprintf(e.out, "Pushing %s up to RightScale with RightScript name %s and href %s\n",
		file, name, e.remote.PublicURL(script.Href))

	if err := e.remote.UpdateSource(ctx, script.ID, string(content)); err != nil {
		return false, fmt.Errorf("failed to update source of %s: %w", name, err)
	}
	if description != "" {
		if err := e.remote.UpdateDescription(ctx, script.ID, description); err != nil {
			return false, fmt.Errorf("failed to update description of %s: %w", name, err)
		}
	}

	return true, nil
}

// SetMetadata inserts a default block into every resolved file that lacks
// one and returns the files it changed. Files with a block are left alone.
func (e *Engine) SetMetadata(paths []string) ([]string, error) {
	files, err := fileset.Resolve(paths, e.logger)
	if err != nil {
		return nil, err
	}

	_, missing, err := fileset.Partition(files)
	if err != nil {
		return nil, err
	}

	var changed []string
	for _, file := range missing {
		written, err := e.insert(file, DefaultName(file), "")
		if err != nil {
			return changed, err
		}
		if written {
			changed = append(changed, file)
		}
	}
	return changed, nil
}

func (e *Engine) insert(file, name, description string) (bool, error) {
	written, err := metadata.Insert(file, name, description)
	if err != nil {
		return false, err
	}
	if !written {
		e.logger.Warn("skipping empty file", logging.Path(file))
		return false, nil
	}
	fmt.Fprintln(e.out, ui.StatusSuccess("Saving file "+file))
	return true, nil
}

// DownloadRequest selects a script by exactly one of ID or Name and names
// the Target path, or StdoutTarget.
type DownloadRequest struct {
	Target string
	ID     string
	Name   string
}

// Validate checks that exactly one selector and a target are given.
func (r DownloadRequest) Validate() error {
	if r.ID == "" && r.Name == "" {
		return fmt.Errorf("either name or id must be supplied: %w", models.ErrInvalidArguments)
	}
	if r.ID != "" && r.Name != "" {
		return fmt.Errorf("only one of name or id may be supplied: %w", models.ErrInvalidArguments)
	}
	if r.Target == "" {
		return fmt.Errorf("filename to download to must be supplied: %w", models.ErrInvalidArguments)
	}
	return nil
}

// Download fetches a script's source into the target. A file target that
// ends up without a block gets one built from the script's name and
// description.
func (e *Engine) Download(ctx context.Context, req DownloadRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	id := req.ID
	if req.Name != "" {
		match, err := ResolveByName(ctx, e.remote, req.Name)
		if err != nil {
			return err
		}
		id = match.ID
	}

	script, err := e.remote.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch right script %s: %w", id, err)
	}

	text := script.Source
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	if req.Target == StdoutTarget {
		_, err := io.WriteString(e.out, text)
		return err
	}

	fmt.Fprintf(e.out, "Saving RightScript contents to %s\n", req.Target)
	if err := os.WriteFile(req.Target, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", req.Target, err)
	}

	has, err := metadata.HasMetadata(req.Target)
	if err != nil {
		return err
	}
	if !has {
		if _, err := e.insert(req.Target, script.Name, script.Description); err != nil {
			return err
		}
	}
	return nil
}

// DefaultName is the script name implied by a file path: its base name
// without the extension.
func DefaultName(path string) string {
	base := filepath.Base(path)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
		return name
	}
	return base
}
