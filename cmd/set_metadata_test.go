package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/Niarfe/scripts-r-us/internal/models"
	"github.com/Niarfe/scripts-r-us/internal/syncer"
	"github.com/Niarfe/scripts-r-us/internal/testutil"
)

func TestSetMetadataCommand(t *testing.T) {
	dir := testutil.NewTempDir(t)
	f := dir.CreateFile("configure-app.sh", "#!/bin/sh\nexit 0\n")
	sub := dir.Mkdir("nested")

	// set_metadata must work without credentials
	old := newRemote
	newRemote = func() (syncer.Remote, error) { return nil, errors.New("no credentials") }
	defer func() { newRemote = old }()

	cmd, _ := testCommand()
	if err := runSetMetadata(cmd, []string{f, sub}); err != nil {
		t.Fatalf("set_metadata command failed: %v", err)
	}

	got := dir.ReadFile(f)
	if !strings.HasPrefix(got, "#!/bin/sh\n\n# ---\n# RightScript Name: configure-app\n") {
		t.Errorf("unexpected content:\n%s", got)
	}
}

func TestSetMetadataNothingToDo(t *testing.T) {
	dir := testutil.NewTempDir(t)
	f := dir.CreateFile("done.sh", blockFor("done", "")+"echo\n")

	cmd, out := testCommand()
	if err := runSetMetadata(cmd, []string{f}); err != nil {
		t.Fatalf("set_metadata command failed: %v", err)
	}
	if !strings.Contains(out.String(), "All files already have metadata") {
		t.Errorf("expected nothing-to-do notice:\n%s", out.String())
	}
}

func TestSetMetadataMissingFile(t *testing.T) {
	cmd, _ := testCommand()
	err := runSetMetadata(cmd, []string{"/nonexistent/file.sh"})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
