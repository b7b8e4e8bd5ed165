package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/Niarfe/scripts-r-us/internal/logging"
	"github.com/Niarfe/scripts-r-us/internal/metadata"
	"github.com/Niarfe/scripts-r-us/internal/syncer"
	"github.com/Niarfe/scripts-r-us/internal/testutil"
)

// useFakeRemote points newRemote at remote for the duration of the test
func useFakeRemote(t *testing.T, remote *testutil.FakeRemote) {
	t.Helper()
	logging.SetDefault(logging.Discard())

	old := newRemote
	newRemote = func() (syncer.Remote, error) { return remote, nil }
	t.Cleanup(func() { newRemote = old })
}

// testCommand returns a command whose output is captured
func testCommand() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	return cmd, &buf
}

func blockFor(name, description string) string {
	return strings.Join(metadata.Serialize(name, description), "\n") + "\n"
}
