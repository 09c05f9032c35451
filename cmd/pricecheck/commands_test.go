package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/MrJamesThe3rd/pricewatch/internal/http/auth"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := &cli.App{
		Name:           "pricecheck",
		Writer:         &out,
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			parseCommand(),
			issuesCommand(),
			tokenCommand(),
		},
	}

	err := app.Run(append([]string{"pricecheck"}, args...))
	return out.String(), err
}

func TestParseCommand(t *testing.T) {
	out, err := run(t, "parse", "$1.234,56", "invalid", "$99.50")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "\"$1.234,56\"\t1234.56\t1234.56", lines[0])
	assert.Equal(t, "\"invalid\"\t0\tunreadable", lines[1])
	assert.Equal(t, "\"$99.50\"\t99.5\t99.50", lines[2])
}

func TestParseCommand_Strict(t *testing.T) {
	_, err := run(t, "parse", "--strict", "12", "n/a")
	assert.Error(t, err)
}

func TestParseCommand_NoArgs(t *testing.T) {
	_, err := run(t, "parse")
	assert.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "s3cret")

	out, err := run(t, "token", "--subject", "ci")
	require.NoError(t, err)

	sub, err := auth.Verify("s3cret", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ci", sub)
}

func TestTokenCommand_NoSecret(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "")

	_, err := run(t, "token")
	assert.Error(t, err)
}

func TestIssuesList(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/shop/issues", r.URL.Path)
		_, _ = w.Write([]byte(`[{"number":7,"title":"[price] Mouse: unreadable price label","state":"open"}]`))
	}))
	defer ts.Close()

	t.Setenv("ISSUES_API_URL", ts.URL)
	t.Setenv("ISSUES_OWNER", "acme")
	t.Setenv("ISSUES_REPO", "shop")

	out, err := run(t, "issues", "list")
	require.NoError(t, err)
	assert.Equal(t, "#7\topen\t[price] Mouse: unreadable price label\n", out)
}

func TestIssuesList_NotConfigured(t *testing.T) {
	t.Setenv("ISSUES_OWNER", "")
	t.Setenv("ISSUES_REPO", "")

	_, err := run(t, "issues", "list")
	assert.ErrorIs(t, err, errNoTracker)
}
