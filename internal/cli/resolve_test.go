package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/martijn/stockpoint/internal/adapter/notify"
	"github.com/martijn/stockpoint/internal/core/resolver"
	"github.com/martijn/stockpoint/internal/core/service"
	"github.com/martijn/stockpoint/internal/infrastructure/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestResolver(t *testing.T, out *bytes.Buffer) (*resolver.Resolver, *service.ClientService) {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := zaptest.NewLogger(t)
	clients := service.NewClientService(sqlite.NewClientRepository(db), log)
	return resolver.New(clients, notify.NewWriter(out), nil, log), clients
}

func TestRunResolveSelectsCandidate(t *testing.T) {
	var out bytes.Buffer
	r, clients := newTestResolver(t, &out)

	_, err := clients.CreateClient(context.Background(), "Ana", "11122")
	require.NoError(t, err)
	bea, err := clients.CreateClient(context.Background(), "Bea", "22211")
	require.NoError(t, err)

	in := strings.NewReader("22\n#9\n#1\n.\n")
	got, err := runResolve(context.Background(), r, in, &out)
	require.NoError(t, err)
	require.NotNil(t, got)

	// Candidates come back in id order, so "22" lists Ana first.
	assert.NotEqual(t, bea.ID, got.ID)
	assert.Equal(t, "Ana", got.FullName)
	assert.Contains(t, out.String(), "no such candidate")
	assert.Contains(t, out.String(), "selected: 11122  Ana")
}

func TestRunResolveCreatesClient(t *testing.T) {
	var out bytes.Buffer
	r, clients := newTestResolver(t, &out)

	// Blank name first, then a valid one after retrying.
	in := strings.NewReader("987\n+\n\n\nyes\nDora Diaz\n\n.\n")
	got, err := runResolve(context.Background(), r, in, &out)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Dora Diaz", got.FullName)
	assert.Equal(t, "987", got.NationalID)

	assert.Contains(t, out.String(), "[warning] Validation: complete all fields")
	assert.Contains(t, out.String(), "[success]")

	stored, err := clients.FindByNationalID(context.Background(), "987")
	require.NoError(t, err)
	assert.Equal(t, got.ID, stored.ID)
}

func TestRunResolveFormNeedsNoMatch(t *testing.T) {
	var out bytes.Buffer
	r, clients := newTestResolver(t, &out)

	_, err := clients.CreateClient(context.Background(), "Ana", "123")
	require.NoError(t, err)

	got, err := runResolve(context.Background(), r, strings.NewReader("12\n+\nq\n"), &out)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Contains(t, out.String(), resolver.ErrFormUnavailable.Error())
}

func TestRunResolveEndOfInput(t *testing.T) {
	var out bytes.Buffer
	r, _ := newTestResolver(t, &out)

	got, err := runResolve(context.Background(), r, strings.NewReader("5\n"), &out)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Contains(t, out.String(), "no client matches")
}
