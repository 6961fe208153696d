package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPlayers = []Player{
	{ID: "p1", Name: "Tobias Mueller", PhoneNumber: "+491"},
	{ID: "p2", Name: "Jan Kowalski", PhoneNumber: "+492"},
	{ID: "p3", Name: "Maria", PhoneNumber: "+493"},
	{ID: "p4", Name: "Jann Petersen", PhoneNumber: "+494"},
}

func TestResolveExactMatch(t *testing.T) {
	r := NewResolver(0.75)

	player, err := r.Resolve("Maria", testPlayers)
	require.NoError(t, err)
	assert.Equal(t, "p3", player.ID)
}

func TestResolveIgnoresCaseAndPunctuation(t *testing.T) {
	r := NewResolver(0.75)

	player, err := r.Resolve("  tobias   mueller! ", testPlayers)
	require.NoError(t, err)
	assert.Equal(t, "p1", player.ID)
}

func TestResolveTypo(t *testing.T) {
	r := NewResolver(0.75)

	player, err := r.Resolve("Mariia", testPlayers)
	require.NoError(t, err)
	assert.Equal(t, "p3", player.ID)
}

func TestResolveFirstNameOnly(t *testing.T) {
	r := NewResolver(0.75)

	// A single token should still find the full name via token similarity,
	// and the exact token must beat the near-miss "Jann".
	player, err := r.Resolve("tobias", testPlayers)
	require.NoError(t, err)
	assert.Equal(t, "p1", player.ID)

	player, err = r.Resolve("Kowalski", testPlayers)
	require.NoError(t, err)
	assert.Equal(t, "p2", player.ID)
}

func TestResolveUnknownName(t *testing.T) {
	r := NewResolver(0.75)

	_, err := r.Resolve("Zbigniew", testPlayers)
	var nfErr *PlayerNotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, []string{"Zbigniew"}, nfErr.Names)
}

func TestResolveEmptyInput(t *testing.T) {
	r := NewResolver(0.75)

	_, err := r.Resolve("   !!! ", testPlayers)
	var nfErr *PlayerNotFoundError
	require.ErrorAs(t, err, &nfErr)
}

func TestResolveNoPlayers(t *testing.T) {
	r := NewResolver(0.75)

	_, err := r.Resolve("Maria", nil)
	var nfErr *PlayerNotFoundError
	require.ErrorAs(t, err, &nfErr)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "tobias mueller", normalizeName("  Tobias   MUELLER!  "))
	assert.Equal(t, "jan k 2", normalizeName("Jan-K. (2)"))
	assert.Equal(t, "", normalizeName(" ... "))
}
