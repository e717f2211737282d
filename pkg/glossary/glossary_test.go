package glossary

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucianomartinezm628-prog/isomorph/pkg/token"
)

func batchFor(text string) []token.Classified {
	return token.ClassifyAll(text, 0)
}

func TestRegisterOccurrences(t *testing.T) {
	g := New()
	g.RegisterOccurrences(batchFor("wa kitab wa"))

	require.Equal(t, 2, g.Len())

	e, ok := g.Entry("wa")
	require.True(t, ok)
	assert.Equal(t, Pending, e.Status)
	assert.Equal(t, []int{0, 2}, e.Occurrences)
	assert.Equal(t, token.Particula, e.Category)

	e, ok = g.Entry("kitab")
	require.True(t, ok)
	assert.Equal(t, []int{1}, e.Occurrences)
}

func TestRegisterOccurrencesPositionless(t *testing.T) {
	g := New()
	g.RegisterOccurrences([]token.Classified{
		{Text: "ghayb", Category: token.Nucleo, Position: -1},
	})

	// The token is registered but records no occurrence position.
	e, ok := g.Entry("ghayb")
	require.True(t, ok)
	assert.Equal(t, Pending, e.Status)
	assert.Empty(t, e.Occurrences)

	// A later real occurrence accumulates normally.
	g.RegisterOccurrences([]token.Classified{
		{Text: "ghayb", Category: token.Nucleo, Position: 7},
	})
	e, _ = g.Entry("ghayb")
	assert.Equal(t, []int{7}, e.Occurrences)
}

func TestRegisterOccurrencesAccumulates(t *testing.T) {
	g := New()
	batch := batchFor("kitab qalb")
	g.RegisterOccurrences(batch)
	g.RegisterOccurrences(batch)

	// No duplicate entries; occurrence counts reflect both registrations.
	assert.Equal(t, 2, g.Len())
	e, _ := g.Entry("kitab")
	assert.Len(t, e.Occurrences, 2)
}

func TestVerifyRegistered(t *testing.T) {
	g := New()
	err := g.VerifyRegistered("ghayb")
	assert.ErrorIs(t, err, ErrTokenNotRegistered)

	g.RegisterOccurrences(batchFor("ghayb"))
	assert.NoError(t, g.VerifyRegistered("ghayb"))
}

func TestAssignAndLookup(t *testing.T) {
	g := New()
	g.RegisterOccurrences(batchFor("kitab"))

	require.NoError(t, g.Assign("kitab", "libro", MarginDirect, TagNone))

	tgt, ok := g.Lookup("kitab")
	require.True(t, ok)
	assert.Equal(t, "libro", tgt)

	e, _ := g.Entry("kitab")
	assert.Equal(t, Assigned, e.Status)
	assert.Equal(t, MarginDirect, e.Margin)
}

func TestAssignSynonymyConflict(t *testing.T) {
	g := New()
	g.RegisterOccurrences(batchFor("kitab"))
	require.NoError(t, g.Assign("kitab", "libro", MarginDirect, TagNone))

	err := g.Assign("kitab", "tomo", MarginAlt, TagNone)
	var conflict *SynonymyConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "libro", conflict.Assigned)
	assert.Equal(t, "tomo", conflict.Proposed)

	// Stored target is kept, entry flagged for review.
	tgt, _ := g.Lookup("kitab")
	assert.Equal(t, "libro", tgt)
	e, _ := g.Entry("kitab")
	assert.Equal(t, TagConflict, e.Tag)
}

func TestAssignSameTargetNoConflict(t *testing.T) {
	g := New()
	g.RegisterOccurrences(batchFor("kitab"))
	require.NoError(t, g.Assign("kitab", "libro", MarginDirect, TagNone))
	assert.NoError(t, g.Assign("kitab", "libro", MarginDirect, TagNone))
}

func TestAssignForcedOverridesConflict(t *testing.T) {
	g := New()
	g.RegisterOccurrences(batchFor("kitab"))
	require.NoError(t, g.Assign("kitab", "libro", MarginDirect, TagNone))
	require.NoError(t, g.Assign("kitab", "tomo", MarginAlt, TagForcedByUser))

	tgt, _ := g.Lookup("kitab")
	assert.Equal(t, "tomo", tgt)
}

func TestParticleReassignNoConflict(t *testing.T) {
	// Immutability applies to core entries only.
	g := New()
	g.RegisterOccurrences(batchFor("wa"))
	require.NoError(t, g.Assign("wa", "y", MarginDirect, TagNone))
	assert.NoError(t, g.Assign("wa", "e", MarginAlt, TagNone))
}

func TestForceUpdate(t *testing.T) {
	g := New()
	g.RegisterOccurrences(batchFor("kitab wa kitab wa kitab"))
	require.NoError(t, g.Assign("kitab", "libro", MarginDirect, TagNone))

	n, err := g.ForceUpdate("kitab", "volumen")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	e, _ := g.Entry("kitab")
	assert.Equal(t, TagForcedByUser, e.Tag)
	assert.Equal(t, "volumen", e.Target)

	_, err = g.ForceUpdate("unknown", "x")
	assert.ErrorIs(t, err, ErrTokenNotRegistered)
}

func TestAddEntry(t *testing.T) {
	g := New()
	require.NoError(t, g.AddEntry("qalb", token.Nucleo, "corazón"))

	e, ok := g.Entry("qalb")
	require.True(t, ok)
	assert.Equal(t, Assigned, e.Status)

	err := g.AddEntry("qalb", token.Nucleo, "otro")
	assert.ErrorIs(t, err, ErrDuplicateEntry)
}

func TestDeleteEntry(t *testing.T) {
	g := New()
	g.RegisterOccurrences(batchFor("nur kitab nur wa nur"))

	n, err := g.DeleteEntry("nur")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, ok := g.Lookup("nur")
	assert.False(t, ok)
	assert.ErrorIs(t, g.VerifyRegistered("nur"), ErrTokenNotRegistered)

	_, err = g.DeleteEntry("nur")
	assert.ErrorIs(t, err, ErrTokenNotRegistered)
}

func TestRegisterLocution(t *testing.T) {
	g := New()
	g.RegisterOccurrences(batchFor("qalb al asad"))

	loc, err := g.RegisterLocution("qalb al asad", []string{"qalb", "al", "asad"}, []int{0, 1, 2}, "valentía")
	require.NoError(t, err)
	assert.NotEmpty(t, loc.ID)
	assert.Equal(t, 0, loc.First())

	for _, comp := range []string{"qalb", "al", "asad"} {
		e, ok := g.Entry(comp)
		require.True(t, ok, comp)
		assert.Equal(t, Blocked, e.Status, comp)
	}

	id, blocked := g.VerifyBlocked("asad")
	require.True(t, blocked)
	assert.Equal(t, loc.ID, id)

	_, blocked = g.VerifyBlocked("kitab")
	assert.False(t, blocked)
}

func TestRemoveLocution(t *testing.T) {
	g := New()
	g.RegisterOccurrences(batchFor("qalb al asad"))
	loc, err := g.RegisterLocution("qalb al asad", []string{"qalb", "al", "asad"}, []int{0, 1, 2}, "valentía")
	require.NoError(t, err)

	require.True(t, g.RemoveLocution(loc.ID))
	e, _ := g.Entry("qalb")
	assert.Equal(t, Pending, e.Status)
	assert.False(t, g.RemoveLocution(loc.ID))
}

func TestExportJSONRoundTrip(t *testing.T) {
	g := New()
	g.RegisterOccurrences(batchFor("kitab qalb wa"))
	require.NoError(t, g.Assign("kitab", "libro", MarginDirect, TagNone))
	require.NoError(t, g.Assign("qalb", "corazón", MarginDirect, TagNone))
	require.NoError(t, g.Assign("wa", "y", MarginDirect, TagNone))

	out, err := g.Export(FormatJSON)
	require.NoError(t, err)

	restored := New()
	require.NoError(t, restored.ImportJSON([]byte(out)))

	for _, tok := range []string{"kitab", "qalb", "wa"} {
		want, _ := g.Lookup(tok)
		got, ok := restored.Lookup(tok)
		require.True(t, ok, tok)
		assert.Equal(t, want, got, tok)
	}
}

func TestExportJSONIsValid(t *testing.T) {
	g := New()
	g.RegisterOccurrences(batchFor("kitab"))
	out, err := g.Export(FormatJSON)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &m))
}

func TestExportCSVAndText(t *testing.T) {
	g := New()
	g.RegisterOccurrences(batchFor("kitab qalb"))
	require.NoError(t, g.Assign("kitab", "libro", MarginDirect, TagNone))

	csv, err := g.Export(FormatCSV)
	require.NoError(t, err)
	assert.Contains(t, csv, "token,target\n")
	assert.Contains(t, csv, "kitab,libro\n")

	txt, err := g.Export(FormatText)
	require.NoError(t, err)
	assert.Contains(t, txt, "kitab -> libro")
	assert.Contains(t, txt, "qalb -> [PENDING]")

	_, err = g.Export(Format("xml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestSnapshotRestore(t *testing.T) {
	g := New()
	g.RegisterOccurrences(batchFor("kitab qalb"))
	require.NoError(t, g.Assign("kitab", "libro", MarginDirect, TagNone))

	snap := g.Snapshot()

	require.NoError(t, g.Assign("qalb", "corazón", MarginDirect, TagNone))
	_, err := g.DeleteEntry("kitab")
	require.NoError(t, err)
	require.NoError(t, g.AddEntry("nur", token.Nucleo, "luz"))

	g.Restore(snap)

	tgt, ok := g.Lookup("kitab")
	require.True(t, ok)
	assert.Equal(t, "libro", tgt)
	_, ok = g.Lookup("qalb")
	assert.False(t, ok)
	_, ok = g.Entry("nur")
	assert.False(t, ok)
}

func TestEntryReturnsCopy(t *testing.T) {
	g := New()
	g.RegisterOccurrences(batchFor("kitab"))
	e, _ := g.Entry("kitab")
	e.Target = "mutated"
	e.Occurrences = append(e.Occurrences, 99)

	fresh, _ := g.Entry("kitab")
	assert.Empty(t, fresh.Target)
	assert.Equal(t, []int{0}, fresh.Occurrences)
}
