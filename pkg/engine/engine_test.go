package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucianomartinezm628-prog/isomorph/pkg/glossary"
	"github.com/lucianomartinezm628-prog/isomorph/pkg/matrix"
	"github.com/lucianomartinezm628-prog/isomorph/pkg/token"
)

func newEngine() *Engine {
	return New(glossary.New(), nil, nil)
}

func TestBuildSourceMatrix(t *testing.T) {
	e := newEngine()
	m, err := e.BuildSourceMatrix("wa kitab fi dar")
	require.NoError(t, err)
	assert.Equal(t, 4, m.Size())
	assert.Len(t, m.CoreSlots(), 2)
	assert.Len(t, m.ParticleSlots(), 2)
}

func TestProcessSentenceIsomorphism(t *testing.T) {
	e := newEngine()
	for _, text := range []string{"wa kitab", "kitab", "wa kitab fi dar min nur"} {
		m, err := e.BuildSourceMatrix(text)
		require.NoError(t, err)
		e.Glossary().RegisterOccurrences(token.ClassifyAll(text, 0))
		res, err := e.ProcessSentence(m)
		require.NoError(t, err)
		assert.Equal(t, m.Size(), res.Target.Size(), text)
	}
}

func TestLexiconScenarioKitab(t *testing.T) {
	// 5-token sentence, position 2 holds the unregistered core noun
	// "kitab", present in the lexicon as "libro".
	e := newEngine()
	out, err := e.Translate("wa fi kitab min nur")
	require.NoError(t, err)

	parts := strings.Fields(out)
	require.Len(t, parts, 5)
	assert.Equal(t, "libro", parts[2])

	entry, ok := e.Glossary().Entry("kitab")
	require.True(t, ok)
	assert.Equal(t, glossary.Assigned, entry.Status)
	assert.Equal(t, "libro", entry.Target)
}

func TestParticleScenarioWa(t *testing.T) {
	e := newEngine()
	out, err := e.Translate("wa kitab")
	require.NoError(t, err)
	parts := strings.Fields(out)
	require.Len(t, parts, 2)
	assert.Equal(t, "y", parts[0])
}

func TestLocutionAbsorption(t *testing.T) {
	e := newEngine()
	text := "wa fi qalb al asad"
	e.Glossary().RegisterOccurrences(token.ClassifyAll(text, 0))
	_, err := e.Glossary().RegisterLocution("qalb al asad", []string{"qalb", "al", "asad"}, nil, "X")
	require.NoError(t, err)

	m, err := e.BuildSourceMatrix(text)
	require.NoError(t, err)
	res, err := e.ProcessSentence(m)
	require.NoError(t, err)

	c2, _ := res.Target.Cell(2)
	assert.Equal(t, matrix.CellLocution, c2.Type)
	assert.Equal(t, "X", c2.Target)
	for _, pos := range []int{3, 4} {
		c, _ := res.Target.Cell(pos)
		assert.Equal(t, matrix.CellAbsorbed, c.Type, "pos %d", pos)
		assert.Empty(t, c.Target, "pos %d", pos)
	}

	// Absorbed members vanish from serialization; one aligned slot remains.
	out := Serialize(res.Target)
	assert.Equal(t, "y en X", out)
}

func TestProvisionalConsistencyWithinRequest(t *testing.T) {
	// An unknown core token occurring twice must observe the same coined
	// value both times, within the same translation request.
	e := newEngine()
	out, err := e.Translate("falsafa wa falsafa")
	require.NoError(t, err)

	parts := strings.Fields(out)
	require.Len(t, parts, 3)
	assert.Equal(t, parts[0], parts[2])
	assert.Contains(t, parts[0], "-")

	entry, ok := e.Glossary().Entry("falsafa")
	require.True(t, ok)
	assert.Equal(t, glossary.TagAutoNeologism, entry.Tag)
}

func TestSerializePlaceholder(t *testing.T) {
	mtxT := matrix.NewTarget(3)
	require.NoError(t, mtxT.SetSource(0, "gharib"))
	require.NoError(t, mtxT.SetSource(1, "kitab"))
	require.NoError(t, mtxT.SetTarget(1, "libro"))
	require.NoError(t, mtxT.SetSource(2, "x"))
	require.NoError(t, mtxT.MarkAbsorbed(2))

	out := Serialize(mtxT)
	assert.Equal(t, "[gharib] libro", out)
}

func TestTranslateMultipleSentences(t *testing.T) {
	e := newEngine()
	out, err := e.Translate("Kitab fi dar. Qalb min nur.")
	require.NoError(t, err)
	assert.Contains(t, out, "libro")
	assert.Contains(t, out, "corazón")

	st := e.State()
	assert.Equal(t, 2, st.Total)
	assert.Equal(t, 2, st.Translated)
	assert.Equal(t, "COMPLETO", st.Phase)
	assert.InDelta(t, 100.0, st.Progress(), 0.01)
}

func TestTranslateWhilePaused(t *testing.T) {
	e := newEngine()
	e.State().Paused = true
	_, err := e.Translate("kitab")
	assert.Error(t, err)
}

func TestStateReport(t *testing.T) {
	s := NewState()
	assert.Equal(t, 0.0, s.Progress())
	s.Total = 4
	s.Translated = 1
	assert.InDelta(t, 25.0, s.Progress(), 0.01)
	assert.Contains(t, s.Report(), "PROG: 25.0%")

	s.Reset()
	assert.Equal(t, "INICIO", s.Phase)
	assert.Equal(t, 0, s.Total)
}

func TestForcedValueSurvivesTranslation(t *testing.T) {
	// A user-forced target beats the lexicon on later runs.
	e := newEngine()
	_, err := e.Translate("kitab")
	require.NoError(t, err)
	_, err = e.Glossary().ForceUpdate("kitab", "volumen")
	require.NoError(t, err)

	out, err := e.Translate("kitab")
	require.NoError(t, err)
	assert.Equal(t, "volumen", out)
}
