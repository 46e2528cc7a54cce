package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWizardGatesForwardMovement(t *testing.T) {
	w := newWizard(scorecardSteps())

	require.Error(t, w.submit(""), "empty course name must not advance")
	require.Equal(t, "course", w.step().name)

	require.NoError(t, w.submit("Pebble Creek"))
	require.Equal(t, "date", w.step().name)

	require.Error(t, w.submit("yesterday"))
	require.NoError(t, w.submit("2026-08-20"))
	require.Equal(t, "holes", w.step().name)
}

func TestWizardBackReplacesAnswer(t *testing.T) {
	w := newWizard(scorecardSteps())
	require.NoError(t, w.submit("Wrong Course"))
	require.NoError(t, w.submit("2026-08-20"))

	w.back()
	w.back()
	require.Equal(t, "course", w.step().name)
	require.NoError(t, w.submit("Pebble Creek"))
	require.NoError(t, w.submit("2026-08-20"))
	require.NoError(t, w.submit("4/5, 3/4, 5/7"))
	require.NoError(t, w.submit(""))
	require.NoError(t, w.submit(""))
	require.True(t, w.done())

	card := w.scorecard()
	require.Equal(t, "Pebble Creek", card.CourseName)
	require.Len(t, card.Holes, 3)
	require.Equal(t, 16, card.TotalStrokes())
}

func TestWizardBackAtFirstStepIsNoop(t *testing.T) {
	w := newWizard(scorecardSteps())
	w.back()
	require.Equal(t, "course", w.step().name)
}

func TestParseHolesRejectsGarbage(t *testing.T) {
	_, err := parseHoles("4-5")
	require.Error(t, err)
	_, err = parseHoles("")
	require.Error(t, err)
	_, err = parseHoles("four/5")
	require.Error(t, err)
}

func TestValidateHolesUsesScorecardRules(t *testing.T) {
	require.Error(t, validateHoles("9/5"), "par above 6 is invalid")
	require.NoError(t, validateHoles("4/5, 3/2"))
}
