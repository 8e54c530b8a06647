package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/jarvis/internal/model"
)

func TestValidators(t *testing.T) {
	assert.Error(t, validateRequired("Name")("  "))
	assert.NoError(t, validateRequired("Name")("Tony"))

	sleep := validateFloat(1, 16)
	assert.NoError(t, sleep("7.5"))
	assert.Error(t, sleep("0"))
	assert.Error(t, sleep("eight"))

	block := validateInt(5, 240)
	assert.NoError(t, block(" 45 "))
	assert.Error(t, block("4"))
	assert.Error(t, block("45.5"))
}

func TestHandleSubmit(t *testing.T) {
	m := New(80, 24)
	m.Start(model.Profile{Name: "Commander", SleepGoal: 8, FocusBlock: 45, XP: 120, Level: 2})
	assert.Equal(t, "8", m.fb.sleepGoal)

	m.fb.name = "  Tony "
	m.fb.sleepGoal = "6.5"
	m.fb.focusBlock = "50"

	cmd := m.handleSubmit()
	require.NotNil(t, cmd)
	assert.Equal(t, SavedMsg{Name: "Tony", SleepGoal: 6.5, FocusBlock: 50}, cmd())
	assert.Contains(t, m.View(), "Level 2")
}
