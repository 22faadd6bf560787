package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberDecodesLenientValues(t *testing.T) {
	var card ReportCard
	raw := `{"roll_number":"101","subjects":{"Math":"91","English":78.5},"percentage":"84.75%","total_marks":null}`
	require.NoError(t, json.Unmarshal([]byte(raw), &card))

	assert.Equal(t, 91.0, card.Subjects["Math"].Float())
	assert.Equal(t, 78.5, card.Subjects["English"].Float())
	assert.Equal(t, 84.75, card.Percentage.Float())
	assert.Zero(t, card.TotalMarks.Float())
}

func TestTeacherPublicStripsPrivateFields(t *testing.T) {
	teacher := Teacher{ID: "T1", Name: "Asha", Contact: "555", Salary: "42000"}
	public := teacher.Public()

	assert.Empty(t, public.Contact)
	assert.Empty(t, public.Salary)
	assert.Equal(t, "555", teacher.Contact)

	encoded, err := json.Marshal(public)
	require.NoError(t, err)
	assert.NotContains(t, string(encoded), "salary")
}

func TestAdmissionEffectiveStatus(t *testing.T) {
	assert.Equal(t, AdmissionPending, AdmissionSubmission{}.EffectiveStatus())
	assert.Equal(t, AdmissionApproved, AdmissionSubmission{Status: AdmissionApproved}.EffectiveStatus())
}
