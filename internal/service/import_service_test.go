package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-site-api/internal/models"
	"github.com/noah-isme/school-site-api/internal/repository"
	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
	"github.com/noah-isme/school-site-api/pkg/store"
)

func csvUpload(body string) *Upload {
	return &Upload{Filename: "data.csv", ContentType: "text/csv", Data: []byte(body)}
}

func jsonUpload(body string) *Upload {
	return &Upload{Filename: "data.json", ContentType: "application/json", Data: []byte(body)}
}

func TestImportTeachersReplacesCollection(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "/teachers/OLD", map[string]interface{}{"name": "Retired"})
	svc := NewImportService(env.writer, 0)

	res, err := svc.ImportFile(context.Background(), csvUpload("Teacher_ID , Name,Contact,Subject\nT1,Asha,555,Math\n\nT2,Ravi,777,Science\n"), TeacherImport)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Data uploaded successfully!", res.Message)
	assert.Equal(t, 2, res.Imported)

	teachers := repository.FetchCollection[models.Teacher](context.Background(), env.repo, "/teachers")
	require.Len(t, teachers, 2)
	assert.Equal(t, "T1", teachers[0].ID)
	assert.Equal(t, "T1", teachers[0].TeacherID)
	assert.Equal(t, "Asha", teachers[0].Name)
	assert.Equal(t, "555", teachers[0].Contact)
	assert.Equal(t, "Math", teachers[0].Subject)
	assert.False(t, env.exists(t, "/teachers/OLD"))

	require.Len(t, env.publisher.events, 1)
	assert.Equal(t, ActionImported, env.publisher.events[0].Action)
}

func TestImportDuplicateKeysLastWins(t *testing.T) {
	env := newTestEnv(t)
	svc := NewImportService(env.writer, 0)

	res, err := svc.ImportFile(context.Background(), csvUpload("Roll_Number,Name\n101,First\n101,Second\n"), StudentImport)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)

	student := repository.FetchItem[models.Student](context.Background(), env.repo, "/students", "101")
	require.NotNil(t, student)
	assert.Equal(t, "Second", student.Name)
	assert.Equal(t, "101", student.RollNumber)
}

func TestImportWithoutKeyLeavesCollectionUntouched(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "/teachers/T9", map[string]interface{}{"name": "Kept"})
	svc := NewImportService(env.writer, 0)

	res, err := svc.ImportFile(context.Background(), csvUpload("Name,Subject\nAsha,Math\n"), TeacherImport)
	requireAppError(t, err, appErrors.ErrValidation)
	assert.False(t, res.Success)
	assert.Equal(t, `File must contain a "id" field for each entry.`, res.Message)
	assert.True(t, env.exists(t, "/teachers/T9"))
	assert.Empty(t, env.publisher.events)
}

func TestImportStudentsFromSingleJSONObject(t *testing.T) {
	env := newTestEnv(t)
	svc := NewImportService(env.writer, 0)

	res, err := svc.ImportFile(context.Background(), jsonUpload(`{"Roll_Number":"S-7","Name":"Zara","Class":"5"}`), StudentImport)
	require.NoError(t, err)
	assert.True(t, res.Success)

	student := repository.FetchItem[models.Student](context.Background(), env.repo, "/students", "S-7")
	require.NotNil(t, student)
	assert.Equal(t, "Zara", student.Name)
	assert.Equal(t, "5", student.Class)
}

func TestImportSniffsUndeclaredContent(t *testing.T) {
	env := newTestEnv(t)
	svc := NewImportService(env.writer, 0)
	upload := &Upload{Filename: "students", ContentType: "application/octet-stream", Data: []byte(`[{"Roll_Number":"1","Name":"A"}]`)}

	res, err := svc.ImportFile(context.Background(), upload, StudentImport)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, env.exists(t, "/students/1"))
}

func TestImportRejectsEmptyAndOversizedFiles(t *testing.T) {
	env := newTestEnv(t)
	svc := NewImportService(env.writer, 8)

	res, err := svc.ImportFile(context.Background(), nil, TeacherImport)
	requireAppError(t, err, appErrors.ErrValidation)
	assert.Equal(t, "No file provided.", res.Message)

	_, err = svc.ImportFile(context.Background(), csvUpload("Teacher_ID\nT1\nT2\n"), TeacherImport)
	requireAppError(t, err, appErrors.ErrPayloadTooLarge)
}

func TestImportReportsMalformedCSV(t *testing.T) {
	env := newTestEnv(t)
	svc := NewImportService(env.writer, 0)

	res, err := svc.ImportFile(context.Background(), csvUpload("Teacher_ID,Name\nT1,\"unterminated\n"), TeacherImport)
	require.Error(t, err)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Message)
}

func TestImportStoreFailureSurfacesMessage(t *testing.T) {
	mem := store.NewMemoryStore()
	env := newTestEnvWithStore(t, mem, &failingStore{Store: mem, err: errors.New("permission denied")})
	svc := NewImportService(env.writer, 0)

	res, err := svc.ImportFile(context.Background(), csvUpload("Teacher_ID\nT1\n"), TeacherImport)
	requireAppError(t, err, appErrors.ErrInternal)
	assert.False(t, res.Success)
	assert.Equal(t, "permission denied", res.Message)
}

func TestImportResultsAppendsAndSkipsUnknownStudents(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "/students/101", map[string]interface{}{"name": "Zara", "rollNumber": "101"})
	svc := NewImportService(env.writer, 0)

	body := `[{"roll_number":"101","session":"2023-24","subjects":{"Math":90}},{"roll_number":"999","session":"2023-24"}]`
	res, err := svc.ImportResults(context.Background(), jsonUpload(body))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "1 new results uploaded. 1 results skipped.", res.Message)
	assert.False(t, env.exists(t, "/students/999"))

	// same term again is appended, not deduplicated
	_, err = svc.ImportResults(context.Background(), jsonUpload(`{"roll_number":"101","session":"2023-24"}`))
	require.NoError(t, err)

	student := repository.FetchItem[models.Student](context.Background(), env.repo, "/students", "101")
	require.NotNil(t, student)
	assert.Len(t, student.Results, 2)
	assert.Equal(t, "Zara", student.Name)
}

func TestImportResultsNoMatches(t *testing.T) {
	env := newTestEnv(t)
	svc := NewImportService(env.writer, 0)

	res, err := svc.ImportResults(context.Background(), jsonUpload(`[{"roll_number":"1"},{"session":"x"}]`))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "No new results to upload or no matching students found.", res.Message)
	assert.Equal(t, 2, res.Skipped)
}

func TestImportResultsRejectsCSVAndBadJSON(t *testing.T) {
	env := newTestEnv(t)
	svc := NewImportService(env.writer, 0)

	res, err := svc.ImportResults(context.Background(), csvUpload("roll_number\n1\n"))
	require.Error(t, err)
	assert.Equal(t, "Results must be uploaded as a JSON array.", res.Message)

	res, err = svc.ImportResults(context.Background(), jsonUpload(`[{"roll_number":`))
	require.Error(t, err)
	assert.Equal(t, "Invalid JSON file.", res.Message)
}

func TestImportResultsStoresNumericRollNumberAsText(t *testing.T) {
	env := newTestEnv(t)
	svc := NewImportService(env.writer, 0)

	_, err := svc.ImportFile(context.Background(), csvUpload("Roll_Number,Name\n101,Zara\n"), StudentImport)
	require.NoError(t, err)

	res, err := svc.ImportResults(context.Background(), jsonUpload(`[{"roll_number":101,"session":2023,"subjects":{"Math":90},"total_marks":90,"percentage":90.5}]`))
	require.NoError(t, err)
	assert.True(t, res.Success)

	students := repository.FetchCollection[models.Student](context.Background(), env.repo, "/students")
	require.Len(t, students, 1)
	require.Len(t, students[0].Results, 1)
	for _, card := range students[0].Results {
		assert.Equal(t, "101", card.RollNumber)
		assert.Equal(t, "2023", card.Session)
		assert.Equal(t, models.Number(90), card.Subjects["Math"])
		assert.Equal(t, models.Number(90), card.TotalMarks)
		assert.Equal(t, models.Number(90.5), card.Percentage)
	}
}

func TestImportStudentsWithNumericRollNumber(t *testing.T) {
	env := newTestEnv(t)
	svc := NewImportService(env.writer, 0)

	body := `[{"id":"101","rollNumber":101,"name":"Zara","class":5,"results":{"r1":{"roll_number":101,"subjects":{"Math":80}}}}]`
	res, err := svc.ImportFile(context.Background(), jsonUpload(body), StudentImport)
	require.NoError(t, err)
	assert.True(t, res.Success)

	student := repository.FetchItem[models.Student](context.Background(), env.repo, "/students", "101")
	require.NotNil(t, student)
	assert.Equal(t, "101", student.RollNumber)
	assert.Equal(t, "5", student.Class)
	require.Contains(t, student.Results, "r1")
	assert.Equal(t, "101", student.Results["r1"].RollNumber)
	assert.Equal(t, models.Number(80), student.Results["r1"].Subjects["Math"])
}

func TestImportTeachersWithNumericFields(t *testing.T) {
	env := newTestEnv(t)
	svc := NewImportService(env.writer, 0)

	res, err := svc.ImportFile(context.Background(), jsonUpload(`[{"id":"T1","name":"Asha","experience":10,"salary":50000}]`), TeacherImport)
	require.NoError(t, err)
	assert.True(t, res.Success)

	teachers := repository.FetchCollection[models.Teacher](context.Background(), env.repo, "/teachers")
	require.Len(t, teachers, 1)
	assert.Equal(t, "10", teachers[0].Experience)
	assert.Equal(t, "50000", teachers[0].Salary)
}
