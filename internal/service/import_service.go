package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/noah-isme/school-site-api/internal/models"
	"github.com/noah-isme/school-site-api/internal/repository"
	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
	"github.com/noah-isme/school-site-api/pkg/store"
)

const (
	msgNoFile        = "No file provided."
	msgImportDone    = "Data uploaded successfully!"
	msgResultsFormat = "Results must be uploaded as a JSON array."
	msgInvalidJSON   = "Invalid JSON file."
	msgNoNewResults  = "No new results to upload or no matching students found."
)

type importFormat int

const (
	formatUnknown importFormat = iota
	formatJSON
	formatCSV
)

// ImportTarget describes how uploaded rows map onto a collection.
type ImportTarget struct {
	Collection models.Collection
	// KeyField is the column whose value becomes the record key.
	KeyField string
	// KeyFallbacks are consulted in order when KeyField is absent or empty.
	KeyFallbacks []string
	// Mapping renames source columns. Unmapped columns keep their trimmed name.
	Mapping map[string]string
}

// TeacherImport maps the staff roster export onto the teachers collection.
var TeacherImport = ImportTarget{
	Collection:   models.CollectionTeachers,
	KeyField:     "id",
	KeyFallbacks: []string{"Teacher_ID"},
	Mapping: map[string]string{
		"Teacher_ID":  "teacherId",
		"Name":        "name",
		"Contact":     "contact",
		"Salary":      "salary",
		"Photo_Path":  "photoPath",
		"Date_Joined": "dateJoined",
	},
}

// StudentImport maps the student roster export onto the students collection.
var StudentImport = ImportTarget{
	Collection:   models.CollectionStudents,
	KeyField:     "Roll_Number",
	KeyFallbacks: []string{"id"},
	Mapping: map[string]string{
		"Name":        "name",
		"Roll_Number": "rollNumber",
		"Class":       "class",
		"Gender":      "gender",
		"Contact":     "contact",
		"Address":     "address",
	},
}

// ImportService loads rosters and report cards from uploaded files.
type ImportService struct {
	writer  *ContentWriter
	maxSize int64
}

// NewImportService constructs an ImportService. maxSize bounds uploads; zero disables the check.
func NewImportService(writer *ContentWriter, maxSize int64) *ImportService {
	return &ImportService{writer: writer, maxSize: maxSize}
}

// ImportFile replaces the target collection with the rows of upload.
func (s *ImportService) ImportFile(ctx context.Context, upload *Upload, target ImportTarget) (*models.ImportResult, error) {
	result, err := s.importFile(ctx, upload, target)
	s.writer.metrics.RecordImport(string(target.Collection), result.Success, result.Imported)
	return result, err
}

func (s *ImportService) importFile(ctx context.Context, upload *Upload, target ImportTarget) (*models.ImportResult, error) {
	if res, err := s.precheck(upload); res != nil {
		return res, err
	}

	var rows []map[string]interface{}
	var err error
	switch detectFormat(upload) {
	case formatJSON:
		rows, err = parseJSONRows(upload.Data)
	case formatCSV:
		rows, err = parseCSVRows(upload.Data)
	default:
		msg := "Unsupported file type. Upload a CSV or JSON file."
		return &models.ImportResult{Success: false, Message: msg}, appErrors.Clone(appErrors.ErrUnsupportedMedia, msg)
	}
	if err != nil {
		return importFailure(err.Error(), appErrors.ErrValidation)
	}

	records := make(map[string]interface{})
	skipped := 0
	for _, row := range rows {
		key := rowKey(row, target)
		if key == "" {
			skipped++
			continue
		}
		if err := store.ValidateKey(key); err != nil {
			s.writer.logger.Warn("skipping row with invalid key", zap.String("collection", string(target.Collection)), zap.String("key", key), zap.Error(err))
			skipped++
			continue
		}
		records[key] = textValues(mapColumns(row, target.Mapping))
	}
	if len(records) == 0 {
		return importFailure(fmt.Sprintf("File must contain a %q field for each entry.", target.KeyField), appErrors.ErrValidation)
	}

	start := time.Now()
	err = s.writer.repo.Replace(ctx, target.Collection.Path(), records)
	s.writer.metrics.ObserveStoreOperation("replace", string(target.Collection), time.Since(start))
	if err != nil {
		s.writer.logger.Error("import write failed", zap.String("collection", string(target.Collection)), zap.Error(err))
		return importFailure(err.Error(), appErrors.ErrInternal)
	}
	s.writer.committed(ctx, target.Collection, ActionImported, "")
	return &models.ImportResult{Success: true, Message: msgImportDone, Imported: len(records), Skipped: skipped}, nil
}

// reportCardNumbers are the report card fields decoded as numbers; every
// other scalar is stored as text.
var reportCardNumbers = []string{"total_marks", "max_marks", "percentage"}

type studentKey struct {
	ID         string `json:"id"`
	RollNumber string `json:"rollNumber"`
}

// ImportResults appends report cards to the students their roll_number
// names. Unknown roll numbers are skipped.
func (s *ImportService) ImportResults(ctx context.Context, upload *Upload) (*models.ImportResult, error) {
	result, err := s.importResults(ctx, upload)
	s.writer.metrics.RecordImport("results", result.Success, result.Imported)
	return result, err
}

func (s *ImportService) importResults(ctx context.Context, upload *Upload) (*models.ImportResult, error) {
	if res, err := s.precheck(upload); res != nil {
		return res, err
	}
	if detectFormat(upload) != formatJSON {
		return importFailure(msgResultsFormat, appErrors.ErrValidation)
	}
	rows, err := parseJSONRows(upload.Data)
	if err != nil {
		return importFailure(msgInvalidJSON, appErrors.ErrValidation)
	}

	students := repository.FetchCollection[studentKey](ctx, s.writer.repo, models.CollectionStudents.Path())
	byKey := make(map[string]string, len(students))
	byRoll := make(map[string]string, len(students))
	for _, st := range students {
		byKey[st.ID] = st.ID
		if st.RollNumber != "" {
			byRoll[strings.ToLower(st.RollNumber)] = st.ID
		}
	}

	values := make(map[string]interface{})
	skipped := 0
	for _, row := range rows {
		roll := stringValue(row["roll_number"])
		studentID, ok := byKey[roll]
		if !ok && roll != "" {
			studentID, ok = byRoll[strings.ToLower(roll)]
		}
		if !ok {
			s.writer.logger.Warn("no student found for roll number", zap.String("roll_number", roll))
			skipped++
			continue
		}
		key, err := s.writer.repo.NewKey()
		if err != nil {
			return importFailure(err.Error(), appErrors.ErrInternal)
		}
		delete(row, "id")
		values[models.ResultPath(studentID, key)] = textValues(row, reportCardNumbers...)
	}

	if len(values) > 0 {
		start := time.Now()
		err := s.writer.repo.Update(ctx, values)
		s.writer.metrics.ObserveStoreOperation("update", string(models.CollectionStudents), time.Since(start))
		if err != nil {
			s.writer.logger.Error("results import failed", zap.Error(err))
			return importFailure(err.Error(), appErrors.ErrInternal)
		}
		s.writer.committed(ctx, models.CollectionStudents, ActionImported, "")
	}

	message := msgNoNewResults
	if n := len(values); n > 0 {
		message = fmt.Sprintf("%d new results uploaded.", n)
		if skipped > 0 {
			message += fmt.Sprintf(" %d results skipped.", skipped)
		}
	}
	return &models.ImportResult{Success: true, Message: message, Imported: len(values), Skipped: skipped}, nil
}

func (s *ImportService) precheck(upload *Upload) (*models.ImportResult, error) {
	if upload.Empty() {
		return importFailure(msgNoFile, appErrors.ErrValidation)
	}
	if s.maxSize > 0 && int64(len(upload.Data)) > s.maxSize {
		return importFailure(fmt.Sprintf("File must be at most %s.", humanSize(s.maxSize)), appErrors.ErrPayloadTooLarge)
	}
	return nil, nil
}

func importFailure(message string, kind *appErrors.Error) (*models.ImportResult, error) {
	return &models.ImportResult{Success: false, Message: message}, appErrors.Clone(kind, message)
}

// detectFormat trusts the declared content type and sniffs the content when
// none was declared.
func detectFormat(upload *Upload) importFormat {
	declared, _, err := mime.ParseMediaType(upload.ContentType)
	if err != nil {
		declared = ""
	}
	switch declared {
	case "application/json", "text/json":
		return formatJSON
	case "text/csv", "text/plain", "application/vnd.ms-excel", "application/csv":
		return formatCSV
	case "", "application/octet-stream":
	default:
		return formatUnknown
	}

	detected := mimetype.Detect(upload.Data)
	switch {
	case detected.Is("application/json"):
		return formatJSON
	case detected.Is("text/csv"), detected.Is("text/plain"):
		return formatCSV
	}
	switch {
	case strings.HasSuffix(strings.ToLower(upload.Filename), ".json"):
		return formatJSON
	case strings.HasSuffix(strings.ToLower(upload.Filename), ".csv"):
		return formatCSV
	}
	return formatUnknown
}

// parseJSONRows accepts an array of objects or a single object.
func parseJSONRows(data []byte) ([]map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	switch v := doc.(type) {
	case map[string]interface{}:
		return []map[string]interface{}{v}, nil
	case []interface{}:
		rows := make([]map[string]interface{}, 0, len(v))
		for _, item := range v {
			if obj, ok := item.(map[string]interface{}); ok {
				rows = append(rows, obj)
			}
		}
		return rows, nil
	default:
		return nil, errors.New("JSON file must contain an object or an array of objects")
	}
}

// parseCSVRows reads a header row followed by records. Header names are
// trimmed; values are kept as strings.
func parseCSVRows(data []byte) ([]map[string]interface{}, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	reader := csv.NewReader(bytes.NewReader(data))
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []map[string]interface{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if isBlankRecord(record) {
			continue
		}
		row := make(map[string]interface{}, len(header))
		for i, name := range header {
			if name == "" || i >= len(record) {
				continue
			}
			row[name] = record[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func rowKey(row map[string]interface{}, target ImportTarget) string {
	if key := stringValue(row[target.KeyField]); key != "" {
		return key
	}
	for _, field := range target.KeyFallbacks {
		if key := stringValue(row[field]); key != "" {
			return key
		}
	}
	return ""
}

func mapColumns(row map[string]interface{}, mapping map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(row))
	for name, value := range row {
		name = strings.TrimSpace(name)
		if renamed, ok := mapping[name]; ok {
			name = renamed
		}
		out[name] = value
	}
	return out
}

// textValues rewrites numeric and boolean scalars as strings, except for the
// named fields, so rows decode into the string-typed models. Report cards
// nested under "results" get the same treatment; other nested values are
// left alone.
func textValues(row map[string]interface{}, numeric ...string) map[string]interface{} {
	keep := make(map[string]struct{}, len(numeric))
	for _, name := range numeric {
		keep[name] = struct{}{}
	}
	for name, value := range row {
		if _, ok := keep[name]; ok {
			continue
		}
		switch v := value.(type) {
		case json.Number, float64, bool:
			row[name] = stringValue(v)
		case map[string]interface{}:
			if name != "results" {
				continue
			}
			for _, card := range v {
				if fields, ok := card.(map[string]interface{}); ok {
					textValues(fields, reportCardNumbers...)
				}
			}
		}
	}
	return row
}

func stringValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case bool, float64:
		return fmt.Sprint(t)
	default:
		return ""
	}
}
