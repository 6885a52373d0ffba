package transfer

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/jonathan/interview-prep/internal/bank"
	"github.com/jonathan/interview-prep/internal/schemas"
	"github.com/jonathan/interview-prep/internal/types"
	schemafiles "github.com/jonathan/interview-prep/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var fixedNow = time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

func testCompany() types.Company {
	tax := types.NewTaxonomy()
	tax.Set("기술", []string{"React", "JavaScript", "CS"})
	tax.Set("마무리", []string{"역질문"})
	return types.Company{
		ID:   "c1",
		Name: "Toss Bank",
		Data: types.QuestionBank{Categories: []types.Category{
			{Order: 1, Category: "React", Questions: []types.Question{
				{ID: "q1", Question: "훅이란?", Answer: "상태 로직 재사용", Keywords: "useState, useEffect"},
				{ID: "q2", Question: "왜요?", Answer: "재사용", IsFollowup: true},
			}},
			{Order: 2, Category: "역질문", Questions: []types.Question{
				{ID: "q3", Question: "궁금한 점?", Answer: "팀 문화"},
			}},
		}, TotalQuestions: 3},
		CustomCategories: &tax,
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Toss Bank", "Toss_Bank"},
		{"네이버/라인", "네이버_라인"},
		{"a.b-c", "a_b_c"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFileName(tt.in))
	}
	assert.Equal(t, "Toss_Bank_interview.json", ExportFileName("Toss Bank"))
	assert.Equal(t, "recordings_녹음.json", RecordingsFileName(""))
	assert.Equal(t, "Toss_Bank_interview.xlsx", WorkbookFileName("Toss Bank"))
}

func TestExportImportRoundTrip(t *testing.T) {
	c := testCompany()

	raw, err := EncodeTemplate(ExportCompany(c, fixedNow))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"name\": \"Toss Bank\"")
	assert.Contains(t, string(raw), `"exportedAt": "2026-02-03T04:05:06.000Z"`)

	tmpl, err := ParseCompanyTemplate(raw)
	require.NoError(t, err)

	assert.Equal(t, c.Name, tmpl.Name)
	require.NotNil(t, tmpl.Data)
	assert.Equal(t, c.Data, *tmpl.Data)
	require.NotNil(t, tmpl.CustomCategories)
	want, err := json.Marshal(c.CustomCategories)
	require.NoError(t, err)
	got, err := json.Marshal(tmpl.CustomCategories)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
	subs, ok := tmpl.CustomCategories.Subcategories("기술")
	require.True(t, ok)
	assert.Equal(t, []string{"React", "JavaScript", "CS"}, subs)
}

func TestParseCompanyTemplate_RecomputesTotalsAndAssignsIDs(t *testing.T) {
	raw := []byte(`{"name":"x","data":{"categories":[{"order":1,"category":"c","questions":[
		{"question":"a","answer":"b","keywords":"","isFollowup":false},
		{"question":"c","answer":"d","keywords":"","isFollowup":true}]}],"totalQuestions":99},"customCategories":null}`)

	tmpl, err := ParseCompanyTemplate(raw)
	require.NoError(t, err)

	assert.Equal(t, 2, tmpl.Data.TotalQuestions)
	assert.Nil(t, tmpl.CustomCategories)
	for _, q := range tmpl.Data.Categories[0].Questions {
		assert.NotEmpty(t, q.ID)
	}
}

func TestParseCompanyTemplate_Rejections(t *testing.T) {
	docs := map[string]string{
		"garbage":      `not json`,
		"missing name": `{"data":{"categories":[]}}`,
		"missing data": `{"name":"x"}`,
		"wrong shape":  `{"name":"x","data":{"categories":"nope"}}`,
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCompanyTemplate([]byte(doc))
			var ierr *ImportError
			require.ErrorAs(t, err, &ierr)
		})
	}
}

func TestExportRecordings(t *testing.T) {
	c := testCompany()
	snap := bank.New(c.Data, c.CustomCategories)
	transcript := "상태 로직"
	recs := []types.Recording{
		{QuestionID: "q1", Duration: 12, Transcript: &transcript},
		{QuestionID: "deleted", Duration: 3},
	}

	out, err := ExportRecordings(c.Name, recs, snap, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "Toss Bank", out.Company)
	require.Len(t, out.Recordings, 2)
	assert.Equal(t, "훅이란?", out.Recordings[0].Question)
	assert.Equal(t, "React", out.Recordings[0].Category)
	assert.Empty(t, out.Recordings[1].Question)
	assert.Nil(t, out.Recordings[1].Transcript)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.NoError(t, schemas.ValidateDocument(schemafiles.RecordingsExport, raw))
	assert.Contains(t, string(raw), `"transcript":null`)
}

func TestExportRecordings_Empty(t *testing.T) {
	_, err := ExportRecordings("x", nil, bank.Snapshot{}, fixedNow)
	assert.ErrorIs(t, err, ErrNoRecordings)

	out, err := ExportRecordings("", []types.Recording{{QuestionID: "q"}}, bank.Snapshot{}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "Unknown", out.Company)
}

func TestRecordingFileName(t *testing.T) {
	assert.Equal(t, "abc_123.webm", RecordingFileName(types.Recording{QuestionID: "abc-123", MIMEType: "audio/webm"}))
	assert.Equal(t, "x.bin", RecordingFileName(types.Recording{QuestionID: "x", MIMEType: "application/unknown"}))
}

func TestWriteWorkbook(t *testing.T) {
	c := testCompany()
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, bank.New(c.Data, c.CustomCategories)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(workbookSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, workbookHeaders, rows[0])
	assert.Equal(t, []string{"기술", "React", "", "훅이란?", "상태 로직 재사용", "useState, useEffect"}, rows[1])
	assert.Equal(t, "Y", rows[2][2])
	assert.Equal(t, "마무리", rows[3][0])
}
