package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/jonathan/interview-prep/internal/bank"
	"github.com/jonathan/interview-prep/internal/config"
	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/scoring"
	"github.com/jonathan/interview-prep/internal/session"
	"github.com/jonathan/interview-prep/internal/store"
	"github.com/jonathan/interview-prep/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

type testServer struct {
	*Server
	kv *db.Memory
}

func newTestServer(t *testing.T, cfg Config) *testServer {
	t.Helper()
	kv := db.NewMemory()
	st, err := store.Open(context.Background(), kv)
	require.NoError(t, err)

	s := New(st, session.New(), cfg)
	s.now = func() time.Time { return fixedNow }
	t.Cleanup(s.rateLimiter.Stop)
	return &testServer{Server: s, kv: kv}
}

// do sends a request through the full router. body may be nil, a []byte, or a value
// encoded as JSON.
func (ts *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (ts *testServer) questionIn(t *testing.T, category string) bank.FlatQuestion {
	t.Helper()
	for _, q := range ts.store.Snapshot().Questions() {
		if q.Category == category {
			return q
		}
	}
	t.Fatalf("no question in %s", category)
	return bank.FlatQuestion{}
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, Config{})

	w := ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])
}

func TestScoreEndpoint(t *testing.T) {
	ts := newTestServer(t, Config{})

	keywords := "렉시컬 환경, 스코프, 은닉"
	w := ts.do(t, http.MethodPost, "/score", types.ScoreRequest{
		Transcript: "클로저는 렉시컬 환경을 기억하는 함수이고 스코프 밖에서도 변수에 접근합니다",
		Answer:     "클로저는 함수가 선언될 때의 렉시컬 환경을 기억하는 함수입니다",
		Keywords:   &keywords,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	res := decode[scoring.Result](t, w)
	assert.Equal(t, 3, res.KeywordTotal)
	assert.Equal(t, []string{"렉시컬 환경", "스코프"}, res.MatchedKeywords)
	assert.Equal(t, []string{"은닉"}, res.MissedKeywords)
	assert.NotEmpty(t, res.Feedback)

	w = ts.do(t, http.MethodPost, "/score", map[string]string{"answer": "a"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/score", []byte("{oops"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBankViews(t *testing.T) {
	ts := newTestServer(t, Config{})

	w := ts.do(t, http.MethodGet, "/bank", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[BankResponse](t, w)
	assert.Equal(t, "default", resp.CompanyID)
	assert.Equal(t, 6, resp.Data.TotalQuestions)
	assert.False(t, resp.CustomTaxonomy)
	assert.Equal(t, []string{"소개", "이력 기반", "기술", "마무리"}, resp.Taxonomy.Names())
	assert.Equal(t, 6, resp.Progress.Overall.Total)

	w = ts.do(t, http.MethodGet, "/bank/questions?category=JavaScript", nil)
	require.Equal(t, http.StatusOK, w.Code)
	questions := decode[[]QuestionView](t, w)
	require.Len(t, questions, 2)
	assert.Equal(t, "기술", questions[0].MainCategory)
	assert.True(t, questions[0].State.AnswerVisible)

	w = ts.do(t, http.MethodGet, "/bank/questions?main="+url.QueryEscape("소개"), nil)
	assert.Len(t, decode[[]QuestionView](t, w), 2)

	w = ts.do(t, http.MethodGet, "/bank/groups?category="+url.QueryEscape("자기소개"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	groups := decode[[]bank.FollowupGroup](t, w)
	require.Len(t, groups, 1)
	require.NotNil(t, groups[0].Main)
	assert.Len(t, groups[0].Followups, 1)
}

func TestCompanyRoutes(t *testing.T) {
	ts := newTestServer(t, Config{})

	w := ts.do(t, http.MethodPost, "/companies", types.NameRequest{Name: "토스"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[types.Company](t, w)
	assert.Equal(t, created.ID, ts.store.CurrentID())

	w = ts.do(t, http.MethodPost, "/companies", types.NameRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPut, "/companies/"+created.ID, types.NameRequest{Name: "Toss Bank"})
	require.Equal(t, http.StatusOK, w.Code)
	c, _ := ts.store.Company(created.ID)
	assert.Equal(t, "Toss Bank", c.Name)

	w = ts.do(t, http.MethodGet, "/companies", nil)
	list := decode[CompaniesResponse](t, w)
	require.Len(t, list.Companies, 2)
	assert.True(t, list.Companies[1].Current)
	assert.Equal(t, 6, list.Companies[0].TotalQuestions)

	w = ts.do(t, http.MethodPost, "/companies/default/select", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "default", ts.store.CurrentID())

	w = ts.do(t, http.MethodPost, "/companies/nope/select", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodDelete, "/companies/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodDelete, "/companies/default", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCompanyExportImport(t *testing.T) {
	ts := newTestServer(t, Config{})

	w := ts.do(t, http.MethodGet, "/companies/default/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "filename*=UTF-8''")
	assert.Contains(t, w.Body.String(), `"exportedAt": "2026-03-04T05:06:07.000Z"`)
	exported := w.Body.Bytes()

	w = ts.do(t, http.MethodGet, "/companies/default/export.xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, w.Body.Len())

	w = ts.do(t, http.MethodGet, "/companies/nope/export", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodPost, "/companies/import", exported)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	imported := decode[types.Company](t, w)
	assert.NotEqual(t, "default", imported.ID)
	assert.Equal(t, 6, imported.Data.TotalQuestions)
	assert.Equal(t, imported.ID, ts.store.CurrentID())

	w = ts.do(t, http.MethodPost, "/companies/import", []byte(`{"name":"x"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, ts.store.Companies(), 2)
}

func TestCategoryRoutes(t *testing.T) {
	ts := newTestServer(t, Config{})

	w := ts.do(t, http.MethodPost, "/categories", types.NameRequest{Name: "CSS"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, decode[[]string](t, w), "CSS")

	w = ts.do(t, http.MethodPost, "/categories", types.NameRequest{Name: "React"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(t, http.MethodPut, "/categories/React", types.NameRequest{Name: "리액트"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, ts.store.Snapshot().HasCategory("리액트"))
	main, ok := ts.store.Snapshot().EffectiveTaxonomy().MainOf("리액트")
	assert.True(t, ok)
	assert.Equal(t, "기술", main)

	intro := ts.questionIn(t, "자기소개")
	_, err := ts.session.Toggle(session.FlagCompleted, intro.ID)
	require.NoError(t, err)

	w = ts.do(t, http.MethodDelete, "/categories/"+url.PathEscape("자기소개"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, ts.store.Snapshot().HasCategory("자기소개"))
	assert.False(t, ts.session.IsCompleted(intro.ID))
}

func TestTaxonomyRoutes(t *testing.T) {
	ts := newTestServer(t, Config{})

	w := ts.do(t, http.MethodGet, "/taxonomy", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[TaxonomyResponse](t, w).Custom)

	w = ts.do(t, http.MethodPost, "/taxonomy/main", types.NameRequest{Name: "CS"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[TaxonomyResponse](t, w)
	assert.True(t, resp.Custom)
	assert.True(t, resp.Taxonomy.Has("CS"))

	w = ts.do(t, http.MethodPost, "/taxonomy/main/CS/sub", types.NameRequest{Name: "운영체제"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, http.MethodPost, "/taxonomy/main/CS/sub", types.NameRequest{Name: "React"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(t, http.MethodPut, "/taxonomy/main/CS/sub/"+url.PathEscape("운영체제"), types.NameRequest{Name: "OS"})
	require.Equal(t, http.StatusOK, w.Code)
	subs, _ := decode[TaxonomyResponse](t, w).Taxonomy.Subcategories("CS")
	assert.Equal(t, []string{"OS"}, subs)

	w = ts.do(t, http.MethodPut, "/taxonomy/main/CS", types.NameRequest{Name: "컴퓨터과학"})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodDelete, "/taxonomy/main/"+url.PathEscape("컴퓨터과학")+"/sub/OS", nil)
	require.Equal(t, http.StatusOK, w.Code)
	subs, _ = decode[TaxonomyResponse](t, w).Taxonomy.Subcategories("컴퓨터과학")
	assert.Empty(t, subs)

	w = ts.do(t, http.MethodDelete, "/taxonomy/main/"+url.PathEscape("컴퓨터과학"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[TaxonomyResponse](t, w).Taxonomy.Has("컴퓨터과학"))
}

func TestQuestionRoutes(t *testing.T) {
	ts := newTestServer(t, Config{})
	first := ts.questionIn(t, "JavaScript")

	w := ts.do(t, http.MethodPost, "/questions", types.QuestionRequest{
		Category:    "JavaScript",
		Question:    "호이스팅이란?",
		Answer:      "선언이 스코프 최상단으로 끌어올려지는 것처럼 동작하는 현상입니다.",
		Keywords:    "선언, 스코프",
		InsertAfter: first.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[QuestionView](t, w)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 1, created.Position)

	w = ts.do(t, http.MethodPost, "/questions", types.QuestionRequest{Category: "JavaScript", Question: "q"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPut, "/questions/"+created.ID, types.QuestionRequest{
		Category: "CS", Question: "호이스팅이란?", Answer: "끌어올림", Keywords: "선언",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[QuestionView](t, w)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "CS", updated.Category)

	w = ts.do(t, http.MethodPut, "/questions/"+created.ID+"/keywords", types.KeywordsRequest{Keywords: "선언, 호이스팅"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "선언, 호이스팅", decode[QuestionView](t, w).Keywords)

	w = ts.do(t, http.MethodPost, "/questions/"+created.ID+"/followup", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[QuestionView](t, w).IsFollowup)

	w = ts.do(t, http.MethodPost, "/questions/"+created.ID+"/move", types.MoveRequest{Target: first.ID, AsFollowup: true})
	require.Equal(t, http.StatusOK, w.Code)
	moved := decode[QuestionView](t, w)
	assert.Equal(t, "JavaScript", moved.Category)
	assert.Equal(t, first.Position+1, moved.Position)

	w = ts.do(t, http.MethodPost, "/questions/"+created.ID+"/move", types.MoveRequest{Target: "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, err := ts.session.Toggle(session.FlagCompleted, created.ID)
	require.NoError(t, err)

	w = ts.do(t, http.MethodDelete, "/questions/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, ok := ts.store.Snapshot().Find(bank.ByID(created.ID))
	assert.False(t, ok)
	assert.False(t, ts.session.IsCompleted(created.ID))

	for _, path := range []string{"/questions/" + created.ID + "/followup"} {
		w = ts.do(t, http.MethodPost, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	}
	w = ts.do(t, http.MethodDelete, "/questions/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProgressRoutes(t *testing.T) {
	ts := newTestServer(t, Config{})
	q := ts.questionIn(t, "React")

	w := ts.do(t, http.MethodPost, "/progress/"+q.ID+"/completed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, w)["value"])

	w = ts.do(t, http.MethodPost, "/progress/"+q.ID+"/answer", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode[map[string]any](t, w)["value"])

	w = ts.do(t, http.MethodPost, "/progress/"+q.ID+"/starred", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/progress/missing/completed", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodGet, "/bank/progress", nil)
	require.Equal(t, http.StatusOK, w.Code)
	progress := decode[bank.Progress](t, w)
	assert.Equal(t, 1, progress.Overall.Completed)
	assert.Equal(t, 100, progress.ByCategory["React"].Percentage)

	w = ts.do(t, http.MethodGet, "/progress/random?category=React", nil)
	require.Equal(t, http.StatusOK, w.Code)
	picked := decode[QuestionView](t, w)
	assert.Equal(t, q.ID, picked.ID)
	assert.True(t, picked.State.Expanded)

	w = ts.do(t, http.MethodGet, "/progress/random?category=nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodPost, "/progress/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, ts.session.IsCompleted(q.ID))
	assert.True(t, ts.session.AnswerVisible(q.ID))
}

func TestRecordingFlow(t *testing.T) {
	ts := newTestServer(t, Config{})
	q := ts.questionIn(t, "JavaScript")
	base := "/recordings/" + q.ID

	w := ts.do(t, http.MethodPost, base+"/start?mimeType=audio/ogg", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, http.MethodPost, base+"/start", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(t, http.MethodPost, base+"/audio", []byte("OggS-part-1"))
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.do(t, http.MethodPost, base+"/audio", []byte("-part-2"))
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodPost, base+"/transcript", types.TranscriptChunk{Text: "클로저는 렉시컬 환경을", Final: true})
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.do(t, http.MethodPost, base+"/transcript", types.TranscriptChunk{Text: "기억합니다"})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodPost, base+"/stop", types.StopRequest{Duration: 42})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rec := decode[types.Recording](t, w)
	require.NotNil(t, rec.Transcript)
	assert.Equal(t, "클로저는 렉시컬 환경을 기억합니다", *rec.Transcript)
	assert.Equal(t, 42, rec.Duration)

	w = ts.do(t, http.MethodGet, base+"/audio", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OggS-part-1-part-2", w.Body.String())
	assert.Equal(t, "audio/ogg", w.Header().Get("Content-Type"))

	w = ts.do(t, http.MethodGet, base+"/score", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode[scoring.Result](t, w).MatchedKeywords, "렉시컬 환경")

	w = ts.do(t, http.MethodGet, "/recordings/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[session.Summary](t, w)
	assert.Equal(t, 1, summary.Recordings)
	assert.Equal(t, 1, summary.Scored)

	w = ts.do(t, http.MethodGet, "/recordings/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	export := decode[types.RecordingsExport](t, w)
	require.Len(t, export.Recordings, 1)
	assert.Equal(t, q.Question.Question, export.Recordings[0].Question)

	w = ts.do(t, http.MethodGet, "/recordings", nil)
	assert.Len(t, decode[[]types.Recording](t, w), 1)

	w = ts.do(t, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodGet, "/recordings/export", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordingCancelAndErrors(t *testing.T) {
	ts := newTestServer(t, Config{})
	q := ts.questionIn(t, "React")
	base := "/recordings/" + q.ID

	w := ts.do(t, http.MethodPost, "/recordings/missing/start", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodPost, base+"/transcript", types.TranscriptChunk{Text: "x", Final: true})
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, base+"/start", nil).Code)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, base+"/audio", []byte("abc")).Code)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, base+"/cancel", nil).Code)

	w = ts.do(t, http.MethodGet, base+"/audio", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = ts.do(t, http.MethodPost, base+"/stop", types.StopRequest{Duration: 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// No speech recognized: recording exists but cannot be scored
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, base+"/start", nil).Code)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, base+"/stop", types.StopRequest{Duration: 3}).Code)
	w = ts.do(t, http.MethodGet, base+"/score", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = ts.do(t, http.MethodPost, base+"/start", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w = ts.do(t, http.MethodPost, base+"/stop", types.StopRequest{Duration: -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthRequiredForWrites(t *testing.T) {
	jwtCfg := &config.JWTConfig{Secret: testSecret, TTL: time.Hour}
	ts := newTestServer(t, Config{JWT: jwtCfg})

	token, err := NewJWTService(jwtCfg).GenerateToken("alice")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/bank", nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/score", map[string]string{"transcript": "a", "answer": "a"}).Code)

	w := ts.do(t, http.MethodPost, "/categories", types.NameRequest{Name: "CSS"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, ts.store.Snapshot().HasCategory("CSS"))

	w = ts.do(t, http.MethodPost, "/categories", types.NameRequest{Name: "CSS"}, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, http.MethodPost, "/taxonomy/main", types.NameRequest{Name: "CS"}, "Authorization", "Bearer forged")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, Config{RateLimit: 1, RateBurst: 1})

	w := ts.do(t, http.MethodGet, "/bank", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = ts.do(t, http.MethodGet, "/bank", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// Health checks are never limited
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/health", nil).Code)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, Config{CORSOrigins: []string{"http://localhost:5173"}})

	w := ts.do(t, http.MethodOptions, "/questions", nil,
		"Origin", "http://localhost:5173",
		"Access-Control-Request-Method", "POST")
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

type chanWatcher chan string

func (c chanWatcher) Watch(context.Context) (<-chan string, error) {
	return c, nil
}

func TestWatchStoreReloads(t *testing.T) {
	changes := make(chanWatcher, 1)
	ts := newTestServer(t, Config{Watcher: changes})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ts.watchStore(ctx) }()

	// Another process writes a different company list
	external := []types.Company{{ID: "ext", Name: "외부", Data: types.QuestionBank{Categories: []types.Category{}}}}
	raw, err := json.Marshal(external)
	require.NoError(t, err)
	require.NoError(t, ts.kv.Put(ctx, db.KeyCompanies, raw))
	require.NoError(t, ts.kv.Put(ctx, db.KeyCurrentCompany, []byte("ext")))
	changes <- db.KeyCompanies

	assert.Eventually(t, func() bool {
		return ts.store.CurrentID() == "ext"
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
