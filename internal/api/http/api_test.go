package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	api "github.com/mind-engage/mindengage-papers/internal/api/http"
	"github.com/mind-engage/mindengage-papers/internal/audit"
	authmw "github.com/mind-engage/mindengage-papers/internal/auth/middleware"
	"github.com/mind-engage/mindengage-papers/internal/db"
	"github.com/mind-engage/mindengage-papers/internal/export"
	_ "github.com/mind-engage/mindengage-papers/internal/export/delimited"
	_ "github.com/mind-engage/mindengage-papers/internal/export/printview"
	_ "github.com/mind-engage/mindengage-papers/internal/export/structured"
	"github.com/mind-engage/mindengage-papers/internal/question"
	"github.com/mind-engage/mindengage-papers/internal/session"
	"github.com/mind-engage/mindengage-papers/internal/storage"
)

type env struct {
	srv   *httptest.Server
	auth  *authmw.AuthService
	admin string
	repo  *question.MemoryStore
}

func newEnv(t *testing.T, requireAuth bool) *env {
	t.Helper()
	ctx := context.Background()

	repo := question.NewMemoryStore()
	require.NoError(t, question.SeedDemo(ctx, repo))

	conn, err := db.Open(ctx, db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	events := audit.NewEventRepo(conn, "test")

	blobs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	a := authmw.NewAuthService("test-key", "Admin", string(hash))
	tok, err := a.IssueJWT("Admin", authmw.RoleAdmin)
	require.NoError(t, err)

	r := chi.NewRouter()
	api.Mount(r, api.Deps{
		Auth:        a,
		RequireAuth: requireAuth,
		Repo:        repo,
		Session:     session.New(repo),
		Exports:     export.NewService(blobs, events, nil),
		Blobs:       blobs,
		Events:      events,
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &env{srv: srv, auth: a, admin: tok, repo: repo}
}

type reply struct {
	code   int
	header http.Header
	body   []byte
}

func (r reply) decode(t *testing.T, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, v), string(r.body))
}

func (e *env) do(t *testing.T, method, path, body, token string) reply {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return reply{code: res.StatusCode, header: res.Header, body: b}
}

func (e *env) scope(t *testing.T) {
	t.Helper()
	res := e.do(t, http.MethodPost, "/bank/scope", `{"subject":"Science","grade":"Grade 6"}`, "")
	require.Equal(t, http.StatusOK, res.code, string(res.body))
}

type paperReply struct {
	Layout struct {
		ActiveID string `json:"activeSectionId"`
	} `json:"layout"`
	Paper struct {
		Sections []struct {
			Section struct {
				ID          string  `json:"id"`
				SelectedIDs []int64 `json:"selectedQuestionIds"`
			} `json:"section"`
			Status struct {
				Capacity int  `json:"capacity"`
				Missing  int  `json:"missing"`
				Full     bool `json:"full"`
			} `json:"status"`
		} `json:"sections"`
		TotalAllocatedMarks int  `json:"totalAllocatedMarks"`
		IsAligned           bool `json:"isAligned"`
	} `json:"paper"`
}

func TestLogin(t *testing.T) {
	e := newEnv(t, false)

	res := e.do(t, http.MethodPost, "/auth/login", `{"username":"Admin","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, res.code)
	assert.JSONEq(t, `{"error":"Invalid credentials."}`, string(res.body))

	res = e.do(t, http.MethodPost, "/auth/login", `{"username":"Admin","password":"s3cret"}`, "")
	require.Equal(t, http.StatusOK, res.code)
	var out map[string]string
	res.decode(t, &out)
	assert.NotEmpty(t, out["access_token"])
	assert.Equal(t, "admin", out["role"])
}

func TestRequireAuth(t *testing.T) {
	e := newEnv(t, true)
	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodGet, "/bank", "", "").code)
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/bank", "", e.admin).code)
}

func TestCatalog(t *testing.T) {
	e := newEnv(t, false)

	res := e.do(t, http.MethodGet, "/lessons?subject=Science&grade=Grade%206", "", "")
	require.Equal(t, http.StatusOK, res.code)
	var lessons []question.Lesson
	res.decode(t, &lessons)
	require.Len(t, lessons, 2)

	res = e.do(t, http.MethodGet, "/outcomes?lesson_ids="+itoa(lessons[0].ID), "", "")
	require.Equal(t, http.StatusOK, res.code)
	var los []question.LearningOutcome
	res.decode(t, &los)
	assert.Len(t, los, 2)

	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodGet, "/lessons?subject=Science", "", "").code)
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodGet, "/outcomes?lesson_id=x", "", "").code)
}

func TestCreateQuestion(t *testing.T) {
	e := newEnv(t, false)
	e.scope(t)

	res := e.do(t, http.MethodPost, "/questions", `{"subject":"Science"}`, "")
	require.Equal(t, http.StatusBadRequest, res.code)
	var bad struct {
		Error  string                `json:"error"`
		Fields []question.FieldError `json:"fields"`
	}
	res.decode(t, &bad)
	names := []string{}
	for _, f := range bad.Fields {
		names = append(names, f.Field)
	}
	assert.Contains(t, names, "grade")
	assert.Contains(t, names, "question_text")

	res = e.do(t, http.MethodPost, "/questions",
		`{"subject":"Science","grade":"Grade 6","question_text":"Q","question_type":"MCQ","marks":1,"lesson_id":9999}`, "")
	assert.Equal(t, http.StatusNotFound, res.code)

	lessons, err := e.repo.GetLessons(context.Background(), "Science", "Grade 6")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, e.do(t, http.MethodPost, "/paper/sections", "", "").code)
	res = e.do(t, http.MethodPost, "/questions",
		`{"subject":"Science","grade":"Grade 6","question_text":"What is a cell?","question_type":"MCQ","marks":1,"lesson_id":`+itoa(lessons[0].ID)+`}`, "")
	require.Equal(t, http.StatusCreated, res.code, string(res.body))
	var created struct {
		Question question.Question `json:"question"`
		Selected bool              `json:"selected"`
	}
	res.decode(t, &created)
	assert.True(t, created.Selected)

	var p paperReply
	e.do(t, http.MethodGet, "/paper", "", "").decode(t, &p)
	require.Len(t, p.Paper.Sections, 1)
	assert.Equal(t, []int64{created.Question.ID}, p.Paper.Sections[0].Section.SelectedIDs)
}

func TestPaperDesign(t *testing.T) {
	e := newEnv(t, false)
	e.scope(t)

	var added struct {
		ID string `json:"id"`
	}
	res := e.do(t, http.MethodPost, "/paper/sections", "", "")
	require.Equal(t, http.StatusCreated, res.code)
	res.decode(t, &added)
	a := added.ID

	res = e.do(t, http.MethodPatch, "/paper/sections/"+a, `{"sectionMarks":5}`, "")
	require.Equal(t, http.StatusOK, res.code)

	var pool []question.Question
	e.do(t, http.MethodGet, "/paper/sections/"+a+"/eligible", "", "").decode(t, &pool)
	require.Len(t, pool, 5)

	var p paperReply
	e.do(t, http.MethodPost, "/paper/sections/"+a+"/add-all", "", "").decode(t, &p)
	require.Len(t, p.Paper.Sections, 1)
	assert.True(t, p.Paper.Sections[0].Status.Full)
	assert.Equal(t, 5, p.Paper.TotalAllocatedMarks)
	assert.False(t, p.Paper.IsAligned)
	taken := p.Paper.Sections[0].Section.SelectedIDs[0]

	e.do(t, http.MethodPost, "/paper/sections", "", "").decode(t, &added)
	b := added.ID
	e.do(t, http.MethodPost, "/paper/sections/"+b+"/toggle/"+itoa(taken), "", "").decode(t, &p)
	require.Len(t, p.Paper.Sections, 2)
	assert.Empty(t, p.Paper.Sections[1].Section.SelectedIDs, "a question belongs to one section")
	assert.Equal(t, b, p.Layout.ActiveID)

	e.do(t, http.MethodPut, "/paper/metadata", `{"title":"Unit Test","subject":"Science","grade":"Grade 6","totalMarks":15}`, "").decode(t, &p)
	assert.Equal(t, 15, p.Paper.TotalAllocatedMarks, "5 + a fresh 10-mark section")
	assert.True(t, p.Paper.IsAligned)

	res = e.do(t, http.MethodPut, "/paper/metadata", `{"totalMarks":-1}`, "")
	assert.Equal(t, http.StatusBadRequest, res.code)

	e.do(t, http.MethodPost, "/paper/sections/reorder", `{"from":1,"to":0}`, "").decode(t, &p)
	assert.Equal(t, b, p.Paper.Sections[0].Section.ID)

	assert.Equal(t, http.StatusOK, e.do(t, http.MethodPut, "/paper/active-section", `{"id":"`+a+`"}`, "").code)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodPut, "/paper/active-section", `{"id":"nope"}`, "").code)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodPatch, "/paper/sections/nope", `{}`, "").code)

	e.do(t, http.MethodDelete, "/paper/sections/"+a, "", "").decode(t, &p)
	require.Len(t, p.Paper.Sections, 1)
	assert.Equal(t, 10, p.Paper.TotalAllocatedMarks)
	assert.False(t, p.Paper.IsAligned)
}

func TestBankEndpoints(t *testing.T) {
	e := newEnv(t, false)
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodPost, "/bank/reload", "", "").code)
	e.scope(t)

	type bankReply struct {
		View struct {
			Total       int     `json:"total"`
			Visible     int     `json:"visible"`
			SelectedIDs []int64 `json:"selectedIds"`
		} `json:"view"`
		Guard struct {
			NeedsConfirm bool `json:"needsConfirm"`
		} `json:"guard"`
	}
	var br bankReply
	e.do(t, http.MethodGet, "/bank", "", "").decode(t, &br)
	assert.Equal(t, 10, br.View.Total)
	assert.Len(t, br.View.SelectedIDs, 10)
	assert.False(t, br.Guard.NeedsConfirm)

	e.do(t, http.MethodPut, "/bank/filters", `{"marks":5}`, "").decode(t, &br)
	assert.Equal(t, 10, br.View.Visible)
	e.do(t, http.MethodPost, "/bank/filters/apply", "", "").decode(t, &br)
	assert.Equal(t, 2, br.View.Visible)
	e.do(t, http.MethodPost, "/bank/selection/clear", "", "").decode(t, &br)
	assert.Len(t, br.View.SelectedIDs, 8)
	e.do(t, http.MethodPost, "/bank/filters/reset", "", "").decode(t, &br)
	assert.Equal(t, 10, br.View.Visible)

	first := br.View.SelectedIDs[0]
	e.do(t, http.MethodPost, "/bank/selection/toggle/"+itoa(first), "", "").decode(t, &br)
	assert.Len(t, br.View.SelectedIDs, 7)
	e.do(t, http.MethodPost, "/bank/selection/all", "", "").decode(t, &br)
	assert.Len(t, br.View.SelectedIDs, 10)

	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodPut, "/bank/sort", `{"sort":"sideways"}`, "").code)
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodPut, "/bank/sort", `{"sort":"difficulty_desc"}`, "").code)
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodPut, "/bank/filters", `{"difficulty":7}`, "").code)
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodPost, "/bank/selection/toggle/abc", "", "").code)
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/bank/reload", "", "").code)
}

func TestExports(t *testing.T) {
	e := newEnv(t, false)
	e.scope(t)

	res := e.do(t, http.MethodGet, "/export/bank/csv", "", "")
	require.Equal(t, http.StatusOK, res.code, string(res.body))
	assert.Equal(t, `attachment; filename="Question_Bank_Science_Grade 6.csv"`, res.header.Get("Content-Disposition"))
	assert.Equal(t, "exports/Question_Bank_Science_Grade 6.csv", res.header.Get("X-Export-Key"))
	csvBody := res.body

	res = e.do(t, http.MethodGet, "/exports/Question_Bank_Science_Grade%206.csv", "", "")
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, csvBody, res.body)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/exports/missing.csv", "", "").code)

	var saved []storage.Object
	e.do(t, http.MethodGet, "/exports", "", "").decode(t, &saved)
	assert.Len(t, saved, 1)

	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/export/bank/xls", "", "").code)
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodGet, "/export/nope/csv", "", "").code)

	res = e.do(t, http.MethodGet, "/paper/print", "", "")
	require.Equal(t, http.StatusOK, res.code)
	assert.Contains(t, res.header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(res.body), "Answer Key")
	assert.Empty(t, res.header.Get("Content-Disposition"))

	e.do(t, http.MethodPost, "/bank/selection/clear", "", "")
	res = e.do(t, http.MethodGet, "/export/bank/json", "", "")
	assert.Equal(t, http.StatusBadRequest, res.code)
	assert.JSONEq(t, `{"error":"select questions first"}`, string(res.body))

	var events []audit.Event
	res = e.do(t, http.MethodGet, "/admin/exports", "", e.admin)
	require.Equal(t, http.StatusOK, res.code)
	res.decode(t, &events)
	require.Len(t, events, 2)
	assert.Equal(t, "Question_Paper_Science_Grade 6.html", events[0].Key)
	assert.Equal(t, "test", events[0].SiteID)

	assert.Equal(t, http.StatusForbidden, e.do(t, http.MethodGet, "/admin/exports", "", "").code)
}

func TestExportFilenameHeader(t *testing.T) {
	e := newEnv(t, false)
	e.scope(t)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPut, "/paper/metadata", `{"subject":"Sciencé","grade":"Grade 6","totalMarks":10}`, "").code)

	res := e.do(t, http.MethodGet, "/export/bank/csv", "", "")
	require.Equal(t, http.StatusOK, res.code, string(res.body))
	assert.Equal(t, `attachment; filename*=utf-8''Question_Bank_Sci%C3%A9nce_Grade%206.csv`, res.header.Get("Content-Disposition"))
}

func TestBulkImport(t *testing.T) {
	e := newEnv(t, false)
	e.scope(t)
	lessons, err := e.repo.GetLessons(context.Background(), "Science", "Grade 6")
	require.NoError(t, err)
	lesson := itoa(lessons[1].ID)

	body := `[{"subject":"Science","grade":"Grade 6","question_text":"Define speed.","question_type":"Short Answer","marks":2,"lesson_id":` + lesson + `},
	          {"subject":"Science","grade":"Grade 6","marks":2}]`
	assert.Equal(t, http.StatusForbidden, e.do(t, http.MethodPost, "/admin/questions/bulk", body, "").code)

	res := e.do(t, http.MethodPost, "/admin/questions/bulk", body, e.admin)
	require.Equal(t, http.StatusOK, res.code, string(res.body))
	var out struct {
		Inserted int `json:"inserted"`
		Failed   int `json:"failed"`
		Errors   []struct {
			Row    int                   `json:"row"`
			Fields []question.FieldError `json:"fields"`
		} `json:"errors"`
	}
	res.decode(t, &out)
	assert.Equal(t, 1, out.Inserted)
	assert.Equal(t, 1, out.Failed)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, 2, out.Errors[0].Row)
	assert.NotEmpty(t, out.Errors[0].Fields)

	csvBody := "subject,grade,question_text,question_type,marks,lesson_id,answer_key,difficulty\n" +
		"Science,Grade 6,What is mass?,MCQ,1," + lesson + ",Amount of matter,2\n" +
		"Science,Grade 6,\"Name two forces, please.\",Short Answer,2," + lesson + ",,\n"
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "questions.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csvBody))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, e.srv.URL+"/admin/questions/bulk", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+e.admin)
	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 2, out.Inserted)
	assert.Equal(t, 0, out.Failed)

	var br struct {
		View struct {
			Total int `json:"total"`
		} `json:"view"`
	}
	e.do(t, http.MethodGet, "/bank", "", "").decode(t, &br)
	assert.Equal(t, 13, br.View.Total, "bank reloaded after import")
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
