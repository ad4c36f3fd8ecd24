package tests

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/placement/core/request"
	"github.com/trezcool/placement/tests"
)

func requestPath(id int64, action ...string) string {
	p := "/v1/requests/" + strconv.FormatInt(id, 10)
	if len(action) > 0 {
		p += "/" + action[0]
	}
	return p
}

func Test_requestApi_submit(t *testing.T) {
	app, svcs := setup(t)

	p := testutil.CreateProject(t, svcs.ProjectRepo, "Bridge", 2)
	ada := testutil.CreateStudent(t, svcs.StudentRepo, "S001", "Ada", "ada@test.cd")

	body := marshallObj(t, request.NewRequest{ProjectID: p.ID, StudentID: ada.ID})
	rec := serve(app, http.MethodPost, "/v1/requests", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var r request.Request
	decode(t, rec, &r)
	assert.NotZero(t, r.ID)
	assert.Equal(t, request.StatusPending, r.Status)
	assert.Equal(t, "Bridge", r.ProjectTitle)
	assert.Equal(t, "S001", r.StudentCode)
	assert.NotContains(t, rec.Body.String(), "ada@test.cd")

	checkConflict(t, serve(app, http.MethodPost, "/v1/requests", body), http.StatusConflict, "duplicate_request")
	checkConflict(t, serve(app, http.MethodPost, "/v1/requests", marshallObj(t, request.NewRequest{ProjectID: 404, StudentID: ada.ID})),
		http.StatusNotFound, "not_found")

	runHTTPTests(t, app, []httpTest{
		{
			name:     "missing ids",
			method:   http.MethodPost,
			path:     "/v1/requests",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"project_id": "this field is required", "student_id": "this field is required"}`),
		},
		{
			name:     "retrieve unknown",
			method:   http.MethodGet,
			path:     requestPath(404),
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: "request not found", Code: "not_found"}),
		},
	})

	rec = serve(app, http.MethodGet, requestPath(r.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	var got request.Request
	decode(t, rec, &got)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, "Ada", got.StudentName)
}

func Test_requestApi_decide(t *testing.T) {
	app, svcs := setup(t)

	p := testutil.CreateProject(t, svcs.ProjectRepo, "Bridge", 2)
	ada := testutil.CreateStudent(t, svcs.StudentRepo, "S001", "Ada", "ada@test.cd")
	bob := testutil.CreateStudent(t, svcs.StudentRepo, "S002", "Bob", "")
	eve := testutil.CreateStudent(t, svcs.StudentRepo, "S003", "Eve", "")

	submit := func(studentID int64) request.Request {
		rec := serve(app, http.MethodPost, "/v1/requests", marshallObj(t, request.NewRequest{ProjectID: p.ID, StudentID: studentID}))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var r request.Request
		decode(t, rec, &r)
		return r
	}
	ra, rb, rc := submit(ada.ID), submit(bob.ID), submit(eve.ID)

	rec := serve(app, http.MethodGet, "/v1/requests/pending")
	require.Equal(t, http.StatusOK, rec.Code)
	var pending []request.Request
	decode(t, rec, &pending)
	assert.Len(t, pending, 3)

	runHTTPTests(t, app, []httpTest{
		{name: "approve", method: http.MethodPost, path: requestPath(ra.ID, "approve"), wantCode: http.StatusOK, wantData: []byte(`{"approved": true}`)},
		{name: "approve twice", method: http.MethodPost, path: requestPath(ra.ID, "approve"), wantCode: http.StatusOK, wantData: []byte(`{"approved": false}`)},
		{name: "reject approved", method: http.MethodPost, path: requestPath(ra.ID, "reject"), wantCode: http.StatusOK, wantData: []byte(`{"rejected": false}`)},
		{name: "approve second", method: http.MethodPost, path: requestPath(rb.ID, "approve"), wantCode: http.StatusOK, wantData: []byte(`{"approved": true}`)},
		{name: "approve unknown", method: http.MethodPost, path: requestPath(404, "approve"), wantCode: http.StatusOK, wantData: []byte(`{"approved": false}`)},
		{name: "reject unknown", method: http.MethodPost, path: requestPath(404, "reject"), wantCode: http.StatusOK, wantData: []byte(`{"rejected": false}`)},
	})

	// the project is full now
	checkConflict(t, serve(app, http.MethodPost, requestPath(rc.ID, "approve")), http.StatusConflict, "capacity_exceeded")

	rec = serve(app, http.MethodGet, requestPath(rc.ID))
	var r request.Request
	decode(t, rec, &r)
	assert.Equal(t, request.StatusPending, r.Status)
	assert.Equal(t, 2, testutil.GetProject(t, svcs.Projects, p.ID).Occupancy)

	rec = serve(app, http.MethodPost, requestPath(rc.ID, "reject"))
	assert.JSONEq(t, `{"rejected": true}`, rec.Body.String())

	rec = serve(app, http.MethodGet, projectPath(p.ID, "requests"))
	require.Equal(t, http.StatusOK, rec.Code)
	var byProject []request.Request
	decode(t, rec, &byProject)
	require.Len(t, byProject, 3)
	assert.Equal(t, request.StatusApproved, byProject[0].Status)
	assert.Equal(t, request.StatusApproved, byProject[1].Status)
	assert.Equal(t, request.StatusRejected, byProject[2].Status)

	rec = serve(app, http.MethodGet, "/v1/requests/pending")
	assert.JSONEq(t, `[]`, rec.Body.String())

	sent := svcs.Mailer.SentMessages()
	require.Len(t, sent, 1, "only Ada has an email address")
	assert.Equal(t, "ada@test.cd", sent[0].To[0].Address)
}
