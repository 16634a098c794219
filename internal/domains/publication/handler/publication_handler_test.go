package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"publications-backend/internal/domains/publication/model"
	"publications-backend/internal/domains/publication/query"
)

type mockPublicationService struct {
	mock.Mock
}

func (m *mockPublicationService) Add(ctx context.Context, req model.AddPublicationRequest) (*model.AddResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*model.AddResult)
	return res, args.Error(1)
}

func (m *mockPublicationService) Update(ctx context.Context, pubID int64, req model.UpdatePublicationRequest) (*model.UpdateResult, error) {
	args := m.Called(ctx, pubID, req)
	res, _ := args.Get(0).(*model.UpdateResult)
	return res, args.Error(1)
}

func (m *mockPublicationService) RemoveByID(ctx context.Context, pubID int64) (*model.RemoveByIDResult, error) {
	args := m.Called(ctx, pubID)
	res, _ := args.Get(0).(*model.RemoveByIDResult)
	return res, args.Error(1)
}

func (m *mockPublicationService) RemoveByFilter(ctx context.Context, f query.Filter) (*model.RemoveByFilterResult, error) {
	args := m.Called(ctx, f)
	res, _ := args.Get(0).(*model.RemoveByFilterResult)
	return res, args.Error(1)
}

func (m *mockPublicationService) RemoveAuthor(ctx context.Context, pubID int64, name string) (*model.RemoveAuthorResult, error) {
	args := m.Called(ctx, pubID, name)
	res, _ := args.Get(0).(*model.RemoveAuthorResult)
	return res, args.Error(1)
}

type mockSearchService struct {
	mock.Mock
}

func (m *mockSearchService) QueryByID(ctx context.Context, pubID int64) (*model.QueryByIDResult, error) {
	args := m.Called(ctx, pubID)
	res, _ := args.Get(0).(*model.QueryByIDResult)
	return res, args.Error(1)
}

func (m *mockSearchService) QueryBy(ctx context.Context, s query.Search) (*model.SearchResult, error) {
	args := m.Called(ctx, s)
	res, _ := args.Get(0).(*model.SearchResult)
	return res, args.Error(1)
}

func setupRouter() (*gin.Engine, *mockPublicationService, *mockSearchService) {
	gin.SetMode(gin.TestMode)
	pubs := &mockPublicationService{}
	search := &mockSearchService{}

	r := gin.New()
	NewPublicationHandler(pubs, search).RegisterRoutes(r)
	return r, pubs, search
}

func perform(r *gin.Engine, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Error.Code
}

func strPtr(s string) *string { return &s }

func TestAdd_JSON(t *testing.T) {
	r, pubs, _ := setupRouter()

	expected := model.AddPublicationRequest{ID: 1123459, Title: "Inserted", Year: 2017, Journal: "Insertion", Pages: "20-25",
		Authors: []string{"David Huang", "John Appleseed"}}
	stored := &model.Publication{PubID: 1123459, Title: "Inserted", Year: 2017, Journal: "Insertion", Pages: "20-25",
		Authors: []string{"David Huang", "John Appleseed"}}
	pubs.On("Add", mock.Anything, expected).Return(&model.AddResult{Added: true, Publication: stored}, nil)

	body := `{"id":"1123459","title":"Inserted","year":2017,"journal":"Insertion","pages":"20-25","authors":["David Huang","John Appleseed"]}`
	w := perform(r, http.MethodPost, "/publications/add", "application/json", body)

	require.Equal(t, http.StatusCreated, w.Code)
	var got model.AddResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.Added)
	assert.Equal(t, stored, got.Publication)
	pubs.AssertExpectations(t)
}

func TestAdd_IndexedFormAuthors(t *testing.T) {
	r, pubs, _ := setupRouter()

	expected := model.AddPublicationRequest{ID: 7, Title: "Form", Year: 2001, Authors: []string{"A", "B"}}
	pubs.On("Add", mock.Anything, expected).Return(&model.AddResult{Added: true, Publication: &model.Publication{PubID: 7}}, nil)

	form := url.Values{}
	form.Set("id", "7")
	form.Set("title", "Form")
	form.Set("year", "2001")
	form.Set("authors[0]", "A")
	form.Set("authors[1]", "B")
	w := perform(r, http.MethodPost, "/publications/add", "application/x-www-form-urlencoded", form.Encode())

	assert.Equal(t, http.StatusCreated, w.Code)
	pubs.AssertExpectations(t)
}

func TestAdd_ValidationAndConflict(t *testing.T) {
	r, pubs, _ := setupRouter()

	w := perform(r, http.MethodPost, "/publications/add", "application/json", `{"title":"no id","year":2000}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))

	w = perform(r, http.MethodPost, "/publications/add", "application/json", `{"id":5,"year":2000}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))

	pubs.On("Add", mock.Anything, mock.Anything).Return(nil, model.ErrDuplicateID)
	w = perform(r, http.MethodPost, "/publications/add", "application/json", `{"id":5,"title":"dup","year":2000}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "PUB_DUPLICATE_ID", errorCode(t, w))
}

func TestUpdate(t *testing.T) {
	r, pubs, _ := setupRouter()

	expected := model.UpdatePublicationRequest{
		Title:  strPtr("New"),
		Author: &model.AuthorChange{OldAuthor: strPtr("A"), NewAuthor: strPtr("Z")},
	}
	pubs.On("Update", mock.Anything, int64(9), expected).
		Return(&model.UpdateResult{Updated: true, Publication: &model.Publication{PubID: 9, Title: "New"}}, nil)

	w := perform(r, http.MethodPut, "/publications/update/9", "application/json",
		`{"title":"New","author":{"old_author":"A","new_author":"Z"}}`)
	assert.Equal(t, http.StatusOK, w.Code)

	form := url.Values{}
	form.Set("title", "New")
	form.Set("author[old_author]", "A")
	form.Set("author[new_author]", "Z")
	w = perform(r, http.MethodPut, "/publications/update/9", "application/x-www-form-urlencoded", form.Encode())
	assert.Equal(t, http.StatusOK, w.Code)

	pubs.AssertNumberOfCalls(t, "Update", 2)
}

func TestUpdate_FormIgnoresUnbracketedAuthorKeys(t *testing.T) {
	r, pubs, _ := setupRouter()

	expected := model.UpdatePublicationRequest{Title: strPtr("New")}
	pubs.On("Update", mock.Anything, int64(9), expected).
		Return(&model.UpdateResult{Updated: true, Publication: &model.Publication{PubID: 9, Title: "New"}}, nil)

	form := url.Values{}
	form.Set("title", "New")
	form.Set("new_author", "Z")
	form.Set("old_author", "A")
	w := perform(r, http.MethodPut, "/publications/update/9", "application/x-www-form-urlencoded", form.Encode())
	assert.Equal(t, http.StatusOK, w.Code)
	pubs.AssertExpectations(t)
}

func TestUpdate_NotFoundAndBadID(t *testing.T) {
	r, pubs, _ := setupRouter()
	pubs.On("Update", mock.Anything, int64(404), mock.Anything).Return(nil, model.ErrPublicationNotFound)

	w := perform(r, http.MethodPut, "/publications/update/404", "application/json", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PUB_NOT_FOUND", errorCode(t, w))

	w = perform(r, http.MethodPut, "/publications/update/abc", "application/json", `{"title":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "PUB_INVALID_ID", errorCode(t, w))
}

func TestRemoveByID(t *testing.T) {
	r, pubs, _ := setupRouter()
	pubs.On("RemoveByID", mock.Anything, int64(3)).Return(&model.RemoveByIDResult{Removed: true, ID: 3}, nil)

	w := perform(r, http.MethodDelete, "/publications/remove/id/3", "", "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"removed":true,"id":3}`, w.Body.String())
}

func TestRemoveByFilter(t *testing.T) {
	filter := query.Filter{Title: strPtr("Inserted"), Author: strPtr("David Huang")}
	result := &model.RemoveByFilterResult{Removed: true, TotalDeletions: 1}

	cases := []struct {
		name        string
		target      string
		contentType string
		body        string
	}{
		{"json body", "/publications/remove", "application/json", `{"title":"Inserted","author":"David Huang"}`},
		{"form body", "/publications/remove", "application/x-www-form-urlencoded", "title=Inserted&author=David+Huang"},
		{"query string", "/publications/remove?title=Inserted&author=David%20Huang", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, pubs, _ := setupRouter()
			pubs.On("RemoveByFilter", mock.Anything, filter).Return(result, nil)

			w := perform(r, http.MethodDelete, tc.target, tc.contentType, tc.body)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"removed":true,"total_deletions":1}`, w.Body.String())
			pubs.AssertExpectations(t)
		})
	}
}

func TestRemoveByFilter_NoFields(t *testing.T) {
	r, pubs, _ := setupRouter()
	pubs.On("RemoveByFilter", mock.Anything, query.Filter{}).Return(nil, model.ErrNoFilterFields)

	w := perform(r, http.MethodDelete, "/publications/remove", "application/json", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "PUB_NO_FILTER", errorCode(t, w))
}

func TestQueryByID(t *testing.T) {
	r, _, search := setupRouter()
	search.On("QueryByID", mock.Anything, int64(42)).Return(&model.QueryByIDResult{TotalFound: 0}, nil)

	w := perform(r, http.MethodGet, "/publications/id/42", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total_found":0,"publication":null}`, w.Body.String())
}

func TestSearch(t *testing.T) {
	r, _, search := setupRouter()

	year, limit := 2000, 2
	expected := query.Search{
		Filter:     query.Filter{Year: &year, YearOp: query.YearLT, Author: strPtr("%Codd%")},
		SortBy:     strPtr("year"),
		Descending: true,
		Limit:      &limit,
	}
	search.On("QueryBy", mock.Anything, expected).Return(&model.SearchResult{
		TotalFound:   1,
		Publications: []model.Publication{{PubID: 1, Year: 1970, Authors: []string{"E. F. Codd"}}},
	}, nil)

	w := perform(r, http.MethodGet, "/publications/search?year=2000&year_op=1&author=%25Codd%25&sort_by=year&descending=true&limit=2", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got model.SearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 1, got.TotalFound)
	search.AssertExpectations(t)
}

func TestSearch_BuilderErrors(t *testing.T) {
	r, _, search := setupRouter()
	search.On("QueryBy", mock.Anything, mock.MatchedBy(func(s query.Search) bool { return s.SortBy != nil })).
		Return(nil, query.ErrInvalidSortField)
	search.On("QueryBy", mock.Anything, mock.MatchedBy(func(s query.Search) bool { return s.Limit != nil })).
		Return(nil, query.ErrInvalidLimit)

	w := perform(r, http.MethodGet, "/publications/search?sort_by=pages", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "PUB_INVALID_SORT", errorCode(t, w))

	w = perform(r, http.MethodGet, "/publications/search?limit=0", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "PUB_INVALID_LIMIT", errorCode(t, w))

	w = perform(r, http.MethodGet, "/publications/search?year=recent", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestRemoveAuthor(t *testing.T) {
	r, pubs, _ := setupRouter()
	pubs.On("RemoveAuthor", mock.Anything, int64(2), "John Appleseed").Return(&model.RemoveAuthorResult{
		Removed: true, Name: "John Appleseed", RemovedCount: 1, Publication: &model.Publication{PubID: 2},
	}, nil)

	w := perform(r, http.MethodDelete, "/publications/2/authors?name=John%20Appleseed", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(r, http.MethodDelete, "/publications/2/authors", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestStorageTimeoutMapsTo504(t *testing.T) {
	r, _, search := setupRouter()
	search.On("QueryByID", mock.Anything, int64(1)).Return(nil, model.ErrStorageTimeout)

	w := perform(r, http.MethodGet, "/publications/id/1", "", "")
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, "STORAGE_TIMEOUT", errorCode(t, w))
}
