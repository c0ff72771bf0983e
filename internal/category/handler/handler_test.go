package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/response"
	"github.com/fekuna/omnipos-catalog-service/pkg/i18n"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock UseCase ---

type mockUseCase struct {
	categories []model.Category
	err        error
	lastCreate *dto.CreateCategoryInput
	lastUpdate *dto.UpdateCategoryInput
}

func (m *mockUseCase) ListCategories(context.Context) ([]model.Category, error) {
	return m.categories, m.err
}

func (m *mockUseCase) GetCategory(_ context.Context, id int64) (*model.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &model.Category{ID: id, Name: "Books"}, nil
}

func (m *mockUseCase) CreateCategory(_ context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	m.lastCreate = input
	if m.err != nil {
		return nil, m.err
	}
	return &model.Category{ID: 1, Name: strings.TrimSpace(input.Name)}, nil
}

func (m *mockUseCase) UpdateCategory(_ context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	m.lastUpdate = input
	if m.err != nil {
		return nil, m.err
	}
	return &model.Category{ID: input.ID, Name: input.Name}, nil
}

func (m *mockUseCase) DeleteCategory(_ context.Context, id int64) (*model.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &model.Category{ID: id, Name: "Books"}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func newRouter(t *testing.T, uc *mockUseCase) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	bundle, err := i18n.New()
	require.NoError(t, err)

	router := gin.New()
	NewCategoryHandler(uc, response.NewResponder(bundle), logger.NewNop()).Register(router.Group("/category"))
	return router
}

func do(t *testing.T, router *gin.Engine, method, path, body, lang string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if lang != "" {
		req.Header.Set("Accept-Language", lang)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

// --- Tests: GET /category ---

func TestListCategories(t *testing.T) {
	testCases := []struct {
		name               string
		mockSetup          func() *mockUseCase
		expectedStatusCode int
		checkResponse      func(t *testing.T, env envelope)
	}{
		{
			name: "Success with categories",
			mockSetup: func() *mockUseCase {
				return &mockUseCase{categories: []model.Category{{ID: 2, Name: "Books"}, {ID: 1, Name: "Electronics"}}}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, env envelope) {
				var data []model.Category
				require.NoError(t, json.Unmarshal(env.Data, &data))
				assert.True(t, env.Success)
				assert.Len(t, data, 2)
				require.NotNil(t, env.Count)
				assert.Equal(t, 2, *env.Count)
				assert.Equal(t, "Books", data[0].Name)
			},
		},
		{
			name: "Store failure",
			mockSetup: func() *mockUseCase {
				return &mockUseCase{err: apperror.Internal("categories_fetch_failed", assert.AnError)}
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, env envelope) {
				assert.False(t, env.Success)
				assert.Equal(t, "Internal server error while fetching categories", env.Error)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := newRouter(t, tc.mockSetup())
			rec, env := do(t, router, http.MethodGet, "/category", "", "")
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			tc.checkResponse(t, env)
		})
	}
}

// --- Tests: POST /category ---

func TestCreateCategory(t *testing.T) {
	testCases := []struct {
		name               string
		body               string
		err                error
		lang               string
		expectedStatusCode int
		expectedError      string
	}{
		{
			name:               "Created",
			body:               `{"name": "Books"}`,
			expectedStatusCode: http.StatusCreated,
		},
		{
			name:               "Blank name",
			body:               `{"name": "  "}`,
			err:                apperror.Validation("category_name_required"),
			expectedStatusCode: http.StatusBadRequest,
			expectedError:      "Category name is required",
		},
		{
			name:               "Duplicate in spanish",
			body:               `{"name": "Books"}`,
			err:                apperror.Conflict("category_name_taken"),
			lang:               "es",
			expectedStatusCode: http.StatusConflict,
			expectedError:      "Ya existe una categoría con ese nombre",
		},
		{
			name:               "Malformed JSON",
			body:               `{"name": `,
			expectedStatusCode: http.StatusBadRequest,
			expectedError:      "Invalid JSON body",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			uc := &mockUseCase{err: tc.err}
			router := newRouter(t, uc)

			rec, env := do(t, router, http.MethodPost, "/category", tc.body, tc.lang)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.expectedError != "" {
				assert.False(t, env.Success)
				assert.Equal(t, tc.expectedError, env.Error)
				return
			}
			var data model.Category
			require.NoError(t, json.Unmarshal(env.Data, &data))
			assert.True(t, env.Success)
			assert.Equal(t, "Books", data.Name)
			assert.Equal(t, "Category created successfully", env.Message)
		})
	}
}

func TestCreateCategoryEmptyBodyReachesUseCase(t *testing.T) {
	uc := &mockUseCase{err: apperror.Validation("category_name_required")}
	router := newRouter(t, uc)

	rec, _ := do(t, router, http.MethodPost, "/category", "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, uc.lastCreate)
	assert.Equal(t, "", uc.lastCreate.Name)
}

// --- Tests: PUT /category/:id ---

func TestUpdateCategory(t *testing.T) {
	testCases := []struct {
		name               string
		path               string
		err                error
		expectedStatusCode int
	}{
		{"Updated", "/category/3", nil, http.StatusOK},
		{"Not found", "/category/3", apperror.NotFound("category_not_found"), http.StatusNotFound},
		{"Conflict", "/category/3", apperror.Conflict("category_name_taken"), http.StatusConflict},
		{"Invalid id", "/category/abc", nil, http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			uc := &mockUseCase{err: tc.err}
			router := newRouter(t, uc)

			rec, env := do(t, router, http.MethodPut, tc.path, `{"name": "Novels"}`, "")

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			assert.Equal(t, tc.expectedStatusCode == http.StatusOK, env.Success)
			if tc.expectedStatusCode == http.StatusOK {
				require.NotNil(t, uc.lastUpdate)
				assert.Equal(t, int64(3), uc.lastUpdate.ID)
				assert.Equal(t, "Category updated successfully", env.Message)
			}
		})
	}
}

// --- Tests: GET/DELETE /category/:id ---

func TestGetAndDeleteCategory(t *testing.T) {
	router := newRouter(t, &mockUseCase{})

	rec, env := do(t, router, http.MethodGet, "/category/4", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	rec, env = do(t, router, http.MethodDelete, "/category/4", "", "es")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Categoría eliminada exitosamente", env.Message)

	router = newRouter(t, &mockUseCase{err: apperror.NotFound("category_not_found")})
	rec, env = do(t, router, http.MethodDelete, "/category/4", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Category not found", env.Error)
}
