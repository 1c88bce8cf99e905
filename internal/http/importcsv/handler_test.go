package importcsv_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pulse/internal/http/importcsv"
	"github.com/MrJamesThe3rd/pulse/internal/importer"
	"github.com/MrJamesThe3rd/pulse/internal/sale"
)

func upload(t *testing.T, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "vendas.csv")
	require.NoError(t, err)

	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req
}

func newRouter(t *testing.T) (http.Handler, *sale.MockRepository) {
	t.Helper()

	repo := sale.NewMockRepository(gomock.NewController(t))
	svc := importer.NewService(sale.NewService(repo), time.UTC)

	r := chi.NewRouter()
	r.Route("/import", importcsv.NewHandler(svc).Routes)

	return r, repo
}

func TestHandler_Import(t *testing.T) {
	router, repo := newRouter(t)
	repo.EXPECT().CreateSales(gomock.Any(), gomock.Len(2)).Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, upload(t, "Data;Descrição;Valor;Status\n01/03/2025;A;10,00;pago\n02/03/2025;B;20,00;pendente\n"))

	require.Equal(t, http.StatusCreated, rec.Code)

	var got struct {
		Imported int `json:"imported"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, 2, got.Imported)
}

func TestHandler_ImportRejects(t *testing.T) {
	tests := []struct {
		name string
		req  func(t *testing.T) *http.Request
	}{
		{
			name: "Unknown layout",
			req:  func(t *testing.T) *http.Request { return upload(t, "foo;bar\n") },
		},
		{
			name: "Invalid status",
			req: func(t *testing.T) *http.Request {
				return upload(t, "Data;Descrição;Valor;Status\n01/03/2025;A;10,00;estornado\n")
			},
		},
		{
			name: "Missing file",
			req: func(_ *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/import/", nil)
				req.Header.Set("Content-Type", "multipart/form-data; boundary=x")

				return req
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newRouter(t)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, tt.req(t))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
