package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"kyccli/internal/analytics"
	"kyccli/internal/dataprocessing"
	apierrors "kyccli/internal/errors"
	"kyccli/internal/services"
	"kyccli/internal/store"
	"kyccli/pkg/contracts/domain"
)

// newTestRouter assembles the full API surface over a fresh session.
func newTestRouter(t *testing.T) (chi.Router, *services.ImportService) {
	t.Helper()

	kv, err := store.NewKVStore(t.TempDir())
	require.NoError(t, err)
	session := store.NewSession(kv, slog.Default())
	aggregator := analytics.NewAggregator(slog.Default(), analytics.DefaultAggregatorConfig())
	importSvc := services.NewImportService(session, slog.Default())
	dashSvc := services.NewDashboardService(session, aggregator, slog.Default())
	errorHandler := apierrors.NewErrorHandler(slog.Default())

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Mount("/dataset", NewDatasetHandler(importSvc, dashSvc, 1<<20, slog.Default(), errorHandler).Routes())
		r.Mount("/", NewDashboardHandler(dashSvc, slog.Default(), errorHandler).Routes())
		r.Mount("/export", NewExportHandler(dashSvc, slog.Default(), errorHandler).Routes())
		r.Mount("/preferences", NewPreferencesHandler(session, slog.Default(), errorHandler).Routes())
	})
	return r, importSvc
}

// fixtureWorkbook returns a complete one-row workbook as bytes.
func fixtureWorkbook(t *testing.T, rows []map[string]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	sheet := dataprocessing.DataSheetName
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
	cols := domain.ExpectedColumns()
	for j, col := range cols {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, col))
	}
	for i, row := range rows {
		for j, col := range cols {
			if row[col] == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, row[col]))
		}
	}

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return buf.Bytes()
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func importFixture(t *testing.T, r chi.Router, rows []map[string]string) {
	t.Helper()

	body, contentType := multipartUpload(t, "file", "upload.xlsx", fixtureWorkbook(t, rows))
	req := httptest.NewRequest(http.MethodPost, "/api/dataset/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestImportEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	body, contentType := multipartUpload(t, "file", "upload.xlsx", fixtureWorkbook(t, []map[string]string{
		{domain.ColSolID: "S001", domain.ColDivision: "Retail", domain.ColSubmission: "2024-03-05"},
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/dataset/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result services.ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.RowCount)
	assert.Equal(t, "upload.xlsx", result.SourceFile)
	assert.Contains(t, result.Message, "Loaded 1 rows")
	assert.Equal(t, []string{"Retail"}, result.Options.Divisions)
}

func TestImportEndpointErrors(t *testing.T) {
	t.Run("missing file field", func(t *testing.T) {
		r, _ := newTestRouter(t)
		req := httptest.NewRequest(http.MethodPost, "/api/dataset/import", strings.NewReader("nope"))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not a workbook", func(t *testing.T) {
		r, _ := newTestRouter(t)
		body, contentType := multipartUpload(t, "file", "bogus.xlsx", []byte("not a zip"))
		req := httptest.NewRequest(http.MethodPost, "/api/dataset/import", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_FILE")
	})

	t.Run("empty sheet", func(t *testing.T) {
		r, _ := newTestRouter(t)

		// A data sheet with no cells at all, not even a header.
		f := excelize.NewFile()
		require.NoError(t, f.SetSheetName(f.GetSheetName(0), dataprocessing.DataSheetName))
		var buf bytes.Buffer
		_, err := f.WriteTo(&buf)
		require.NoError(t, err)

		body, contentType := multipartUpload(t, "file", "upload.xlsx", buf.Bytes())
		req := httptest.NewRequest(http.MethodPost, "/api/dataset/import", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "EMPTY_SHEET")
		assert.NotContains(t, rec.Body.String(), "NO_DATA_ROWS")
	})

	t.Run("header without data rows", func(t *testing.T) {
		r, _ := newTestRouter(t)
		body, contentType := multipartUpload(t, "file", "upload.xlsx", fixtureWorkbook(t, nil))
		req := httptest.NewRequest(http.MethodPost, "/api/dataset/import", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "NO_DATA_ROWS")
	})

	t.Run("missing required columns", func(t *testing.T) {
		r, _ := newTestRouter(t)

		// Build a workbook whose header drops sol_id.
		f := excelize.NewFile()
		require.NoError(t, f.SetSheetName(f.GetSheetName(0), dataprocessing.DataSheetName))
		j := 1
		for _, col := range domain.ExpectedColumns() {
			if col == domain.ColSolID {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j, 1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(dataprocessing.DataSheetName, cell, col))
			j++
		}
		require.NoError(t, f.SetCellValue(dataprocessing.DataSheetName, "A2", "1"))
		var buf bytes.Buffer
		_, err := f.WriteTo(&buf)
		require.NoError(t, err)

		body, contentType := multipartUpload(t, "file", "upload.xlsx", buf.Bytes())
		req := httptest.NewRequest(http.MethodPost, "/api/dataset/import", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "MISSING_COLUMNS")
		assert.Contains(t, rec.Body.String(), "sol_id")
	})
}

func TestStatusAndResetEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/dataset/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"loaded":false`)

	importFixture(t, r, []map[string]string{{domain.ColSolID: "S001"}})

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dataset/", nil))
	assert.Contains(t, rec.Body.String(), `"loaded":true`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/dataset/reset", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dataset/", nil))
	assert.Contains(t, rec.Body.String(), `"loaded":false`)
}

func TestDashboardEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	t.Run("404 before any import", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/dashboard", strings.NewReader("{}")))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "DATASET_NOT_LOADED")
	})

	importFixture(t, r, []map[string]string{
		{domain.ColSolID: "S001", domain.ColDivision: "Retail", domain.ColSubmission: "2024-03-05"},
		{domain.ColSolID: "S002", domain.ColDivision: "Corporate"},
	})

	t.Run("empty body means no filters", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/dashboard", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var dashboard domain.Dashboard
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dashboard))
		assert.Equal(t, 2, dashboard.FilteredCount)
	})

	t.Run("filtered", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/dashboard",
			strings.NewReader(`{"division":"Retail","from":"2024-03-01","to":"2024-03-31"}`)))
		require.Equal(t, http.StatusOK, rec.Code)

		var dashboard domain.Dashboard
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dashboard))
		assert.Equal(t, 1, dashboard.FilteredCount)
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/dashboard", strings.NewReader("{")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad date format", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/dashboard",
			strings.NewReader(`{"from":"03/05/2024"}`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad date basis", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/dashboard",
			strings.NewReader(`{"date_basis":"Office"}`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestActionsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	importFixture(t, r, []map[string]string{
		{domain.ColSolID: "S001", domain.ColSubmission: "2024-03-05"},
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/actions", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Count int                 `json:"count"`
		Items []domain.ActionItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, 1, payload.Count)
	assert.Contains(t, payload.Items[0].Flags, domain.FlagPendingScan)
}

func TestOptionsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	importFixture(t, r, []map[string]string{
		{domain.ColDivision: "Retail", domain.ColOffice: "North Branch"},
		{domain.ColDivision: "Corporate", domain.ColOffice: "Head Office"},
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/options?division=Retail", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var options domain.FilterOptions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &options))
	assert.Equal(t, []string{"North Branch"}, options.Offices)
	assert.Len(t, options.Divisions, 2)
}

func TestExportCSVEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	importFixture(t, r, []map[string]string{
		{domain.ColSolID: "S001", domain.ColDivision: "Retail"},
	})

	t.Run("data scope", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/export/csv", strings.NewReader("{}")))
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "kyc_export_")
		body := rec.Body.Bytes()
		assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, body[:3])
		assert.Contains(t, rec.Body.String(), "S001")
	})

	t.Run("actions scope", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/export/csv",
			strings.NewReader(`{"scope":"actions"}`)))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "kyc_actions_")
		assert.Contains(t, rec.Body.String(), "Flags")
	})

	t.Run("unknown scope", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/export/csv",
			strings.NewReader(`{"scope":"pdf"}`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestExportCSVNoDataset(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/export/csv", strings.NewReader("{}")))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTemplateEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/export/template", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "KYC_Standard_Template.xlsx")

	// The download must be a readable workbook carrying the schema sheet.
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{dataprocessing.DataSheetName}, f.GetSheetList())
}

func TestThemeEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/preferences/theme", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"theme":"dark"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/preferences/theme",
		strings.NewReader(`{"theme":"light"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/preferences/theme", nil))
	assert.Contains(t, rec.Body.String(), `"theme":"light"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/preferences/theme",
		strings.NewReader(`{"theme":"sepia"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFilterRequestToSpec(t *testing.T) {
	tests := []struct {
		name    string
		req     FilterRequest
		wantErr bool
	}{
		{name: "empty", req: FilterRequest{}},
		{name: "full", req: FilterRequest{
			DateBasis: domain.ColSubmission,
			From:      "2024-03-01",
			To:        "2024-03-31",
			Division:  "Retail",
		}},
		{name: "bad from", req: FilterRequest{From: "31-03-2024"}, wantErr: true},
		{name: "bad basis", req: FilterRequest{DateBasis: "Office"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := tt.req.ToSpec()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.req.From != "" {
				require.NotNil(t, spec.From)
			}
			assert.Equal(t, tt.req.Division, spec.Division)
		})
	}
}
