package uploads

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bearcare-backend/files"
	"bearcare-backend/patients"
	"bearcare-backend/records"
)

// Audit tracks ingestion runs; implemented by Repository.
type Audit interface {
	Begin(ctx context.Context, date, uploadType, filename string, itemCount int) (int64, error)
	Finalize(ctx context.Context, id int64, processed, failed int, status string) error
	Recent(ctx context.Context, limit int) ([]Upload, error)
}

// PatientWriter and RecordWriter are the ingestion targets; satisfied by the
// patients and records repositories.
type PatientWriter interface {
	Create(ctx context.Context, p patients.Patient) error
}

type RecordWriter interface {
	Create(ctx context.Context, rec records.Record) (int64, error)
}

type Handler struct {
	audit      Audit
	patientsW  PatientWriter
	recordsW   RecordWriter
	tmpDir     string
	maxPDFText int
}

func NewHandler(audit Audit, pw PatientWriter, rw RecordWriter) *Handler {
	return &Handler{audit: audit, patientsW: pw, recordsW: rw, tmpDir: "./tmp"}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/uploads", h.ingest)
	r.GET("/api/uploads", h.recent)
}

type batchRequest struct {
	Date     string           `json:"date"`
	Type     string           `json:"type"`
	Items    []map[string]any `json:"items"`
	Filename string           `json:"filename"`
}

func (h *Handler) ingest(c *gin.Context) {
	if strings.HasPrefix(c.GetHeader("Content-Type"), "multipart/form-data") {
		h.ingestPDF(c)
		return
	}

	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Date == "" || req.Type == "" || req.Items == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid upload data. Required: date, type, and items array"})
		return
	}
	if req.Type != "patient" && req.Type != "record" {
		c.JSON(http.StatusBadRequest, gin.H{"error": `Type must be either "patient" or "record"`})
		return
	}
	filename := req.Filename
	if filename == "" {
		filename = "unknown.json"
	}

	ctx := c.Request.Context()
	uploadID, err := h.audit.Begin(ctx, req.Date, req.Type, filename, len(req.Items))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process upload"})
		return
	}

	processed, failed := 0, 0
	for _, item := range req.Items {
		if err := h.storeItem(ctx, req.Type, item); err != nil {
			log.Printf("[uploads][item][fail] upload=%d type=%s err=%v", uploadID, req.Type, err)
			failed++
			continue
		}
		processed++
	}

	status := "completed"
	if failed > 0 {
		status = "completed_with_errors"
	}
	if err := h.audit.Finalize(ctx, uploadID, processed, failed, status); err != nil {
		log.Printf("[uploads][finalize][fail] upload=%d err=%v", uploadID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"uploadId":       uploadID,
		"processedItems": processed,
		"failedItems":    failed,
		"totalItems":     len(req.Items),
		"type":           req.Type,
		"filename":       filename,
	})
}

// storeItem routes one batch item into the matching store. Patient ids may
// arrive as strings in hand-edited files; coerce before decoding.
func (h *Handler) storeItem(ctx context.Context, uploadType string, item map[string]any) error {
	if raw, ok := item["id"].(string); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			item["id"] = n
		}
	}
	if raw, ok := item["patientId"].(string); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			item["patientId"] = n
		}
	}
	buf, err := json.Marshal(item)
	if err != nil {
		return err
	}
	if uploadType == "patient" {
		var p patients.Patient
		if err := json.Unmarshal(buf, &p); err != nil {
			return err
		}
		return h.patientsW.Create(ctx, p)
	}
	var rec records.Record
	if err := json.Unmarshal(buf, &rec); err != nil {
		return err
	}
	if rec.Data == nil {
		// Bare documents without a data wrapper: keep the whole item as the
		// payload so nothing the client sent is dropped.
		var payload map[string]any
		_ = json.Unmarshal(buf, &payload)
		delete(payload, "id")
		delete(payload, "patientId")
		rec.Data = payload
	}
	_, err = h.recordsW.Create(ctx, rec)
	return err
}

// ingestPDF accepts a single PDF document for a patient, extracts its text
// layer and stores it as one clinical record.
func (h *Handler) ingestPDF(c *gin.Context) {
	upFile, err := c.FormFile("file")
	if err != nil || upFile.Size <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if strings.ToLower(filepath.Ext(upFile.Filename)) != ".pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only .pdf files are supported"})
		return
	}
	patientID, err := strconv.Atoi(c.PostForm("patientId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "patientId is required"})
		return
	}

	_ = os.MkdirAll(h.tmpDir, 0o755)
	tmp := filepath.Join(h.tmpDir, uuid.NewString()+".pdf")
	if err := c.SaveUploadedFile(upFile, tmp); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process upload"})
		return
	}
	defer os.Remove(tmp)

	doc, err := files.ExtractPDF(tmp, h.maxPDFText)
	if err != nil {
		log.Printf("[uploads][pdf][fail] file=%s err=%v", upFile.Filename, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read PDF"})
		return
	}

	ctx := c.Request.Context()
	uploadID, err := h.audit.Begin(ctx, c.PostForm("date"), "record", upFile.Filename, 1)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process upload"})
		return
	}
	rec := records.Record{
		PatientID: patientID,
		Data: map[string]any{
			"source":   "pdf",
			"filename": upFile.Filename,
			"pages":    doc.Pages,
			"text":     doc.Text,
		},
	}
	recordID, err := h.recordsW.Create(ctx, rec)
	status := "completed"
	processed, failedItems := 1, 0
	if err != nil {
		log.Printf("[uploads][pdf][store.fail] upload=%d err=%v", uploadID, err)
		status = "completed_with_errors"
		processed, failedItems = 0, 1
	}
	if err := h.audit.Finalize(ctx, uploadID, processed, failedItems, status); err != nil {
		log.Printf("[uploads][finalize][fail] upload=%d err=%v", uploadID, err)
	}
	if processed == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store record"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"uploadId": uploadID,
		"recordId": recordID,
		"pages":    doc.Pages,
		"filename": upFile.Filename,
	})
}

func (h *Handler) recent(c *gin.Context) {
	list, err := h.audit.Recent(c.Request.Context(), 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch uploads"})
		return
	}
	c.JSON(http.StatusOK, list)
}
