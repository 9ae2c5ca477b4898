package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	. "github.com/assignkun/assignkun/apps/api/echo"
	"github.com/assignkun/assignkun/core"
	"github.com/assignkun/assignkun/core/assignkun"
	"github.com/assignkun/assignkun/core/event"
	"github.com/assignkun/assignkun/core/ingest"
	"github.com/assignkun/assignkun/core/upload"
	schedsvc "github.com/assignkun/assignkun/services/scheduler"
	blobinmem "github.com/assignkun/assignkun/storage/blob/inmem"
	"github.com/assignkun/assignkun/storage/database/inmem"
)

const testContainer = "csv-uploads"

type testApp struct {
	server    Server
	repo      *inmem.Repository
	blobs     *blobinmem.Store
	publisher *recordingPublisher
}

type recordingPublisher struct {
	events []event.Envelope
}

func (p *recordingPublisher) Publish(_ context.Context, events ...event.Envelope) error {
	p.events = append(p.events, events...)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func setup(t *testing.T) *testApp {
	t.Helper()

	conf := &core.Config{TestMode: true}

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	repo := inmem.NewRepository()
	blobs := blobinmem.NewStore(testContainer)
	pub := &recordingPublisher{}
	scheduler := schedsvc.NewSync()
	logger := nopLogger{}

	ingestSvc := ingest.NewService(repo, ingest.NewValidator(validate, translator))
	uploadSvc := upload.NewService(blobs, ingestSvc, pub, scheduler, logger, testContainer)
	assignSvc := assignkun.NewService(repo)
	dispatcher := event.NewDispatcher(event.NewBuffer(event.DefaultBufferCapacity), scheduler, uploadSvc, logger)

	server := NewServer(
		ServerDeps{
			Conf:       conf,
			Logger:     logger,
			IngestSvc:  ingestSvc,
			UploadSvc:  uploadSvc,
			AssignSvc:  assignSvc,
			Dispatcher: dispatcher,
			Validate:   validate,
			Translator: translator,
		},
	)

	return &testApp{server: server, repo: repo, blobs: blobs, publisher: pub}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func newFileRequest(t *testing.T, path, filename string, content []byte) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile() failed: %v", err)
	}
	if _, err = fw.Write(content); err != nil {
		t.Fatalf("writing form file failed: %v", err)
	}
	if err = w.Close(); err != nil {
		t.Fatalf("closing multipart writer failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
