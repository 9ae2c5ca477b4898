package tests

import (
	"encoding/json"
	"net/http"
	"testing"
)

func Test_eventGridApi_receive(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{
			name:     "single object",
			method:   http.MethodPost,
			path:     "/eventgrid/events",
			body:     []byte(`{"id":"1","eventType":"other.event","subject":"s"}`),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]interface{}{"status": "success", "processed_events": 1}),
		},
		{
			name:     "array",
			method:   http.MethodPost,
			path:     "/eventgrid/events",
			body:     []byte(`[{"id":"2","eventType":"a"},{"id":"3","eventType":"b"}]`),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]interface{}{"status": "success", "processed_events": 2}),
		},
		{
			name:     "legacy webhook alias",
			method:   http.MethodPost,
			path:     "/webhook/events",
			body:     []byte(`{"id":"4","eventType":"c"}`),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]interface{}{"status": "success", "processed_events": 1}),
		},
		{
			name:     "invalid JSON",
			method:   http.MethodPost,
			path:     "/eventgrid/events",
			body:     []byte(`not json`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "Invalid JSON format"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_eventGridApi_listAndClear(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodPost, "/eventgrid/events", []byte(`[{"id":"1","eventType":"a"},{"id":"2","eventType":"b"}]`))
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("seed post failed: %d", rec.Code)
	}

	// list
	req, rec = newRequest(http.MethodGet, "/eventgrid/events")
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list code = %d", rec.Code)
	}
	var listResp struct {
		Events []struct {
			ID         string `json:"id"`
			ReceivedAt string `json:"receivedAt"`
		} `json:"events"`
		TotalCount  int    `json:"total_count"`
		LastUpdated string `json:"last_updated"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decoding list response: %v", err)
	}
	if listResp.TotalCount != 2 || len(listResp.Events) != 2 {
		t.Errorf("total_count = %d, len = %d; want 2, 2", listResp.TotalCount, len(listResp.Events))
	}
	if listResp.Events[0].ID != "1" {
		t.Errorf("oldest event id = %s; want 1", listResp.Events[0].ID)
	}
	if listResp.Events[0].ReceivedAt == "" {
		t.Error("receivedAt not stamped")
	}
	if listResp.LastUpdated == "" {
		t.Error("last_updated missing")
	}

	// clear
	req, rec = newRequest(http.MethodDelete, "/eventgrid/events")
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, map[string]interface{}{"status": "cleared", "cleared_events": 2}),
	}, rec)

	// list is empty now
	req, rec = newRequest(http.MethodGet, "/eventgrid/events")
	app.server.ServeHTTP(rec, req)
	if err := json.Unmarshal(rec.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decoding list response: %v", err)
	}
	if listResp.TotalCount != 0 {
		t.Errorf("total_count after clear = %d; want 0", listResp.TotalCount)
	}
}
