package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/me/servq/internal/catalog"
	"github.com/me/servq/internal/notify"
	"github.com/me/servq/internal/scheduler"
	"github.com/me/servq/pkg/model"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))

	tiers := []model.TierInfo{
		{Tier: model.TierA, DisplayName: "VIP", Rank: 1, Multiplier: 2.5, BaseCharge: 25},
		{Tier: model.TierB, DisplayName: "Mid-Range", Rank: 2, Multiplier: 1.5, BaseCharge: 15},
		{Tier: model.TierC, DisplayName: "Economy", Rank: 3, Multiplier: 1.0, BaseCharge: 10},
	}
	specs := []catalog.ZoneSpec{
		{Tier: model.TierC, FirstZone: 1, LastZone: 1, RoomsPerZone: 5},
		{Tier: model.TierB, FirstZone: 4, LastZone: 4, RoomsPerZone: 5},
		{Tier: model.TierA, FirstZone: 7, LastZone: 7, RoomsPerZone: 5},
	}
	cat, err := catalog.New(specs, tiers)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}

	core := scheduler.NewCore(cat, logger)
	pools := map[model.Tier][]string{
		model.TierA: {"Alice (Butler)"},
		model.TierB: {"Bob (Staff)"},
		model.TierC: {"Carol (Housekeeper)"},
	}
	loop := scheduler.NewLoop(core, pools, scheduler.DefaultConfig(), logger)
	t.Cleanup(loop.Stop)

	bc := notify.NewBroadcaster(logger)
	return New(cat, core, loop, nil, bc, logger)
}

// envelope is used to decode the standard response envelope.
type envelope struct {
	Status    string          `json:"status"`
	RequestID string          `json:"request_id"`
	Timestamp string          `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
	Error     *model.APIError `json:"error"`
}

func doGet(t *testing.T, srv *Server, path string) envelope {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s: status=%d, want 200, body=%s", path, w.Code, w.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("GET %s: invalid JSON: %v", path, err)
	}
	return env
}

func doPost(t *testing.T, srv *Server, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	var env envelope
	json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func doPut(t *testing.T, srv *Server, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest("PUT", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	var env envelope
	json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func doDelete(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("DELETE", path, nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func TestDiscovery(t *testing.T) {
	srv := testServer(t)
	env := doGet(t, srv, "/api/v1/")
	if env.Status != "ok" {
		t.Errorf("status = %q, want ok", env.Status)
	}
	if !strings.HasPrefix(env.RequestID, "req_") {
		t.Errorf("request_id = %q, want req_ prefix", env.RequestID)
	}

	var data struct {
		Name      string   `json:"name"`
		Endpoints []string `json:"endpoints"`
	}
	json.Unmarshal(env.Data, &data)
	if data.Name != "servq" {
		t.Errorf("name = %q, want servq", data.Name)
	}
	if len(data.Endpoints) < 10 {
		t.Errorf("endpoints count = %d, want >= 10", len(data.Endpoints))
	}
}

func TestHealth(t *testing.T) {
	srv := testServer(t)
	env := doGet(t, srv, "/api/v1/health")

	var data struct {
		Status   string `json:"status"`
		Dispatch string `json:"dispatch"`
		Rooms    int    `json:"rooms"`
	}
	json.Unmarshal(env.Data, &data)
	if data.Status != "healthy" {
		t.Errorf("status = %q, want healthy", data.Status)
	}
	if data.Dispatch != "idle" {
		t.Errorf("dispatch = %q, want idle", data.Dispatch)
	}
	if data.Rooms != 15 {
		t.Errorf("rooms = %d, want 15", data.Rooms)
	}
}

func TestAdmitTask(t *testing.T) {
	srv := testServer(t)
	w, env := doPost(t, srv, "/api/v1/tasks/",
		`{"room":"701","type":"Butler Service","minutes":10,"description":"extra towels"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d, want 201, body=%s", w.Code, w.Body.String())
	}
	var task model.Task
	json.Unmarshal(env.Data, &task)
	if task.Room != "701" || task.Tier != model.TierA {
		t.Errorf("room=%s tier=%s, want 701/Tier-A", task.Room, task.Tier)
	}
	if task.Rank != 1 || task.Charge != 62.5 {
		t.Errorf("rank=%d charge=%.2f, want 1/62.50", task.Rank, task.Charge)
	}
	if task.Status != model.TaskPending {
		t.Errorf("status = %s, want Pending", task.Status)
	}
}

func TestAdmitTask_UnknownRoom(t *testing.T) {
	srv := testServer(t)
	w, env := doPost(t, srv, "/api/v1/tasks/", `{"room":"9999","type":"Housekeeping","minutes":10}`)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404, body=%s", w.Code, w.Body.String())
	}
	if env.Error == nil || env.Error.Code != model.ErrNotFound {
		t.Errorf("error = %+v, want NOT_FOUND", env.Error)
	}
}

func TestAdmitTask_InvalidDuration(t *testing.T) {
	srv := testServer(t)
	w, env := doPost(t, srv, "/api/v1/tasks/", `{"room":"101","type":"Housekeeping","minutes":0}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400, body=%s", w.Code, w.Body.String())
	}
	if env.Error == nil || env.Error.Code != model.ErrValidation {
		t.Errorf("error = %+v, want VALIDATION_ERROR", env.Error)
	}
}

func TestAdmitTask_MissingFields(t *testing.T) {
	srv := testServer(t)
	w, _ := doPost(t, srv, "/api/v1/tasks/", `{"minutes":10}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", w.Code)
	}
}

func TestQuickAdmit(t *testing.T) {
	srv := testServer(t)
	w, env := doPost(t, srv, "/api/v1/tasks/quick", `{"tier":"Tier-B","type":"Room Service","minutes":20}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d, want 201, body=%s", w.Code, w.Body.String())
	}
	var task model.Task
	json.Unmarshal(env.Data, &task)
	if task.Tier != model.TierB {
		t.Errorf("tier = %s, want Tier-B", task.Tier)
	}
	if !strings.HasPrefix(task.Room, "4") {
		t.Errorf("room = %s, want zone 4 room", task.Room)
	}
}

func TestQuickAdmit_UnknownTier(t *testing.T) {
	srv := testServer(t)
	w, _ := doPost(t, srv, "/api/v1/tasks/quick", `{"tier":"Tier-X","type":"Service","minutes":5}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", w.Code)
	}
}

func TestListTasks_ScheduledOrder(t *testing.T) {
	srv := testServer(t)

	// Economy first, VIP second; Priority policy must list VIP first.
	doPost(t, srv, "/api/v1/tasks/", `{"room":"101","type":"Housekeeping","minutes":30}`)
	doPost(t, srv, "/api/v1/tasks/", `{"room":"701","type":"Butler Service","minutes":10}`)

	env := doGet(t, srv, "/api/v1/tasks/")
	var data struct {
		Policy model.Policy `json:"policy"`
		Tasks  []model.Task `json:"tasks"`
	}
	json.Unmarshal(env.Data, &data)
	if data.Policy != model.PolicyPriority {
		t.Errorf("policy = %s, want Priority", data.Policy)
	}
	if len(data.Tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(data.Tasks))
	}
	if data.Tasks[0].Tier != model.TierA || data.Tasks[1].Tier != model.TierC {
		t.Errorf("order = %s, %s; want Tier-A first", data.Tasks[0].Tier, data.Tasks[1].Tier)
	}
}

func TestGetTask(t *testing.T) {
	srv := testServer(t)
	_, created := doPost(t, srv, "/api/v1/tasks/", `{"room":"101","type":"Housekeeping","minutes":5}`)
	var task model.Task
	json.Unmarshal(created.Data, &task)

	env := doGet(t, srv, "/api/v1/tasks/1")
	var got model.Task
	json.Unmarshal(env.Data, &got)
	if got.ID != task.ID || got.Room != "101" {
		t.Errorf("got = %+v, want task %d for room 101", got, task.ID)
	}
}

func TestGetTask_NotFound(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest("GET", "/api/v1/tasks/42", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", w.Code)
	}
}

func TestClearTasks(t *testing.T) {
	srv := testServer(t)
	doPost(t, srv, "/api/v1/tasks/", `{"room":"101","type":"Housekeeping","minutes":5}`)

	w := doDelete(t, srv, "/api/v1/tasks/")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}

	env := doGet(t, srv, "/api/v1/tasks/")
	var data struct {
		Tasks []model.Task `json:"tasks"`
	}
	json.Unmarshal(env.Data, &data)
	if len(data.Tasks) != 0 {
		t.Errorf("tasks = %d after clear, want 0", len(data.Tasks))
	}
}

func TestListRooms_TierFilter(t *testing.T) {
	srv := testServer(t)
	env := doGet(t, srv, "/api/v1/rooms/?tier=Tier-A")

	var data struct {
		Tier  model.Tier `json:"tier"`
		Rooms []string   `json:"rooms"`
	}
	json.Unmarshal(env.Data, &data)
	if data.Tier != model.TierA {
		t.Errorf("tier = %s, want Tier-A", data.Tier)
	}
	if len(data.Rooms) != 5 {
		t.Errorf("rooms = %d, want 5", len(data.Rooms))
	}
}

func TestGetRoom(t *testing.T) {
	srv := testServer(t)
	env := doGet(t, srv, "/api/v1/rooms/405/")

	var room model.Resource
	json.Unmarshal(env.Data, &room)
	if room.Number != "405" || room.Tier != model.TierB || room.Zone != 4 {
		t.Errorf("room = %+v, want 405/Tier-B/zone 4", room)
	}
}

func TestCheckInOut(t *testing.T) {
	srv := testServer(t)

	w, env := doPut(t, srv, "/api/v1/rooms/101/checkin", `{"guest":"Ada"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("checkin status=%d, body=%s", w.Code, w.Body.String())
	}
	var room model.Resource
	json.Unmarshal(env.Data, &room)
	if !room.Occupied || room.Guest != "Ada" {
		t.Errorf("room = %+v, want occupied by Ada", room)
	}

	// Double check-in conflicts.
	w, _ = doPut(t, srv, "/api/v1/rooms/101/checkin", `{"guest":"Bea"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("second checkin status=%d, want 409", w.Code)
	}

	w, env = doPut(t, srv, "/api/v1/rooms/101/checkout", "")
	if w.Code != http.StatusOK {
		t.Fatalf("checkout status=%d, body=%s", w.Code, w.Body.String())
	}
	json.Unmarshal(env.Data, &room)
	if room.Occupied || room.Guest != "" {
		t.Errorf("room = %+v, want vacant", room)
	}
}

func TestSchedulerPolicy(t *testing.T) {
	srv := testServer(t)

	env := doGet(t, srv, "/api/v1/scheduler/policy")
	var data struct {
		Policy    model.Policy `json:"policy"`
		Available []struct {
			Name string `json:"name"`
		} `json:"available"`
	}
	json.Unmarshal(env.Data, &data)
	if data.Policy != model.PolicyPriority {
		t.Errorf("policy = %s, want Priority", data.Policy)
	}
	if len(data.Available) != 4 {
		t.Errorf("available = %d, want 4", len(data.Available))
	}

	w, env := doPut(t, srv, "/api/v1/scheduler/policy", `{"policy":"ShortestJobFirst"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("set policy status=%d, body=%s", w.Code, w.Body.String())
	}
	var set struct {
		Policy model.Policy `json:"policy"`
	}
	json.Unmarshal(env.Data, &set)
	if set.Policy != model.PolicyShortestJobFirst {
		t.Errorf("policy = %s, want ShortestJobFirst", set.Policy)
	}
}

func TestSchedulerPolicy_Unknown(t *testing.T) {
	srv := testServer(t)
	w, _ := doPut(t, srv, "/api/v1/scheduler/policy", `{"policy":"Lottery"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", w.Code)
	}
}

func TestSchedulerStartStop(t *testing.T) {
	srv := testServer(t)

	env := doGet(t, srv, "/api/v1/scheduler/status")
	var status struct {
		Running bool `json:"running"`
	}
	json.Unmarshal(env.Data, &status)
	if status.Running {
		t.Fatal("loop running before start")
	}

	w, _ := doPost(t, srv, "/api/v1/scheduler/start", "")
	if w.Code != http.StatusOK {
		t.Fatalf("start status=%d", w.Code)
	}
	env = doGet(t, srv, "/api/v1/scheduler/status")
	json.Unmarshal(env.Data, &status)
	if !status.Running {
		t.Error("loop not running after start")
	}

	w, _ = doPost(t, srv, "/api/v1/scheduler/stop", "")
	if w.Code != http.StatusOK {
		t.Fatalf("stop status=%d", w.Code)
	}
	env = doGet(t, srv, "/api/v1/scheduler/status")
	json.Unmarshal(env.Data, &status)
	if status.Running {
		t.Error("loop still running after stop")
	}
}

func TestStats_NilArchive(t *testing.T) {
	srv := testServer(t)
	env := doGet(t, srv, "/api/v1/stats")

	var stats []model.TierStats
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatalf("stats payload: %v", err)
	}
	if len(stats) != 0 {
		t.Errorf("stats = %v, want empty", stats)
	}
}
