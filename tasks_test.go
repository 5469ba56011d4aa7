package sdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTaskLifecycleEvents(t *testing.T) {
	var events []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var event struct {
			Event   string         `json:"event"`
			Payload map[string]any `json:"payload"`
		}
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		events = append(events, event.Event)
		if event.Payload["task_uuid"] != "task-1" {
			t.Fatalf("missing task uuid in %+v", event.Payload)
		}
		switch event.Event {
		case "task-complete":
			result, _ := event.Payload["result"].(map[string]any)
			if result["rows"] != float64(3) {
				t.Fatalf("missing result payload %+v", event.Payload)
			}
		case "task-fail":
			if event.Payload["error"] != "disk full" {
				t.Fatalf("missing error payload %+v", event.Payload)
			}
		case "task-start":
			if event.Payload["machine_id"] != "worker-7" {
				t.Fatalf("missing machine id %+v", event.Payload)
			}
		}
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()
	client := newTestClient(t, srv)

	ctx := context.Background()
	if err := client.Tasks.Start(ctx, "task-1", "worker-7"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := client.Tasks.Complete(ctx, "task-1", map[string]any{"rows": 3}, ""); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := client.Tasks.Fail(ctx, "task-1", "disk full", ""); err != nil {
		t.Fatalf("fail: %v", err)
	}
	want := []string{"task-start", "task-complete", "task-fail"}
	if len(events) != len(want) {
		t.Fatalf("unexpected events %v", events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("event %d: got %q want %q", i, events[i], want[i])
		}
	}
}

func TestTaskEventRequiresUUID(t *testing.T) {
	clearIdentityEnv(t)
	client, err := NewClient(Config{AppID: "app-1"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.Tasks.Start(context.Background(), "", ""); err == nil {
		t.Fatalf("expected validation error for empty task uuid")
	}
}
