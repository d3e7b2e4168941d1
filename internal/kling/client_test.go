package kling

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTaskStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		name     string
		status   TaskStatus
		terminal bool
	}{
		{"submitted", StatusSubmitted, false},
		{"processing", StatusProcessing, false},
		{"failed", StatusFailed, true},
		{"completed", StatusCompleted, true},
		{"unknown", TaskStatus(42), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.terminal {
				t.Errorf("TaskStatus(%d).IsTerminal() = %v, want %v", tt.status, got, tt.terminal)
			}
		})
	}
}

func TestNewClient_MissingCookie(t *testing.T) {
	_, err := NewClient("")
	if err == nil {
		t.Error("expected error for missing cookie")
	}
}

func TestNewClient_Success(t *testing.T) {
	client, err := NewClient("session=abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client == nil {
		t.Fatal("expected non-nil client")
	}
}

func TestCreateTask_TextToVideo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/task/submit" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Cookie") != "session=abc" {
			t.Errorf("expected session cookie, got %s", r.Header.Get("Cookie"))
		}

		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		if req.Type != taskTypeText2Video {
			t.Errorf("expected type %s, got %s", taskTypeText2Video, req.Type)
		}
		args := map[string]string{}
		for _, a := range req.Arguments {
			args[a.Name] = a.Value
		}
		if args["prompt"] != "a cat surfing" {
			t.Errorf("expected prompt argument, got %q", args["prompt"])
		}
		if args["kling_version"] != "1.5" {
			t.Errorf("expected kling_version 1.5, got %q", args["kling_version"])
		}
		if args["video_quality"] != "high" {
			t.Errorf("expected video_quality high, got %q", args["video_quality"])
		}

		_, _ = w.Write([]byte(`{"status":200,"data":{"task":{"id":123456}}}`))
	}))
	defer server.Close()

	client, _ := NewClient("session=abc", WithBaseURL(server.URL))

	taskID, err := client.CreateTask(context.Background(), TaskInput{
		Prompt:      "a cat surfing",
		HighQuality: true,
		ModelName:   "1.5",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if taskID != "123456" {
		t.Errorf("expected task ID 123456, got %s", taskID)
	}
}

func TestCreateTask_ImageToVideo(t *testing.T) {
	imagePath := filepath.Join(t.TempDir(), "source.jpg")
	if err := os.WriteFile(imagePath, []byte("jpeg-bytes"), 0600); err != nil {
		t.Fatalf("write image: %v", err)
	}

	var uploaded bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/upload":
			uploaded = true
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("parse multipart: %v", err)
			}
			f, header, err := r.FormFile("file")
			if err != nil {
				t.Errorf("missing file part: %v", err)
			} else {
				_ = f.Close()
				if header.Filename != "source.jpg" {
					t.Errorf("expected filename source.jpg, got %s", header.Filename)
				}
			}
			_, _ = w.Write([]byte(`{"status":200,"data":{"url":"https://cdn.example.com/source.jpg"}}`))
		case "/api/task/submit":
			var req submitRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("failed to decode request body: %v", err)
			}
			if req.Type != taskTypeImage2Video {
				t.Errorf("expected type %s, got %s", taskTypeImage2Video, req.Type)
			}
			if len(req.Inputs) != 1 || req.Inputs[0].URL != "https://cdn.example.com/source.jpg" {
				t.Errorf("expected uploaded image input, got %+v", req.Inputs)
			}
			_, _ = w.Write([]byte(`{"status":200,"data":{"task":{"id":"789"}}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, _ := NewClient("session=abc", WithBaseURL(server.URL))

	taskID, err := client.CreateTask(context.Background(), TaskInput{
		Prompt:    "animate this",
		ImagePath: imagePath,
		ModelName: "1.5",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !uploaded {
		t.Error("expected image upload before submission")
	}
	if taskID != "789" {
		t.Errorf("expected task ID 789, got %s", taskID)
	}
}

func TestCreateTask_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":401,"message":"invalid cookie"}`))
	}))
	defer server.Close()

	client, _ := NewClient("session=abc", WithBaseURL(server.URL))

	_, err := client.CreateTask(context.Background(), TaskInput{Prompt: "a cat"})
	if err == nil {
		t.Error("expected error for api-level failure")
	}
}

func TestCreateTask_NoTaskID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":200,"data":{"task":{}}}`))
	}))
	defer server.Close()

	client, _ := NewClient("session=abc", WithBaseURL(server.URL))

	_, err := client.CreateTask(context.Background(), TaskInput{Prompt: "a cat"})
	if err == nil {
		t.Error("expected error when no task ID is returned")
	}
}

func TestFetchMetadata_Statuses(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus TaskStatus
		wantWorks  []string
	}{
		{
			name:       "processing",
			body:       `{"status":200,"data":{"status":10,"works":[]}}`,
			wantStatus: StatusProcessing,
			wantWorks:  []string{},
		},
		{
			name:       "failed",
			body:       `{"status":200,"data":{"status":50,"works":[]}}`,
			wantStatus: StatusFailed,
			wantWorks:  []string{},
		},
		{
			name:       "completed with works",
			body:       `{"status":200,"data":{"status":99,"works":[{"workId":11},{"workId":"22"}]}}`,
			wantStatus: StatusCompleted,
			wantWorks:  []string{"11", "22"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/task/task-1" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, _ := NewClient("session=abc", WithBaseURL(server.URL))

			meta, err := client.FetchMetadata(context.Background(), "task-1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if meta.Status != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, meta.Status)
			}
			if len(meta.Works) != len(tt.wantWorks) {
				t.Fatalf("expected %d works, got %d", len(tt.wantWorks), len(meta.Works))
			}
			for i, id := range tt.wantWorks {
				if meta.Works[i].WorkID != id {
					t.Errorf("work %d: expected ID %s, got %s", i, id, meta.Works[i].WorkID)
				}
			}
		})
	}
}

func TestFetchMetadata_EmptyTaskID(t *testing.T) {
	client, _ := NewClient("session=abc")

	_, err := client.FetchMetadata(context.Background(), "")
	if err == nil {
		t.Error("expected error for empty task ID")
	}
}

func TestFetchMetadata_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, _ := NewClient("session=abc", WithBaseURL(server.URL))

	_, err := client.FetchMetadata(context.Background(), "task-1")
	if err == nil {
		t.Error("expected error for 502 response")
	}
}

func TestFetchWorkResource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/works/work-9/resource" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":200,"data":{"resource":"https://cdn.example.com/video.mp4"}}`))
	}))
	defer server.Close()

	client, _ := NewClient("session=abc", WithBaseURL(server.URL))

	resource, err := client.FetchWorkResource(context.Background(), "work-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resource != "https://cdn.example.com/video.mp4" {
		t.Errorf("unexpected resource %s", resource)
	}
}

func TestFetchWorkResource_EmptyWorkID(t *testing.T) {
	client, _ := NewClient("session=abc")

	_, err := client.FetchWorkResource(context.Background(), "")
	if err == nil {
		t.Error("expected error for empty work ID")
	}
}

func TestFetchMetadata_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Second) // Simulate slow response
	}))
	defer server.Close()

	client, _ := NewClient("session=abc", WithBaseURL(server.URL))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := client.FetchMetadata(ctx, "task-1")
	if err == nil {
		t.Error("expected error due to context cancellation")
	}
}
