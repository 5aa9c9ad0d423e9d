package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"decana/internal/types"
)

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok-123"))
	if _, err := c.ListProjects(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("auth header = %q", gotAuth)
	}
}

func TestClient_AnonymousWhenNoToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	if _, err := c.ListProjects(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
}

func TestClient_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.ListProjects(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v", err)
	}
}

func TestClient_DecodesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "criteria is required"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.CreateProject(context.Background(), "x", "")
	if err == nil || !strings.Contains(err.Error(), "criteria is required") {
		t.Fatalf("err = %v", err)
	}
}

func TestClient_CreateProject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/projects" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["title"] != "House hunt" {
			t.Errorf("body = %v", body)
		}
		_ = json.NewEncoder(w).Encode(types.Project{ID: "p1", Name: "House hunt"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	p, err := c.CreateProject(context.Background(), "House hunt", "")
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != "p1" {
		t.Fatalf("project = %+v", p)
	}
}

func TestClient_SubmitEvaluation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/projects/p%201/evaluate" && r.URL.Path != "/projects/p 1/evaluate" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body evaluateReq
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Alternative["price"] != 1.0 {
			t.Errorf("alternative = %v", body.Alternative)
		}
		if !body.Evaluation.MustHaveResults["m1"] {
			t.Errorf("evaluation = %+v", body.Evaluation)
		}
		_ = json.NewEncoder(w).Encode(types.AlternativeRecord{ID: "a1", TotalScore: 2.5})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	rec, err := c.SubmitEvaluation(context.Background(), "p 1",
		map[string]any{"price": 1.0},
		types.Evaluation{MustHaveResults: map[string]bool{"m1": true}})
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID != "a1" || rec.TotalScore != 2.5 {
		t.Fatalf("record = %+v", rec)
	}
}

func TestClient_ListCriteriaQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("projectId"); got != "p1" {
			t.Errorf("projectId = %q", got)
		}
		_, _ = w.Write([]byte(`{"must_have": [], "want": []}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	if _, err := c.ListCriteria(context.Background(), "p1"); err != nil {
		t.Fatal(err)
	}
}

func TestClient_SignIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/signin" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "a@b.c" || body["password"] != "secret" {
			t.Errorf("body = %v", body)
		}
		_, _ = w.Write([]byte(`{"accessToken": "tok", "user_id": "u1", "email": "a@b.c"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	info, err := c.SignIn(context.Background(), "a@b.c", "secret")
	if err != nil {
		t.Fatal(err)
	}
	if info.AccessToken != "tok" || info.Email != "a@b.c" {
		t.Fatalf("info = %+v", info)
	}
}
