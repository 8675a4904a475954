package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(srv.URL, 5*time.Second), srv
}

func TestMeAttachesBearerToken(t *testing.T) {
	var gotAuth string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"user":{"id":7,"displayName":"Aki","email":"aki@example.com"}}`))
	})
	defer srv.Close()

	client.SetToken("tok123")
	user, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
	if user.ID != 7 || user.DisplayName != "Aki" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestPostCommentAttachesBearerToken(t *testing.T) {
	var gotAuth string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"comment":{"status":"pending"}}`))
	})
	defer srv.Close()

	client.SetToken("T")
	status, err := client.PostComment(context.Background(), "hello-world", "nice post", 0)
	if err != nil {
		t.Fatalf("PostComment: %v", err)
	}
	if gotAuth != "Bearer T" {
		t.Errorf("expected Authorization: Bearer T, got %q", gotAuth)
	}
	if status != StatusPending {
		t.Errorf("expected pending status, got %q", status)
	}
}

func TestListCommentsEscapesSlug(t *testing.T) {
	var gotSlug string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotSlug = r.URL.Query().Get("slug")
		w.Write([]byte(`{"comments":[]}`))
	})
	defer srv.Close()

	if _, err := client.ListComments(context.Background(), "a post & more"); err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if gotSlug != "a post & more" {
		t.Errorf("slug did not round-trip, got %q", gotSlug)
	}
}

func TestServerRejectionCarriesMessage(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"too many requests"}`))
	})
	defer srv.Close()

	err := client.SendOTP(context.Background(), "a@b.c", "A", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsRejection(err) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if got := UserMessage(err); got != "too many requests" {
		t.Errorf("expected server message verbatim, got %q", got)
	}
}

func TestServerRejectionDefaultMessage(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`oops`))
	})
	defer srv.Close()

	err := client.SendOTP(context.Background(), "a@b.c", "A", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := UserMessage(err); got != DefaultErrorMessage {
		t.Errorf("expected default message, got %q", got)
	}
}

func TestNetworkFailureIsNotRejection(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {})
	srv.Close() // connection refused from here on

	err := client.SendOTP(context.Background(), "a@b.c", "A", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if IsRejection(err) {
		t.Errorf("network failure must not look like a server rejection: %v", err)
	}
}

func TestVerifyOTPReturnsTokenAndUser(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/otp/verify" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"token":"abc","user":{"id":1,"displayName":"Mio","email":"m@x.y"}}`))
	})
	defer srv.Close()

	res, err := client.VerifyOTP(context.Background(), "m@x.y", "123456", "Mio")
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	if res.Token != "abc" || res.User.DisplayName != "Mio" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestGitHubLoginURL(t *testing.T) {
	client := New("https://api.example.com/", time.Second)
	got := client.GitHubLoginURL("http://127.0.0.1:9999/callback")
	want := "https://api.example.com/auth/github/login?redirect=http%3A%2F%2F127.0.0.1%3A9999%2Fcallback"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
