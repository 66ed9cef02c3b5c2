package service_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
)

const testOrganization int64 = 7

// fakeHubstaff serves canned pages of the v2 API keyed by path and page_start_id.
type fakeHubstaff struct {
	mu sync.Mutex

	// acceptToken is the only bearer token the API accepts.
	acceptToken string
	// issueToken is handed out by POST /access_tokens.
	issueToken string

	pages    map[string]string
	failures map[string][]int
	hits     map[string]int
	queries  []map[string]string
	total    int
}

func newFakeHubstaff(t *testing.T) (*fakeHubstaff, *httptest.Server) {
	t.Helper()

	f := &fakeHubstaff{
		acceptToken: "test-token",
		pages:       map[string]string{},
		failures:    map[string][]int{},
		hits:        map[string]int{},
	}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)

	return f, srv
}

func pageKey(resource string, cursor string) string {
	return resource + "@" + cursor
}

func resourcePath(resource string) string {
	return "/v2/organizations/" + strconv.FormatInt(testOrganization, 10) + "/" + resource
}

// page registers the body served for resource at cursor ("" is the first page).
func (f *fakeHubstaff) page(resource, cursor, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[pageKey(resource, cursor)] = body
}

// fail makes the next requests for resource at cursor answer with statuses, in order.
func (f *fakeHubstaff) fail(resource, cursor string, statuses ...int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[pageKey(resource, cursor)] = append(f.failures[pageKey(resource, cursor)], statuses...)
}

func (f *fakeHubstaff) hitsOf(resource, cursor string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[pageKey(resource, cursor)]
}

func (f *fakeHubstaff) tokenHits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits["access_tokens"]
}

// query returns the query parameters of the i-th API request.
func (f *fakeHubstaff) query(i int) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i >= len(f.queries) {
		return nil
	}
	return f.queries[i]
}

func (f *fakeHubstaff) totalHits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.total
}

func (f *fakeHubstaff) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.total++

	if r.Method == http.MethodPost && r.URL.Path == "/access_tokens" {
		f.hits["access_tokens"]++
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "refresh_token" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"` + f.issueToken + `","refresh_token":"rotated","expires_in":86400}`))
		return
	}

	prefix := resourcePath("")
	if !strings.HasPrefix(r.URL.Path, prefix) {
		http.NotFound(w, r)
		return
	}
	resource := strings.TrimPrefix(r.URL.Path, prefix)
	key := pageKey(resource, r.URL.Query().Get("page_start_id"))
	f.hits[key]++

	query := map[string]string{}
	for k := range r.URL.Query() {
		query[k] = r.URL.Query().Get(k)
	}
	f.queries = append(f.queries, query)

	if r.Header.Get("Authorization") != "Bearer "+f.acceptToken {
		http.Error(w, `{"error":"invalid_token"}`, http.StatusUnauthorized)
		return
	}
	if queue := f.failures[key]; len(queue) > 0 {
		f.failures[key] = queue[1:]
		http.Error(w, `{"error":"unavailable"}`, queue[0])
		return
	}

	body, ok := f.pages[key]
	if !ok {
		body = emptyPage(resource)
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func emptyPage(resource string) string {
	switch resource {
	case "activities/daily":
		return `{"daily_activities":[],"pagination":{}}`
	case "members":
		return `{"members":[],"users":[],"pagination":{}}`
	default:
		return `{"` + resource + `":[],"pagination":{}}`
	}
}

type record map[string]interface{}

func dailyActivity(id int64, date string, userID, projectID, tracked int64) record {
	return record{
		"id":         id,
		"date":       date,
		"user_id":    userID,
		"project_id": projectID,
		"task_id":    nil,
		"tracked":    tracked,
		"overall":    tracked / 2,
		"created_at": "2024-02-08T00:00:00Z",
		"updated_at": "2024-02-08T00:00:00Z",
	}
}

func project(id int64, name string) record {
	return record{
		"id":         id,
		"name":       name,
		"status":     "active",
		"created_at": "2024-01-01T00:00:00Z",
		"updated_at": "2024-01-01T00:00:00Z",
	}
}

func user(id int64, name string) record {
	return record{
		"id":         id,
		"name":       name,
		"email":      strings.ToLower(name) + "@example.com",
		"time_zone":  "UTC",
		"status":     "active",
		"created_at": "2024-01-01T00:00:00Z",
		"updated_at": "2024-01-01T00:00:00Z",
	}
}

// listPage renders a list response under key with an optional next cursor.
func listPage(t *testing.T, key string, items []record, next *int64) string {
	t.Helper()

	pagination := record{}
	if next != nil {
		pagination["next_page_start_id"] = *next
	}
	b, err := json.Marshal(record{key: items, "pagination": pagination})
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func membersPage(t *testing.T, users []record, next *int64) string {
	t.Helper()

	members := make([]record, 0, len(users))
	for _, u := range users {
		members = append(members, record{"user_id": u["id"], "membership_role": "user"})
	}
	pagination := record{}
	if next != nil {
		pagination["next_page_start_id"] = *next
	}
	b, err := json.Marshal(record{"members": members, "users": users, "pagination": pagination})
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func cursor(v int64) *int64 {
	return &v
}
