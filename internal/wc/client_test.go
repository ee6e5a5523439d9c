package wc

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"wc-analyzer/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(storeURL string) *config.Config {
	return &config.Config{
		StoreURL:      storeURL,
		APIVersion:    "wc/v3",
		Timeout:       5 * time.Second,
		PerPage:       2,
		MaxRetries:    3,
		PageSleep:     0,
		RetrySleep:    0,
		LookbackDays:  90,
		ValidStatuses: []string{"completed", "processing"},
		VisitMetaKeys: []string{"_post_views_count", "post_views_count"},
	}
}

func TestDecodeRecordsStripsBanner(t *testing.T) {
	body := []byte(`<br/>
<b>Warning</b>: something deprecated in plugin.php on line 12
[{"id": 1}, {"id": 2}]`)

	records, err := decodeRecords(body)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestDecodeRecordsFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no json at all", "<html>maintenance</html>"},
		{"object instead of array", `{"code":"rest_forbidden"}`},
		{"truncated array", `[{"id": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeRecords([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestFetchCollectionPaginatesUntilEmptyPage(t *testing.T) {
	var pages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pages = append(pages, page)
		switch page {
		case "1", "2":
			fmt.Fprintf(w, `[{"id": %s1}, {"id": %s2}]`, page, page)
		default:
			fmt.Fprint(w, `[]`)
		}
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	records, state := client.fetchCollection(context.Background(), "products", nil)

	assert.Equal(t, stateDone, state)
	assert.Len(t, records, 4)
	// one page index per successful fetch, terminated by the empty page 3
	assert.Equal(t, []string{"1", "2", "3"}, pages)
}

func TestFetchCollectionRetriesFailingPageExactly(t *testing.T) {
	var mu sync.Mutex
	attemptsPerPage := map[string]int{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		mu.Lock()
		attemptsPerPage[page]++
		mu.Unlock()
		if page == "1" {
			fmt.Fprint(w, `[{"id": 1}]`)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	records, state := client.fetchCollection(context.Background(), "products", nil)

	// the failing page is attempted exactly MaxRetries times, then the loop
	// is abandoned keeping what page 1 produced
	assert.Equal(t, stateExhausted, state)
	assert.Len(t, records, 1)
	assert.Equal(t, 3, attemptsPerPage["2"])
	_, fetchedBeyond := attemptsPerPage["3"]
	assert.False(t, fetchedBeyond)
}

func TestFetchCollectionRecoversWithinRetryBudget(t *testing.T) {
	var mu sync.Mutex
	failures := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		if page == "1" {
			mu.Lock()
			failed := failures < 2
			if failed {
				failures++
			}
			mu.Unlock()
			if failed {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			fmt.Fprint(w, `[{"id": 1}]`)
			return
		}
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	records, state := client.fetchCollection(context.Background(), "products", nil)

	assert.Equal(t, stateDone, state)
	assert.Len(t, records, 1)
}

func TestFetchOrdersIteratesEveryStatus(t *testing.T) {
	var mu sync.Mutex
	statusPages := map[string][]string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		status := q.Get("status")
		mu.Lock()
		statusPages[status] = append(statusPages[status], q.Get("page"))
		mu.Unlock()

		if q.Get("after") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if q.Get("page") != "1" {
			fmt.Fprint(w, `[]`)
			return
		}
		switch status {
		case "completed":
			fmt.Fprint(w, `[{"id": 10, "status": "completed", "date_created": "2026-08-01T10:00:00",
				"line_items": [{"product_id": 1, "name": "A", "quantity": 2, "price": 5, "total": "10.00"}]}]`)
		case "processing":
			// this status is permanently broken
			w.WriteHeader(http.StatusInternalServerError)
		default:
			fmt.Fprint(w, `[]`)
		}
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	items := client.FetchOrders(context.Background())

	// the broken status is abandoned after its retry budget, the healthy one
	// still contributes
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 10.0, items[0].Total)
	assert.Equal(t, "completed", items[0].Status)
	assert.Len(t, statusPages["processing"], 3)
}

func TestFetchOrdersNoCrossStatusDeduplication(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("page") != "1" {
			fmt.Fprint(w, `[]`)
			return
		}
		// the backend filters by status; each status returns its own orders
		fmt.Fprintf(w, `[{"id": 1, "status": %q, "date_created": "2026-08-01T10:00:00",
			"line_items": [{"product_id": 7, "name": "X", "quantity": 1, "price": 3, "total": "3.00"}]}]`,
			q.Get("status"))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	items := client.FetchOrders(context.Background())

	// one fetch per configured status, concatenated as-is
	assert.Len(t, items, 2)
}

func TestProgressEventsEmitted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, `[{"id": 1}]`)
			return
		}
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	var events []ProgressEvent
	client.SetProgressListener(func(ev ProgressEvent) { events = append(events, ev) })

	client.fetchCollection(context.Background(), "products", nil)

	require.Len(t, events, 2)
	assert.Equal(t, "fetching", events[0].State)
	assert.Equal(t, "done", events[1].State)
	assert.Equal(t, "products", events[0].Resource)
}

func TestProgressEventsIncludeRetries(t *testing.T) {
	var mu sync.Mutex
	failed := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		firstAttempt := !failed
		failed = true
		mu.Unlock()
		if firstAttempt {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, `[{"id": 1}]`)
			return
		}
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	var states []string
	client.SetProgressListener(func(ev ProgressEvent) { states = append(states, ev.State) })

	client.fetchCollection(context.Background(), "products", nil)

	// one retrying event per failed attempt, then the normal fetch/done flow
	assert.Equal(t, []string{"retrying", "fetching", "done"}, states)
}

func TestFetchPageSendsAuthAndPaging(t *testing.T) {
	var captured map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.ConsumerKey = "ck_test"
	cfg.ConsumerSecret = "cs_test"
	client := NewClient(cfg)

	_, err := client.fetchPage(context.Background(), "products", nil, 4)
	require.NoError(t, err)

	assert.Equal(t, "ck_test", captured["consumer_key"][0])
	assert.Equal(t, "cs_test", captured["consumer_secret"][0])
	assert.Equal(t, "4", captured["page"][0])
	assert.Equal(t, "2", captured["per_page"][0])
}

func TestFetchPageRejectsNonArrayPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code": "woocommerce_rest_cannot_view"}`)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, err := client.fetchPage(context.Background(), "orders", map[string]string{"status": "completed"}, 1)
	assert.Error(t, err)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "fetching", stateFetching.String())
	assert.Equal(t, "retrying", stateRetrying.String())
	assert.Equal(t, "exhausted", stateExhausted.String())
	assert.Equal(t, "done", stateDone.String())
}
