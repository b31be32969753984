package main

import (
	"benchstore/internal/models"
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

const (
	baseURL       = "http://127.0.0.1:8080"
	numWorkers    = 20
	phaseDuration = 10 * time.Second
	numBenchmarks = 40
)

var categories = []string{"Go Benchmark", "Parser", "Storage", "k8s/e2e"}

var units = []string{"ns/op", "B/op", "allocs/op", "MB/s"}

var httpClient = &http.Client{
	Timeout: 10 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== BenchStore Load Test ===")
	fmt.Printf("Workers: %d | Phase: %s | Benchmarks per entry: %d\n\n", numWorkers, phaseDuration, numBenchmarks)

	fmt.Print("Waiting for server... ")
	if !waitForServer() {
		fmt.Println("FAILED: server not responding")
		return
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Appending entries (POST /entries) ---")
	runPhase(phaseDuration, doAppend)

	// data.js grows with every append, so reads get slower over time
	fmt.Println("\n--- Phase 2: Dashboard reads (90% GET /data.js) ---")
	runPhase(phaseDuration, func(rng *rand.Rand) result {
		switch r := rng.Float64(); {
		case r < 0.90:
			return get("/data.js")
		case r < 0.95:
			return get("/categories")
		default:
			return get("/entries?category=" + url.QueryEscape(categories[rng.Intn(len(categories))]))
		}
	})

	fmt.Println("\n--- Phase 3: Mixed (20% POST, 80% GET) ---")
	runPhase(phaseDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.20 {
			return doAppend(rng)
		}
		return get("/data.js")
	})
}

func waitForServer() bool {
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return true
		}
		time.Sleep(200 * time.Millisecond)
	}
	return false
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 1000)
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					results <- workFn(rng)
				}
			}
		}(time.Now().UnixNano() + int64(i))
	}

	byEndpoint := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := byEndpoint[r.endpoint]
			if !ok {
				s = &stats{}
				byEndpoint[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printStats(byEndpoint, duration)
}

func printStats(byEndpoint map[string]*stats, duration time.Duration) {
	endpoints := make([]string, 0, len(byEndpoint))
	for ep := range byEndpoint {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-20s %8s %6s %10s %10s %10s\n", "Endpoint", "Reqs", "Errs", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 70))

	var total, errs int64
	for _, ep := range endpoints {
		s := byEndpoint[ep]
		total += s.count
		errs += s.errors
		sort.Slice(s.latencies, func(i, j int) bool { return s.latencies[i] < s.latencies[j] })
		fmt.Printf("  %-20s %8d %6d %10s %10s %10s\n", ep, s.count, s.errors,
			percentile(s.latencies, 0.50), percentile(s.latencies, 0.95), percentile(s.latencies, 0.99))
	}

	fmt.Println("  " + strings.Repeat("-", 70))
	if total == 0 {
		fmt.Println("  no requests completed")
		return
	}
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		total, errs, float64(errs)/float64(total)*100, float64(total)/duration.Seconds())
}

func randomEntry(rng *rand.Rand) models.Entry {
	id := fmt.Sprintf("%040x", rng.Uint64())
	benches := make([]models.BenchResult, 0, numBenchmarks)
	for i := 0; i < numBenchmarks; i++ {
		unit := units[i%len(units)]
		benches = append(benches, models.BenchResult{
			Name:  fmt.Sprintf("BenchmarkLoad%d - %s", i/len(units), unit),
			Value: 100 + rng.Float64()*50,
			Unit:  unit,
			Extra: fmt.Sprintf("%d times\n8 procs", 1000+rng.Intn(100000)),
		})
	}
	return models.Entry{
		Commit: models.CommitInfo{
			Author:    models.Person{Name: "load", Email: "load@example.com"},
			Committer: models.Person{Name: "load", Email: "load@example.com"},
			ID:        id,
			Message:   "load test",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			URL:       "https://github.com/org/repo/commit/" + id,
		},
		Date:    time.Now().UnixMilli(),
		Tool:    "go",
		Benches: benches,
	}
}

func doAppend(rng *rand.Rand) result {
	body, _ := json.Marshal(randomEntry(rng))
	target := baseURL + "/entries?category=" + url.QueryEscape(categories[rng.Intn(len(categories))])

	start := time.Now()
	resp, err := httpClient.Post(target, "application/json", bytes.NewReader(body))
	return finish("POST /entries", http.StatusCreated, start, resp, err)
}

func get(path string) result {
	endpoint := "GET " + strings.SplitN(path, "?", 2)[0]
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	return finish(endpoint, http.StatusOK, start, resp, err)
}

func finish(endpoint string, want int, start time.Time, resp *http.Response, err error) result {
	if err != nil {
		return result{endpoint, 0, time.Since(start), true}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, time.Since(start), resp.StatusCode != want}
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx].Round(time.Microsecond)
}
