// Command loadtest drives the read side of a running adforge instance: the
// session list, full sessions, the navigation view and version stepping.
// Generation endpoints are left out since they call the paid backend.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
)

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

type sessionRef struct {
	ID string `json:"id"`
}

type target struct {
	client   *resty.Client
	sessions []string
}

func main() {
	baseURL := flag.String("url", "http://127.0.0.1:8090", "adforge base url")
	workers := flag.Int("workers", 50, "concurrent workers")
	duration := flag.Duration("duration", 10*time.Second, "duration of each phase")
	flag.Parse()

	client := resty.New().
		SetBaseURL(*baseURL).
		SetTimeout(5 * time.Second)

	fmt.Println("=== adforge Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n\n", *workers, *duration)

	fmt.Print("Waiting for server... ")
	var ready bool
	for i := 0; i < 30; i++ {
		if resp, err := client.R().Get("/health"); err == nil && resp.StatusCode() == 200 {
			ready = true
			break
		}
		time.Sleep(200 * time.Millisecond)
	}
	if !ready {
		fmt.Println("FAILED: server not responding")
		return
	}
	fmt.Println("OK")

	var refs []sessionRef
	if _, err := client.R().SetResult(&refs).Get("/api/sessions"); err != nil {
		fmt.Printf("FAILED: %s\n", err)
		return
	}
	t := &target{client: client}
	for _, r := range refs {
		t.sessions = append(t.sessions, r.ID)
	}
	fmt.Printf("Sessions available: %d\n", len(t.sessions))

	fmt.Println("\n--- Phase 1: Listing (GET /api/sessions, /api/catalog) ---")
	runPhase(*workers, *duration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.8 {
			return t.get("/api/sessions")
		}
		return t.get("/api/catalog")
	})

	if len(t.sessions) == 0 {
		fmt.Println("\nNo sessions stored; skipping browsing phase.")
		return
	}

	fmt.Println("\n--- Phase 2: Browsing (sessions, view, version steps) ---")
	runPhase(*workers, *duration, func(rng *rand.Rand) result {
		id := t.sessions[rng.Intn(len(t.sessions))]
		r := rng.Float64()
		switch {
		case r < 0.30:
			return t.get("/api/session?id=" + id)
		case r < 0.55:
			return t.get("/api/view")
		case r < 0.70:
			return t.nav(map[string]interface{}{"action": "selectSession", "sessionId": id})
		case r < 0.90:
			return t.nav(map[string]interface{}{"action": "stepVersion", "delta": rng.Intn(3) - 1})
		default:
			return t.get("/api/tasks")
		}
	})
}

func (t *target) get(path string) result {
	label := "GET " + strings.SplitN(path, "?", 2)[0]
	resp, err := t.client.R().Get(path)
	if err != nil {
		return result{endpoint: label, err: true}
	}
	return result{label, resp.StatusCode(), resp.Time(), resp.StatusCode() != 200}
}

func (t *target) nav(body map[string]interface{}) result {
	label := fmt.Sprintf("POST /api/nav %s", body["action"])
	resp, err := t.client.R().SetBody(body).Post("/api/nav")
	if err != nil {
		return result{endpoint: label, err: true}
	}
	return result{label, resp.StatusCode(), resp.Time(), resp.StatusCode() != 200}
}

func runPhase(workers int, duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
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

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps, totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-34s %8s %6s %10s %10s %10s\n", "Endpoint", "Reqs", "Errs", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 84))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool { return s.latencies[i] < s.latencies[j] })
		fmt.Printf("  %-34s %8d %6d %10s %10s %10s\n", ep, s.count, s.errors,
			fmtDur(percentile(s.latencies, 0.50)), fmtDur(percentile(s.latencies, 0.95)), fmtDur(percentile(s.latencies, 0.99)))
	}

	fmt.Println("  " + strings.Repeat("-", 84))
	if totalOps == 0 {
		return
	}
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, float64(totalOps)/duration.Seconds())
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
