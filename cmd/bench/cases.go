// README: Smoke-check cases; covers env connectivity, the chat flow, and the quota guard.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}

	return results
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	sessionID := fmt.Sprintf("bench-%d", time.Now().UnixNano())

	return []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: "FAIL", Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Migration: apply (optional)",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: "SKIP", Note: "apply-migration disabled"}
				}
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				content, err := os.ReadFile(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				for _, stmt := range strings.Split(string(content), ";") {
					stmt = strings.TrimSpace(stmt)
					if stmt == "" || strings.HasPrefix(stmt, "--") {
						continue
					}
					if _, err := r.db.Exec(ctx, stmt); err != nil {
						return Result{Status: "FAIL", Note: err.Error()}
					}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "HTTP: health",
			Run: func(ctx context.Context, r *Runner) Result {
				start := time.Now()
				status, _, err := r.get(ctx, base+"/health")
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusOK {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status %d", status)}
				}
				return Result{Status: "PASS", Latency: time.Since(start)}
			},
		},
		{
			Name: "Chat: caption classifies and returns results",
			Run: func(ctx context.Context, r *Runner) Result {
				start := time.Now()
				status, body, err := r.postChat(ctx, base, sessionID, "find a coffee shop nearby")
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusOK {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status %d body %s", status, truncate(body))}
				}
				var resp struct {
					Kind    string            `json:"kind"`
					Results []json.RawMessage `json:"results"`
				}
				if err := json.Unmarshal(body, &resp); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if resp.Kind == "" {
					return Result{Status: "FAIL", Note: "no kind in response"}
				}
				return Result{Status: "PASS", Latency: time.Since(start), Note: "kind=" + resp.Kind}
			},
		},
		{
			Name: "Chat: history lists the turn",
			Run: func(ctx context.Context, r *Runner) Result {
				status, body, err := r.get(ctx, base+"/api/sessions/"+sessionID+"/history")
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusOK {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status %d", status)}
				}
				var resp struct {
					Turns []json.RawMessage `json:"turns"`
				}
				if err := json.Unmarshal(body, &resp); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if len(resp.Turns) == 0 {
					return Result{Status: "FAIL", Note: "no turns recorded"}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Quota: exhausted session gets 429",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "SKIP", Note: "db not configured"}
				}
				exhausted := sessionID + "-quota"
				month := time.Now().UTC().Format("2006-01")
				if _, err := r.db.Exec(ctx, `
					INSERT INTO lookup_usage (session_id, lookups_remaining, last_reset_month)
					VALUES ($1, 0, $2)
					ON CONFLICT (session_id) DO UPDATE SET
						lookups_remaining = 0, last_reset_month = EXCLUDED.last_reset_month
				`, exhausted, month); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				defer func() {
					_, _ = r.db.Exec(ctx, "DELETE FROM lookup_usage WHERE session_id = $1", exhausted)
				}()
				status, body, err := r.postChat(ctx, base, exhausted, "find ramen")
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusTooManyRequests {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status %d body %s", status, truncate(body))}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Perf: concurrent health probes",
			Run: func(ctx context.Context, r *Runner) Result {
				start := time.Now()
				var wg sync.WaitGroup
				errs := make(chan error, r.cfg.Concurrency)
				for i := 0; i < r.cfg.Concurrency; i++ {
					wg.Add(1)
					go func() {
						defer wg.Done()
						status, _, err := r.get(ctx, base+"/health")
						if err != nil {
							errs <- err
							return
						}
						if status != http.StatusOK {
							errs <- fmt.Errorf("status %d", status)
						}
					}()
				}
				wg.Wait()
				close(errs)
				if err := <-errs; err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS", Latency: time.Since(start)}
			},
		},
	}
}

func (r *Runner) get(ctx context.Context, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return resp.StatusCode, body, err
}

func (r *Runner) postChat(ctx context.Context, base, sessionID, caption string) (int, []byte, error) {
	payload, err := json.Marshal(map[string]string{
		"session_id": sessionID,
		"caption":    caption,
	})
	if err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return resp.StatusCode, body, err
}

func truncate(b []byte) string {
	s := string(b)
	if len(s) > 120 {
		return s[:120] + "..."
	}
	return s
}
