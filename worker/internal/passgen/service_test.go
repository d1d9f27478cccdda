package passgen

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/ykhdr/seedpass/pkg/derive"
	"github.com/ykhdr/seedpass/pkg/messages"
	"github.com/ykhdr/seedpass/worker/config"
	"github.com/ykhdr/seedpass/worker/internal/store/jobstore"
)

func newTestService(t *testing.T) (*Service, jobstore.Store) {
	t.Helper()
	jobs := jobstore.NewMemoryStore()
	cfg := &config.DeriveConfig{
		Workers:        4,
		MaxWorkers:     8,
		Algorithm:      "sha512",
		MaxLength:      1000,
		MaxRepetitions: 50,
	}
	svc, err := NewService(cfg, jobs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc, jobs
}

func TestService_DerivesAndRecordsJob(t *testing.T) {
	svc, jobs := newTestService(t)
	ctx := context.Background()
	resp, err := svc.Derive(ctx, &messages.DeriveRequest{RequestId: "r1", Seed: "apple", Length: 32, Repetitions: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Password != "<#*6'Y:[tndK3%T`qtD$(C`eIS])]A6?" || resp.RequestId != "r1" || resp.Error != "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	job, err := jobs.Get(ctx, resp.Id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Status != jobstore.StatusReady || job.Workers != 4 || job.Algorithm != "sha512" {
		t.Fatalf("unexpected job: %+v", job)
	}
	if job.FinishedAt.IsZero() {
		t.Fatalf("job not finished: %+v", job)
	}
}

func TestService_AlgorithmOverride(t *testing.T) {
	svc, _ := newTestService(t)
	resp, err := svc.Derive(context.Background(), &messages.DeriveRequest{Seed: "apple", Length: 32, Repetitions: 1, Workers: 2, Algorithm: "sha3-512"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Password != "5my*Rf_wGOX#+e]Z`G;F%~H-v_\",pL2i" {
		t.Fatalf("unexpected password %q", resp.Password)
	}
}

func TestService_RejectsRequests(t *testing.T) {
	cases := []struct {
		name string
		req  messages.DeriveRequest
		want error
	}{
		{"zero length", messages.DeriveRequest{Length: 0, Repetitions: 1}, derive.ErrInvalidParameter},
		{"zero repetitions", messages.DeriveRequest{Length: 8, Repetitions: 0}, derive.ErrInvalidParameter},
		{"long", messages.DeriveRequest{Length: 1001, Repetitions: 1}, ErrLimitExceeded},
		{"costly", messages.DeriveRequest{Length: 8, Repetitions: 51}, ErrLimitExceeded},
		{"wide", messages.DeriveRequest{Length: 8, Repetitions: 1, Workers: 9}, ErrLimitExceeded},
		{"algorithm", messages.DeriveRequest{Length: 8, Repetitions: 1, Algorithm: "md5"}, derive.ErrUnknownAlgorithm},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, jobs := newTestService(t)
			ctx := context.Background()
			resp, err := svc.Derive(ctx, &tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !IsClientError(err) {
				t.Fatalf("expected client error: %v", err)
			}
			if resp.Password != "" || resp.Error == "" {
				t.Fatalf("unexpected response: %+v", resp)
			}
			job, err := jobs.Get(ctx, resp.Id)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if job.Status != jobstore.StatusError || job.ErrorReason != resp.Error {
				t.Fatalf("unexpected job: %+v", job)
			}
		})
	}
}
