package workers

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1F47E/go-scrollreel/pkg/job"
)

func TestWorkerConvert(t *testing.T) {
	w := NewWorker(context.Background(), func(_ context.Context, j job.JobConv) job.JobConvRes {
		return job.JobConvRes{Idx: j.Idx, Path: j.Path, Before: int64(j.Idx) * 10, After: int64(j.Idx)}
	})

	jobs := make(chan job.JobConv)
	res := make(chan job.JobConvRes)
	wg := sync.WaitGroup{}
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w.WorkerConvert(i, jobs, res)
		}(i)
	}
	go func() {
		for i := 1; i <= 10; i++ {
			jobs <- job.New(i, "f")
		}
		close(jobs)
	}()
	go func() {
		wg.Wait()
		close(res)
	}()

	var got []int
	for r := range res {
		if r.Before != 10*r.After {
			t.Errorf("result %d mixed up: %s", r.Idx, r.Print())
		}
		got = append(got, r.Idx)
	}
	sort.Ints(got)
	want := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected results (-want +got):\n%s", diff)
	}
}

func TestWorkerConvertCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	called := false
	w := NewWorker(ctx, func(_ context.Context, j job.JobConv) job.JobConvRes {
		called = true
		return job.JobConvRes{}
	})
	cancel()

	done := make(chan struct{})
	go func() {
		// nobody sends or closes jobs, the worker must leave on its own
		w.WorkerConvert(0, make(chan job.JobConv), make(chan job.JobConvRes))
		close(done)
	}()
	<-done
	if called {
		t.Error("cancelled worker converted a file")
	}
}
