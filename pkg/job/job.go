package job

import "fmt"

// job for the converting worker
type JobConv struct {
	Idx  int
	Path string
}

func New(idx int, path string) JobConv {
	return JobConv{
		Idx:  idx,
		Path: path,
	}
}

func (j *JobConv) Print() string {
	return fmt.Sprintf("Job: Idx: %d, Path: %s", j.Idx, j.Path)
}

// res from the converting worker
type JobConvRes struct {
	Idx    int
	Path   string
	Before int64 // size of the source file
	After  int64 // size of the converted file, 0 on failure
	Err    error
}

func (r *JobConvRes) Print() string {
	if r.Err != nil {
		return fmt.Sprintf("Res: Idx: %d, Path: %s, Err: %v", r.Idx, r.Path, r.Err)
	}
	return fmt.Sprintf("Res: Idx: %d, Path: %s, Before: %d, After: %d", r.Idx, r.Path, r.Before, r.After)
}
