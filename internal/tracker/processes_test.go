package tracker

import (
	"context"
	"os"
	"testing"
)

func TestSortProcesses(t *testing.T) {
	procs := []ProcessInfo{
		{PID: 3, CPUPercent: 1.5},
		{PID: 1, CPUPercent: 12},
		{PID: 2, CPUPercent: 1.5},
		{PID: 4},
	}
	SortProcesses(procs)

	want := []int32{1, 2, 3, 4}
	for i, pid := range want {
		if procs[i].PID != pid {
			t.Errorf("procs[%d].PID = %d, want %d", i, procs[i].PID, pid)
		}
	}
}

func TestListProcesses_IncludesSelf(t *testing.T) {
	procs, err := ListProcesses(context.Background())
	if err != nil {
		t.Fatalf("ListProcesses() error: %v", err)
	}

	self := int32(os.Getpid())
	for _, p := range procs {
		if p.PID == self {
			if p.Name == "" {
				t.Error("expected own process name")
			}
			return
		}
	}
	t.Error("expected own process in listing")
}

func TestProcessName_Self(t *testing.T) {
	name, err := ProcessName(context.Background(), int32(os.Getpid()))
	if err != nil {
		t.Fatalf("ProcessName() error: %v", err)
	}
	if name == "" {
		t.Error("expected non-empty process name")
	}
}
