package service

import (
	"testing"

	"github.com/microtask-next/internal/constants"
)

func TestCalcTaskStatus(t *testing.T) {
	cases := []struct {
		total     int
		completed int
		want      string
	}{
		{0, 0, constants.TaskStatusInProgress},
		{3, 0, constants.TaskStatusInProgress},
		{3, 2, constants.TaskStatusInProgress},
		{3, 3, constants.TaskStatusMainCompleted},
	}
	for _, tc := range cases {
		if got := calcTaskStatus(tc.total, tc.completed); got != tc.want {
			t.Fatalf("calc(%d, %d): expected %s, got %s", tc.total, tc.completed, tc.want, got)
		}
	}
}

func TestClassifyTaskType(t *testing.T) {
	cases := []struct {
		label string
		want  string
	}{
		{"账号出租一周", constants.TaskTypeAccountRental},
		{"Premium account rental", constants.TaskTypeAccountRental},
		{"新品开箱视频点赞", constants.TaskTypeVideo},
		{"Watch this video", constants.TaskTypeVideo},
		{"写一条走心评论", constants.TaskTypeComment},
		{"", constants.TaskTypeComment},
	}
	for _, tc := range cases {
		if got := ClassifyTaskType(tc.label); got != tc.want {
			t.Fatalf("classify %q: expected %s, got %s", tc.label, tc.want, got)
		}
	}
}

func TestResolveTaskType(t *testing.T) {
	if got := ResolveTaskType(constants.TaskTypeVideo, "随便"); got != constants.TaskTypeVideo {
		t.Fatalf("explicit type must win, got %s", got)
	}
	if got := ResolveTaskType("bogus", "账号出租"); got != constants.TaskTypeAccountRental {
		t.Fatalf("expected fallback classification, got %s", got)
	}
}
