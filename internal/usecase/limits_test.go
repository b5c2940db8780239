package usecase

import (
	"testing"

	"github.com/jaennil/guide_helper/backend/featurecache/internal/tile"
	"github.com/jaennil/guide_helper/backend/featurecache/pkg/config"
)

func intPtr(v int) *int {
	return &v
}

func TestInBounds(t *testing.T) {
	testCases := []struct {
		name   string
		limits *Limits
		x, y   int
		want   bool
	}{
		{name: "no limits", limits: nil, x: 5, y: 5, want: true},
		{name: "empty limits", limits: &Limits{}, x: 5, y: 5, want: true},
		{name: "x below min", limits: &Limits{XMin: intPtr(10)}, x: 9, y: 0, want: false},
		{name: "x at min", limits: &Limits{XMin: intPtr(10)}, x: 10, y: 0, want: true},
		{name: "x above max", limits: &Limits{XMax: intPtr(10)}, x: 11, y: 0, want: false},
		{name: "y below min", limits: &Limits{YMin: intPtr(3)}, x: 0, y: 2, want: false},
		{name: "y at max", limits: &Limits{YMax: intPtr(3)}, x: 0, y: 3, want: true},
		{name: "zero is a real bound", limits: &Limits{XMax: intPtr(0)}, x: 1, y: 0, want: false},
		{
			name:   "inside full rectangle",
			limits: &Limits{XMin: intPtr(1), XMax: intPtr(4), YMin: intPtr(1), YMax: intPtr(4)},
			x:      2, y: 3, want: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.limits.InBounds(tile.New(tc.x, tc.y, 13)); got != tc.want {
				t.Errorf("InBounds(%d, %d) = %v, want %v", tc.x, tc.y, got, tc.want)
			}
		})
	}
}

func TestLimitsFromConfig(t *testing.T) {
	if l := LimitsFromConfig(config.Limits{}); l != nil {
		t.Errorf("LimitsFromConfig(empty) = %+v, want nil", l)
	}

	l := LimitsFromConfig(config.Limits{YMin: intPtr(7)})
	if l == nil || l.YMin == nil || *l.YMin != 7 {
		t.Fatalf("LimitsFromConfig = %+v, want YMin 7", l)
	}
	if l.InBounds(tile.New(0, 6, 13)) {
		t.Error("tile above YMin accepted")
	}
}
