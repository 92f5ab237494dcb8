package timeline

import (
	"math"
	"testing"

	"github.com/gogpu/framedbg/measure"
)

const tolerance = 1e-6

func sum(ws []float64) float64 {
	s := 0.0
	for _, w := range ws {
		s += w
	}
	return s
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name  string
		mins  []float64
		avail float64
		want  []float64
	}{
		{"equal deficit", []float64{100, 100, 100}, 150, []float64{50, 50, 50}},
		{"surplus scales", []float64{100, 50, 50}, 400, []float64{200, 100, 100}},
		{"exact fit", []float64{30, 70}, 100, []float64{30, 70}},
		{"scaled below every minimum", []float64{200, 20, 20}, 200, []float64{500.0 / 3, 50.0 / 3, 50.0 / 3}},
		{"single child", []float64{50}, 20, []float64{20}},
		{"zero width keeps minimums", []float64{50}, 0, []float64{50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Allocate(tt.mins, tt.avail)
			if len(got) != len(tt.want) {
				t.Fatalf("Allocate() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-3 {
					t.Errorf("Allocate() = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestSkim(t *testing.T) {
	tests := []struct {
		name   string
		widths []float64
		mins   []float64
		want   []float64
	}{
		{"equal shares", []float64{10, 50, 50}, []float64{30, 20, 20}, []float64{30, 40, 40}},
		{"restart when a sibling runs dry", []float64{10, 25, 55}, []float64{30, 20, 20}, []float64{30, 20, 40}},
		{"moves at least a tenth", []float64{29.98, 40}, []float64{30, 20}, []float64{30.08, 39.9}},
		{"no slack", []float64{10, 20, 20}, []float64{30, 20, 20}, []float64{10, 20, 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			widths := append([]float64(nil), tt.widths...)
			skim(widths, tt.mins, 0)
			for i := range widths {
				if math.Abs(widths[i]-tt.want[i]) > tolerance {
					t.Errorf("skim() = %v, want %v", widths, tt.want)
					break
				}
			}
			if math.Abs(sum(widths)-sum(tt.widths)) > tolerance {
				t.Errorf("skim() changed the total from %v to %v", sum(tt.widths), sum(widths))
			}
		})
	}
}

func TestAllocateNoChildren(t *testing.T) {
	if got := Allocate(nil, 100); got != nil {
		t.Errorf("Allocate(nil) = %v, want nil", got)
	}
}

func TestAllocateProperties(t *testing.T) {
	cases := [][]float64{
		{20, 20, 20, 20},
		{46, 20, 130, 20, 20},
		{300, 20},
		{20, 400, 20, 20, 35},
		{75, 75, 20, 20, 20, 20, 20, 20, 20, 200},
	}
	for _, mins := range cases {
		total := sum(mins)
		for _, avail := range []float64{total * 3, total * 1.01, total, total * 0.9, total * 0.5, total * 0.1} {
			got := Allocate(mins, avail)

			if s := sum(got); math.Abs(s-avail) > 1e-3 {
				t.Errorf("Allocate(%v, %v) sums to %v", mins, avail, s)
			}
			below := false
			for i, w := range got {
				if w < 0 {
					t.Errorf("Allocate(%v, %v)[%d] = %v, negative", mins, avail, i, w)
				}
				if w < mins[i]-tolerance {
					below = true
				}
			}
			if avail >= total && below {
				t.Errorf("Allocate(%v, %v) = %v, a width is below its minimum", mins, avail, got)
			}
			if avail < total && !below {
				t.Errorf("Allocate(%v, %v) = %v, no width below minimum", mins, avail, got)
			}
		}
	}
}

func TestMinSectionSize(t *testing.T) {
	m := measure.Cells{CellWidth: 6}
	leaf := func() *Section { return &Section{Draws: []DrawCall{{EventID: 1}}} }

	pass := &Section{Name: "Pass", Subsections: []*Section{leaf(), leaf(), leaf()}}
	if got := MinSectionSize(leaf(), m); got != 20 {
		t.Errorf("MinSectionSize(leaf) = %v, want 20", got)
	}
	// "+ Pass" is 6 cells: 36 + 2*border + 2*padding.
	if got := MinSectionSize(pass, m); got != 46 {
		t.Errorf("MinSectionSize(collapsed) = %v, want 46", got)
	}
	pass.Expanded = true
	if got := MinSectionSize(pass, m); got != 60 {
		t.Errorf("MinSectionSize(expanded) = %v, want 60", got)
	}

	long := &Section{Name: "A much longer marker name", Expanded: true, Subsections: []*Section{leaf()}}
	if got, want := MinSectionSize(long, m), MinBarSize(m, "+ "+long.Name); got != want {
		t.Errorf("MinSectionSize(long label) = %v, want %v", got, want)
	}
}

func BenchmarkAllocate(b *testing.B) {
	mins := make([]float64, 64)
	for i := range mins {
		mins[i] = float64(20 + i%7*15)
	}
	avail := sum(mins) * 0.6
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Allocate(mins, avail)
	}
}
