package layout

import (
	"testing"

	"github.com/docstrata/strata/classify"
	"github.com/docstrata/strata/model"
)

func cluster(text string, x, y, w, h float64) classify.Cluster {
	return classify.Cluster{
		Kind: classify.RegionBody,
		Text: text,
		BBox: model.BBox{X: x, Y: y, Width: w, Height: h},
		Page: 1,
	}
}

func texts(clusters []classify.Cluster) []string {
	out := make([]string, len(clusters))
	for i, c := range clusters {
		out[i] = c.Text
	}
	return out
}

func TestReadingLess(t *testing.T) {
	tests := []struct {
		name string
		a, b classify.Cluster
		want bool
	}{
		{
			name: "same band orders by left edge",
			a:    cluster("left", 50, 700, 100, 10),
			b:    cluster("right", 300, 700, 100, 10),
			want: true,
		},
		{
			name: "higher cluster first",
			a:    cluster("above", 300, 700, 100, 10),
			b:    cluster("below", 50, 650, 100, 10),
			want: true,
		},
		{
			name: "small vertical overlap does not band",
			a:    cluster("upper", 300, 704, 100, 10),
			b:    cluster("lower", 50, 650, 100, 10),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReadingLess(tt.a, tt.b); got != tt.want {
				t.Errorf("ReadingLess = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveSingleColumn(t *testing.T) {
	clusters := []classify.Cluster{
		cluster("second", 72, 680, 400, 10),
		cluster("first", 72, 700, 400, 10),
		cluster("third", 72, 660, 400, 10),
	}

	result := NewResolver().Resolve(clusters, 612, 792)

	got := texts(result.Ordered)
	want := []string{"first", "second", "third"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if result.ColumnCount != 1 {
		t.Errorf("ColumnCount = %d, want 1", result.ColumnCount)
	}
}

func twoColumnClusters() []classify.Cluster {
	var out []classify.Cluster
	for i := 0; i < 5; i++ {
		y := 700 - float64(i)*15
		out = append(out, cluster("L", 50, y, 230, 10))
		out = append(out, cluster("R", 330, y, 230, 10))
	}
	out[0].Text = "L0"
	out[8].Text = "L4"
	out[1].Text = "R0"
	out[9].Text = "R4"
	return out
}

func TestResolveTwoColumns(t *testing.T) {
	result := NewResolver().Resolve(twoColumnClusters(), 612, 792)

	if result.ColumnCount != 2 {
		t.Fatalf("ColumnCount = %d, want 2", result.ColumnCount)
	}

	got := texts(result.Ordered)
	// All left-column clusters precede all right-column clusters
	lastLeft, firstRight := -1, -1
	for i, text := range got {
		switch text[0] {
		case 'L':
			lastLeft = i
		case 'R':
			if firstRight < 0 {
				firstRight = i
			}
		}
	}
	if lastLeft > firstRight {
		t.Errorf("columns interleaved: %v", got)
	}
	if got[0] != "L0" || got[4] != "L4" || got[5] != "R0" || got[9] != "R4" {
		t.Errorf("column internal order wrong: %v", got)
	}
}

func TestResolveOrderInsensitiveToInputOrder(t *testing.T) {
	clusters := twoColumnClusters()
	reversed := make([]classify.Cluster, len(clusters))
	for i, c := range clusters {
		reversed[len(clusters)-1-i] = c
	}

	a := texts(NewResolver().Resolve(clusters, 612, 792).Ordered)
	b := texts(NewResolver().Resolve(reversed, 612, 792).Ordered)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("reading order depends on input order:\n%v\nvs\n%v", a, b)
		}
	}
}

func TestResolveFullWidthSplitsSegments(t *testing.T) {
	clusters := twoColumnClusters()
	// A full-width title above the columns must be emitted first
	title := cluster("TITLE", 50, 740, 510, 18)
	clusters = append(clusters, title)

	result := NewResolver().Resolve(clusters, 612, 792)

	got := texts(result.Ordered)
	if got[0] != "TITLE" {
		t.Fatalf("full-width title should come first: %v", got)
	}
	if result.ColumnCount != 2 {
		t.Errorf("ColumnCount = %d, want 2", result.ColumnCount)
	}
}

func TestResolveSegmentsOrderTopToBottom(t *testing.T) {
	divider := cluster("DIVIDER", 50, 500, 510, 14)
	clusters := []classify.Cluster{
		cluster("below", 72, 300, 200, 10),
		divider,
		cluster("above", 72, 700, 200, 10),
	}

	result := NewResolver().Resolve(clusters, 612, 792)

	got := texts(result.Ordered)
	want := []string{"above", "DIVIDER", "below"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("segment order = %v, want %v", got, want)
		}
	}
}

func TestResolveRoutesHeadersAndFooters(t *testing.T) {
	clusters := []classify.Cluster{
		cluster("body", 72, 400, 400, 10),
	}
	header := cluster("running head", 72, 770, 200, 10)
	header.Kind = classify.RegionPageHeader
	footer := cluster("page 3", 280, 20, 60, 10)
	footer.Kind = classify.RegionPageFooter
	clusters = append(clusters, header, footer)

	result := NewResolver().Resolve(clusters, 612, 792)

	if len(result.Ordered) != 1 || result.Ordered[0].Text != "body" {
		t.Errorf("main flow wrong: %v", texts(result.Ordered))
	}
	if len(result.Headers) != 1 || result.Headers[0].Text != "running head" {
		t.Errorf("header not routed: %v", texts(result.Headers))
	}
	if len(result.Footers) != 1 || result.Footers[0].Text != "page 3" {
		t.Errorf("footer not routed: %v", texts(result.Footers))
	}
}

func TestResolveRaggedSingleColumnNotSplit(t *testing.T) {
	// A ragged right margin leaves occasional mid-line gaps, but no gap
	// recurs at one X position for enough consecutive lines
	clusters := []classify.Cluster{
		cluster("a", 72, 700, 180, 10),
		cluster("b", 280, 700, 120, 10),
		cluster("c", 72, 685, 400, 10),
		cluster("d", 72, 670, 350, 10),
		cluster("e", 72, 655, 400, 10),
		cluster("f", 72, 640, 240, 10),
		cluster("g", 340, 640, 130, 10),
		cluster("h", 72, 625, 400, 10),
		cluster("i", 72, 610, 400, 10),
		cluster("j", 72, 595, 390, 10),
	}

	result := NewResolver().Resolve(clusters, 612, 792)
	if result.ColumnCount != 1 {
		t.Errorf("ragged text split into %d columns", result.ColumnCount)
	}
}

func TestSortReadingOrderStable(t *testing.T) {
	clusters := []classify.Cluster{
		cluster("b", 300, 700, 100, 10),
		cluster("a", 50, 700, 100, 10),
	}
	SortReadingOrder(clusters)
	if clusters[0].Text != "a" || clusters[1].Text != "b" {
		t.Errorf("same-band clusters should order by left edge: %v", texts(clusters))
	}
}
