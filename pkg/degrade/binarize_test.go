package degrade

import (
	"image"
	"testing"
)

func TestBinarizeThreshold(t *testing.T) {
	got := Binarize(gradient(), DefaultThreshold)

	if !onlyExtremes(got) {
		t.Fatal("output contains values other than 0 and 255")
	}
	if v := got.GrayAt(127, 0).Y; v != 0 {
		t.Errorf("127 -> %d, want 0", v)
	}
	if v := got.GrayAt(128, 0).Y; v != 255 {
		t.Errorf("128 -> %d, want 255", v)
	}
}

func TestBinarizeKeepsBounds(t *testing.T) {
	src := image.NewGray(image.Rect(3, 4, 13, 9))
	got := Binarize(src, 1)
	if got.Bounds() != src.Bounds() {
		t.Errorf("bounds = %v, want %v", got.Bounds(), src.Bounds())
	}
}

func TestBinarizeAdaptiveUniform(t *testing.T) {
	for _, v := range []uint8{0, 90, 255} {
		src := image.NewGray(image.Rect(0, 0, 20, 20))
		for i := range src.Pix {
			src.Pix[i] = v
		}
		got := BinarizeAdaptive(src, DefaultBlockSize, DefaultOffset)
		for i, p := range got.Pix {
			if p != 255 {
				t.Fatalf("uniform %d: pixel %d = %d, want 255", v, i, p)
			}
		}
	}
}

func TestBinarizeAdaptiveStroke(t *testing.T) {
	src := Composite(textLike(60, 30))
	got := BinarizeAdaptive(src, DefaultBlockSize, DefaultOffset)

	if !onlyExtremes(got) {
		t.Fatal("output contains values other than 0 and 255")
	}
	// Bar edge is darker than its neighborhood mean.
	if v := got.GrayAt(15, 15).Y; v != 0 {
		t.Errorf("stroke edge = %d, want 0", v)
	}
	if v := got.GrayAt(2, 2).Y; v != 255 {
		t.Errorf("background = %d, want 255", v)
	}
}

func TestBinarizeAdaptiveNormalizesBlockSize(t *testing.T) {
	src := Composite(textLike(20, 20))
	a := BinarizeAdaptive(src, 4, DefaultOffset)
	b := BinarizeAdaptive(src, 5, DefaultOffset)
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatal("even block size not rounded up to the next odd size")
		}
	}
}

func TestGaussianKernelNormalized(t *testing.T) {
	for _, size := range []int{3, 5, 11} {
		k := gaussianKernel(size)
		var sum float64
		for _, w := range k {
			sum += w
		}
		if sum < 0.999999 || sum > 1.000001 {
			t.Errorf("size %d: sum = %v, want 1", size, sum)
		}
		if k[0] != k[size-1] || k[size/2] < k[0] {
			t.Errorf("size %d: kernel not symmetric and peaked: %v", size, k)
		}
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		input   string
		want    Method
		wantErr bool
	}{
		{"global", MethodGlobal, false},
		{"", MethodGlobal, false},
		{"Adaptive", MethodAdaptive, false},
		{"otsu", MethodGlobal, true},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMethod(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseMethod(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestMethodText(t *testing.T) {
	var m Method
	if err := m.UnmarshalText([]byte("adaptive")); err != nil {
		t.Fatal(err)
	}
	b, _ := m.MarshalText()
	if string(b) != "adaptive" {
		t.Errorf("MarshalText = %q, want adaptive", b)
	}
}

