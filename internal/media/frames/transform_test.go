package frames

import "testing"

func TestTransformFilters(t *testing.T) {
	tests := []struct {
		name string
		tr   Transform
		want string
	}{
		{"crop", Crop{X: 4, Y: 345, Width: 834, Height: 120}, "crop=834:120:4:345"},
		{"grayscale", Grayscale{}, "hue=s=0"},
		{"scale", Scale{Factor: 0.5}, "scale=trunc(iw*0.5):trunc(ih*0.5)"},
		{"binarize", Binarize{Threshold: 127}, `hue=s=0,geq=lum='if(gt(lum(X\,Y)\,127)\,255\,0)'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.Filter(); got != tt.want {
				t.Errorf("Filter() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChainFilter(t *testing.T) {
	chain := ChainFilter([]Transform{
		Crop{X: 0, Y: 400, Width: 800, Height: 80},
		Grayscale{},
		Scale{Factor: 0.5},
	})
	want := "crop=800:80:0:400,hue=s=0,scale=trunc(iw*0.5):trunc(ih*0.5)"
	if chain != want {
		t.Errorf("ChainFilter() = %q, want %q", chain, want)
	}
}

func TestChainFilterEmpty(t *testing.T) {
	if got := ChainFilter(nil); got != "" {
		t.Errorf("ChainFilter(nil) = %q, want empty", got)
	}
}

func TestChainSize(t *testing.T) {
	tests := []struct {
		name       string
		transforms []Transform
		wantW      int
		wantH      int
	}{
		{"identity", nil, 1920, 1080},
		{"crop", []Transform{Crop{X: 10, Y: 20, Width: 640, Height: 120}}, 640, 120},
		{"scale", []Transform{Scale{Factor: 0.5}}, 960, 540},
		{"crop then scale", []Transform{Crop{Width: 800, Height: 100}, Scale{Factor: 0.5}}, 400, 50},
		{"grayscale keeps size", []Transform{Grayscale{}, Binarize{Threshold: 127}}, 1920, 1080},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := ChainSize(tt.transforms, 1920, 1080)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("ChainSize() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestSelectFilter(t *testing.T) {
	got := selectFilter(rangeOf(100, 200, 5))
	want := `select='gte(n\,100)*lt(n\,200)*not(mod(n-100\,5))'`
	if got != want {
		t.Errorf("selectFilter() = %q, want %q", got, want)
	}
}
