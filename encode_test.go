package ggcapture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(40 * x), G: uint8(90 * y), B: 7, A: 255})
		}
	}
	return img
}

func TestDefaultFormatsRegistered(t *testing.T) {
	for _, name := range []string{FormatPNG, FormatBMP} {
		enc, err := encoderByName(name)
		if err != nil {
			t.Errorf("encoderByName(%q) = %v", name, err)
			continue
		}
		if enc.Extension() != name {
			t.Errorf("encoder %q extension = %q, want %q", name, enc.Extension(), name)
		}
	}
}

func TestFormatsSorted(t *testing.T) {
	names := Formats()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("Formats() not sorted: %v", names)
			break
		}
	}
}

func TestEncoderByNameUnknown(t *testing.T) {
	_, err := encoderByName("webp")
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("encoderByName(webp) = %v, want ErrInvalidConfig", err)
	}
}

func TestRegisterEncoderNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("RegisterEncoder(nil) did not panic")
		}
	}()
	RegisterEncoder("nil-encoder", nil)
}

func TestRegisterEncoderDuplicatePanics(t *testing.T) {
	RegisterEncoder("dup-test", pngEncoder{})
	t.Cleanup(func() { Unregister("dup-test") })
	defer func() {
		if recover() == nil {
			t.Error("duplicate RegisterEncoder did not panic")
		}
	}()
	RegisterEncoder("dup-test", pngEncoder{})
}

func TestPNGEncoderLosslessRoundTrip(t *testing.T) {
	src := testImage()

	var buf bytes.Buffer
	if err := (pngEncoder{}).Encode(&buf, src); err != nil {
		t.Fatalf("Encode() = %v", err)
	}

	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			want := src.RGBAAt(x, y)
			got := color.RGBAModel.Convert(decoded.At(x, y)).(color.RGBA)
			if got != want {
				t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestBMPEncoderLosslessRoundTrip(t *testing.T) {
	src := testImage()

	var buf bytes.Buffer
	if err := (bmpEncoder{}).Encode(&buf, src); err != nil {
		t.Fatalf("Encode() = %v", err)
	}

	decoded, err := bmp.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			want := src.RGBAAt(x, y)
			got := color.RGBAModel.Convert(decoded.At(x, y)).(color.RGBA)
			if got != want {
				t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestEncodersDeterministic(t *testing.T) {
	src := testImage()

	for _, name := range []string{FormatPNG, FormatBMP} {
		enc, err := encoderByName(name)
		if err != nil {
			t.Fatalf("encoderByName(%q) = %v", name, err)
		}
		var first, second bytes.Buffer
		if err := enc.Encode(&first, src); err != nil {
			t.Fatalf("%s Encode() = %v", name, err)
		}
		if err := enc.Encode(&second, src); err != nil {
			t.Fatalf("%s Encode() = %v", name, err)
		}
		if !bytes.Equal(first.Bytes(), second.Bytes()) {
			t.Errorf("%s encoder is not deterministic for identical pixels", name)
		}
	}
}

func TestSessionWithBMPFormat(t *testing.T) {
	s, err := NewSession(WithSize(4, 4), WithFormat(FormatBMP), WithFrameLimit(2))
	if err != nil {
		t.Fatalf("NewSession() = %v", err)
	}

	archCh := make(chan *Archive, 1)
	if err := s.OnComplete(func(a *Archive) { archCh <- a }); err != nil {
		t.Fatalf("OnComplete() = %v", err)
	}
	if err := s.OnFrame(noopDraw); err != nil {
		t.Fatalf("OnFrame() = %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	if err := s.Wait(); err != nil {
		t.Fatalf("Wait() = %v", err)
	}

	a := <-archCh
	names := a.Names()
	if len(names) != 2 || names[0] != "000000.bmp" || names[1] != "000001.bmp" {
		t.Errorf("archive names = %v, want [000000.bmp 000001.bmp]", names)
	}
}
