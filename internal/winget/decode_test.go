package winget

import (
	"testing"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestDecode_UTF8(t *testing.T) {
	in := "名称  ID\n微信  Tencent.WeChat"
	if got := Decode([]byte(in)); got != in {
		t.Errorf("Decode() = %q, want %q", got, in)
	}
}

func TestDecode_StripsBOM(t *testing.T) {
	in := append([]byte{0xEF, 0xBB, 0xBF}, "v1.8.1911"...)
	if got := Decode(in); got != "v1.8.1911" {
		t.Errorf("Decode() = %q, want %q", got, "v1.8.1911")
	}
}

func TestDecode_GBK(t *testing.T) {
	want := "名称  ID  版本\n微信  Tencent.WeChat  3.9"
	encoded, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(want))
	if err != nil {
		t.Fatalf("encode GBK: %v", err)
	}
	if utf8.Valid(encoded) {
		t.Fatal("test input unexpectedly valid UTF-8")
	}

	if got := Decode(encoded); got != want {
		t.Errorf("Decode() = %q, want %q", got, want)
	}
}

func TestDecode_Latin1Fallback(t *testing.T) {
	// A trailing GBK lead byte is neither valid UTF-8 nor complete GBK.
	in := []byte("caf\xe9")
	if got := Decode(in); got != "café" {
		t.Errorf("Decode() = %q, want %q", got, "café")
	}
}

func TestDecode_Empty(t *testing.T) {
	if got := Decode(nil); got != "" {
		t.Errorf("Decode(nil) = %q, want empty", got)
	}
}
