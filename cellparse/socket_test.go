package cellparse

import "testing"

func TestParseSocketOpenResult(t *testing.T) {
	id, code, ok := ParseSocketOpenResult("+QIOPEN: 1,0")
	if !ok || id != 1 || code != 0 {
		t.Fatalf("got id=%d code=%d ok=%v", id, code, ok)
	}

	id, code, ok = ParseSocketOpenResult("+QIOPEN: 3,569")
	if !ok || id != 3 || code != 569 {
		t.Fatalf("got id=%d code=%d ok=%v", id, code, ok)
	}

	if _, _, ok = ParseSocketOpenResult("+QIURC: \"closed\",1"); ok {
		t.Fatal("expected prefix mismatch to fail")
	}

	if _, _, ok = ParseSocketOpenResult("+QIOPEN: 1"); ok {
		t.Fatal("expected too-few-fields to fail")
	}
}

func TestParseSocketClosedURC(t *testing.T) {
	id, ok := ParseSocketClosedURC(`+QIURC: "closed",2`)
	if !ok || id != 2 {
		t.Fatalf("got id=%d ok=%v", id, ok)
	}

	if _, ok = ParseSocketClosedURC(`+QIURC: "pdpdeact",1`); ok {
		t.Fatal("expected non-closed URC to fail")
	}

	if _, ok = ParseSocketClosedURC(`+QIOPEN: 2,0`); ok {
		t.Fatal("expected prefix mismatch to fail")
	}
}
