package wire

import "testing"

func TestStringRoundTrip(t *testing.T) {
	w := &Writer{}
	w.PutString("hello")
	r := NewReader(w.Bytes())
	got, err := r.String()
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello" {
		t.Fatalf("got %q want hello", got)
	}
}

func TestStringPadding(t *testing.T) {
	w := &Writer{}
	w.PutString("ab") // len 2, +1 nul = 3, padded to 4
	if len(w.Bytes()) != 4+4 {
		t.Fatalf("expected 8 bytes (4 length + 4 padded data), got %d", len(w.Bytes()))
	}
}

func TestFixedRoundTrip(t *testing.T) {
	w := &Writer{}
	w.PutFixed(12.5)
	r := NewReader(w.Bytes())
	got, err := r.Fixed()
	if err != nil {
		t.Fatal(err)
	}
	if got != 12.5 {
		t.Fatalf("got %v want 12.5", got)
	}
}

func TestArrayRoundTrip(t *testing.T) {
	w := &Writer{}
	w.PutArray([]byte{1, 2, 3})
	r := NewReader(w.Bytes())
	got, err := r.Array()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("got %v", got)
	}
}

func TestBuildAndDecodeHeader(t *testing.T) {
	w := &Writer{}
	w.PutUint32(42)
	msg := w.Build(7, 3)
	objID, opcode, size, err := DecodeHeader(msg)
	if err != nil {
		t.Fatal(err)
	}
	if objID != 7 || opcode != 3 || int(size) != headerSize+4 {
		t.Fatalf("got obj=%d op=%d size=%d", objID, opcode, size)
	}
}

func TestSplitMessagesMultiple(t *testing.T) {
	w1 := &Writer{}
	w1.PutUint32(1)
	m1 := w1.Build(1, 0)

	w2 := &Writer{}
	w2.PutString("x")
	m2 := w2.Build(2, 1)

	buf := append(append([]byte(nil), m1...), m2...)
	msgs, consumed, _, err := SplitMessages(buf, nil)
	if err != nil {
		t.Fatal(err)
	}
	if consumed != len(buf) {
		t.Fatalf("expected to consume all %d bytes, consumed %d", len(buf), consumed)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].ObjectID != 1 || msgs[1].ObjectID != 2 {
		t.Fatalf("unexpected object ids: %+v", msgs)
	}
}

func TestSplitMessagesPartialTrailing(t *testing.T) {
	w := &Writer{}
	w.PutUint32(99)
	full := w.Build(1, 0)
	partial := full[:len(full)-2]

	msgs, consumed, _, err := SplitMessages(partial, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 0 || consumed != 0 {
		t.Fatalf("expected no complete messages consumed, got %d msgs, %d consumed", len(msgs), consumed)
	}
}

func TestReaderShortMessage(t *testing.T) {
	r := NewReader([]byte{1, 2})
	if _, err := r.Uint32(); err != ErrShortMessage {
		t.Fatalf("expected ErrShortMessage, got %v", err)
	}
}
