package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := context.Background()
	ctx = log.WithRequestID(ctx, "req-123")
	ctx = log.WithOperator(ctx, "sari")

	log.Error(ctx, "boom", errors.New("boom"))

	if !bytes.Contains(buf.Bytes(), []byte(`"request_id"`)) {
		t.Fatalf("expected request_id to be preserved; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"operator":"sari"`)) {
		t.Fatalf("expected operator field; entry=%s", buf.String())
	}
}

func TestLoggerWorksheetField(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := log.WithWorksheet(context.Background(), "dlensa")
	log.Info(ctx, "reading")

	if !bytes.Contains(buf.Bytes(), []byte(`"worksheet":"dlensa"`)) {
		t.Fatalf("expected worksheet field; entry=%s", buf.String())
	}
}
