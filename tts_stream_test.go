package sdk

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func newTestSpeechStream(chunks ...string) (*SpeechStream, *chunkedReadCloser) {
	stream, body := newTestSSEStream(chunks...)
	return newSpeechStream(stream), body
}

func TestSpeechStreamDecodesChunks(t *testing.T) {
	stream, body := newTestSpeechStream(
		"event: info\ndata: {\"total\":2}\n",
		"event: chunk\ndata: {\"index\":0,\"total\":2,\"audio\":\"aGVsbG8=\",\"mimeType\":\"audio/mpeg\"}\n",
		"event: chunk\ndata: {\"index\":1,\"total\":2,\"audio\":\"IHdvcmxk\",\"mimeType\":\"audio/mpeg\"}\n",
		"event: done\ndata: {}\n",
		"data: [DONE]\n",
	)

	first, ok, err := stream.Next()
	if err != nil || !ok {
		t.Fatalf("first chunk err=%v ok=%v", err, ok)
	}
	if !bytes.Equal(first.Audio, []byte("hello")) {
		t.Fatalf("unexpected decoded audio %q", first.Audio)
	}
	if first.Index != 0 || first.Total != 2 || first.MimeType != "audio/mpeg" {
		t.Fatalf("unexpected chunk metadata %+v", first)
	}

	second, ok, err := stream.Next()
	if err != nil || !ok {
		t.Fatalf("second chunk err=%v ok=%v", err, ok)
	}
	if second.Index != 1 {
		t.Fatalf("unexpected index %d", second.Index)
	}

	_, ok, err = stream.Next()
	if err != nil {
		t.Fatalf("end err: %v", err)
	}
	if ok {
		t.Fatalf("info/done events must not surface as frames")
	}
	if body.closeCalls != 1 {
		t.Fatalf("expected one close, got %d", body.closeCalls)
	}
}

func TestSpeechStreamErrorEvent(t *testing.T) {
	stream, body := newTestSpeechStream(
		"event: error\ndata: {\"error\":\"voice not found\",\"code\":\"TTS_ERROR\"}\n",
	)

	_, ok, err := stream.Next()
	if ok {
		t.Fatalf("error event must not yield a frame")
	}
	var streamErr StreamError
	if !errors.As(err, &streamErr) {
		t.Fatalf("expected StreamError, got %v", err)
	}
	if streamErr.Code != "TTS_ERROR" || streamErr.Message != "voice not found" {
		t.Fatalf("unexpected error detail %+v", streamErr)
	}
	if body.closeCalls != 1 {
		t.Fatalf("expected one close, got %d", body.closeCalls)
	}
}

func TestSpeechStreamSkipsBadChunks(t *testing.T) {
	stream, _ := newTestSpeechStream(
		"event: chunk\ndata: {\"index\":0,\"audio\":\"%%%not-base64%%%\"}\n",
		"event: chunk\ndata: not json\n",
		"event: chunk\ndata: {\"index\":1,\"total\":1,\"audio\":\"aGk=\"}\n",
		"data: [DONE]\n",
	)

	chunk, ok, err := stream.Next()
	if err != nil || !ok {
		t.Fatalf("bad chunks must be skipped, err=%v ok=%v", err, ok)
	}
	if !bytes.Equal(chunk.Audio, []byte("hi")) {
		t.Fatalf("unexpected audio %q", chunk.Audio)
	}
	if chunk.MimeType != "audio/wav" {
		t.Fatalf("expected default mime type, got %q", chunk.MimeType)
	}
}

func TestSpeechStreamCollect(t *testing.T) {
	stream, _ := newTestSpeechStream(
		"event: chunk\ndata: {\"index\":0,\"total\":2,\"audio\":\"aGVsbG8=\"}\n",
		"event: chunk\ndata: {\"index\":1,\"total\":2,\"audio\":\"IHdvcmxk\"}\n",
		"data: [DONE]\n",
	)

	audio, err := stream.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if string(audio) != "hello world" {
		t.Fatalf("unexpected audio %q", audio)
	}
}
